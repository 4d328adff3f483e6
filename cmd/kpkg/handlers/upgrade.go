package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/imamik/kpkg/internal/installer"
	"github.com/imamik/kpkg/internal/tracking"
)

// Upgrade handles the upgrade command.
func Upgrade(ctx context.Context, opts Options, createAllowed bool) error {
	s, err := setup(ctx, opts)
	if err != nil {
		return err
	}
	defer s.finish(ctx)

	pkg, err := buildPackage(s.cfg)
	if err != nil {
		return err
	}
	id := pkg.Identity()
	s.printer.Title(fmt.Sprintf("Upgrading %s in namespace %s", id, id.Namespace))

	trackingLog := tracking.New()
	upgradeErr := s.engine.Upgrade(ctx, pkg, createAllowed, trackingLog)
	if errors.Is(upgradeErr, installer.ErrAppNotFound) {
		s.printer.Failure("%s is not installed", id)
		s.printer.Info("Pass --install to create it")
		return upgradeErr
	}

	if trackingLog.Len() > 0 {
		if err := s.saveLog(ctx, trackingLog); err != nil && upgradeErr == nil {
			return fmt.Errorf("failed to store tracking log: %w", err)
		}
	}

	s.printer.Resources("Applied", trackingLog.Entries())
	if upgradeErr != nil {
		return fmt.Errorf("upgrade failed: %w", upgradeErr)
	}
	s.printer.Success("Upgraded %s", id)
	return nil
}
