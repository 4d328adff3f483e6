package handlers

import (
	"context"
	"errors"
	"fmt"

	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/imamik/kpkg/internal/installer"
	"github.com/imamik/kpkg/internal/manifest"
	"github.com/imamik/kpkg/internal/tracking"
)

// Install handles the install command.
//
// The tracking log is stored whether or not the install succeeds, so a
// failed install can be unwound later with revert.
func Install(ctx context.Context, opts Options) error {
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
	s.printer.Title(fmt.Sprintf("Installing %s into namespace %s", id, id.Namespace))

	trackingLog := tracking.New()
	installErr := s.engine.InstallPackage(ctx, pkg, trackingLog)

	if err := s.saveLog(ctx, trackingLog); err != nil {
		log.FromContext(ctx).Error(err, "Failed to store tracking log")
		if installErr == nil {
			return fmt.Errorf("failed to store tracking log: %w", err)
		}
	}

	s.printer.Resources("Applied", trackingLog.Entries())
	if installErr != nil {
		var ie *installer.InstallError
		if errors.As(installErr, &ie) {
			s.printer.Failure("Install stopped at %s (%s)", manifest.RefOf(ie.Manifest), ie.Op)
		}
		if trackingLog.Len() > 0 {
			s.printer.Info("Run 'kpkg revert' to remove the %d applied resources", trackingLog.Len())
		}
		return fmt.Errorf("install failed: %w", installErr)
	}

	s.printer.Success("Installed %s (%d resources)", id, trackingLog.Len())
	return nil
}
