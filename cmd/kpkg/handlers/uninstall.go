package handlers

import (
	"context"
	"fmt"
)

// Uninstall handles the uninstall command.
func Uninstall(ctx context.Context, opts Options) error {
	s, err := setup(ctx, opts)
	if err != nil {
		return err
	}
	defer s.finish(ctx)

	id := s.cfg.Identity()
	found, err := s.engine.Discover(ctx, id)
	if err != nil {
		return fmt.Errorf("discovery failed: %w", err)
	}
	if len(found) == 0 {
		s.printer.Info("%s is not installed", id)
		return nil
	}

	s.printer.Resources("To be deleted", found)
	if err := confirm(opts, fmt.Sprintf("Uninstall %s?", id), fmt.Sprintf("%d resources will be deleted", len(found))); err != nil {
		return err
	}

	deleted, err := s.engine.Uninstall(ctx, id)
	s.printer.Resources("Deleted", deleted)
	if err != nil {
		return fmt.Errorf("uninstall failed: %w", err)
	}

	if err := s.saveLog(ctx, nil); err != nil {
		return fmt.Errorf("failed to remove tracking log: %w", err)
	}
	s.printer.Success("Uninstalled %s", id)
	return nil
}
