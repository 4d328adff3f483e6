package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/imamik/kpkg/internal/tracking"
)

// Revert handles the revert command. It deletes the stored tracking log
// entries from index from on, newest first.
func Revert(ctx context.Context, opts Options, from int) error {
	s, err := setup(ctx, opts)
	if err != nil {
		return err
	}
	defer s.finish(ctx)

	id := s.cfg.Identity()
	key := tracking.Key(id)
	trackingLog, err := s.store.Load(ctx, key)
	if errors.Is(err, tracking.ErrNotFound) {
		s.printer.Info("Nothing to revert for %s", id)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load tracking log: %w", err)
	}
	if from < 0 {
		from = 0
	}
	if from >= trackingLog.Len() {
		s.printer.Info("Nothing to revert for %s", id)
		return nil
	}

	s.printer.Resources("To be deleted", trackingLog.Entries()[from:])
	if err := confirm(opts, fmt.Sprintf("Revert %s?", id), fmt.Sprintf("%d resources will be deleted", trackingLog.Len()-from)); err != nil {
		return err
	}

	deleted, revertErr := s.engine.Revert(ctx, trackingLog, id.Namespace, from)
	if err := s.saveLog(ctx, trackingLog); err != nil {
		return errors.Join(revertErr, fmt.Errorf("failed to store tracking log: %w", err))
	}

	s.printer.Resources("Deleted", deleted)
	if revertErr != nil {
		s.printer.Failure("%d resources remain in the tracking log", trackingLog.Len())
		return fmt.Errorf("revert failed: %w", revertErr)
	}
	s.printer.Success("Reverted %s", id)
	return nil
}
