package handlers

import (
	"context"
	"fmt"

	"github.com/imamik/kpkg/internal/manifest"
)

// Output formats of discover and render.
const (
	OutputTable = "table"
	OutputYAML  = "yaml"
)

// Discover handles the discover command.
func Discover(ctx context.Context, opts Options, output string) error {
	if err := checkOutput(output); err != nil {
		return err
	}
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

	if output == OutputYAML {
		data, err := manifest.Encode(found)
		if err != nil {
			return err
		}
		_, err = stdout.Write(data)
		return err
	}

	s.printer.Resources(fmt.Sprintf("Resources of %s", id), found)
	return nil
}

func checkOutput(output string) error {
	switch output {
	case OutputTable, OutputYAML:
		return nil
	default:
		return fmt.Errorf("unknown output format %q (expected %s or %s)", output, OutputTable, OutputYAML)
	}
}
