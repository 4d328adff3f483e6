package handlers

import (
	"context"

	"github.com/imamik/kpkg/internal/kinds"
	"github.com/imamik/kpkg/internal/manifest"
	"github.com/imamik/kpkg/internal/pkgdef"
	"github.com/imamik/kpkg/internal/ui"
)

// Render handles the render command. It prints the labelled, normalized
// sequence install would apply, without contacting the cluster.
func Render(ctx context.Context, opts Options, output string) error {
	if err := checkOutput(output); err != nil {
		return err
	}
	cfg, err := loadOptions(opts)
	if err != nil {
		return err
	}
	pkg, err := buildPackage(cfg)
	if err != nil {
		return err
	}

	seq, err := pkgdef.Prepare(ctx, pkg, kinds.Default())
	if err != nil {
		return err
	}

	if output == OutputTable {
		ui.NewPrinter(stdout).Resources("Rendered "+pkg.Identity().String(), seq)
		return nil
	}

	data, err := manifest.Encode(seq)
	if err != nil {
		return err
	}
	_, err = stdout.Write(data)
	return err
}
