package handlers

import (
	"fmt"

	"github.com/imamik/kpkg/internal/config"
	"github.com/imamik/kpkg/internal/pkgdef"
	"github.com/imamik/kpkg/internal/pkgdef/webapp"
	"github.com/imamik/kpkg/internal/source"
)

// buildPackage returns the package the config describes: a source-backed
// package when a source is set, otherwise a built-in one.
func buildPackage(cfg *config.Config) (pkgdef.Package, error) {
	id := cfg.Identity()
	if cfg.Package.Source != nil {
		return source.Package(*cfg.Package.Source, id)
	}

	switch cfg.Package.Name {
	case webapp.Name:
		settings, err := webapp.DecodeSettings(cfg.Instance.Settings)
		if err != nil {
			return nil, err
		}
		pkg, err := webapp.New(id, settings)
		if err != nil {
			return nil, err
		}
		return pkg, nil
	default:
		return nil, fmt.Errorf("package %q is not built in and has no source", cfg.Package.Name)
	}
}
