package config

import (
	"errors"
	"fmt"
)

// BuiltinPackages can be used without a source.
var BuiltinPackages = map[string]bool{
	"webapp": true,
}

// Validate checks the configuration and reports every problem found.
func (c *Config) Validate() error {
	var errs []error

	if c.Package.Name == "" {
		errs = append(errs, errors.New("package.name is required"))
	}
	if c.Package.Source != nil {
		if err := c.Package.Source.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("package.source: %w", err))
		}
	} else if c.Package.Name != "" && !BuiltinPackages[c.Package.Name] {
		errs = append(errs, fmt.Errorf("package %q is not built in and has no source", c.Package.Name))
	}

	if c.Package.Name != "" {
		if err := c.Identity().Validate(); err != nil {
			errs = append(errs, err)
		}
	}

	if err := c.Access().Validate(); err != nil {
		errs = append(errs, err)
	}

	switch c.Install.DeletePolicy {
	case "", "abort", "continue":
	default:
		errs = append(errs, fmt.Errorf("install.deletePolicy must be abort or continue, got %q", c.Install.DeletePolicy))
	}
	switch c.Install.PatchType {
	case "", PatchMerge, PatchApply:
	default:
		errs = append(errs, fmt.Errorf("install.patchType must be %s or %s, got %q", PatchMerge, PatchApply, c.Install.PatchType))
	}

	return errors.Join(errs...)
}
