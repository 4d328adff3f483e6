package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/kpkg/cmd/kpkg/handlers"
)

// Install returns the install command.
func Install(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "install",
		Short: "Install a package instance",
		Long: `Install renders the package and applies its resources in order.

Each resource is read first: existing objects are patched, missing ones are
created. The first failure stops the install. The applied resources are
recorded in the tracking store, so a failed install can be removed with
'kpkg revert'. Set install.autoRollback to revert automatically.

Example:
  kpkg install -c kpkg.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Install(cmd.Context(), g.opts)
		},
	}
}

// Upgrade returns the upgrade command.
func Upgrade(g *globalFlags) *cobra.Command {
	var install bool

	cmd := &cobra.Command{
		Use:   "upgrade",
		Short: "Upgrade an installed package instance",
		Long: `Upgrade applies the package over an existing instance. Existing
resources are patched in place and new ones are created.

Upgrade fails when the instance is not installed, unless --install is set.

Example:
  kpkg upgrade --install -n shop`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Upgrade(cmd.Context(), g.opts, install)
		},
	}

	cmd.Flags().BoolVar(&install, "install", false, "Install the package if it is not present")
	return cmd
}
