package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/kpkg/cmd/kpkg/handlers"
)

// Uninstall returns the uninstall command.
func Uninstall(g *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "uninstall",
		Short: "Remove a package instance",
		Long: `Uninstall finds every resource labelled with the package instance and
deletes them in reverse apply order. Resources owned by another object are
left to the garbage collector.

Example:
  kpkg uninstall -n shop --yes`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Uninstall(cmd.Context(), g.opts)
		},
	}

	cmd.Flags().BoolVarP(&g.opts.Yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

// Revert returns the revert command.
func Revert(g *globalFlags) *cobra.Command {
	var from int

	cmd := &cobra.Command{
		Use:   "revert",
		Short: "Undo a partial install using its tracking log",
		Long: `Revert deletes the resources recorded in the tracking log, newest
first. Resources that are already gone are skipped. Use --from to keep the
first entries of the log.

Example:
  kpkg revert -n shop --from 2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Revert(cmd.Context(), g.opts, from)
		},
	}

	cmd.Flags().IntVar(&from, "from", 0, "Index of the first tracking log entry to revert")
	cmd.Flags().BoolVarP(&g.opts.Yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}
