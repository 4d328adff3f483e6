// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument parsing,
// flag binding, and validation. Command execution is delegated to handler
// functions in the handlers package.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/kpkg/cmd/kpkg/handlers"
	"github.com/imamik/kpkg/internal/logging"
)

// globalFlags are bound to the root command's persistent flags.
type globalFlags struct {
	opts      handlers.Options
	verbosity int
	logFormat string
}

// Root returns the root command for the kpkg CLI.
func Root() *cobra.Command {
	g := &globalFlags{}

	cmd := &cobra.Command{
		Use:           "kpkg",
		Short:         "Install and manage Kubernetes packages",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			format, err := logging.ParseFormat(g.logFormat)
			if err != nil {
				return err
			}
			logging.Init(logging.Options{Verbosity: g.verbosity, Format: format, Output: cmd.ErrOrStderr()})
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&g.opts.ConfigPath, "config", "c", "kpkg.yaml", "Path to the package configuration file")
	flags.StringVar(&g.opts.Context, "context", "", "Kubeconfig context to use")
	flags.StringVar(&g.opts.Kubeconfig, "kubeconfig", "", "Path to a kubeconfig file")
	flags.StringVarP(&g.opts.Namespace, "namespace", "n", "", "Namespace of the package instance")
	flags.StringVar(&g.opts.Instance, "instance", "", "Name of the package instance")
	flags.CountVarP(&g.verbosity, "verbose", "v", "Increase log verbosity (repeatable)")
	flags.StringVar(&g.logFormat, "log-format", "console", "Log format: console or json")

	// Lifecycle commands
	cmd.AddCommand(Install(g))
	cmd.AddCommand(Upgrade(g))
	cmd.AddCommand(Uninstall(g))
	cmd.AddCommand(Revert(g))
	cmd.AddCommand(Discover(g))

	// Offline commands
	cmd.AddCommand(Render(g))
	cmd.AddCommand(Kinds())
	cmd.AddCommand(Version())
	cmd.AddCommand(Completion())

	return cmd
}
