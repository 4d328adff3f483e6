package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/kpkg/cmd/kpkg/handlers"
)

// Discover returns the discover command.
func Discover(g *globalFlags) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "discover",
		Short: "List the resources of an installed package instance",
		Long: `Discover lists every supported kind with the package instance's label
selector. Owned resources are skipped and Secret payloads are redacted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Discover(cmd.Context(), g.opts, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", handlers.OutputTable, "Output format: table or yaml")
	return cmd
}

// Render returns the render command.
func Render(g *globalFlags) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the manifests install would apply",
		Long: `Render builds the package and prints the labelled, normalized
manifests in apply order. The cluster is not contacted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Render(cmd.Context(), g.opts, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", handlers.OutputYAML, "Output format: yaml or table")
	return cmd
}

// Kinds returns the kinds command.
func Kinds() *cobra.Command {
	var methods bool

	cmd := &cobra.Command{
		Use:   "kinds",
		Short: "List the supported resource kinds",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return handlers.Kinds(methods)
		},
	}

	cmd.Flags().BoolVar(&methods, "methods", false, "Print the dispatch table instead")
	return cmd
}
