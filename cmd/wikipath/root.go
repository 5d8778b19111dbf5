package main

import (
	"github.com/spf13/cobra"

	"wikipath/internal/config"
)

// newRootCommand builds the command tree. Settings come from flags,
// WIKIPATH_* environment variables, or config.yaml, in that order. Running
// the root command without a subcommand searches.
func newRootCommand() *cobra.Command {
	v := config.NewViper()
	opts := &searchOptions{}

	root := &cobra.Command{
		Use:   "wikipath [api-url]",
		Short: "Find the shortest link path between two Wikipedia articles",
		Long: `wikipath logs in to a MediaWiki API with the bot credentials in the secrets
file and runs a concurrent breadth-first search over article links.

Without --start and --target it opens an interactive menu. The optional
api-url argument overrides the API address (default ` + config.DefaultAPIURL + `).`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, v, opts, args)
		},
	}
	config.BindFlags(v, root.PersistentFlags())
	bindSearchFlags(root.Flags(), opts)

	root.AddCommand(
		newSearchCommand(v),
		newCheckCommand(v),
		newServeCommand(v),
		newGraphWriterCommand(v),
		newLoadgenCommand(),
	)
	return root
}
