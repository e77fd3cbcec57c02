package cmd

import (
	"github.com/compozy/release-publish/pkg/version"
	"github.com/spf13/cobra"
)

var (
	rootCmd *cobra.Command
	app     *container
)

// newRootCmd builds the command tree. Running the root command with no arguments
// publishes the release for the current tag, which is how CI invokes it.
func newRootCmd(c *container) *cobra.Command {
	root := &cobra.Command{
		Use:   "release-publish",
		Short: "Publish release notes for a tag to the project hosting API",
		Long: `release-publish runs in CI when a tag is created. It reads releases/<tag>.md
and creates a release record for the tag, printing the API response.`,
		Version:       version.Summary(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPublish(cmd, c, publishOptions{})
		},
	}
	root.AddCommand(newPublishCmd(c))
	root.AddCommand(newCheckCmd(c))
	root.AddCommand(newVersionCmd())
	return root
}

func Execute() error {
	if app != nil {
		defer func() { _ = app.log.Sync() }()
	}
	return rootCmd.Execute()
}
