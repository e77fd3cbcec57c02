package cmd

import (
	"github.com/compozy/release-publish/internal/orchestrator"
	"github.com/spf13/cobra"
)

type publishOptions struct {
	dryRun bool
	strict bool
}

// newPublishCmd creates the publish command
func newPublishCmd(c *container) *cobra.Command {
	var opts publishOptions
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Create the release for the current tag",
		Long: `Create a release record for the current tag.

The release notes are read from <notes_dir>/<tag>.md and sent as the release
description. The raw API response is printed to stdout; any 4xx or 5xx status
makes the command fail after the response has been printed.

Configuration comes from the GitLab CI environment (CI_API_V4_URL, CI_JOB_TOKEN,
CI_PROJECT_ID, CI_COMMIT_TAG) unless the github provider is selected.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPublish(cmd, c, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Print the release payload without sending it")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "Fail before reading notes if required settings are missing")
	return cmd
}

func runPublish(cmd *cobra.Command, c *container, opts publishOptions) error {
	releaseAPI, err := c.releaseAPI(opts.dryRun)
	if err != nil {
		return err
	}
	orch := orchestrator.NewPublishOrchestrator(c.cfg, c.notesRepo, releaseAPI, cmd.OutOrStdout(), c.log)
	return orch.Execute(cmd.Context(), orchestrator.PublishConfig{
		DryRun: opts.dryRun,
		Strict: opts.strict,
	})
}
