package cmd

import (
	"github.com/compozy/release-publish/internal/orchestrator"
	"github.com/spf13/cobra"
)

func newCheckCmd(c *container) *cobra.Command {
	var (
		tag      string
		all      bool
		ciOutput bool
	)
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify release notes exist for a tag",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if tag == "" {
				tag = c.cfg.Tag
			}
			orch := orchestrator.NewCheckOrchestrator(c.notesRepo, c.gitRepo, cmd.OutOrStdout(), c.log)
			return orch.Execute(cmd.Context(), orchestrator.CheckConfig{
				Tag:      tag,
				All:      all,
				CIOutput: ciOutput,
			})
		},
	}
	cmd.Flags().StringVar(&tag, "tag", "", "Tag to check (defaults to CI_COMMIT_TAG)")
	cmd.Flags().BoolVar(&all, "all", false, "Check every semver tag in the repository")
	cmd.Flags().BoolVar(&ciOutput, "ci-output", false, "Output in CI-friendly format")
	return cmd
}
