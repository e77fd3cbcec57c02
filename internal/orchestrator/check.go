package orchestrator

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/compozy/release-publish/internal/domain"
	"github.com/compozy/release-publish/internal/repository"
	"github.com/compozy/release-publish/internal/usecase"
	"go.uber.org/zap"
)

// CheckConfig holds configuration for the check orchestrator
type CheckConfig struct {
	Tag      string // Tag to check; ignored with All
	All      bool   // Check every semver tag in the repository
	CIOutput bool   // Output in CI format
}

// CheckOrchestrator verifies release notes ahead of publishing.
type CheckOrchestrator struct {
	notesRepo repository.NotesRepository
	gitRepo   repository.GitRepository
	out       io.Writer
	log       *zap.Logger
}

// NewCheckOrchestrator creates a new CheckOrchestrator. gitRepo may be nil.
func NewCheckOrchestrator(
	notesRepo repository.NotesRepository,
	gitRepo repository.GitRepository,
	out io.Writer,
	log *zap.Logger,
) *CheckOrchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	return &CheckOrchestrator{
		notesRepo: notesRepo,
		gitRepo:   gitRepo,
		out:       out,
		log:       log,
	}
}

// Execute runs the checks and fails if any of them did not pass.
func (o *CheckOrchestrator) Execute(ctx context.Context, cfg CheckConfig) error {
	ctx, cancel := context.WithTimeout(ctx, CheckTimeout)
	defer cancel()
	uc := &usecase.CheckReleaseNotesUseCase{
		NotesRepo: o.notesRepo,
		GitRepo:   o.gitRepo,
	}
	var (
		report *domain.CheckReport
		err    error
	)
	if cfg.All {
		report, err = uc.ExecuteAll(ctx)
	} else {
		report, err = uc.Execute(ctx, cfg.Tag)
	}
	if err != nil {
		return fmt.Errorf("failed to check release notes: %w", err)
	}
	for _, w := range report.Warnings {
		o.log.Warn(w)
	}
	if cfg.CIOutput {
		o.printCIOutput(report, cfg.All)
	} else {
		o.printStatus(report, cfg.All)
	}
	if !report.OK() {
		return fmt.Errorf("release notes check failed with %d problem(s)", len(report.Problems))
	}
	return nil
}

// printCIOutput prints key=value lines for CI step outputs
func (o *CheckOrchestrator) printCIOutput(report *domain.CheckReport, all bool) {
	if all {
		fmt.Fprintf(o.out, "missing_notes=%s\n", strings.Join(report.MissingNotes, ","))
		return
	}
	fmt.Fprintf(o.out, "notes_found=%t\n", report.NotesFound)
	fmt.Fprintf(o.out, "valid_semver=%t\n", report.ValidSemver)
	fmt.Fprintf(o.out, "prerelease=%t\n", report.Prerelease)
	if report.TagChecked {
		fmt.Fprintf(o.out, "tag_exists=%t\n", report.TagExists)
	}
}

// printStatus prints human readable results
func (o *CheckOrchestrator) printStatus(report *domain.CheckReport, all bool) {
	for _, p := range report.Problems {
		fmt.Fprintf(o.out, "❌ %s\n", p)
	}
	if !report.OK() {
		return
	}
	if all {
		fmt.Fprintln(o.out, "✅ Every release tag has release notes")
		return
	}
	fmt.Fprintf(o.out, "✅ Release notes ready for %s\n", report.Tag)
}
