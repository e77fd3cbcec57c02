package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/compozy/release-publish/internal/domain"
	"github.com/compozy/release-publish/internal/repository"
)

// CheckReleaseNotesUseCase verifies that release notes are in place for tags.
// GitRepo may be nil when the working directory is not a repository.

type CheckReleaseNotesUseCase struct {
	NotesRepo repository.NotesRepository
	GitRepo   repository.GitRepository
}

// Execute checks a single tag.
func (uc *CheckReleaseNotesUseCase) Execute(ctx context.Context, tag string) (*domain.CheckReport, error) {
	report := &domain.CheckReport{Tag: tag}
	if tag == "" {
		report.AddProblem("no tag given (set CI_COMMIT_TAG or pass --tag)")
		return report, nil
	}
	if err := uc.checkNotes(ctx, report); err != nil {
		return nil, err
	}
	if version, err := domain.NewVersion(tag); err != nil {
		report.AddProblem(fmt.Sprintf("tag %q is not a semantic version: %v", tag, err))
	} else {
		report.ValidSemver = true
		report.Prerelease = version.IsPrerelease()
		if report.Prerelease {
			report.AddWarning(fmt.Sprintf("tag %s is a prerelease", tag))
		}
	}
	if uc.GitRepo == nil {
		report.AddWarning("not a git repository, tag existence not checked")
		return report, nil
	}
	exists, err := uc.GitRepo.TagExists(ctx, tag)
	if err != nil {
		return nil, fmt.Errorf("failed to look up tag: %w", err)
	}
	report.TagChecked = true
	report.TagExists = exists
	if !exists {
		// Notes are usually written before the tag is cut.
		report.AddWarning(fmt.Sprintf("tag %s does not exist locally yet", tag))
	}
	return report, nil
}

func (uc *CheckReleaseNotesUseCase) checkNotes(ctx context.Context, report *domain.CheckReport) error {
	path := uc.NotesRepo.Path(report.Tag)
	exists, err := uc.NotesRepo.Exists(ctx, report.Tag)
	if err != nil {
		return fmt.Errorf("failed to check release notes: %w", err)
	}
	if !exists {
		report.AddProblem(fmt.Sprintf("release notes missing: %s", path))
		return nil
	}
	report.NotesFound = true
	notes, err := uc.NotesRepo.Read(ctx, report.Tag)
	if errors.Is(err, domain.ErrNotesEncoding) {
		report.AddProblem(fmt.Sprintf("release notes are not valid UTF-8: %s", path))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read release notes: %w", err)
	}
	if strings.TrimSpace(notes) == "" {
		report.AddProblem(fmt.Sprintf("release notes are empty: %s", path))
	}
	return nil
}

// ExecuteAll checks that every semver tag in the repository has a notes file.
// Tags that are not semantic versions are ignored.
func (uc *CheckReleaseNotesUseCase) ExecuteAll(ctx context.Context) (*domain.CheckReport, error) {
	if uc.GitRepo == nil {
		return nil, fmt.Errorf("checking all tags requires a git repository")
	}
	tags, err := uc.GitRepo.ListTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	report := &domain.CheckReport{}
	for _, tag := range tags {
		if _, err := domain.NewVersion(tag); err != nil {
			continue
		}
		exists, err := uc.NotesRepo.Exists(ctx, tag)
		if err != nil {
			return nil, fmt.Errorf("failed to check release notes for %s: %w", tag, err)
		}
		if !exists {
			report.MissingNotes = append(report.MissingNotes, tag)
			report.AddProblem(fmt.Sprintf("release notes missing for %s: %s", tag, uc.NotesRepo.Path(tag)))
		}
	}
	return report, nil
}
