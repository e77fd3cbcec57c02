package usecase

import (
	"context"
	"fmt"

	"github.com/compozy/release-publish/internal/repository"
)

// ReadReleaseNotesUseCase loads the notes that become the release description.

type ReadReleaseNotesUseCase struct {
	NotesRepo repository.NotesRepository
}

// Execute runs the use case. The version is used as given, including an empty one.
func (uc *ReadReleaseNotesUseCase) Execute(ctx context.Context, version string) (string, error) {
	notes, err := uc.NotesRepo.Read(ctx, version)
	if err != nil {
		return "", fmt.Errorf("failed to load release notes for %q: %w", version, err)
	}
	return notes, nil
}
