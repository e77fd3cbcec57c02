package usecase

import (
	"context"
	"fmt"

	"github.com/compozy/release-publish/internal/domain"
	"github.com/compozy/release-publish/internal/repository"
)

// CreateReleaseUseCase sends exactly one create-release call.

type CreateReleaseUseCase struct {
	ReleaseAPI repository.ReleaseAPIRepository
}

// Execute runs the use case. A failed HTTP status is not an error here; callers decide
// after the body has been shown.
func (uc *CreateReleaseUseCase) Execute(
	ctx context.Context,
	release *domain.ReleaseDescriptor,
) (*domain.ReleaseResponse, error) {
	if release == nil {
		return nil, fmt.Errorf("release cannot be nil")
	}
	resp, err := uc.ReleaseAPI.CreateRelease(ctx, release)
	if err != nil {
		return nil, fmt.Errorf("failed to create release %q: %w", release.Version, err)
	}
	return resp, nil
}
