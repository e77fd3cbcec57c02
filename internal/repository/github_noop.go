package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/compozy/release-publish/internal/domain"
)

var ErrGithubTokenRequired = errors.New("github token is required for GitHub operations")

type githubNoopRepository struct {
	owner string
	repo  string
}

// NewGithubNoopRepository returns a repository that fails every call. It stands in when no
// token is configured so the failure surfaces at publish time.
func NewGithubNoopRepository(owner, repo string) ReleaseAPIRepository {
	return &githubNoopRepository{owner: owner, repo: repo}
}

func (r *githubNoopRepository) CreateRelease(
	_ context.Context,
	release *domain.ReleaseDescriptor,
) (*domain.ReleaseResponse, error) {
	return nil, r.operationError("create release " + release.Version)
}

func (r *githubNoopRepository) operationError(action string) error {
	return fmt.Errorf("%w: unable to %s for %s/%s", ErrGithubTokenRequired, action, r.owner, r.repo)
}
