package usecase

import (
	"context"

	"github.com/compozy/release-publish/internal/domain"
	"github.com/stretchr/testify/mock"
)

// Mock for GitRepository
type mockGitRepository struct {
	mock.Mock
}

func (m *mockGitRepository) TagExists(ctx context.Context, tag string) (bool, error) {
	args := m.Called(ctx, tag)
	return args.Bool(0), args.Error(1)
}

func (m *mockGitRepository) ListTags(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// Mock for ReleaseAPIRepository
type mockReleaseAPIRepository struct {
	mock.Mock
}

func (m *mockReleaseAPIRepository) CreateRelease(
	ctx context.Context,
	release *domain.ReleaseDescriptor,
) (*domain.ReleaseResponse, error) {
	args := m.Called(ctx, release)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReleaseResponse), args.Error(1)
}
