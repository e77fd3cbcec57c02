package repository

import (
	"context"

	"github.com/compozy/release-publish/internal/domain"
)

// ReleaseAPIRepository defines the interface for creating release records on a hosting platform.
//
// CreateRelease returns the response for any status the API answered with, including 4xx and 5xx.
// An error means no response was received.
type ReleaseAPIRepository interface {
	CreateRelease(ctx context.Context, release *domain.ReleaseDescriptor) (*domain.ReleaseResponse, error)
}
