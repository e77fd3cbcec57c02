package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/compozy/release-publish/internal/domain"
)

// dryRunReleaseRepository renders the payload instead of sending it.
type dryRunReleaseRepository struct {
	endpoint func(*domain.ReleaseDescriptor) string
}

// NewDryRunReleaseRepository creates a ReleaseAPIRepository that never touches the network.
// endpoint reports where the real request would go and may be nil.
func NewDryRunReleaseRepository(endpoint func(*domain.ReleaseDescriptor) string) ReleaseAPIRepository {
	return &dryRunReleaseRepository{endpoint: endpoint}
}

// CreateRelease returns the indented JSON payload as the body with status 0.
func (r *dryRunReleaseRepository) CreateRelease(
	_ context.Context,
	release *domain.ReleaseDescriptor,
) (*domain.ReleaseResponse, error) {
	payload, err := json.MarshalIndent(release.Request(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode release payload: %w", err)
	}
	resp := &domain.ReleaseResponse{Body: string(payload)}
	if r.endpoint != nil {
		resp.URL = r.endpoint(release)
	}
	return resp, nil
}
