package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/compozy/release-publish/internal/domain"
)

const jobTokenHeader = "Job-Token"

// gitlabReleaseRepository creates releases through the GitLab v4 releases endpoint.
type gitlabReleaseRepository struct {
	client *http.Client
}

// NewGitlabReleaseRepository creates a new ReleaseAPIRepository for GitLab.
// A nil client means http.DefaultClient.
func NewGitlabReleaseRepository(client *http.Client) ReleaseAPIRepository {
	if client == nil {
		client = http.DefaultClient
	}
	return &gitlabReleaseRepository{client: client}
}

// GitlabReleasesURL returns the endpoint a release for d is posted to.
// Values are interpolated as given, so empty settings yield a malformed URL.
func GitlabReleasesURL(d *domain.ReleaseDescriptor) string {
	return fmt.Sprintf("%s/projects/%s/releases", d.APIBase, d.ProjectID)
}

// CreateRelease posts the release payload once and returns the raw response.
func (r *gitlabReleaseRepository) CreateRelease(
	ctx context.Context,
	release *domain.ReleaseDescriptor,
) (*domain.ReleaseResponse, error) {
	payload, err := json.Marshal(release.Request())
	if err != nil {
		return nil, fmt.Errorf("failed to encode release payload: %w", err)
	}
	endpoint := GitlabReleasesURL(release)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build release request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(jobTokenHeader, release.AuthToken)
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send release request: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read release response: %w", err)
	}
	return &domain.ReleaseResponse{
		StatusCode: resp.StatusCode,
		Body:       string(body),
		URL:        endpoint,
	}, nil
}
