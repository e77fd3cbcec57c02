package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/compozy/release-publish/internal/config"
	"github.com/compozy/release-publish/internal/domain"
	"github.com/google/go-github/v74/github"
	"golang.org/x/oauth2"
)

// githubReleaseRepository is the GitHub implementation of ReleaseAPIRepository.
type githubReleaseRepository struct {
	client *github.Client
	owner  string
	repo   string
}

// Note: GitHub token and owner/repo validation functions live in the config package
// so strict mode and this constructor agree.

// NewGithubReleaseRepository creates a new ReleaseAPIRepository for GitHub with validation.
// apiURL selects a GitHub Enterprise endpoint and may be empty.
func NewGithubReleaseRepository(token, owner, repo, apiURL string) (ReleaseAPIRepository, error) {
	// Validate token format using the consolidated validator from config package
	if err := config.ValidateGitHubToken(token); err != nil {
		return nil, fmt.Errorf("invalid GitHub token: %w", err)
	}

	// Validate owner and repo names using the consolidated validator
	if err := config.ValidateGitHubOwnerRepo(owner, repo); err != nil {
		return nil, fmt.Errorf("invalid repository configuration: %w", err)
	}

	// Create OAuth2 client with the validated token
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: strings.TrimSpace(token)},
	)
	tc := oauth2.NewClient(context.Background(), ts)
	client, err := newGithubClient(tc, apiURL)
	if err != nil {
		return nil, err
	}

	return newGithubReleaseRepository(client, owner, repo), nil
}

// GithubReleasesURL returns the endpoint a release for owner/repo is created at, resolving
// apiURL the same way the API client does (GitHub Enterprise hosts gain an api/v3/ suffix).
func GithubReleasesURL(apiURL, owner, repo string) (string, error) {
	client, err := newGithubClient(nil, apiURL)
	if err != nil {
		return "", err
	}
	return newGithubReleaseRepository(client, owner, repo).ReleasesURL(), nil
}

func newGithubClient(httpClient *http.Client, apiURL string) (*github.Client, error) {
	client := github.NewClient(httpClient)
	if apiURL == "" {
		return client, nil
	}
	client, err := client.WithEnterpriseURLs(apiURL, apiURL)
	if err != nil {
		return nil, fmt.Errorf("invalid GitHub API URL: %w", err)
	}
	return client, nil
}

func newGithubReleaseRepository(client *github.Client, owner, repo string) *githubReleaseRepository {
	return &githubReleaseRepository{
		client: client,
		owner:  owner,
		repo:   repo,
	}
}

// ReleasesURL returns the releases endpoint for the configured repository.
func (r *githubReleaseRepository) ReleasesURL() string {
	return fmt.Sprintf("%srepos/%s/%s/releases", r.client.BaseURL.String(), r.owner, r.repo)
}

// CreateRelease creates a release for the version tag. go-github decodes the body, so the
// returned Body is the re-encoded release or error document rather than the raw bytes.
func (r *githubReleaseRepository) CreateRelease(
	ctx context.Context,
	release *domain.ReleaseDescriptor,
) (*domain.ReleaseResponse, error) {
	created, resp, err := r.client.Repositories.CreateRelease(ctx, r.owner, r.repo, &github.RepositoryRelease{
		TagName: github.Ptr(release.Version),
		Name:    github.Ptr(release.Version),
		Body:    github.Ptr(release.Description),
	})
	if err != nil {
		var ghErr *github.ErrorResponse
		if errors.As(err, &ghErr) && ghErr.Response != nil {
			body, mErr := json.Marshal(ghErr)
			if mErr != nil {
				return nil, fmt.Errorf("failed to encode GitHub error response: %w", mErr)
			}
			return &domain.ReleaseResponse{
				StatusCode: ghErr.Response.StatusCode,
				Body:       string(body),
				URL:        r.ReleasesURL(),
			}, nil
		}
		return nil, fmt.Errorf("failed to create release %s: %w", release.Version, err)
	}
	body, err := json.Marshal(created)
	if err != nil {
		return nil, fmt.Errorf("failed to encode GitHub release: %w", err)
	}
	return &domain.ReleaseResponse{
		StatusCode: resp.StatusCode,
		Body:       string(body),
		URL:        r.ReleasesURL(),
	}, nil
}
