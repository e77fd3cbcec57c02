package cmd

import (
	"fmt"
	"net/http"

	"github.com/compozy/release-publish/internal/config"
	"github.com/compozy/release-publish/internal/domain"
	"github.com/compozy/release-publish/internal/logger"
	"github.com/compozy/release-publish/internal/repository"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// container holds all the dependencies for the application.

type container struct {
	cfg *config.Config
	log *zap.Logger

	fsRepo    repository.FileSystemRepository
	notesRepo repository.NotesRepository
	// gitRepo is nil outside a git checkout
	gitRepo repository.GitRepository
}

// newContainer creates a new container with all the dependencies.
func newContainer() (*container, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	fsRepo := repository.FileSystemRepository(afero.NewOsFs())
	notesRepo := repository.NewNotesRepository(fsRepo, cfg.NotesDir)

	// Git is only needed by check - publishing works from an exported tree too
	var gitRepo repository.GitRepository
	if repo, err := repository.NewGitRepository(); err == nil {
		gitRepo = repo
	} else {
		log.Debug("git repository unavailable", zap.Error(err))
	}

	return &container{
		cfg:       cfg,
		log:       log,
		fsRepo:    fsRepo,
		notesRepo: notesRepo,
		gitRepo:   gitRepo,
	}, nil
}

// releaseAPI selects the release API implementation for the configured provider.
func (c *container) releaseAPI(dryRun bool) (repository.ReleaseAPIRepository, error) {
	switch c.cfg.Provider {
	case config.ProviderGithub:
		return c.githubReleaseAPI(dryRun)
	default:
		if dryRun {
			return repository.NewDryRunReleaseRepository(repository.GitlabReleasesURL), nil
		}
		return repository.NewGitlabReleaseRepository(&http.Client{}), nil
	}
}

func (c *container) githubReleaseAPI(dryRun bool) (repository.ReleaseAPIRepository, error) {
	owner, repo, err := c.cfg.GithubOwnerRepo()
	if err != nil {
		return nil, err
	}
	if dryRun {
		endpoint, err := repository.GithubReleasesURL(c.cfg.GithubAPIURL, owner, repo)
		if err != nil {
			return nil, err
		}
		return repository.NewDryRunReleaseRepository(func(*domain.ReleaseDescriptor) string {
			return endpoint
		}), nil
	}
	// Without a token every call fails, at publish time rather than at startup
	if c.cfg.GithubToken == "" {
		return repository.NewGithubNoopRepository(owner, repo), nil
	}
	ghRepo, err := repository.NewGithubReleaseRepository(c.cfg.GithubToken, owner, repo, c.cfg.GithubAPIURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize GitHub release repository: %w", err)
	}
	return ghRepo, nil
}

// InitCommands initializes all commands with their dependencies
func InitCommands() error {
	c, err := newContainer()
	if err != nil {
		return err
	}
	app = c
	rootCmd = newRootCmd(c)
	return nil
}
