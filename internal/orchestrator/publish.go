package orchestrator

import (
	"context"
	"fmt"
	"io"

	"github.com/compozy/release-publish/internal/config"
	"github.com/compozy/release-publish/internal/domain"
	"github.com/compozy/release-publish/internal/repository"
	"github.com/compozy/release-publish/internal/usecase"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PublishConfig contains per-invocation options for the publish workflow.
type PublishConfig struct {
	DryRun bool // Render the payload without sending it
	Strict bool // Validate required settings before reading notes
}

// PublishOrchestrator creates one release record from the notes file of the current tag.
type PublishOrchestrator struct {
	cfg        *config.Config
	notesRepo  repository.NotesRepository
	releaseAPI repository.ReleaseAPIRepository
	out        io.Writer
	log        *zap.Logger
}

// NewPublishOrchestrator creates a new publish orchestrator. Response bodies are written to out.
func NewPublishOrchestrator(
	cfg *config.Config,
	notesRepo repository.NotesRepository,
	releaseAPI repository.ReleaseAPIRepository,
	out io.Writer,
	log *zap.Logger,
) *PublishOrchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	return &PublishOrchestrator{
		cfg:        cfg,
		notesRepo:  notesRepo,
		releaseAPI: releaseAPI,
		out:        out,
		log:        log,
	}
}

// Execute reads the notes, sends the release once, prints the response body and
// returns an *domain.APIError if the API answered with 4xx or 5xx.
func (o *PublishOrchestrator) Execute(ctx context.Context, pcfg PublishConfig) error {
	log := o.log.With(
		zap.String("run_id", uuid.New().String()),
		zap.String("provider", o.cfg.Provider),
		zap.String("tag", o.cfg.Tag),
	)
	if pcfg.Strict || o.cfg.Strict {
		if err := o.cfg.ValidateForPublish(); err != nil {
			return fmt.Errorf("configuration check failed: %w", err)
		}
	}
	release, err := o.buildDescriptor(ctx)
	if err != nil {
		return err
	}
	log.Debug("release notes loaded",
		zap.String("path", o.notesRepo.Path(release.Version)),
		zap.Int("bytes", len(release.Description)),
	)
	if o.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.cfg.RequestTimeout)
		defer cancel()
	}
	uc := &usecase.CreateReleaseUseCase{ReleaseAPI: o.releaseAPI}
	resp, err := uc.Execute(ctx, release)
	if err != nil {
		log.Error("release request failed", zap.Error(err))
		return err
	}
	fmt.Fprintln(o.out, resp.Body)
	if pcfg.DryRun {
		log.Info("dry run, no request sent", zap.String("url", resp.URL))
		return nil
	}
	if err := resp.Err(); err != nil {
		log.Error("release rejected", zap.Int("status", resp.StatusCode), zap.String("url", resp.URL))
		return err
	}
	log.Info("release created", zap.Int("status", resp.StatusCode), zap.String("url", resp.URL))
	return nil
}

// buildDescriptor assembles the release from config and the notes file. The token is
// copied as is and never logged.
func (o *PublishOrchestrator) buildDescriptor(ctx context.Context) (*domain.ReleaseDescriptor, error) {
	uc := &usecase.ReadReleaseNotesUseCase{NotesRepo: o.notesRepo}
	notes, err := uc.Execute(ctx, o.cfg.Tag)
	if err != nil {
		return nil, err
	}
	return &domain.ReleaseDescriptor{
		APIBase:     o.cfg.APIURL,
		AuthToken:   o.cfg.JobToken,
		ProjectID:   o.cfg.ProjectID,
		Version:     o.cfg.Tag,
		Description: notes,
	}, nil
}
