package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/compozy/release-publish/internal/config"
	"github.com/compozy/release-publish/internal/domain"
	"github.com/compozy/release-publish/internal/repository"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type recordedRequest struct {
	Method  string
	Path    string
	Header  http.Header
	Payload map[string]string
}

// newReleaseServer answers every request with status and body and records what it received.
func newReleaseServer(t *testing.T, status int, body string) (*httptest.Server, *[]recordedRequest) {
	t.Helper()
	var requests []recordedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		rec := recordedRequest{Method: r.Method, Path: r.URL.Path, Header: r.Header.Clone()}
		require.NoError(t, json.Unmarshal(raw, &rec.Payload))
		requests = append(requests, rec)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server, &requests
}

func newPublishFixture(t *testing.T, apiBase string, files map[string]string) (*config.Config, repository.NotesRepository) {
	t.Helper()
	fsRepo := afero.NewMemMapFs()
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fsRepo, "releases/"+name, []byte(content), 0644))
	}
	cfg := config.DefaultConfig()
	cfg.APIURL = apiBase
	cfg.JobToken = "glcbt-64_job-token"
	cfg.ProjectID = "1234"
	cfg.Tag = "0.12.0"
	return cfg, repository.NewNotesRepository(fsRepo, cfg.NotesDir)
}

func TestPublishOrchestrator_Execute(t *testing.T) {
	ctx := context.Background()
	notes := "# signald 0.12.0\n\n- \"quoted\" & <escaped>\n- ünïcödé\n\n"

	t.Run("Should create release and print response body", func(t *testing.T) {
		server, requests := newReleaseServer(t, http.StatusCreated, `{"id":1}`)
		cfg, notesRepo := newPublishFixture(t, server.URL+"/api/v4", map[string]string{"0.12.0.md": notes})
		var out bytes.Buffer
		orch := NewPublishOrchestrator(cfg, notesRepo, repository.NewGitlabReleaseRepository(server.Client()), &out, nil)

		err := orch.Execute(ctx, PublishConfig{})
		require.NoError(t, err)
		assert.Equal(t, "{\"id\":1}\n", out.String())
		require.Len(t, *requests, 1)
		req := (*requests)[0]
		assert.Equal(t, http.MethodPost, req.Method)
		assert.Equal(t, "/api/v4/projects/1234/releases", req.Path)
		assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
		assert.Equal(t, "glcbt-64_job-token", req.Header.Get("Job-Token"))
		assert.Equal(t, map[string]string{
			"name":        "0.12.0",
			"tag_name":    "0.12.0",
			"description": notes,
		}, req.Payload)
	})

	t.Run("Should print body and fail on client error", func(t *testing.T) {
		server, requests := newReleaseServer(t, http.StatusBadRequest, `{"error":"tag exists"}`)
		cfg, notesRepo := newPublishFixture(t, server.URL, map[string]string{"0.12.0.md": notes})
		var out bytes.Buffer
		orch := NewPublishOrchestrator(cfg, notesRepo, repository.NewGitlabReleaseRepository(server.Client()), &out, nil)

		err := orch.Execute(ctx, PublishConfig{})
		require.Error(t, err)
		var apiErr *domain.APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
		assert.Equal(t, "{\"error\":\"tag exists\"}\n", out.String())
		assert.Len(t, *requests, 1)
	})

	t.Run("Should fail on server error", func(t *testing.T) {
		server, _ := newReleaseServer(t, http.StatusBadGateway, "upstream down")
		cfg, notesRepo := newPublishFixture(t, server.URL, map[string]string{"0.12.0.md": notes})
		var out bytes.Buffer
		orch := NewPublishOrchestrator(cfg, notesRepo, repository.NewGitlabReleaseRepository(server.Client()), &out, nil)

		err := orch.Execute(ctx, PublishConfig{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "502")
		assert.Equal(t, "upstream down\n", out.String())
	})

	t.Run("Should not call API when notes are missing", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusCreated)
		}))
		defer server.Close()
		cfg, notesRepo := newPublishFixture(t, server.URL, nil)
		var out bytes.Buffer
		orch := NewPublishOrchestrator(cfg, notesRepo, repository.NewGitlabReleaseRepository(server.Client()), &out, nil)

		err := orch.Execute(ctx, PublishConfig{})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrNotesNotFound)
		assert.Zero(t, calls.Load())
		assert.Empty(t, out.String())
	})

	t.Run("Should send identical requests when run twice", func(t *testing.T) {
		server, requests := newReleaseServer(t, http.StatusCreated, `{"id":1}`)
		cfg, notesRepo := newPublishFixture(t, server.URL, map[string]string{"0.12.0.md": notes})
		orch := NewPublishOrchestrator(cfg, notesRepo, repository.NewGitlabReleaseRepository(server.Client()), io.Discard, nil)

		require.NoError(t, orch.Execute(ctx, PublishConfig{}))
		require.NoError(t, orch.Execute(ctx, PublishConfig{}))
		require.Len(t, *requests, 2)
		assert.Equal(t, (*requests)[0].Payload, (*requests)[1].Payload)
	})

	t.Run("Should tolerate missing settings until the file read", func(t *testing.T) {
		cfg, notesRepo := newPublishFixture(t, "", map[string]string{".md": "notes for nothing"})
		cfg.Tag = ""
		api := new(mockReleaseAPIRepository)
		api.On("CreateRelease", mock.Anything, mock.MatchedBy(func(d *domain.ReleaseDescriptor) bool {
			return d.Version == "" && d.APIBase == "" && d.Description == "notes for nothing"
		})).Return(&domain.ReleaseResponse{StatusCode: http.StatusNotFound, Body: "404 Not Found"}, nil).Once()
		var out bytes.Buffer
		orch := NewPublishOrchestrator(cfg, notesRepo, api, &out, nil)

		err := orch.Execute(ctx, PublishConfig{})
		require.Error(t, err)
		assert.Equal(t, "404 Not Found\n", out.String())
		api.AssertExpectations(t)
	})

	t.Run("Should validate upfront in strict mode", func(t *testing.T) {
		cfg, notesRepo := newPublishFixture(t, "https://gitlab.example.com/api/v4", map[string]string{"0.12.0.md": notes})
		cfg.JobToken = ""
		api := new(mockReleaseAPIRepository)
		orch := NewPublishOrchestrator(cfg, notesRepo, api, io.Discard, nil)

		err := orch.Execute(ctx, PublishConfig{Strict: true})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "CI_JOB_TOKEN")
		api.AssertNotCalled(t, "CreateRelease")
	})

	t.Run("Should propagate transport errors without output", func(t *testing.T) {
		cfg, notesRepo := newPublishFixture(t, "https://gitlab.example.com/api/v4", map[string]string{"0.12.0.md": notes})
		api := new(mockReleaseAPIRepository)
		api.On("CreateRelease", mock.Anything, mock.Anything).Return(nil, errors.New("dial tcp: connection refused")).Once()
		var out bytes.Buffer
		orch := NewPublishOrchestrator(cfg, notesRepo, api, &out, nil)

		err := orch.Execute(ctx, PublishConfig{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "connection refused")
		assert.Empty(t, out.String())
	})

	t.Run("Should apply request timeout", func(t *testing.T) {
		cfg, notesRepo := newPublishFixture(t, "https://gitlab.example.com/api/v4", map[string]string{"0.12.0.md": notes})
		cfg.RequestTimeout = 3 * time.Second
		api := new(mockReleaseAPIRepository)
		api.On("CreateRelease", mock.MatchedBy(func(ctx context.Context) bool {
			_, ok := ctx.Deadline()
			return ok
		}), mock.Anything).Return(&domain.ReleaseResponse{StatusCode: http.StatusCreated, Body: "{}"}, nil).Once()
		orch := NewPublishOrchestrator(cfg, notesRepo, api, io.Discard, nil)

		require.NoError(t, orch.Execute(ctx, PublishConfig{}))
		api.AssertExpectations(t)
	})

	t.Run("Should print payload in dry run", func(t *testing.T) {
		cfg, notesRepo := newPublishFixture(t, "https://gitlab.example.com/api/v4", map[string]string{"0.12.0.md": notes})
		var out bytes.Buffer
		orch := NewPublishOrchestrator(
			cfg, notesRepo, repository.NewDryRunReleaseRepository(repository.GitlabReleasesURL), &out, nil,
		)

		require.NoError(t, orch.Execute(ctx, PublishConfig{DryRun: true}))
		assert.Contains(t, out.String(), `"tag_name": "0.12.0"`)
		assert.NotContains(t, out.String(), cfg.JobToken)
	})

	t.Run("Should never log the job token", func(t *testing.T) {
		server, _ := newReleaseServer(t, http.StatusCreated, `{"id":1}`)
		cfg, notesRepo := newPublishFixture(t, server.URL, map[string]string{"0.12.0.md": notes})
		core, logs := observer.New(zapcore.DebugLevel)
		orch := NewPublishOrchestrator(
			cfg, notesRepo, repository.NewGitlabReleaseRepository(server.Client()), io.Discard, zap.New(core),
		)

		require.NoError(t, orch.Execute(ctx, PublishConfig{}))
		entries := logs.All()
		require.NotEmpty(t, entries)
		assert.Equal(t, 1, logs.FilterMessage("release created").Len())
		for _, entry := range entries {
			assert.NotContains(t, entry.Message, cfg.JobToken)
			for key, value := range entry.ContextMap() {
				assert.NotContains(t, strings.ToLower(key), "token")
				if s, ok := value.(string); ok {
					assert.NotContains(t, s, cfg.JobToken)
				}
			}
		}
	})
}

func TestPublishOrchestrator_DescriptionMatchesNotesFile(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		name  string
		notes string
	}{
		{name: "windows line endings", notes: "# 1.0.0\r\n\r\n- fix\r\n"},
		{name: "mixed line endings", notes: "# 1.0.0\n- one\r\n- two\r- three\n"},
		{name: "surrounding whitespace", notes: "\n\t  indented\t \n\n"},
		{name: "non ascii", notes: "café ✓ 日本語\n"},
		{name: "html and json characters", notes: "<b>\"a\" & 'b'</b> \\  \n"},
		{name: "empty file", notes: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server, requests := newReleaseServer(t, http.StatusCreated, `{"id":1}`)
			cfg, notesRepo := newPublishFixture(t, server.URL, map[string]string{"0.12.0.md": tc.notes})
			orch := NewPublishOrchestrator(
				cfg, notesRepo, repository.NewGitlabReleaseRepository(server.Client()), io.Discard, nil,
			)

			require.NoError(t, orch.Execute(ctx, PublishConfig{}))
			require.Len(t, *requests, 1)
			assert.Equal(t, tc.notes, (*requests)[0].Payload["description"])
		})
	}

	t.Run("Should reject invalid UTF-8 before sending", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusCreated)
		}))
		defer server.Close()
		cfg, notesRepo := newPublishFixture(t, server.URL, map[string]string{"0.12.0.md": "caf\xe9 notes"})
		var out bytes.Buffer
		orch := NewPublishOrchestrator(cfg, notesRepo, repository.NewGitlabReleaseRepository(server.Client()), &out, nil)

		err := orch.Execute(ctx, PublishConfig{})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrNotesEncoding)
		assert.Zero(t, calls.Load())
		assert.Empty(t, out.String())
	})
}
