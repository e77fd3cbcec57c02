package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"unicode/utf8"

	"github.com/compozy/release-publish/internal/domain"
	"github.com/spf13/afero"
)

const notesExtension = ".md"

// NotesRepository reads per-version release notes files.
type NotesRepository interface {
	// Path returns the location of the notes for version.
	Path(version string) string
	// Read returns the full notes content for version, unchanged. Content that is
	// not valid UTF-8 is rejected.
	Read(ctx context.Context, version string) (string, error)
	// Exists reports whether a notes file for version is present.
	Exists(ctx context.Context, version string) (bool, error)
}

type fsNotesRepository struct {
	fs  afero.Fs
	dir string
}

// NewNotesRepository creates a NotesRepository rooted at dir on fs.
func NewNotesRepository(fsRepo FileSystemRepository, dir string) NotesRepository {
	return &fsNotesRepository{fs: fsRepo, dir: dir}
}

func (r *fsNotesRepository) Path(version string) string {
	return filepath.Join(r.dir, version+notesExtension)
}

func (r *fsNotesRepository) Read(_ context.Context, version string) (string, error) {
	path := r.Path(version)
	data, err := afero.ReadFile(r.fs, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", domain.ErrNotesNotFound, path)
		}
		return "", fmt.Errorf("failed to read release notes %s: %w", path, err)
	}
	// JSON encoding would replace invalid bytes with U+FFFD and alter the description.
	if !utf8.Valid(data) {
		return "", fmt.Errorf("failed to read release notes %s: %w", path, domain.ErrNotesEncoding)
	}
	return string(data), nil
}

func (r *fsNotesRepository) Exists(_ context.Context, version string) (bool, error) {
	path := r.Path(version)
	info, err := r.fs.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat release notes %s: %w", path, err)
	}
	return !info.IsDir(), nil
}
