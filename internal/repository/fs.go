package repository

import "github.com/spf13/afero"

// FileSystemRepository is the filesystem release notes are read from.
// Production uses afero.NewOsFs; tests use afero.NewMemMapFs.
type FileSystemRepository interface {
	afero.Fs
}
