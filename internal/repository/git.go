package repository

import "context"

// GitRepository defines the interface for the Git lookups used by release checks.

type GitRepository interface {
	TagExists(ctx context.Context, tag string) (bool, error)
	ListTags(ctx context.Context) ([]string, error)
}
