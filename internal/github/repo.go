package github

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("repository not found")

// RepoStore persists synced repositories.
type RepoStore interface {
	ReplaceForUser(ctx context.Context, userID string, repos []Repo) error
	ListByUser(ctx context.Context, userID string) ([]Repo, error)
	GetByID(ctx context.Context, userID, repoID string) (Repo, error)
	SetSelected(ctx context.Context, userID, repoID string, selected bool) error
	DeleteForUser(ctx context.Context, userID string) error
}
