package adaptations

import (
	"context"
	"errors"
)

var (
	ErrNotFound     = errors.New("adaptation not found")
	ErrInvalidInput = errors.New("invalid input")
)

type Repo interface {
	Create(ctx context.Context, adaptation Adaptation) error
	GetByID(ctx context.Context, userID, adaptationID string) (Adaptation, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Adaptation, error)
	SetDocxKey(ctx context.Context, adaptationID, docxKey string) error
}
