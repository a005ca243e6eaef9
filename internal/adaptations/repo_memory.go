package adaptations

import (
	"context"
	"sort"
	"sync"
	"time"
)

type MemoryRepo struct {
	mu    sync.RWMutex
	items map[string]Adaptation
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{items: make(map[string]Adaptation)}
}

func (r *MemoryRepo) Create(ctx context.Context, adaptation Adaptation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if adaptation.CreatedAt.IsZero() {
		adaptation.CreatedAt = time.Now().UTC()
	}
	r.items[adaptation.ID] = adaptation
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, userID, adaptationID string) (Adaptation, error) {
	if err := ctx.Err(); err != nil {
		return Adaptation{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	adaptation, ok := r.items[adaptationID]
	if !ok || adaptation.UserID != userID {
		return Adaptation{}, ErrNotFound
	}
	return adaptation, nil
}

func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Adaptation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Adaptation, 0)
	for _, adaptation := range r.items {
		if adaptation.UserID == userID {
			out = append(out, adaptation)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if offset >= len(out) {
		return []Adaptation{}, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemoryRepo) SetDocxKey(ctx context.Context, adaptationID, docxKey string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	adaptation, ok := r.items[adaptationID]
	if !ok {
		return ErrNotFound
	}
	adaptation.DocxKey = docxKey
	r.items[adaptationID] = adaptation
	return nil
}
