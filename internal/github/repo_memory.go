package github

import (
	"context"
	"sort"
	"sync"
	"time"
)

type MemoryRepoStore struct {
	mu    sync.RWMutex
	repos map[string]Repo
}

func NewMemoryRepoStore() *MemoryRepoStore {
	return &MemoryRepoStore{repos: make(map[string]Repo)}
}

func (s *MemoryRepoStore) ReplaceForUser(ctx context.Context, userID string, repos []Repo) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, repo := range s.repos {
		if repo.UserID == userID {
			delete(s.repos, id)
		}
	}
	now := time.Now().UTC()
	for _, repo := range repos {
		repo.UserID = userID
		if repo.CreatedAt.IsZero() {
			repo.CreatedAt = now
		}
		s.repos[repo.ID] = repo
	}
	return nil
}

func (s *MemoryRepoStore) ListByUser(ctx context.Context, userID string) ([]Repo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Repo, 0)
	for _, repo := range s.repos {
		if repo.UserID == userID {
			out = append(out, repo)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Stars != out[j].Stars {
			return out[i].Stars > out[j].Stars
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (s *MemoryRepoStore) GetByID(ctx context.Context, userID, repoID string) (Repo, error) {
	if err := ctx.Err(); err != nil {
		return Repo{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	repo, ok := s.repos[repoID]
	if !ok || repo.UserID != userID {
		return Repo{}, ErrNotFound
	}
	return repo, nil
}

func (s *MemoryRepoStore) SetSelected(ctx context.Context, userID, repoID string, selected bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	repo, ok := s.repos[repoID]
	if !ok || repo.UserID != userID {
		return ErrNotFound
	}
	repo.IsSelected = selected
	repo.UpdatedAt = time.Now().UTC()
	s.repos[repoID] = repo
	return nil
}

func (s *MemoryRepoStore) DeleteForUser(ctx context.Context, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, repo := range s.repos {
		if repo.UserID == userID {
			delete(s.repos, id)
		}
	}
	return nil
}
