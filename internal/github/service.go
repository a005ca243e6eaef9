package github

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/teijeiro7/fitmycv/internal/llm"
	"github.com/teijeiro7/fitmycv/internal/users"
)

var ErrNotConnected = errors.New("github not connected")

// Service implements the GitHub account link and repository sync flows.
type Service struct {
	API   *APIClient
	Repos RepoStore
	Users *users.Service

	stateTTL time.Duration
	mu       sync.Mutex
	states   map[string]pendingState
}

type pendingState struct {
	userID string
	exp    time.Time
}

func NewService(api *APIClient, repos RepoStore, userSvc *users.Service) *Service {
	return &Service{
		API:      api,
		Repos:    repos,
		Users:    userSvc,
		stateTTL: 5 * time.Minute,
		states:   make(map[string]pendingState),
	}
}

// ConnectURL issues an OAuth state bound to the user and returns the
// authorize URL.
func (s *Service) ConnectURL(userID string) (string, error) {
	if !s.API.Configured() {
		return "", errors.New("GitHub OAuth not configured")
	}
	state := uuid.NewString()
	s.mu.Lock()
	s.states[state] = pendingState{userID: userID, exp: time.Now().Add(s.stateTTL)}
	s.mu.Unlock()
	return s.API.AuthorizeURL(state), nil
}

// consumeState resolves the state back to the user that initiated the flow.
func (s *Service) consumeState(state string) (string, bool) {
	s.mu.Lock()
	pending, ok := s.states[state]
	if ok {
		delete(s.states, state)
	}
	s.mu.Unlock()
	if !ok || time.Now().After(pending.exp) {
		return "", false
	}
	return pending.userID, true
}

// Callback exchanges the code and stores the token on the linked account.
func (s *Service) Callback(ctx context.Context, state, code string) (string, error) {
	userID, ok := s.consumeState(state)
	if !ok {
		return "", errors.New("invalid or expired state")
	}

	token, err := s.API.ExchangeCode(ctx, code)
	if err != nil {
		return "", err
	}
	account, err := s.API.GetUser(ctx, token)
	if err != nil {
		return "", err
	}

	if err := s.Users.SetGithubAccount(ctx, userID, token, account.Login); err != nil {
		return "", err
	}
	return account.Login, nil
}

// SyncRepos replaces the user's stored repositories with the current set
// from GitHub. Returns the number of repositories synced.
func (s *Service) SyncRepos(ctx context.Context, userID string) (int, error) {
	user, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return 0, err
	}
	if user.GithubToken == "" {
		return 0, ErrNotConnected
	}

	synced, err := s.API.ListRepos(ctx, user.GithubToken)
	if err != nil {
		return 0, fmt.Errorf("fetch repositories: %w", err)
	}

	repos := make([]Repo, 0, len(synced))
	now := time.Now().UTC()
	for _, item := range synced {
		repos = append(repos, Repo{
			ID:          uuid.NewString(),
			UserID:      userID,
			RepoID:      item.RepoID,
			Name:        item.Name,
			FullName:    item.FullName,
			Description: item.Description,
			URL:         item.URL,
			Language:    item.Language,
			Languages:   item.Languages,
			Topics:      item.Topics,
			Stars:       item.Stars,
			Forks:       item.Forks,
			IsPrivate:   item.IsPrivate,
			IsSelected:  true,
			CreatedAt:   now,
		})
	}

	if err := s.Repos.ReplaceForUser(ctx, userID, repos); err != nil {
		return 0, err
	}
	return len(repos), nil
}

// List returns the user's synced repositories.
func (s *Service) List(ctx context.Context, userID string) ([]Repo, error) {
	return s.Repos.ListByUser(ctx, userID)
}

// Toggle flips the repo's CV inclusion flag and returns the new value.
func (s *Service) Toggle(ctx context.Context, userID, repoID string) (bool, error) {
	repo, err := s.Repos.GetByID(ctx, userID, repoID)
	if err != nil {
		return false, err
	}
	selected := !repo.IsSelected
	if err := s.Repos.SetSelected(ctx, userID, repoID, selected); err != nil {
		return false, err
	}
	return selected, nil
}

// Disconnect removes the stored token and all synced repositories.
func (s *Service) Disconnect(ctx context.Context, userID string) error {
	if err := s.Users.SetGithubAccount(ctx, userID, "", ""); err != nil {
		return err
	}
	return s.Repos.DeleteForUser(ctx, userID)
}

// SelectedProjects returns the user's selected repositories as LLM prompt
// candidates. A missing GitHub link yields an empty slice.
func (s *Service) SelectedProjects(ctx context.Context, userID string) ([]llm.Project, error) {
	repos, err := s.Repos.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	projects := make([]llm.Project, 0, len(repos))
	for _, repo := range repos {
		if !repo.IsSelected {
			continue
		}
		projects = append(projects, llm.Project{
			Name:        repo.Name,
			Description: repo.Description,
			Language:    repo.Language,
			Languages:   repo.Languages,
			Topics:      repo.Topics,
			URL:         repo.URL,
		})
	}
	return projects, nil
}
