package users

import (
	"context"
	"errors"
	"strings"
)

type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

func (s *Service) GetByID(ctx context.Context, userID string) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return User{}, errors.New("user id is required")
	}
	return s.Repo.GetByID(ctx, userID)
}

// UpdateProfile applies the caller-editable fields and persists the user.
func (s *Service) UpdateProfile(ctx context.Context, userID string, fullName *string) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	user, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return User{}, err
	}
	if fullName != nil {
		user.FullName = strings.TrimSpace(*fullName)
	}
	if err := s.Repo.Update(ctx, user); err != nil {
		return User{}, err
	}
	return s.Repo.GetByID(ctx, userID)
}

// SetGithubAccount stores or clears the linked GitHub credentials.
func (s *Service) SetGithubAccount(ctx context.Context, userID, token, username string) error {
	if s == nil || s.Repo == nil {
		return errors.New("users service not configured")
	}
	user, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	user.GithubToken = token
	user.GithubUsername = username
	return s.Repo.Update(ctx, user)
}
