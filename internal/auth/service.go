package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	sharedauth "github.com/teijeiro7/fitmycv/internal/shared/auth"
	"github.com/teijeiro7/fitmycv/internal/users"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

// Service implements account registration and credential login.
type Service struct {
	Users    users.Repo
	TokenTTL time.Duration
}

func NewService(repo users.Repo, tokenTTL time.Duration) *Service {
	return &Service{Users: repo, TokenTTL: tokenTTL}
}

func (s *Service) Register(ctx context.Context, email, password, fullName string) (users.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return users.User{}, errors.New("a valid email is required")
	}
	if len(password) < 8 {
		return users.User{}, errors.New("password must be at least 8 characters")
	}

	hashed, err := sharedauth.HashPassword(password)
	if err != nil {
		return users.User{}, err
	}

	user := users.User{
		ID:             uuid.NewString(),
		Email:          email,
		FullName:       strings.TrimSpace(fullName),
		HashedPassword: hashed,
		IsActive:       true,
	}
	if err := s.Users.Create(ctx, user); err != nil {
		return users.User{}, err
	}
	return s.Users.GetByID(ctx, user.ID)
}

// Login verifies credentials and returns a signed access token with the user.
func (s *Service) Login(ctx context.Context, email, password string) (string, users.User, error) {
	user, err := s.Users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return "", users.User{}, ErrInvalidCredentials
		}
		return "", users.User{}, err
	}
	if !user.IsActive || user.HashedPassword == "" {
		return "", users.User{}, ErrInvalidCredentials
	}
	if err := sharedauth.VerifyPassword(password, user.HashedPassword); err != nil {
		return "", users.User{}, ErrInvalidCredentials
	}
	token, err := s.issueToken(user)
	if err != nil {
		return "", users.User{}, err
	}
	return token, user, nil
}

// LoginOAuth finds or creates the account matching an external identity and
// returns a signed access token.
func (s *Service) LoginOAuth(ctx context.Context, provider, oauthID, email, name string) (string, users.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || oauthID == "" {
		return "", users.User{}, errors.New("oauth identity missing email or id")
	}

	user, err := s.Users.GetByEmail(ctx, email)
	if errors.Is(err, users.ErrNotFound) {
		user = users.User{
			ID:            uuid.NewString(),
			Email:         email,
			FullName:      strings.TrimSpace(name),
			IsActive:      true,
			IsVerified:    true,
			OAuthProvider: provider,
			OAuthID:       oauthID,
		}
		if err := s.Users.Create(ctx, user); err != nil {
			return "", users.User{}, err
		}
	} else if err != nil {
		return "", users.User{}, err
	} else if user.OAuthProvider == "" {
		// Link the provider to an existing password account on first OAuth login.
		user.OAuthProvider = provider
		user.OAuthID = oauthID
		user.IsVerified = true
		if err := s.Users.Update(ctx, user); err != nil {
			return "", users.User{}, err
		}
	}

	token, err := s.issueToken(user)
	if err != nil {
		return "", users.User{}, err
	}
	return token, user, nil
}

func (s *Service) issueToken(user users.User) (string, error) {
	return sharedauth.SignJWT(sharedauth.Claims{
		Sub:   user.ID,
		Email: user.Email,
		Name:  user.FullName,
	}, s.TokenTTL)
}
