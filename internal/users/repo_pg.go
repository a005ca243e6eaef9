package users

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, user User) error {
	const query = `
INSERT INTO users (id, email, full_name, hashed_password, is_active, is_verified, oauth_provider, oauth_id, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now())`
	_, err := r.DB.ExecContext(ctx, query,
		user.ID,
		strings.ToLower(user.Email),
		nullableString(user.FullName),
		nullableString(user.HashedPassword),
		user.IsActive,
		user.IsVerified,
		nullableString(user.OAuthProvider),
		nullableString(user.OAuthID),
	)
	if err != nil && isUniqueViolation(err) {
		return ErrEmailTaken
	}
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, userID string) (User, error) {
	const query = selectUser + ` WHERE id = $1 LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, userID))
}

func (r *PGRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	const query = selectUser + ` WHERE lower(email) = lower($1) LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, email))
}

func (r *PGRepo) Update(ctx context.Context, user User) error {
	const query = `
UPDATE users SET
  email = $2,
  full_name = $3,
  hashed_password = $4,
  is_active = $5,
  is_verified = $6,
  oauth_provider = $7,
  oauth_id = $8,
  github_access_token = $9,
  github_username = $10,
  updated_at = now()
WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query,
		user.ID,
		strings.ToLower(user.Email),
		nullableString(user.FullName),
		nullableString(user.HashedPassword),
		user.IsActive,
		user.IsVerified,
		nullableString(user.OAuthProvider),
		nullableString(user.OAuthID),
		nullableString(user.GithubToken),
		nullableString(user.GithubUsername),
	)
	if err != nil {
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}

const selectUser = `
SELECT id, email, full_name, hashed_password, is_active, is_verified,
       oauth_provider, oauth_id, github_access_token, github_username,
       created_at, updated_at
FROM users`

func (r *PGRepo) scanOne(row *sql.Row) (User, error) {
	var user User
	var fullName sql.NullString
	var hashedPassword sql.NullString
	var oauthProvider sql.NullString
	var oauthID sql.NullString
	var githubToken sql.NullString
	var githubUsername sql.NullString
	var updatedAt sql.NullTime
	err := row.Scan(
		&user.ID,
		&user.Email,
		&fullName,
		&hashedPassword,
		&user.IsActive,
		&user.IsVerified,
		&oauthProvider,
		&oauthID,
		&githubToken,
		&githubUsername,
		&user.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	user.FullName = fullName.String
	user.HashedPassword = hashedPassword.String
	user.OAuthProvider = oauthProvider.String
	user.OAuthID = oauthID.String
	user.GithubToken = githubToken.String
	user.GithubUsername = githubUsername.String
	if updatedAt.Valid {
		user.UpdatedAt = updatedAt.Time
	} else {
		user.UpdatedAt = time.Now().UTC()
	}
	return user, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

// isUniqueViolation matches Postgres unique constraint failures without
// depending on driver-specific error types.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "SQLSTATE 23505")
}
