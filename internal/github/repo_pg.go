package github

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

type PGRepoStore struct {
	DB *sql.DB
}

func (s *PGRepoStore) ReplaceForUser(ctx context.Context, userID string, repos []Repo) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM github_repos WHERE user_id = $1`, userID); err != nil {
		return err
	}

	const insert = `
INSERT INTO github_repos (id, user_id, repo_id, name, full_name, description, url, language, languages, topics, stars, forks, is_private, is_selected, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	for _, repo := range repos {
		languages, err := json.Marshal(repo.Languages)
		if err != nil {
			return err
		}
		topics, err := json.Marshal(repo.Topics)
		if err != nil {
			return err
		}
		createdAt := repo.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now().UTC()
		}
		if _, err := tx.ExecContext(ctx, insert,
			repo.ID,
			userID,
			repo.RepoID,
			repo.Name,
			repo.FullName,
			nullableString(repo.Description),
			repo.URL,
			nullableString(repo.Language),
			languages,
			topics,
			repo.Stars,
			repo.Forks,
			repo.IsPrivate,
			repo.IsSelected,
			createdAt,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *PGRepoStore) ListByUser(ctx context.Context, userID string) ([]Repo, error) {
	const query = selectRepo + ` WHERE user_id = $1 ORDER BY stars DESC, name ASC`
	rows, err := s.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Repo, 0)
	for rows.Next() {
		repo, err := scanRepo(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, repo)
	}
	return out, rows.Err()
}

func (s *PGRepoStore) GetByID(ctx context.Context, userID, repoID string) (Repo, error) {
	const query = selectRepo + ` WHERE id = $1 AND user_id = $2 LIMIT 1`
	repo, err := scanRepo(s.DB.QueryRowContext(ctx, query, repoID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Repo{}, ErrNotFound
		}
		return Repo{}, err
	}
	return repo, nil
}

func (s *PGRepoStore) SetSelected(ctx context.Context, userID, repoID string, selected bool) error {
	const query = `UPDATE github_repos SET is_selected = $3, updated_at = now() WHERE id = $1 AND user_id = $2`
	res, err := s.DB.ExecContext(ctx, query, repoID, userID, selected)
	if err != nil {
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PGRepoStore) DeleteForUser(ctx context.Context, userID string) error {
	_, err := s.DB.ExecContext(ctx, `DELETE FROM github_repos WHERE user_id = $1`, userID)
	return err
}

const selectRepo = `
SELECT id, user_id, repo_id, name, full_name, description, url, language, languages, topics, stars, forks, is_private, is_selected, created_at, updated_at
FROM github_repos`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRepo(row rowScanner) (Repo, error) {
	var repo Repo
	var description sql.NullString
	var language sql.NullString
	var languages []byte
	var topics []byte
	var updatedAt sql.NullTime
	err := row.Scan(
		&repo.ID,
		&repo.UserID,
		&repo.RepoID,
		&repo.Name,
		&repo.FullName,
		&description,
		&repo.URL,
		&language,
		&languages,
		&topics,
		&repo.Stars,
		&repo.Forks,
		&repo.IsPrivate,
		&repo.IsSelected,
		&repo.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		return Repo{}, err
	}
	repo.Description = description.String
	repo.Language = language.String
	if len(languages) > 0 {
		_ = json.Unmarshal(languages, &repo.Languages)
	}
	if len(topics) > 0 {
		_ = json.Unmarshal(topics, &repo.Topics)
	}
	if updatedAt.Valid {
		repo.UpdatedAt = updatedAt.Time
	}
	return repo, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
