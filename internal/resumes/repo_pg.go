package resumes

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, resume Resume) error {
	const query = `
INSERT INTO resumes (id, user_id, title, original_filename, storage_key, mime_type, size_bytes, extracted_text, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	createdAt := resume.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := r.DB.ExecContext(ctx, query,
		resume.ID,
		resume.UserID,
		resume.Title,
		resume.OriginalFilename,
		resume.StorageKey,
		nullableString(resume.MimeType),
		resume.SizeBytes,
		nullableString(resume.ExtractedText),
		createdAt,
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, userID, resumeID string) (Resume, error) {
	const query = selectResume + ` WHERE id = $1 AND user_id = $2 LIMIT 1`
	row := r.DB.QueryRowContext(ctx, query, resumeID, userID)
	resume, err := scanResume(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, err
	}
	return resume, nil
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Resume, error) {
	const query = selectResume + `
 WHERE user_id = $1
 ORDER BY created_at DESC
 LIMIT $2 OFFSET $3`
	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Resume, 0, limit)
	for rows.Next() {
		resume, err := scanResume(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, resume)
	}
	return out, rows.Err()
}

const selectResume = `
SELECT id, user_id, title, original_filename, storage_key, mime_type, size_bytes, extracted_text, created_at, updated_at
FROM resumes`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResume(row rowScanner) (Resume, error) {
	var resume Resume
	var mimeType sql.NullString
	var extractedText sql.NullString
	var updatedAt sql.NullTime
	err := row.Scan(
		&resume.ID,
		&resume.UserID,
		&resume.Title,
		&resume.OriginalFilename,
		&resume.StorageKey,
		&mimeType,
		&resume.SizeBytes,
		&extractedText,
		&resume.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		return Resume{}, err
	}
	resume.MimeType = mimeType.String
	resume.ExtractedText = extractedText.String
	if updatedAt.Valid {
		resume.UpdatedAt = updatedAt.Time
	}
	return resume, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
