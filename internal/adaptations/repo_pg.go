package adaptations

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/teijeiro7/fitmycv/internal/llm"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, adaptation Adaptation) error {
	const query = `
INSERT INTO adaptations (id, user_id, resume_id, job_title, job_company, job_location, job_url, job_description,
  optimized_content, match_score, keywords_added, keywords_missing, changes_made, recommendations,
  language, language_reason, github_projects, docx_key, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`

	content, err := json.Marshal(adaptation.OptimizedContent)
	if err != nil {
		return err
	}
	projects, err := json.Marshal(adaptation.GithubProjects)
	if err != nil {
		return err
	}
	createdAt := adaptation.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = r.DB.ExecContext(ctx, query,
		adaptation.ID,
		adaptation.UserID,
		adaptation.ResumeID,
		adaptation.JobTitle,
		nullableString(adaptation.JobCompany),
		nullableString(adaptation.JobLocation),
		nullableString(adaptation.JobURL),
		adaptation.JobDescription,
		content,
		adaptation.MatchScore,
		marshalStrings(adaptation.KeywordsAdded),
		marshalStrings(adaptation.KeywordsMissing),
		marshalStrings(adaptation.ChangesMade),
		marshalStrings(adaptation.Recommendations),
		nullableString(adaptation.Language),
		nullableString(adaptation.LanguageReason),
		projects,
		nullableString(adaptation.DocxKey),
		createdAt,
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, userID, adaptationID string) (Adaptation, error) {
	const query = selectAdaptation + ` WHERE id = $1 AND user_id = $2 LIMIT 1`
	adaptation, err := scanAdaptation(r.DB.QueryRowContext(ctx, query, adaptationID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Adaptation{}, ErrNotFound
		}
		return Adaptation{}, err
	}
	return adaptation, nil
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Adaptation, error) {
	const query = selectAdaptation + `
 WHERE user_id = $1
 ORDER BY created_at DESC
 LIMIT $2 OFFSET $3`
	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Adaptation, 0, limit)
	for rows.Next() {
		adaptation, err := scanAdaptation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, adaptation)
	}
	return out, rows.Err()
}

func (r *PGRepo) SetDocxKey(ctx context.Context, adaptationID, docxKey string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE adaptations SET docx_key = $2 WHERE id = $1`, adaptationID, docxKey)
	if err != nil {
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}

const selectAdaptation = `
SELECT id, user_id, resume_id, job_title, job_company, job_location, job_url, job_description,
  optimized_content, match_score, keywords_added, keywords_missing, changes_made, recommendations,
  language, language_reason, github_projects, docx_key, created_at
FROM adaptations`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAdaptation(row rowScanner) (Adaptation, error) {
	var adaptation Adaptation
	var jobCompany, jobLocation, jobURL sql.NullString
	var language, languageReason, docxKey sql.NullString
	var matchScore sql.NullInt64
	var content, keywordsAdded, keywordsMissing, changesMade, recommendations, projects []byte

	err := row.Scan(
		&adaptation.ID,
		&adaptation.UserID,
		&adaptation.ResumeID,
		&adaptation.JobTitle,
		&jobCompany,
		&jobLocation,
		&jobURL,
		&adaptation.JobDescription,
		&content,
		&matchScore,
		&keywordsAdded,
		&keywordsMissing,
		&changesMade,
		&recommendations,
		&language,
		&languageReason,
		&projects,
		&docxKey,
		&adaptation.CreatedAt,
	)
	if err != nil {
		return Adaptation{}, err
	}

	adaptation.JobCompany = jobCompany.String
	adaptation.JobLocation = jobLocation.String
	adaptation.JobURL = jobURL.String
	adaptation.Language = language.String
	adaptation.LanguageReason = languageReason.String
	adaptation.DocxKey = docxKey.String
	adaptation.MatchScore = int(matchScore.Int64)
	if len(content) > 0 {
		_ = json.Unmarshal(content, &adaptation.OptimizedContent)
	}
	adaptation.KeywordsAdded = unmarshalStrings(keywordsAdded)
	adaptation.KeywordsMissing = unmarshalStrings(keywordsMissing)
	adaptation.ChangesMade = unmarshalStrings(changesMade)
	adaptation.Recommendations = unmarshalStrings(recommendations)
	if len(projects) > 0 {
		_ = json.Unmarshal(projects, &adaptation.GithubProjects)
	}
	if adaptation.GithubProjects == nil {
		adaptation.GithubProjects = []llm.SelectedProject{}
	}
	return adaptation, nil
}

func marshalStrings(items []string) []byte {
	if items == nil {
		items = []string{}
	}
	out, _ := json.Marshal(items)
	return out
}

func unmarshalStrings(raw []byte) []string {
	out := []string{}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &out)
	}
	return out
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
