package adaptations

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/teijeiro7/fitmycv/internal/docgen"
	"github.com/teijeiro7/fitmycv/internal/llm"
	"github.com/teijeiro7/fitmycv/internal/resumes"
	"github.com/teijeiro7/fitmycv/internal/scrape"
	"github.com/teijeiro7/fitmycv/internal/shared/metrics"
	"github.com/teijeiro7/fitmycv/internal/shared/storage/object"
	"github.com/teijeiro7/fitmycv/internal/shared/telemetry"
)

// ProjectSource lists the GitHub projects selected for CV inclusion.
type ProjectSource interface {
	SelectedProjects(ctx context.Context, userID string) ([]llm.Project, error)
}

// OptimizeRequest carries the inputs for one optimization run.
type OptimizeRequest struct {
	ResumeID       string   `json:"resume_id"`
	JobTitle       string   `json:"job_title"`
	JobCompany     string   `json:"job_company"`
	JobLocation    string   `json:"job_location"`
	JobURL         string   `json:"job_url"`
	JobDescription string   `json:"job_description"`
	Keywords       []string `json:"keywords"`
}

// Service runs resume optimizations and stores the results.
type Service struct {
	Resumes  *resumes.Service
	Repo     Repo
	Store    object.Store
	LLM      llm.Client
	Projects ProjectSource
}

// Optimize rewrites the resume for the posting and records the adaptation.
// When no LLM provider is configured the heuristic fallback still produces a
// scored adaptation from keyword coverage.
func (s *Service) Optimize(ctx context.Context, userID string, req OptimizeRequest) (Adaptation, error) {
	if strings.TrimSpace(req.ResumeID) == "" {
		return Adaptation{}, fmt.Errorf("%w: resume_id is required", ErrInvalidInput)
	}
	if strings.TrimSpace(req.JobTitle) == "" {
		return Adaptation{}, fmt.Errorf("%w: job_title is required", ErrInvalidInput)
	}
	if strings.TrimSpace(req.JobDescription) == "" {
		return Adaptation{}, fmt.Errorf("%w: job_description is required", ErrInvalidInput)
	}

	metrics.IncOptimizeStarted()
	startedMs := metrics.NowMillis()

	resume, resumeText, err := s.Resumes.TextOf(ctx, userID, req.ResumeID)
	if err != nil {
		metrics.IncOptimizeFailed()
		return Adaptation{}, err
	}

	keywords := req.Keywords
	if len(keywords) == 0 {
		keywords = scrape.ExtractKeywords(req.JobDescription)
	}

	var projects []llm.Project
	if s.Projects != nil {
		projects, err = s.Projects.SelectedProjects(ctx, userID)
		if err != nil {
			telemetry.Error("optimize.projects_failed", map[string]any{
				"user_id": userID,
				"error":   err.Error(),
			})
			projects = nil
		}
	}

	adaptation := Adaptation{
		ID:             uuid.NewString(),
		UserID:         userID,
		ResumeID:       resume.ID,
		JobTitle:       strings.TrimSpace(req.JobTitle),
		JobCompany:     strings.TrimSpace(req.JobCompany),
		JobLocation:    strings.TrimSpace(req.JobLocation),
		JobURL:         strings.TrimSpace(req.JobURL),
		JobDescription: req.JobDescription,
		CreatedAt:      time.Now().UTC(),
	}

	result, err := s.adapt(ctx, resumeText, adaptation, keywords, projects)
	if err != nil {
		metrics.IncOptimizeFailed()
		return Adaptation{}, err
	}

	adaptation.OptimizedContent = result.OptimizedContent
	adaptation.MatchScore = clampScore(int(result.MatchScore))
	// Models occasionally omit match_score entirely; score deterministically
	// from keyword coverage so a zero is never persisted by accident.
	if adaptation.MatchScore == 0 {
		adaptation.MatchScore = clampScore(MatchScore(resumeText, keywords))
	}
	adaptation.KeywordsAdded = orEmpty(result.KeywordsAdded)
	adaptation.KeywordsMissing = orEmpty(result.KeywordsMissing)
	adaptation.ChangesMade = orEmpty(result.ChangesMade)
	adaptation.Recommendations = orEmpty(result.Recommendations)
	adaptation.Language = result.Language
	adaptation.LanguageReason = result.LanguageReason
	adaptation.GithubProjects = result.SelectedGithubProjects
	if adaptation.GithubProjects == nil {
		adaptation.GithubProjects = []llm.SelectedProject{}
	}

	s.renderDocx(ctx, &adaptation)

	if err := s.Repo.Create(ctx, adaptation); err != nil {
		metrics.IncOptimizeFailed()
		return Adaptation{}, err
	}

	metrics.IncOptimizeCompleted()
	metrics.ObserveOptimizeDurationMs(metrics.NowMillis() - startedMs)
	return adaptation, nil
}

// adapt calls the configured LLM, falling back to keyword heuristics when no
// provider is wired or the provider fails.
func (s *Service) adapt(ctx context.Context, resumeText string, adaptation Adaptation, keywords []string, projects []llm.Project) (llm.AdaptResult, error) {
	if s.LLM != nil {
		result, err := s.LLM.AdaptResume(ctx, llm.AdaptInput{
			ResumeText:     resumeText,
			JobTitle:       adaptation.JobTitle,
			JobCompany:     adaptation.JobCompany,
			JobLocation:    adaptation.JobLocation,
			JobDescription: adaptation.JobDescription,
			TargetKeywords: keywords,
			GithubProjects: projects,
		})
		if err == nil {
			return result, nil
		}
		telemetry.Error("optimize.llm_failed", map[string]any{
			"resume_id": adaptation.ResumeID,
			"error":     err.Error(),
		})
	}

	return fallbackResult(resumeText, adaptation, keywords), nil
}

// fallbackResult builds an adaptation from keyword coverage alone.
func fallbackResult(resumeText string, adaptation Adaptation, keywords []string) llm.AdaptResult {
	present, missing := SplitCoverage(resumeText, keywords)

	language := "English"
	languageReason := "job is English-speaking"
	if !llm.IsEnglishJob(adaptation.JobDescription, adaptation.JobLocation) {
		language = "Spanish"
		languageReason = "job is Spanish-speaking"
	}

	summary := firstLines(resumeText, 3)
	return llm.AdaptResult{
		MatchScore:      llm.FlexInt(MatchScore(resumeText, keywords)),
		Language:        language,
		LanguageReason:  "Selected " + language + " because " + languageReason,
		KeywordsAdded:   present,
		KeywordsMissing: missing,
		OptimizedContent: llm.OptimizedContent{
			Title:   adaptation.JobTitle,
			Summary: summary,
			Skills:  present,
		},
		ChangesMade: []string{"Highlighted skills matching the job posting"},
		Recommendations: []string{
			"Configure an AI provider for a full resume rewrite",
		},
	}
}

// renderDocx generates and stores the Word version. Failures are logged and
// the download endpoint regenerates on demand.
func (s *Service) renderDocx(ctx context.Context, adaptation *Adaptation) {
	if s.Store == nil {
		return
	}
	data, err := docgen.BuildDocx(adaptation.OptimizedContent)
	if err != nil {
		telemetry.Error("optimize.docx_failed", map[string]any{
			"adaptation_id": adaptation.ID,
			"error":         err.Error(),
		})
		return
	}
	key := "adaptations/" + adaptation.ID + ".docx"
	if _, _, err := s.Store.SaveWithKey(ctx, key, bytes.NewReader(data)); err != nil {
		telemetry.Error("optimize.docx_store_failed", map[string]any{
			"adaptation_id": adaptation.ID,
			"error":         err.Error(),
		})
		return
	}
	adaptation.DocxKey = key
}

// Get returns one adaptation owned by the user.
func (s *Service) Get(ctx context.Context, userID, adaptationID string) (Adaptation, error) {
	if strings.TrimSpace(adaptationID) == "" {
		return Adaptation{}, fmt.Errorf("%w: adaptation id is required", ErrInvalidInput)
	}
	return s.Repo.GetByID(ctx, userID, adaptationID)
}

// History lists the user's adaptations, newest first.
func (s *Service) History(ctx context.Context, userID string, limit, offset int) ([]Adaptation, error) {
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

// DocxFor returns the stored Word document, generating it when missing.
func (s *Service) DocxFor(ctx context.Context, userID, adaptationID string) (Adaptation, []byte, error) {
	adaptation, err := s.Repo.GetByID(ctx, userID, adaptationID)
	if err != nil {
		return Adaptation{}, nil, err
	}

	if adaptation.DocxKey != "" && s.Store != nil {
		rc, err := s.Store.Open(ctx, adaptation.DocxKey)
		if err == nil {
			defer rc.Close()
			var buf bytes.Buffer
			if _, err := buf.ReadFrom(rc); err == nil {
				return adaptation, buf.Bytes(), nil
			}
		}
	}

	data, err := docgen.BuildDocx(adaptation.OptimizedContent)
	if err != nil {
		return Adaptation{}, nil, err
	}

	// Persist the regenerated document so the next download hits storage.
	if s.Store != nil {
		key := "adaptations/" + adaptation.ID + ".docx"
		if _, _, err := s.Store.SaveWithKey(ctx, key, bytes.NewReader(data)); err == nil {
			if err := s.Repo.SetDocxKey(ctx, adaptation.ID, key); err == nil {
				adaptation.DocxKey = key
			}
		}
	}
	return adaptation, data, nil
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func orEmpty(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}

func firstLines(text string, n int) string {
	lines := make([]string, 0, n)
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
			if len(lines) == n {
				break
			}
		}
	}
	return strings.Join(lines, " ")
}
