package adaptations

import (
	"time"

	"github.com/teijeiro7/fitmycv/internal/llm"
)

// Adaptation is one AI-optimized version of a resume for a job posting.
type Adaptation struct {
	ID             string
	UserID         string
	ResumeID       string
	JobTitle       string
	JobCompany     string
	JobLocation    string
	JobURL         string
	JobDescription string

	OptimizedContent llm.OptimizedContent
	MatchScore       int
	KeywordsAdded    []string
	KeywordsMissing  []string
	ChangesMade      []string
	Recommendations  []string
	Language         string
	LanguageReason   string
	GithubProjects   []llm.SelectedProject

	DocxKey   string
	CreatedAt time.Time
}
