// Package llm abstracts the AI providers used for resume adaptation and
// job description analysis.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

// Client abstracts LLM providers.
type Client interface {
	AdaptResume(ctx context.Context, input AdaptInput) (AdaptResult, error)
	ExtractJobDetails(ctx context.Context, jobDescription, jobURL string) (JobDetails, error)
}

// AdaptInput captures everything the adaptation prompt needs.
type AdaptInput struct {
	ResumeText     string
	JobTitle       string
	JobCompany     string
	JobLocation    string
	JobDescription string
	TargetKeywords []string
	GithubProjects []Project
}

// Project is a GitHub repository candidate for inclusion in the resume.
type Project struct {
	Name        string
	Description string
	Language    string
	Languages   []string
	Topics      []string
	URL         string
}

// OptimizedContent is the structured rewritten resume.
type OptimizedContent struct {
	Name       string           `json:"name"`
	Title      string           `json:"title"`
	Summary    string           `json:"summary"`
	Experience []ExperienceItem `json:"experience"`
	Skills     []string         `json:"skills"`
	Education  []EducationItem  `json:"education"`
}

type ExperienceItem struct {
	Title        string   `json:"title"`
	Company      string   `json:"company"`
	Date         string   `json:"date"`
	Achievements []string `json:"achievements"`
}

type EducationItem struct {
	Degree string `json:"degree"`
	School string `json:"school"`
	Year   string `json:"year"`
}

type SelectedProject struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// AdaptResult is the full adaptation response.
type AdaptResult struct {
	MatchScore             FlexInt           `json:"match_score"`
	Language               string            `json:"language"`
	LanguageReason         string            `json:"language_reason"`
	KeywordsAdded          []string          `json:"keywords_added"`
	KeywordsMissing        []string          `json:"keywords_missing"`
	SelectedGithubProjects []SelectedProject `json:"selected_github_projects"`
	OptimizedContent       OptimizedContent  `json:"optimized_content"`
	ChangesMade            []string          `json:"changes_made"`
	Recommendations        []string          `json:"recommendations"`
}

// JobDetails is structured information extracted from a job description.
type JobDetails struct {
	Title             string     `json:"title"`
	Company           string     `json:"company"`
	Location          string     `json:"location"`
	RequiredSkills    []string   `json:"required_skills"`
	NiceToHaveSkills  []string   `json:"nice_to_have_skills"`
	ExperienceLevel   string     `json:"experience_level"`
	YearsOfExperience FlexString `json:"years_of_experience"`
	Responsibilities  []string   `json:"responsibilities"`
	KeyQualifications []string   `json:"key_qualifications"`
	SalaryRange       FlexString `json:"salary_range"`
}

// FlexInt decodes a JSON number or a numeric string. Models occasionally
// quote the score.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(strings.Trim(string(data), `"`))
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	val, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return errors.New("not a number: " + s)
	}
	*f = FlexInt(int(val))
	return nil
}

// FlexString decodes a JSON string, number or null into a string.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*f = ""
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	*f = FlexString(trimmed)
	return nil
}

// DecodeAdaptResult strips markdown fences and unmarshals the response.
func DecodeAdaptResult(raw []byte) (AdaptResult, error) {
	var result AdaptResult
	if err := json.Unmarshal([]byte(CleanJSONContent(string(raw))), &result); err != nil {
		return AdaptResult{}, err
	}
	return result, nil
}

// DecodeJobDetails strips markdown fences and unmarshals the response.
func DecodeJobDetails(raw []byte) (JobDetails, error) {
	var details JobDetails
	if err := json.Unmarshal([]byte(CleanJSONContent(string(raw))), &details); err != nil {
		return JobDetails{}, err
	}
	return details, nil
}

// CleanJSONContent removes markdown code fences that models sometimes add
// around JSON payloads.
func CleanJSONContent(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	lines := strings.Split(content, "\n")
	if len(lines) < 2 {
		return content
	}
	lines = lines[1:]
	if strings.HasPrefix(strings.TrimSpace(lines[len(lines)-1]), "```") {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
