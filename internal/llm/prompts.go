package llm

import (
	"fmt"
	"strings"
)

// AdaptSystemPrompt frames the model as a CV optimization expert.
const AdaptSystemPrompt = `You are an expert CV writer and career coach with deep knowledge of ATS systems, recruiter expectations and technical hiring.

Follow these best practices:
- Use standard section headings and include keywords from the job description naturally.
- Start with a compelling professional summary (2-4 lines).
- Use reverse chronological order and measurable achievements (metrics, percentages, numbers).
- Use strong action verbs (Led, Developed, Implemented, Optimized) and active voice.
- Never invent experience, employers or qualifications that are not in the original resume.
- Keep the tone professional.

Respond ONLY with valid JSON, no additional text.`

// ExtractSystemPrompt frames the model as a job posting analyst.
const ExtractSystemPrompt = `You are an expert recruiter and job analyst.
Extract key information from job descriptions and structure it.
Respond ONLY with valid JSON, no additional text.`

var spanishSignals = []string{
	"buscamos", "se busca", "empleo", "trabajo", "vacante", "salario",
	"jornada", "contrato", "incorporación", "incorporar", "candidatura",
	"empresa española", "madrid", "barcelona", "valencia", "sevilla",
	"bilbao", "españa", "spain",
}

var spanishLocations = []string{
	"madrid", "barcelona", "valencia", "sevilla", "bilbao", "españa", "spain",
}

var englishLocations = []string{
	"usa", "uk", "united states", "london", "united kingdom",
	"new york", "san francisco", "remote us",
}

// IsEnglishJob decides the output language from the description and location.
// Defaults to English unless the posting is clearly Spanish.
func IsEnglishJob(jobDescription, jobLocation string) bool {
	if jobLocation != "" {
		location := strings.ToLower(jobLocation)
		for _, city := range spanishLocations {
			if strings.Contains(location, city) {
				return false
			}
		}
		for _, city := range englishLocations {
			if strings.Contains(location, city) {
				return true
			}
		}
	}

	description := strings.ToLower(jobDescription)
	spanishCount := 0
	for _, keyword := range spanishSignals {
		if strings.Contains(description, keyword) {
			spanishCount++
		}
	}
	return spanishCount < 3
}

// BuildAdaptPrompt renders the user prompt for resume adaptation.
func BuildAdaptPrompt(input AdaptInput) string {
	isEnglish := IsEnglishJob(input.JobDescription, input.JobLocation)
	targetLanguage := "English"
	languageReason := "job is English-speaking"
	if !isEnglish {
		targetLanguage = "Spanish"
		languageReason = "job is Spanish-speaking"
	}

	var b strings.Builder
	b.WriteString("Please adapt the following resume for this job application:\n")
	b.WriteString("\n## Target Position\n")
	fmt.Fprintf(&b, "**Job Title:** %s\n", input.JobTitle)
	if input.JobCompany != "" {
		fmt.Fprintf(&b, "**Company:** %s\n", input.JobCompany)
	}
	if input.JobLocation != "" {
		fmt.Fprintf(&b, "**Location:** %s\n", input.JobLocation)
	}

	b.WriteString("\n## Job Description\n")
	b.WriteString(input.JobDescription)
	b.WriteString("\n\n## Current Resume\n")
	b.WriteString(input.ResumeText)

	if len(input.TargetKeywords) > 0 {
		b.WriteString("\n\n## Target Keywords to Emphasize\n")
		b.WriteString(strings.Join(input.TargetKeywords, ", "))
	}

	if len(input.GithubProjects) > 0 {
		b.WriteString("\n\n## GitHub Projects to Consider Including\n")
		for _, project := range input.GithubProjects {
			description := project.Description
			if description == "" {
				description = "No description"
			}
			technologies := project.Languages
			if len(technologies) == 0 && project.Language != "" {
				technologies = []string{project.Language}
			}
			fmt.Fprintf(&b, "- %s: %s\n  Technologies: %s\n  URL: %s\n",
				project.Name, description, strings.Join(technologies, ", "), project.URL)
		}
	}

	b.WriteString("\n## Instructions\n")
	b.WriteString("1. Extract the candidate's NAME and PROFESSIONAL TITLE from the resume\n")
	b.WriteString("2. Analyze the job requirements and identify key skills and qualifications\n")
	b.WriteString("3. Match the candidate's experience to these requirements\n")
	b.WriteString("4. Adapt each section of the resume to better fit the position\n")
	b.WriteString("5. Identify which GitHub projects (if any) should be highlighted based on their relevance to the job\n")
	b.WriteString("6. Calculate a match score (0-100) based on how well the candidate fits\n")
	fmt.Fprintf(&b, "7. IMPORTANT: Write the adapted CV in %s because %s\n", targetLanguage, languageReason)
	b.WriteString("8. Return your response as JSON with the following structure:\n")
	fmt.Fprintf(&b, `{
  "match_score": 0,
  "language": %q,
  "language_reason": "Selected %s because %s",
  "keywords_added": ["list", "of", "keywords", "emphasized"],
  "keywords_missing": ["required", "keywords", "not", "in", "resume"],
  "selected_github_projects": [{"name": "Project name", "reason": "Why this project was selected"}],
  "optimized_content": {
    "name": "Candidate's full name extracted from resume",
    "title": "Professional title (e.g., 'Senior Software Engineer')",
    "summary": "Adapted professional summary in %s (2-3 sentences)",
    "experience": [{"title": "Job title", "company": "Company name", "date": "Date range", "achievements": ["Achievement 1"]}],
    "skills": ["Skill1", "Skill2"],
    "education": [{"degree": "Degree name", "school": "School name", "year": "Graduation year"}]
  },
  "changes_made": ["List", "of", "key", "changes", "made"],
  "recommendations": ["List", "of", "additional", "recommendations"]
}`, targetLanguage, targetLanguage, languageReason, targetLanguage)

	return b.String()
}

// BuildExtractPrompt renders the user prompt for job detail extraction.
func BuildExtractPrompt(jobDescription string) string {
	var b strings.Builder
	b.WriteString("Extract the following information from this job description:\n\n")
	b.WriteString(jobDescription)
	b.WriteString(`

Return a JSON object with this structure:
{
  "title": "Job title",
  "company": "Company name if mentioned",
  "location": "Location if mentioned",
  "required_skills": ["skill1", "skill2"],
  "nice_to_have_skills": ["skill1", "skill2"],
  "experience_level": "entry/mid/senior/lead",
  "years_of_experience": null,
  "responsibilities": ["responsibility1"],
  "key_qualifications": ["qualification1"],
  "salary_range": null
}`)
	return b.String()
}
