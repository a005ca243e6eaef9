package scrape

// Posting is a job posting extracted from a URL or pasted description.
type Posting struct {
	Title             string   `json:"title"`
	Company           string   `json:"company"`
	Location          string   `json:"location"`
	Description       string   `json:"description"`
	Skills            []string `json:"skills"`
	Keywords          []string `json:"keywords"`
	Requirements      []string `json:"requirements"`
	NiceToHave        []string `json:"nice_to_have"`
	RequiredSkills    []string `json:"required_skills,omitempty"`
	ExperienceLevel   string   `json:"experience_level,omitempty"`
	YearsOfExperience string   `json:"years_of_experience,omitempty"`
	Source            string   `json:"source"`
	URL               string   `json:"url,omitempty"`
}
