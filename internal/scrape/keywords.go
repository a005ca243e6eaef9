package scrape

import (
	"regexp"
	"sort"
	"strings"
)

// techKeywords is the known-skill vocabulary matched against job descriptions.
var techKeywords = []string{
	// Programming languages
	"python", "java", "javascript", "typescript", "c++", "c#", "ruby", "php",
	"swift", "kotlin", "go", "rust", "scala", "r", "matlab",

	// Frameworks & libraries
	"react", "angular", "vue", "next.js", "nuxt", "svelte",
	"django", "flask", "fastapi", "spring", "express", "nest.js",
	".net", "laravel", "rails", "symfony",

	// Data & ML
	"tensorflow", "pytorch", "keras", "scikit-learn", "pandas", "numpy",
	"spark", "hadoop", "airflow", "tableau", "power bi", "looker",

	// Cloud & DevOps
	"aws", "azure", "gcp", "docker", "kubernetes", "terraform", "ansible",
	"jenkins", "gitlab", "github actions", "ci/cd", "devops",

	// Databases
	"sql", "nosql", "mongodb", "postgresql", "mysql", "redis", "elasticsearch",
	"dynamodb", "cassandra", "graphql", "rest api", "grpc",

	// Other
	"agile", "scrum", "kanban", "jira", "confluence", "git",
	"linux", "unix", "windows", "macos",
	"microservices", "api", "rest", "websocket",
	"tdd", "bdd", "unit testing", "integration testing",
	"site reliability", "sre",
}

var keywordPatterns = buildKeywordPatterns()

func buildKeywordPatterns() map[string]*regexp.Regexp {
	out := make(map[string]*regexp.Regexp, len(techKeywords))
	for _, keyword := range techKeywords {
		out[keyword] = keywordPattern(keyword)
	}
	return out
}

// keywordPattern builds a word-bounded matcher. Boundaries are dropped next
// to non-word characters (e.g. "c++", ".net") where \b cannot match.
func keywordPattern(keyword string) *regexp.Regexp {
	quoted := regexp.QuoteMeta(strings.ToLower(keyword))
	prefix := `\b`
	suffix := `\b`
	if !isWordByte(keyword[0]) {
		prefix = ``
	}
	if !isWordByte(keyword[len(keyword)-1]) {
		suffix = ``
	}
	return regexp.MustCompile(prefix + quoted + suffix)
}

func isWordByte(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

var capitalizedWord = regexp.MustCompile(`\b[A-Z][a-zA-Z]+\b`)

var commonCapitalized = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "are": {}, "but": {}, "not": {},
	"you": {}, "all": {}, "can": {}, "had": {}, "her": {}, "was": {},
	"one": {}, "our": {}, "out": {}, "with": {}, "this": {}, "that": {},
}

// ExtractKeywords finds known technical skills plus repeated capitalized
// terms that are likely proprietary technologies.
func ExtractKeywords(text string) []string {
	lower := strings.ToLower(text)
	found := make([]string, 0)
	seen := make(map[string]struct{})

	for _, keyword := range techKeywords {
		if keywordPatterns[keyword].MatchString(lower) {
			if _, ok := seen[strings.ToLower(keyword)]; !ok {
				seen[strings.ToLower(keyword)] = struct{}{}
				found = append(found, keyword)
			}
		}
	}

	// Capitalized words appearing at least twice are probably product names.
	counts := make(map[string]int)
	for _, word := range capitalizedWord.FindAllString(text, -1) {
		counts[word]++
	}
	repeated := make([]string, 0)
	for word, count := range counts {
		if count < 2 || len(word) <= 3 {
			continue
		}
		lowerWord := strings.ToLower(word)
		if _, ok := commonCapitalized[lowerWord]; ok {
			continue
		}
		if _, ok := seen[lowerWord]; ok {
			continue
		}
		seen[lowerWord] = struct{}{}
		repeated = append(repeated, word)
	}
	sort.Strings(repeated)

	return append(found, repeated...)
}

var requirementSections = []*regexp.Regexp{
	regexp.MustCompile(`(?is)(?:Requirements|Qualifications|Required Skills):(.*?)(?:\n\n|\n[A-Z][a-z]+:|$)`),
	regexp.MustCompile(`(?is)(?:Requisitos|Requerimientos):(.*?)(?:\n\n|\n[A-Z][a-z]+:|$)`),
}

var requirementItem = regexp.MustCompile(`[•\-\*o]\s*([^\n]+)|\d+\.\s*([^\n]+)`)

// ExtractRequirements pulls bulleted items out of requirement-style sections.
// At most 10 items are returned.
func ExtractRequirements(text string) []string {
	requirements := make([]string, 0)
	for _, section := range requirementSections {
		for _, match := range section.FindAllStringSubmatch(text, -1) {
			for _, item := range requirementItem.FindAllStringSubmatch(match[1], -1) {
				req := strings.TrimSpace(item[1])
				if req == "" {
					req = strings.TrimSpace(item[2])
				}
				if len(req) > 5 {
					requirements = append(requirements, req)
				}
			}
		}
	}
	if len(requirements) > 10 {
		requirements = requirements[:10]
	}
	return requirements
}
