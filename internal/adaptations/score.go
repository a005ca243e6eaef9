package adaptations

import (
	"regexp"
	"strings"
)

// MatchScore estimates how well the resume covers the posting's keywords.
// An exact word match counts full weight, a substring match counts half.
// Used when no LLM provider is configured and as a sanity fallback.
func MatchScore(resumeText string, keywords []string) int {
	if len(keywords) == 0 {
		return 0
	}

	resume := strings.ToLower(resumeText)
	perKeyword := 100.0 / float64(len(keywords))

	var score float64
	for _, keyword := range keywords {
		needle := strings.ToLower(strings.TrimSpace(keyword))
		if needle == "" {
			continue
		}
		switch {
		case wordMatch(resume, needle):
			score += perKeyword
		case strings.Contains(resume, needle):
			score += perKeyword * 0.5
		}
	}

	rounded := int(score + 0.5)
	if rounded < 0 {
		return 0
	}
	if rounded > 100 {
		return 100
	}
	return rounded
}

// SplitCoverage partitions keywords into those present in the resume and
// those missing from it.
func SplitCoverage(resumeText string, keywords []string) (present, missing []string) {
	resume := strings.ToLower(resumeText)
	present = make([]string, 0, len(keywords))
	missing = make([]string, 0)
	for _, keyword := range keywords {
		needle := strings.ToLower(strings.TrimSpace(keyword))
		if needle == "" {
			continue
		}
		if strings.Contains(resume, needle) {
			present = append(present, keyword)
		} else {
			missing = append(missing, keyword)
		}
	}
	return present, missing
}

func wordMatch(haystack, needle string) bool {
	pattern, err := wordPattern(needle)
	if err != nil {
		return false
	}
	return pattern.MatchString(haystack)
}

func wordPattern(needle string) (*regexp.Regexp, error) {
	quoted := regexp.QuoteMeta(needle)
	prefix := `\b`
	suffix := `\b`
	if !isWordByte(needle[0]) {
		prefix = ``
	}
	if !isWordByte(needle[len(needle)-1]) {
		suffix = ``
	}
	return regexp.Compile(prefix + quoted + suffix)
}

func isWordByte(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
