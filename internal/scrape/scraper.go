package scrape

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

// siteSelectors maps known job portals to their CSS selectors.
var siteSelectors = map[string]map[string]string{
	"linkedin": {
		"title":       "h1.top-card-layout__title",
		"company":     ".topcard__org-name-link, .top-card-layout__card a",
		"location":    ".topcard__flavor-row span:last-child",
		"description": ".show-more-less-html__markup",
		"skills":      ".job-criteria__item",
	},
	"infojobs": {
		"title":       "h1.rf-offer-title",
		"company":     ".rf-company_details a",
		"location":    ".rf-jDetails-location .rf-jDetails__location",
		"description": ".rf-offer-description",
		"skills":      ".rf-tag",
	},
	"indeed": {
		"title":       "h1.jobtitle",
		"company":     ".companyName",
		"location":    ".jobLocation",
		"description": "#jobDescriptionText",
	},
	"glassdoor": {
		"title":       "div.css-17cd5g0",
		"company":     "div.css-16kyo5v",
		"location":    "div.css-1vwe2a6",
		"description": "div.jobDescriptionContent",
	},
}

var genericTitleSelectors = []string{"h1", "[class*='title']", "[id*='title']"}

var genericDescriptionSelectors = []string{
	"[class*='description']",
	"[id*='description']",
	"article",
	"main",
	".job-description",
	".job-details",
	".posting-description",
}

// Scraper extracts job postings from job portal pages.
type Scraper struct {
	Client    *http.Client
	UserAgent string
}

func NewScraper() *Scraper {
	return &Scraper{
		Client:    &http.Client{Timeout: 30 * time.Second},
		UserAgent: defaultUserAgent,
	}
}

// DetectSite identifies the job portal from the URL host.
func DetectSite(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "generic"
	}
	host := strings.ToLower(u.Host)
	switch {
	case strings.Contains(host, "linkedin"):
		return "linkedin"
	case strings.Contains(host, "infojobs"):
		return "infojobs"
	case strings.Contains(host, "indeed"):
		return "indeed"
	case strings.Contains(host, "glassdoor"):
		return "glassdoor"
	default:
		return "generic"
	}
}

// Scrape fetches the URL and extracts the posting using site-specific
// selectors, falling back to generic heuristics for unknown portals.
func (s *Scraper) Scrape(ctx context.Context, rawURL string) (Posting, error) {
	site := DetectSite(rawURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Posting{}, fmt.Errorf("scrape %s: %w", rawURL, err)
	}
	req.Header.Set("User-Agent", s.UserAgent)
	req.Header.Set("Accept-Language", "en,es;q=0.9")

	resp, err := s.Client.Do(req)
	if err != nil {
		return Posting{}, fmt.Errorf("scrape %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Posting{}, fmt.Errorf("scrape %s: status %d", rawURL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return Posting{}, fmt.Errorf("scrape %s: parse html: %w", rawURL, err)
	}

	var posting Posting
	switch site {
	case "linkedin":
		posting = scrapeLinkedin(doc)
	case "infojobs":
		posting = scrapeInfojobs(doc)
	case "indeed", "glassdoor":
		posting = scrapeWithSelectors(doc, site)
	default:
		posting = scrapeGeneric(doc)
	}

	posting.URL = rawURL
	posting.Source = site
	posting.Keywords = ExtractKeywords(posting.Description)
	posting.Skills = dedupe(append(posting.Skills, posting.Keywords...))
	posting.Requirements = ExtractRequirements(posting.Description)
	return posting, nil
}

// ParseText structures a manually pasted job description.
func (s *Scraper) ParseText(description string) Posting {
	keywords := ExtractKeywords(description)

	title := "Job Position"
	for _, line := range strings.Split(strings.TrimSpace(description), "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			title = trimmed
			break
		}
	}

	return Posting{
		Title:        title,
		Description:  description,
		Skills:       keywords,
		Keywords:     keywords,
		Requirements: ExtractRequirements(description),
		Source:       "manual",
	}
}

func scrapeLinkedin(doc *goquery.Document) Posting {
	posting := scrapeWithSelectors(doc, "linkedin")

	// Criteria items render as "Label: Value"; keep the value side.
	doc.Find(siteSelectors["linkedin"]["skills"]).Each(func(_ int, sel *goquery.Selection) {
		text := sel.Text()
		if idx := strings.LastIndex(text, ":"); idx >= 0 {
			if skill := cleanText(text[idx+1:]); skill != "" {
				posting.Skills = append(posting.Skills, skill)
			}
		}
	})
	return posting
}

func scrapeInfojobs(doc *goquery.Document) Posting {
	posting := scrapeWithSelectors(doc, "infojobs")
	doc.Find(siteSelectors["infojobs"]["skills"]).Each(func(_ int, sel *goquery.Selection) {
		if skill := cleanText(sel.Text()); skill != "" {
			posting.Skills = append(posting.Skills, skill)
		}
	})
	return posting
}

func scrapeWithSelectors(doc *goquery.Document, site string) Posting {
	selectors := siteSelectors[site]
	return Posting{
		Title:       cleanText(doc.Find(selectors["title"]).First().Text()),
		Company:     cleanText(doc.Find(selectors["company"]).First().Text()),
		Location:    cleanText(doc.Find(selectors["location"]).First().Text()),
		Description: cleanText(doc.Find(selectors["description"]).First().Text()),
	}
}

func scrapeGeneric(doc *goquery.Document) Posting {
	company, _ := doc.Find("meta[property='og:site_name']").Attr("content")
	return Posting{
		Title:       firstMatch(doc, genericTitleSelectors),
		Company:     cleanText(company),
		Description: firstMatch(doc, genericDescriptionSelectors),
	}
}

func firstMatch(doc *goquery.Document, selectors []string) string {
	for _, selector := range selectors {
		if text := cleanText(doc.Find(selector).First().Text()); len(text) > 5 {
			return text
		}
	}
	return ""
}

var whitespaceRun = regexp.MustCompile(`\s+`)

func cleanText(text string) string {
	text = strings.ReplaceAll(text, "\u00a0", " ")
	text = strings.ReplaceAll(text, "\u200b", "")
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(text, " "))
}

func dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		key := strings.ToLower(strings.TrimSpace(item))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	return out
}
