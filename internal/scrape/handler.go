package scrape

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/teijeiro7/fitmycv/internal/llm"
	"github.com/teijeiro7/fitmycv/internal/shared/metrics"
	"github.com/teijeiro7/fitmycv/internal/shared/server/respond"
	"github.com/teijeiro7/fitmycv/internal/shared/telemetry"
)

type Handler struct {
	Scraper *Scraper
	LLM     llm.Client
}

func NewHandler(scraper *Scraper, client llm.Client) *Handler {
	return &Handler{Scraper: scraper, LLM: client}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/scrape", h.scrape)
	rg.POST("/scrape/analyze-url", h.analyzeURL)
}

type scrapeRequest struct {
	URL         string `json:"url"`
	Description string `json:"description"`
}

func (h *Handler) scrape(c *gin.Context) {
	var req scrapeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "invalid JSON body", nil)
		return
	}
	req.URL = strings.TrimSpace(req.URL)
	req.Description = strings.TrimSpace(req.Description)

	metrics.IncScrapeRequests()

	var posting Posting
	switch {
	case req.Description != "":
		posting = h.Scraper.ParseText(req.Description)
	case req.URL != "":
		var err error
		posting, err = h.Scraper.Scrape(c.Request.Context(), req.URL)
		if err != nil {
			telemetry.Error("scrape.failed", map[string]any{
				"url":   req.URL,
				"error": err.Error(),
			})
			respond.Error(c, http.StatusBadGateway, "scrape_failed", "failed to scrape job posting", nil)
			return
		}
	default:
		respond.Error(c, http.StatusBadRequest, "invalid_request", "either url or description is required", nil)
		return
	}

	h.enrich(c.Request.Context(), &posting)

	if posting.Title == "" {
		posting.Title = "Job Position"
	}
	if posting.NiceToHave == nil {
		posting.NiceToHave = []string{}
	}
	respond.JSON(c, http.StatusOK, posting)
}

// enrich asks the LLM for structured job details. Enrichment is best-effort:
// failures leave the heuristic extraction untouched.
func (h *Handler) enrich(ctx context.Context, posting *Posting) {
	if h.LLM == nil || len(posting.Description) <= 100 {
		return
	}
	details, err := h.LLM.ExtractJobDetails(ctx, posting.Description, posting.URL)
	if err != nil {
		telemetry.Error("scrape.enrich_failed", map[string]any{"error": err.Error()})
		return
	}
	posting.RequiredSkills = details.RequiredSkills
	posting.ExperienceLevel = details.ExperienceLevel
	posting.YearsOfExperience = string(details.YearsOfExperience)
}

func (h *Handler) analyzeURL(c *gin.Context) {
	var req struct {
		URL string `json:"url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.URL) == "" {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "url is required", nil)
		return
	}

	site := DetectSite(req.URL)
	respond.JSON(c, http.StatusOK, gin.H{
		"site":      site,
		"supported": site != "generic",
		"url":       req.URL,
	})
}
