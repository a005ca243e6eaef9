package adaptations

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/teijeiro7/fitmycv/internal/llm"
	"github.com/teijeiro7/fitmycv/internal/resumes"
	"github.com/teijeiro7/fitmycv/internal/shared/server/middleware"
	"github.com/teijeiro7/fitmycv/internal/shared/server/respond"
)

const docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/optimize", h.optimize)
	rg.GET("/optimize/history", h.history)
	rg.GET("/optimize/:id", h.get)
	rg.GET("/optimize/:id/download/docx", h.downloadDocx)
	rg.GET("/optimize/:id/download/pdf", h.downloadPDF)
}

func (h *Handler) optimize(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req OptimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	adaptation, err := h.Svc.Optimize(c.Request.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput), errors.Is(err, resumes.ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		case errors.Is(err, resumes.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "resume not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to optimize resume", nil)
		}
		return
	}

	middleware.SetAdaptationID(c, adaptation.ID)
	respond.JSON(c, http.StatusCreated, toResponse(adaptation))
}

func (h *Handler) history(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	limit := 20
	offset := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if limit < 0 {
		limit = 0
	}
	if limit > 50 {
		limit = 50
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}
	if offset < 0 {
		offset = 0
	}

	items, err := h.Svc.History(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list adaptations", nil)
		return
	}

	resp := make([]gin.H, 0, len(items))
	for _, adaptation := range items {
		resp = append(resp, toSummary(adaptation))
	}
	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	middleware.SetAdaptationID(c, c.Param("id"))

	adaptation, err := h.Svc.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "adaptation not found", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch adaptation", nil)
		}
		return
	}
	respond.JSON(c, http.StatusOK, toResponse(adaptation))
}

func (h *Handler) downloadDocx(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	middleware.SetAdaptationID(c, c.Param("id"))

	adaptation, data, err := h.Svc.DocxFor(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "adaptation not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to build document", nil)
		return
	}

	filename := downloadFilename(adaptation, middleware.UserNameFromContext(c))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, docxContentType, data)
}

func (h *Handler) downloadPDF(c *gin.Context) {
	respond.Error(c, http.StatusNotImplemented, "not_implemented",
		"PDF export is not available yet, download the DOCX version", nil)
}

// downloadFilename names the export after the rewritten CV, falling back to
// the account holder's name from the token when the model omitted one.
func downloadFilename(adaptation Adaptation, fallbackName string) string {
	name := adaptation.OptimizedContent.Name
	if name == "" {
		name = fallbackName
	}
	if name == "" {
		name = "resume"
	}
	return "CV_" + adaptation.JobTitle + "_" + name + ".docx"
}

func toResponse(adaptation Adaptation) gin.H {
	resp := toSummary(adaptation)
	resp["jobDescription"] = adaptation.JobDescription
	resp["optimizedContent"] = adaptation.OptimizedContent
	resp["keywordsAdded"] = adaptation.KeywordsAdded
	resp["keywordsMissing"] = adaptation.KeywordsMissing
	resp["changesMade"] = adaptation.ChangesMade
	resp["recommendations"] = adaptation.Recommendations
	resp["languageReason"] = adaptation.LanguageReason
	resp["githubProjects"] = githubProjects(adaptation)
	return resp
}

func toSummary(adaptation Adaptation) gin.H {
	return gin.H{
		"id":          adaptation.ID,
		"resumeId":    adaptation.ResumeID,
		"jobTitle":    adaptation.JobTitle,
		"jobCompany":  adaptation.JobCompany,
		"jobLocation": adaptation.JobLocation,
		"jobUrl":      adaptation.JobURL,
		"matchScore":  adaptation.MatchScore,
		"language":    adaptation.Language,
		"hasDocx":     adaptation.DocxKey != "",
		"createdAt":   adaptation.CreatedAt,
	}
}

func githubProjects(adaptation Adaptation) []llm.SelectedProject {
	if adaptation.GithubProjects == nil {
		return []llm.SelectedProject{}
	}
	return adaptation.GithubProjects
}
