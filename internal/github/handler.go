package github

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/teijeiro7/fitmycv/internal/shared/server/middleware"
	"github.com/teijeiro7/fitmycv/internal/shared/server/respond"
)

type Handler struct {
	Svc        *Service
	UIRedirect string
}

func NewHandler(svc *Service, uiRedirect string) *Handler {
	return &Handler{Svc: svc, UIRedirect: uiRedirect}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/github/connect", h.connect)
	rg.GET("/github/callback", h.callback)
	rg.POST("/github/sync-repos", h.syncRepos)
	rg.GET("/github/repos", h.listRepos)
	rg.PUT("/github/repos/:id/toggle", h.toggleRepo)
	rg.DELETE("/github/disconnect", h.disconnect)
}

func (h *Handler) connect(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	authURL, err := h.Svc.ConnectURL(userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "auth_not_configured", err.Error(), nil)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"auth_url": authURL})
}

// callback is hit by GitHub, not the SPA, so it redirects back to the UI.
func (h *Handler) callback(c *gin.Context) {
	state := c.Query("state")
	code := c.Query("code")
	if state == "" || code == "" {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "missing state or code", nil)
		return
	}

	login, err := h.Svc.Callback(c.Request.Context(), state, code)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "github_auth_failed", err.Error(), nil)
		return
	}

	redirect := h.UIRedirect
	if redirect == "" {
		respond.JSON(c, http.StatusOK, gin.H{"connected": true, "username": login})
		return
	}
	if u, err := url.Parse(redirect); err == nil {
		q := u.Query()
		q.Set("github", "connected")
		q.Set("username", login)
		u.RawQuery = q.Encode()
		redirect = u.String()
	}
	c.Redirect(http.StatusFound, redirect)
}

func (h *Handler) syncRepos(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	count, err := h.Svc.SyncRepos(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNotConnected) {
			respond.Error(c, http.StatusBadRequest, "github_not_connected", "GitHub not connected", nil)
			return
		}
		respond.Error(c, http.StatusBadGateway, "github_sync_failed", "failed to fetch repositories", nil)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{
		"message": "Repositories synced successfully",
		"count":   count,
	})
}

func (h *Handler) listRepos(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	repos, err := h.Svc.List(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list repositories", nil)
		return
	}
	respond.JSON(c, http.StatusOK, repos)
}

func (h *Handler) toggleRepo(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	selected, err := h.Svc.Toggle(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "repository not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to toggle repository", nil)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"is_selected": selected})
}

func (h *Handler) disconnect(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	if err := h.Svc.Disconnect(c.Request.Context(), userID); err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to disconnect GitHub", nil)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"message": "GitHub disconnected successfully"})
}
