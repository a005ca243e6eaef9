package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/teijeiro7/fitmycv/internal/adaptations"
	"github.com/teijeiro7/fitmycv/internal/auth"
	"github.com/teijeiro7/fitmycv/internal/github"
	"github.com/teijeiro7/fitmycv/internal/resumes"
	"github.com/teijeiro7/fitmycv/internal/scrape"
	"github.com/teijeiro7/fitmycv/internal/shared/config"
	"github.com/teijeiro7/fitmycv/internal/shared/metrics"
	"github.com/teijeiro7/fitmycv/internal/shared/server/middleware"
	"github.com/teijeiro7/fitmycv/internal/shared/server/respond"
	"github.com/teijeiro7/fitmycv/internal/users"
)

// RouterDeps carries the handlers the router wires up.
type RouterDeps struct {
	Config            config.Config
	AuthHandler       *auth.Handler
	GoogleAuth        *auth.GoogleService
	UsersHandler      *users.Handler
	ResumesHandler    *resumes.Handler
	ScrapeHandler     *scrape.Handler
	GithubHandler     *github.Handler
	AdaptationHandler *adaptations.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Auth(),
		middleware.RateLimit(rateLimits()),
	)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	api.GET("/metrics", metrics.Handler())

	if deps.AuthHandler != nil {
		deps.AuthHandler.RegisterRoutes(api)
	}
	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(api)
	}
	if deps.UsersHandler != nil {
		deps.UsersHandler.RegisterRoutes(api)
	}
	if deps.ResumesHandler != nil {
		deps.ResumesHandler.RegisterRoutes(api)
	}
	if deps.ScrapeHandler != nil {
		deps.ScrapeHandler.RegisterRoutes(api)
	}
	if deps.GithubHandler != nil {
		deps.GithubHandler.RegisterRoutes(api)
	}
	if deps.AdaptationHandler != nil {
		deps.AdaptationHandler.RegisterRoutes(api)
	}

	return r
}

// rateLimits throttles the expensive endpoints harder than the rest.
func rateLimits() middleware.RateLimitConfig {
	return middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			"OPTIMIZE": {Rate: 0.2, Burst: 3},
			"SCRAPE":   {Rate: 1, Burst: 5},
			"DEFAULT":  {Rate: 10, Burst: 30},
		},
		DefaultGroup: "DEFAULT",
		GroupFor: func(c *gin.Context) string {
			path := c.Request.URL.Path
			switch {
			case c.Request.Method == http.MethodPost && path == "/api/v1/optimize":
				return "OPTIMIZE"
			case strings.HasPrefix(path, "/api/v1/scrape"):
				return "SCRAPE"
			default:
				return "DEFAULT"
			}
		},
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
