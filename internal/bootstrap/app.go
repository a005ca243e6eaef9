package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/teijeiro7/fitmycv/internal/adaptations"
	"github.com/teijeiro7/fitmycv/internal/auth"
	"github.com/teijeiro7/fitmycv/internal/github"
	"github.com/teijeiro7/fitmycv/internal/llm"
	"github.com/teijeiro7/fitmycv/internal/llm/gemini"
	"github.com/teijeiro7/fitmycv/internal/llm/openai"
	"github.com/teijeiro7/fitmycv/internal/resumes"
	"github.com/teijeiro7/fitmycv/internal/scrape"
	sharedauth "github.com/teijeiro7/fitmycv/internal/shared/auth"
	"github.com/teijeiro7/fitmycv/internal/shared/config"
	"github.com/teijeiro7/fitmycv/internal/shared/server"
	"github.com/teijeiro7/fitmycv/internal/shared/storage/db"
	"github.com/teijeiro7/fitmycv/internal/shared/storage/object"
	localstore "github.com/teijeiro7/fitmycv/internal/shared/storage/object/local"
	s3store "github.com/teijeiro7/fitmycv/internal/shared/storage/object/s3"
	"github.com/teijeiro7/fitmycv/internal/shared/telemetry"
	"github.com/teijeiro7/fitmycv/internal/users"
)

// App holds the shared dependency graph.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.Store
	LLM    llm.Client

	UsersRepo       users.Repo
	ResumesRepo     resumes.Repo
	AdaptationsRepo adaptations.Repo
	GithubRepos     github.RepoStore

	UsersService       *users.Service
	AuthService        *auth.Service
	ResumesService     *resumes.Service
	GithubService      *github.Service
	AdaptationsService *adaptations.Service

	AuthHandler       *auth.Handler
	GoogleAuth        *auth.GoogleService
	UsersHandler      *users.Handler
	ResumesHandler    *resumes.Handler
	ScrapeHandler     *scrape.Handler
	GithubHandler     *github.Handler
	AdaptationHandler *adaptations.Handler
}

// Build prepares dependencies and the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	sharedauth.SetSecret(cfg.JWTSecret)
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	llmClient, err := buildLLM(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		LLM:    llmClient,
	}
	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:            app.Config,
		AuthHandler:       app.AuthHandler,
		GoogleAuth:        app.GoogleAuth,
		UsersHandler:      app.UsersHandler,
		ResumesHandler:    app.ResumesHandler,
		ScrapeHandler:     app.ScrapeHandler,
		GithubHandler:     app.GithubHandler,
		AdaptationHandler: app.AdaptationHandler,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Info("bootstrap.memory_repos", map[string]any{
				"reason": "DATABASE_URL empty",
			})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Error("bootstrap.db_connect_failed", map[string]any{
				"error": err.Error(),
			})
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.Store, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
	default:
		return localstore.New(cfg.LocalStoreDir)
	}
}

// buildLLM selects the AI provider. A missing key in dev falls back to the
// heuristic pipeline rather than failing startup.
func buildLLM(ctx context.Context, cfg config.Config) (llm.Client, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.LLMProvider)) {
	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if strings.TrimSpace(apiKey) == "" {
			if isDevLike(cfg.Env) {
				telemetry.Info("bootstrap.llm_disabled", map[string]any{
					"reason": "OPENAI_API_KEY empty",
				})
				return nil, nil
			}
			return nil, fmt.Errorf("OPENAI_API_KEY is required")
		}
		model := cfg.LLMModel
		if strings.TrimSpace(model) == "" {
			model = "gpt-4o-mini"
		}
		return openai.NewClient(apiKey, model)
	case "gemini":
		apiKey := os.Getenv("GEMINI_API_KEY")
		if strings.TrimSpace(apiKey) == "" {
			if isDevLike(cfg.Env) {
				telemetry.Info("bootstrap.llm_disabled", map[string]any{
					"reason": "GEMINI_API_KEY empty",
				})
				return nil, nil
			}
			return nil, fmt.Errorf("GEMINI_API_KEY is required")
		}
		return gemini.NewClient(ctx, apiKey, cfg.LLMModel)
	case "", "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown LLM_PROVIDER %q", cfg.LLMProvider)
	}
}

func buildServices(app *App) {
	if app.DB != nil {
		app.UsersRepo = &users.PGRepo{DB: app.DB}
		app.ResumesRepo = &resumes.PGRepo{DB: app.DB}
		app.AdaptationsRepo = &adaptations.PGRepo{DB: app.DB}
		app.GithubRepos = &github.PGRepoStore{DB: app.DB}
	} else {
		app.UsersRepo = users.NewMemoryRepo()
		app.ResumesRepo = resumes.NewMemoryRepo()
		app.AdaptationsRepo = adaptations.NewMemoryRepo()
		app.GithubRepos = github.NewMemoryRepoStore()
	}

	cfg := app.Config
	tokenTTL := time.Duration(cfg.TokenTTLMinutes) * time.Minute

	app.UsersService = users.NewService(app.UsersRepo)
	app.AuthService = auth.NewService(app.UsersRepo, tokenTTL)
	app.ResumesService = &resumes.Service{Store: app.Store, Repo: app.ResumesRepo}
	app.GithubService = github.NewService(
		github.NewAPIClient(cfg.GithubClientID, cfg.GithubClientSecret, cfg.GithubRedirectURL),
		app.GithubRepos,
		app.UsersService,
	)
	app.AdaptationsService = &adaptations.Service{
		Resumes:  app.ResumesService,
		Repo:     app.AdaptationsRepo,
		Store:    app.Store,
		LLM:      app.LLM,
		Projects: app.GithubService,
	}

	app.AuthHandler = auth.NewHandler(app.AuthService)
	app.GoogleAuth = auth.NewGoogleService(app.AuthService,
		cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL, cfg.UIRedirectURL)
	app.UsersHandler = users.NewHandler(app.UsersService)
	app.ResumesHandler = resumes.NewHandler(app.ResumesService)
	app.ScrapeHandler = scrape.NewHandler(scrape.NewScraper(), app.LLM)
	app.GithubHandler = github.NewHandler(app.GithubService, cfg.UIRedirectURL)
	app.AdaptationHandler = adaptations.NewHandler(app.AdaptationsService)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
