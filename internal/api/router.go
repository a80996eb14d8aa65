package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/ballotbox/ballot/internal/api/handler"
	"github.com/ballotbox/ballot/internal/api/middleware"
	"github.com/ballotbox/ballot/internal/backend"
	"github.com/ballotbox/ballot/internal/core/domain"
)

// Deps are the services the router mounts.
type Deps struct {
	Auth      *backend.AuthService
	Election  *backend.ElectionService
	JWTSecret string
	Log       zerolog.Logger
	// DisableRequestLog turns off the access log, e.g. in tests.
	DisableRequestLog bool
}

// NewRouter builds and returns the Echo instance with all routes registered.
// The voting API lives under /api; probes and metrics sit at the root.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	if !deps.DisableRequestLog {
		e.Use(echomiddleware.Logger())
	}
	// HTTP metrics go to a registry owned by this router so several routers
	// can coexist in one process; /metrics serves it alongside the default one.
	reg := prometheus.NewRegistry()
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "ballot_mock",
		Registerer: reg,
	}))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	candidateHandler := handler.NewCandidateHandler(deps.Election)
	voteHandler := handler.NewVoteHandler(deps.Election)
	requireAuth := middleware.Auth(deps.JWTSecret, deps.Auth)
	requireAdmin := middleware.RBAC(domain.RoleAdmin)

	api := e.Group("/api")

	// --- Auth routes ---
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/logout", authHandler.Logout, requireAuth)
	api.GET("/auth/me", authHandler.Me, requireAuth)
	api.POST("/auth/refresh", authHandler.Refresh, requireAuth)

	// --- Roster (public reads) ---
	api.GET("/candidates", candidateHandler.List)
	api.GET("/candidates/:id", candidateHandler.Get)

	// --- Ballot box ---
	api.GET("/votes/results", voteHandler.Results)
	votes := api.Group("/votes", requireAuth)
	votes.POST("", voteHandler.Cast)
	votes.GET("/check", voteHandler.Check)
	votes.GET("/user", voteHandler.UserVote)

	// --- Admin ---
	admin := api.Group("/admin", requireAuth, requireAdmin)
	admin.POST("/candidates", candidateHandler.Create)
	admin.PUT("/candidates/:id", candidateHandler.Update)
	admin.DELETE("/candidates/:id", candidateHandler.Delete)

	// --- Health probes (no auth required) ---
	checks := map[string]handler.Checker{"vote_guard": deps.Election.Ready}
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(checks)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: prometheus.Gatherers{prometheus.DefaultGatherer, reg},
	}))

	return e
}
