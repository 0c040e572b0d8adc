package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/woundashare/report-service/internal/api/handler"
	"github.com/woundashare/report-service/internal/api/metrics"
	"github.com/woundashare/report-service/internal/api/middleware"
	"github.com/woundashare/report-service/internal/core/policy"
	"github.com/woundashare/report-service/internal/core/ports"
	"github.com/woundashare/report-service/internal/core/session"
	httphandlers "github.com/woundashare/report-service/internal/infrastructure/http/handlers"
)

const (
	defaultUploadLimit = "10M"
	loginScope         = "login"
)

// Dependencies are the collaborators the router mounts handlers over.
// Mongo, Redis and LoginLimiter are optional.
type Dependencies struct {
	Reports      ports.ReportService
	Sessions     *session.Manager
	Tokens       ports.TokenIssuer
	TokenTTL     time.Duration
	LoginLimiter middleware.Limiter
	Mongo        *mongo.Database
	Redis        *redis.Client
	Logger       zerolog.Logger
	UploadLimit  string

	// Registry receives the HTTP metrics. Nil means the default registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if deps.Registry != nil {
		registerer, gatherer = deps.Registry, deps.Registry
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "woundashare",
		Registerer: registerer,
	}))

	// --- Dependencies ---
	reports := metrics.InstrumentReportService(deps.Reports)
	authHandler := handler.NewAuthHandler(deps.Sessions, deps.Tokens, deps.TokenTTL)
	if resetter, ok := deps.LoginLimiter.(handler.LimitResetter); ok {
		authHandler.WithLimitReset(resetter, loginScope)
	}
	reportHandler := handler.NewReportHandler(reports)
	adminHandler := handler.NewAdminReportHandler(reports)
	routeHandler := handler.NewRouteHandler()

	requireAuth := middleware.Auth(deps.Tokens, deps.Sessions)
	optionalAuth := middleware.OptionalAuth(deps.Tokens, deps.Sessions)

	uploadLimit := deps.UploadLimit
	if uploadLimit == "" {
		uploadLimit = defaultUploadLimit
	}

	v1 := e.Group("/v1")

	// --- Auth routes ---
	auth := v1.Group("/auth")
	if deps.LoginLimiter != nil {
		auth.POST("/login", authHandler.Login, middleware.RateLimit(deps.LoginLimiter, loginScope, deps.Logger))
	} else {
		auth.POST("/login", authHandler.Login)
	}
	auth.POST("/register", authHandler.Register)
	auth.POST("/logout", authHandler.Logout, requireAuth)
	auth.GET("/me", authHandler.Me, requireAuth)

	v1.GET("/routes/resolve", routeHandler.Resolve, optionalAuth)

	// --- Patient routes ---
	v1.POST("/uploads", reportHandler.Upload, requireAuth, echomiddleware.BodyLimit(uploadLimit))

	r := v1.Group("/reports", requireAuth)
	r.POST("", reportHandler.Create)
	r.GET("", reportHandler.List)
	r.GET("/stats", reportHandler.Stats)
	r.GET("/:id", reportHandler.Get)

	// --- Admin routes ---
	admin := v1.Group("/admin", requireAuth, middleware.RequireRoute(policy.AdminRoute))
	admin.GET("/reports", adminHandler.List)
	admin.GET("/reports/:id", adminHandler.Get)
	admin.POST("/reports/:id/prescription", adminHandler.AttachPrescription)

	// --- Health probes (no auth required) ---
	healthHandler := httphandlers.NewHealthHandler()
	healthDepsHandler := httphandlers.NewHealthDependenciesHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Observability ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
