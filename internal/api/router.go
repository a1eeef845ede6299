package api

import (
	"context"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/growthzi/dashboard/internal/api/handler"
	"github.com/growthzi/dashboard/internal/api/middleware"
	"github.com/growthzi/dashboard/internal/core/domain"
	"github.com/growthzi/dashboard/internal/core/ports"
)

// Deps is everything the router wires into handlers.
type Deps struct {
	Sessions ports.SessionManager
	Sites    ports.SiteService
	Admin    ports.AdminService
	Notices  ports.NoticeQueue
	// Checks are the readiness dependencies beyond the session itself.
	Checks   map[string]handler.Checker
	Logger   zerolog.Logger

	// Registry receives the HTTP metrics and serves /metrics. Nil means the
	// process-wide default registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Logger))
	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if d.Registry != nil {
		registerer, gatherer = d.Registry, d.Registry
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:                 "dashboard",
		Registerer:                registerer,
		DoNotUseRequestPathFor404: true,
	}))
	e.Use(middleware.Session(d.Sessions))

	authHandler := handler.NewAuthHandler(d.Sessions, d.Notices)
	siteHandler := handler.NewSiteHandler(d.Sites, d.Notices)
	adminHandler := handler.NewAdminHandler(d.Admin, d.Notices)

	// --- Public ---
	e.GET("/login", authHandler.LoginPage)
	e.POST("/login", authHandler.Login)
	e.GET("/signup", authHandler.SignupPage)
	e.POST("/signup", authHandler.Signup)
	e.POST("/logout", authHandler.Logout)
	e.GET("/session", authHandler.Session)

	// --- Any authenticated user ---
	signedIn := middleware.Guard(d.Sessions, d.Notices)
	e.GET("/", siteHandler.Dashboard, signedIn)
	e.GET("/website/:id/edit", siteHandler.Editor, signedIn)
	e.PUT("/website/:id", siteHandler.Save, signedIn)
	e.DELETE("/website/:id", siteHandler.Delete, signedIn)

	// --- Creators ---
	e.POST("/websites/generate", siteHandler.Generate, middleware.Guard(d.Sessions, d.Notices, domain.RoleAdmin, domain.RoleEditor))

	// --- Administrators ---
	admin := e.Group("/admin", middleware.Guard(d.Sessions, d.Notices, domain.RoleAdmin))
	admin.GET("", adminHandler.View)
	admin.PUT("/users/:id/role", adminHandler.ChangeRole)
	admin.POST("/users/:id/promote", adminHandler.Promote)
	admin.POST("/users/:id/demote", adminHandler.Demote)

	// --- Ops (no auth required) ---
	checks := map[string]handler.Checker{"session": handler.SessionReady(d.Sessions)}
	for name, c := range d.Checks {
		checks[name] = c
	}
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(checks)

	e.GET("/health", healthHandler.Liveness)            // liveness: is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness: are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}

// WatchSession feeds session transitions to fn until ctx is done.
func WatchSession(ctx context.Context, sessions ports.SessionManager, fn func(<-chan domain.Snapshot)) {
	ch, cancel := sessions.Subscribe()
	go func() {
		<-ctx.Done()
		cancel()
	}()
	go fn(ch)
}
