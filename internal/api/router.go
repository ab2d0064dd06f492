package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/fitpulse/session-agent/internal/api/handler"
	"github.com/fitpulse/session-agent/internal/api/middleware"
	"github.com/fitpulse/session-agent/internal/core/ports"
	"github.com/fitpulse/session-agent/internal/infrastructure/notify"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(manager ports.SessionManager, center *notify.Center, store ports.SessionStore, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("fitpulse_session"))

	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(manager)
	sessionHandler := handler.NewSessionHandler(manager)
	notificationHandler := handler.NewNotificationHandler(center)
	adminHandler := handler.NewAdminHandler(manager, center)

	// --- Session routes ---
	e.GET("/session", sessionHandler.Snapshot)
	e.PATCH("/session/identity", sessionHandler.UpdateIdentity)
	e.POST("/subscription/refresh", sessionHandler.RefreshSubscription)

	// --- Auth routes ---
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/signup", authHandler.Signup)
	e.POST("/auth/logout", authHandler.Logout)

	// --- Notifications ---
	e.GET("/notifications", notificationHandler.Recent)

	// --- Admin back office ---
	admin := e.Group("/admin", middleware.RequireAdmin(manager))
	admin.GET("/overview", adminHandler.Overview)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(store)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
