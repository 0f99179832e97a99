package http

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/talentlink/appcore/internal/core/session"
	redisdb "github.com/talentlink/appcore/internal/infrastructure/db/redis"
	"github.com/talentlink/appcore/internal/infrastructure/http/handlers"
	"github.com/talentlink/appcore/internal/tracker"
)

// NewRouter builds the daemon's Echo instance with all routes registered.
func NewRouter(rdb *redis.Client, sess *session.Store, rep *tracker.Reporter, feed *redisdb.LocationFeed) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// --- Global middleware ---
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(echoprometheus.NewMiddleware("trackerd"))

	// --- Health probes ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(rdb, sess)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Reporter status + metrics ---
	statusHandler := handlers.NewStatusHandler(rep, sess, feed)
	e.GET("/status", statusHandler.Status)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
