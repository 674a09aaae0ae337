package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"crown-platform/backend/internal/api"
	"crown-platform/backend/internal/config"
	"crown-platform/backend/internal/jobs"
	"crown-platform/backend/internal/logging"
	"crown-platform/backend/internal/metrics"
	"crown-platform/backend/internal/middleware"
	"crown-platform/backend/internal/services"
	"crown-platform/backend/internal/workers"
	"crown-platform/backend/internal/ws"
)

// RegisterRoutes builds the router and starts the background machinery
// that hangs off the shared dependency graph.
func RegisterRoutes(cfg config.Config, sqlxDB *sqlx.DB, gormDB *gorm.DB, rdb *redis.Client, store services.ObjectStore, upSince time.Time) (http.Handler, error) {

	// initialize Chi router
	r := chi.NewRouter()

	metricsReg := metrics.NewMetricsRegistry()

	// global middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.RateLimitMiddleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Session-Id", "X-Request-ID"},
		ExposedHeaders:   []string{"Link", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	logging.Info("Router initialized with metrics and logging middleware")

	// health check and metrics scrape endpoint stay outside auth
	r.Get("/healthCheck", api.HealthCheckHandler(sqlxDB, rdb, upSince))
	r.Handle("/metrics", promhttp.Handler())

	deps, err := api.InitDependencies(cfg, sqlxDB, gormDB, rdb, store, metricsReg)
	if err != nil {
		return nil, err
	}

	handlers := api.NewHandlers(deps)

	// Event fan-out to connected browsers
	hub := ws.NewHub(deps.Services.Bus)
	go hub.Run()

	// Background machinery: session sweep, leaderboard warm cache,
	// contest lifecycle schedule
	workers.InitWorkers(
		context.Background(),
		deps.Services.Session,
		deps.Services.Bus,
		deps.Services.Contests,
		deps.Services.Leaderboard,
		metricsReg,
	)

	jobsContainer := jobs.InitializeJobs(context.Background(), deps.Services.Contests)
	jobsHandler := api.NewJobsHandler(jobsContainer.ContestLifecycle)

	RegisterAPIRoutes(r, cfg, metricsReg, handlers, jobsHandler, deps, hub)

	return r, nil
}
