package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const healthCheckTimeout = 3 * time.Second

// Pinger is implemented by every backing service the health checks probe
type Pinger interface {
	Ping(ctx context.Context) error
}

// JobStatusProvider describes the background jobs
type JobStatusProvider interface {
	GetJobStatus() map[string]any
}

// HealthHandlers handles health check endpoints
type HealthHandlers struct {
	database Pinger
	cache    Pinger
	storage  Pinger
	jobs     JobStatusProvider
	version  string
	started  time.Time
	logger   *zap.Logger
}

// NewHealthHandlers creates a new health handlers instance. cache and storage
// may be nil when those services are not configured.
func NewHealthHandlers(database, cache, storage Pinger, version string, logger *zap.Logger) *HealthHandlers {
	return &HealthHandlers{
		database: database,
		cache:    cache,
		storage:  storage,
		version:  version,
		started:  time.Now(),
		logger:   logger,
	}
}

// WithJobs adds the background job status to readiness responses
func (h *HealthHandlers) WithJobs(jobs JobStatusProvider) *HealthHandlers {
	h.jobs = jobs
	return h
}

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Services  map[string]string `json:"services"`
	Uptime    string            `json:"uptime"`
	Version   string            `json:"version"`
}

func (h *HealthHandlers) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.HealthCheck)
	e.GET("/health/ready", h.ReadinessCheck)
	e.GET("/health/live", h.LivenessCheck)
}

func (h *HealthHandlers) check(ctx context.Context, name string, p Pinger) string {
	if p == nil {
		return "disabled"
	}
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()
	if err := p.Ping(ctx); err != nil {
		h.logger.Warn("health check failed", zap.String("service", name), zap.Error(err))
		return "unhealthy"
	}
	return "healthy"
}

// HealthCheck probes every dependency. Any failure degrades the status and
// answers 206 Partial Content.
func (h *HealthHandlers) HealthCheck(c echo.Context) error {
	ctx := c.Request().Context()
	health := &HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Services: map[string]string{
			"database": h.check(ctx, "database", h.database),
			"redis":    h.check(ctx, "redis", h.cache),
			"storage":  h.check(ctx, "storage", h.storage),
		},
		Version: h.version,
		Uptime:  time.Since(h.started).Round(time.Second).String(),
	}
	for _, status := range health.Services {
		if status == "unhealthy" {
			health.Status = "degraded"
		}
	}

	statusCode := http.StatusOK
	if health.Status == "degraded" {
		statusCode = http.StatusPartialContent
	}
	return c.JSON(statusCode, health)
}

// ReadinessCheck reports ready only when the database answers. Reports can
// still be served without the cache or object storage.
func (h *HealthHandlers) ReadinessCheck(c echo.Context) error {
	if h.check(c.Request().Context(), "database", h.database) != "healthy" {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status":  "not_ready",
			"message": "Database unavailable",
		})
	}
	resp := map[string]any{
		"status":  "ready",
		"message": "All systems operational",
	}
	if h.jobs != nil {
		resp["jobs"] = h.jobs.GetJobStatus()
	}
	return c.JSON(http.StatusOK, resp)
}

// LivenessCheck determines if the application is running
func (h *HealthHandlers) LivenessCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":    "alive",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
