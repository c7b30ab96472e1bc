package handlers

import (
	"context"
	"net/http"
	"runtime"
	"sort"
	"time"

	"shelfsmart/internal/jobs"

	"github.com/labstack/echo/v4"
)

const healthCheckTimeout = 3 * time.Second

// Checker probes one dependency.
type Checker interface {
	Check(ctx context.Context) error
}

// CheckFunc adapts a function to Checker.
type CheckFunc func(ctx context.Context) error

func (f CheckFunc) Check(ctx context.Context) error { return f(ctx) }

// JobLister reports the scheduled background jobs.
type JobLister interface {
	Status() []jobs.JobStatus
}

// HealthHandlers handles health check and monitoring endpoints
type HealthHandlers struct {
	checks  map[string]Checker
	jobs    JobLister
	version string
	started time.Time
}

// NewHealthHandlers creates a new health handlers instance. jobs may be nil.
func NewHealthHandlers(checks map[string]Checker, jobs JobLister, version string) *HealthHandlers {
	return &HealthHandlers{checks: checks, jobs: jobs, version: version, started: time.Now()}
}

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status     string            `json:"status"`
	Timestamp  string            `json:"timestamp"`
	Services   map[string]string `json:"services"`
	Jobs       []jobs.JobStatus  `json:"jobs,omitempty"`
	Uptime     string            `json:"uptime"`
	Version    string            `json:"version"`
	Goroutines int               `json:"goroutines"`
}

// HealthCheck probes every dependency. A failing dependency degrades the
// status without failing the request.
func (h *HealthHandlers) HealthCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), healthCheckTimeout)
	defer cancel()

	health := &HealthStatus{
		Status:     "healthy",
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Services:   make(map[string]string, len(h.checks)),
		Uptime:     time.Since(h.started).Round(time.Second).String(),
		Version:    h.version,
		Goroutines: runtime.NumGoroutine(),
	}

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := h.checks[name].Check(ctx); err != nil {
			health.Services[name] = "unhealthy"
			health.Status = "degraded"
		} else {
			health.Services[name] = "healthy"
		}
	}
	if h.jobs != nil {
		health.Jobs = h.jobs.Status()
	}

	statusCode := http.StatusOK
	if health.Status == "degraded" {
		statusCode = http.StatusPartialContent
	}
	return c.JSON(statusCode, health)
}

// LivenessCheck determines if the application is running (basic liveness probe)
func (h *HealthHandlers) LivenessCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":    "alive",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
