package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"garmentpos/internal/infrastructure/storage/postgres"
)

// Pinger abstracts optional dependencies (Redis) for readiness checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles liveness and readiness probes.
type HealthHandler struct {
	pool  *postgres.Pool
	cache Pinger
}

// NewHealthHandler creates a health handler. cache may be nil.
func NewHealthHandler(pool *postgres.Pool, cache Pinger) *HealthHandler {
	return &HealthHandler{pool: pool, cache: cache}
}

// Live handles GET /health/live.
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready handles GET /health/ready. Database connectivity is required;
// the cache is optional and only reported.
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	checks := gin.H{}
	status := http.StatusOK

	if err := h.pool.Ping(ctx); err != nil {
		checks["database"] = "down: " + err.Error()
		status = http.StatusServiceUnavailable
	} else {
		checks["database"] = "ok"
	}

	if h.cache != nil {
		if err := h.cache.Ping(ctx); err != nil {
			checks["cache"] = "down: " + err.Error()
		} else {
			checks["cache"] = "ok"
		}
	}

	c.JSON(status, gin.H{"status": checks})
}
