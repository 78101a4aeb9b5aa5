package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether the artifact store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// BuildInfo describes the running binary
type BuildInfo struct {
	Version   string `json:"version"`
	BuildTime string `json:"build_time"`
	GitCommit string `json:"git_commit"`
}

// HealthHandler serves liveness and version endpoints
type HealthHandler struct {
	store  Pinger
	driver string
	build  BuildInfo
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(store Pinger, driver string, build BuildInfo) *HealthHandler {
	return &HealthHandler{store: store, driver: driver, build: build}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	body := gin.H{
		"status":     "healthy",
		"service":    "vibehouse",
		"database":   h.driver,
		"version":    h.build.Version,
		"build_time": h.build.BuildTime,
		"git_commit": h.build.GitCommit,
	}

	if err := h.store.Ping(ctx); err != nil {
		body["status"] = "unhealthy"
		body["error"] = err.Error()
		c.JSON(http.StatusServiceUnavailable, body)
		return
	}

	c.JSON(http.StatusOK, body)
}

// Version handles GET /version
func (h *HealthHandler) Version(c *gin.Context) {
	c.JSON(http.StatusOK, h.build)
}
