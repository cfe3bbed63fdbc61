package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bookbridge.io/bookbridge/internal/pkg/logger"
)

// Health handles GET /health, the liveness probe.
func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready handles GET /health/ready. A cheap count doubles as the store
// connectivity check.
func (s *Server) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := map[string]string{"store": "ok"}
	status, overall := http.StatusOK, "ok"
	if _, err := s.stores.Accounts.Count(ctx); err != nil {
		logger.Warn("readiness store check failed", zap.Error(err))
		checks["store"] = "error"
		status, overall = http.StatusServiceUnavailable, "degraded"
	}

	c.JSON(status, gin.H{"status": overall, "checks": checks})
}
