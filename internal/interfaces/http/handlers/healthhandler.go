package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/merdocx/veilbot/internal/infrastructure/database"
)

type HealthHandler struct {
	startedAt time.Time
}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{startedAt: time.Now().UTC()}
}

// Check handles GET /health. Reports degraded instead of failing outright
// when the store is unreachable, so load balancers keep routing and the
// problem shows up in monitoring.
func (h *HealthHandler) Check(c *gin.Context) {
	status := "ok"
	code := http.StatusOK

	if db := database.Get(); db != nil {
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
	}

	c.JSON(code, gin.H{
		"status": status,
		"uptime": time.Since(h.startedAt).String(),
	})
}
