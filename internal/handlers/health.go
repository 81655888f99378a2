package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/careerhub/careerhub/backend/internal/models"
	"github.com/careerhub/careerhub/backend/internal/services"
)

// HealthHandler provides the health check endpoint.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// CheckHealth returns the health status of all subsystems.
func (h *HealthHandler) CheckHealth(c *gin.Context) {
	overall := "healthy"

	// Database check
	dbStatus := "ok"
	sqlDB, err := models.GetDB().DB()
	if err != nil {
		dbStatus = "error: " + err.Error()
		overall = "unhealthy"
	} else if err := sqlDB.Ping(); err != nil {
		dbStatus = "error: " + err.Error()
		overall = "unhealthy"
	}

	// Queue mode
	taskQueue := services.GetTaskQueue()
	queueMode := "sync"
	if taskQueue != nil && taskQueue.IsAsync() {
		queueMode = "async (Redis)"
	}

	sseClients := services.GetPresenceHub().ClientCount()

	var openPositions int64
	models.GetDB().Model(&models.Position{}).
		Where("is_open = ?", true).
		Count(&openPositions)

	c.JSON(200, gin.H{
		"status":  overall,
		"service": "careerhub",
		"components": gin.H{
			"database":       dbStatus,
			"queue_mode":     queueMode,
			"sse_clients":    sseClients,
			"open_positions": openPositions,
		},
	})
}
