package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kosarica/catalog-service/internal/database"
)

// Pinger is a collaborator whose connectivity is reported by the health check
type Pinger interface {
	Ping(ctx context.Context) error
}

var recoveryPinger Pinger

// InitHealth registers the recovery cache backend checked by HealthCheck.
// A nil pinger reports the cache as in-process.
func InitHealth(recovery Pinger) {
	recoveryPinger = recovery
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Recovery string `json:"recovery"`
}

// HealthCheck handles the health check endpoint
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func HealthCheck(c *gin.Context) {
	response := HealthResponse{
		Status: "ok",
	}
	ctx := c.Request.Context()
	status := http.StatusOK

	// Check database connection
	if database.Pool() != nil {
		if err := database.Status(ctx); err != nil {
			response.Database = "disconnected"
			status = http.StatusServiceUnavailable
		} else {
			response.Database = "connected"
		}
	} else {
		response.Database = "not configured"
	}

	if recoveryPinger != nil {
		if err := recoveryPinger.Ping(ctx); err != nil {
			response.Recovery = "disconnected"
			status = http.StatusServiceUnavailable
		} else {
			response.Recovery = "connected"
		}
	} else {
		response.Recovery = "in-process"
	}

	if status != http.StatusOK {
		response.Status = "degraded"
	}
	c.JSON(status, response)
}
