package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/unitrack/portal/pkg/response"
)

// Health reports liveness and whether the session storage answers.
// GET /health
func (h *Handler) Health(c *gin.Context) {
	status, storage := "healthy", "memory"
	code := http.StatusOK
	if h.storage != nil {
		storage = "ok"
		if err := h.storage.Ping(c.Request.Context()); err != nil {
			storage = "error: " + err.Error()
			status = "unhealthy"
			code = http.StatusServiceUnavailable
		}
	}
	c.JSON(code, gin.H{
		"status":  status,
		"service": "unitrack-portal",
		"components": gin.H{
			"storage": storage,
		},
	})
}

// State returns everything the UI renders from: session, guest gate,
// milestone tracker, academic session and access token expiry.
// GET /api/state
func (h *Handler) State(c *gin.Context) {
	response.Success(c, h.portal.State())
}
