package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/unitrack/portal/internal/services"
	"github.com/unitrack/portal/pkg/response"
)

// AcademicSession refreshes and returns the running session, null if none.
// GET /api/academic-session
func (h *Handler) AcademicSession(c *gin.Context) {
	cur, err := h.portal.Sessions.Fetch(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, cur)
}

// CreateAcademicSession
// POST /api/academic-session
func (h *Handler) CreateAcademicSession(c *gin.Context) {
	var req services.CreateSessionRequest
	if !bindJSON(c, &req) {
		return
	}
	created, err := h.portal.Sessions.Create(c.Request.Context(), &req)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Created(c, created)
}
