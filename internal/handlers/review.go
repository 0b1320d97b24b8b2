package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/unitrack/portal/internal/services"
	"github.com/unitrack/portal/pkg/response"
)

// ProjectDetail returns a project with its submissions, timeline and what the
// reviewer may do next.
// GET /api/projects/:id
func (h *Handler) ProjectDetail(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	out, err := h.portal.Reviews.Detail(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, out)
}

// ApproveProposal
// POST /api/projects/:id/approve
func (h *Handler) ApproveProposal(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	out, err := h.portal.Reviews.Approve(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, out)
}

// RejectProposal requires a comment, which is shown to the student verbatim.
// POST /api/projects/:id/reject
func (h *Handler) RejectProposal(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req services.RejectRequest
	if !bindJSON(c, &req) {
		return
	}
	out, err := h.portal.Reviews.Reject(c.Request.Context(), id, &req)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, out)
}
