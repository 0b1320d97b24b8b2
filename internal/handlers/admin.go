package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/unitrack/portal/internal/services"
	"github.com/unitrack/portal/pkg/response"
)

// PendingSupervisors
// GET /api/admin/pending
func (h *Handler) PendingSupervisors(c *gin.Context) {
	list, err := h.portal.Admin.PendingSupervisors(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, list)
}

// ApproveSupervisor
// POST /api/admin/supervisors/:id/approve
func (h *Handler) ApproveSupervisor(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.portal.Admin.ApproveSupervisor(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, gin.H{"message": "Supervisor approved"})
}

// Supervisors lists approved supervisors.
// GET /api/admin/supervisors
func (h *Handler) Supervisors(c *gin.Context) {
	list, err := h.portal.Admin.Supervisors(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, list)
}

// Students
// GET /api/admin/students
func (h *Handler) Students(c *gin.Context) {
	list, err := h.portal.Admin.Students(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, list)
}

// AssignedStudents
// GET /api/admin/assigned-students
func (h *Handler) AssignedStudents(c *gin.Context) {
	list, err := h.portal.Admin.AssignedStudents(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, list)
}

// Selection returns the students picked for the next assignment.
// GET /api/admin/selection
func (h *Handler) Selection(c *gin.Context) {
	response.Success(c, gin.H{
		"student_ids": h.portal.Admin.Selected(),
		"max":         services.MaxSelectedStudents,
	})
}

// ToggleStudent
// POST /api/admin/selection/:id
func (h *Handler) ToggleStudent(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	selected, err := h.portal.Admin.ToggleStudent(id)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, gin.H{
		"selected":    selected,
		"student_ids": h.portal.Admin.Selected(),
	})
}

// Assign gives the selected students to a supervisor.
// POST /api/admin/assign
func (h *Handler) Assign(c *gin.Context) {
	var req services.AssignRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.portal.Admin.Assign(c.Request.Context(), &req)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, res)
}
