package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/unitrack/portal/pkg/response"
)

// SupervisorStudents
// GET /api/supervisors/:id/students
func (h *Handler) SupervisorStudents(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	list, err := h.portal.Supervisors.Students(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, list)
}

// SupervisorStudent
// GET /api/supervisors/:id/students/:student_id
func (h *Handler) SupervisorStudent(c *gin.Context) {
	supervisorID, ok := paramID(c, "id")
	if !ok {
		return
	}
	studentID, ok := paramID(c, "student_id")
	if !ok {
		return
	}
	st, err := h.portal.Supervisors.Student(c.Request.Context(), supervisorID, studentID)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, st)
}

// RejectStudent
// POST /api/students/:id/reject
func (h *Handler) RejectStudent(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.portal.Supervisors.RejectStudent(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, gin.H{"message": "Student rejected"})
}

// StudentProfile
// GET /api/students/:id
func (h *Handler) StudentProfile(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	st, err := h.portal.Students.Profile(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, st)
}
