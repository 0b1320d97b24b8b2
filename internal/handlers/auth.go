package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/unitrack/portal/internal/services"
	"github.com/unitrack/portal/pkg/response"
)

// Login
// POST /api/auth/login
func (h *Handler) Login(c *gin.Context) {
	var req services.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.portal.Auth.Login(c.Request.Context(), &req)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Navigate(c, res.Redirect, res.User)
}

// GuestLogin starts a read-only session impersonating the chosen role.
// POST /api/auth/guest-login
func (h *Handler) GuestLogin(c *gin.Context) {
	var req services.GuestLoginRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.portal.Auth.GuestLogin(c.Request.Context(), &req)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Navigate(c, res.Redirect, res.User)
}

// Logout
// POST /api/auth/logout
func (h *Handler) Logout(c *gin.Context) {
	if err := h.portal.Auth.Logout(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}
	response.Navigate(c, services.PathLogin, nil)
}

// SignupStudent
// POST /api/auth/signup/student
func (h *Handler) SignupStudent(c *gin.Context) {
	var req services.StudentSignupRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.portal.Signup.Student(c.Request.Context(), &req); err != nil {
		h.fail(c, err)
		return
	}
	response.Navigate(c, services.PathLogin, gin.H{"message": "Signup successful. Please log in."})
}

// SignupSupervisor registers a supervisor, who must be approved before
// logging in.
// POST /api/auth/signup/supervisor
func (h *Handler) SignupSupervisor(c *gin.Context) {
	var req services.SupervisorSignupRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.portal.Signup.Supervisor(c.Request.Context(), &req); err != nil {
		h.fail(c, err)
		return
	}
	response.Navigate(c, services.PathLogin, gin.H{"message": "Signup successful. Your account is awaiting approval."})
}
