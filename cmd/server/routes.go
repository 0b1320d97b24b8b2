package main

import (
	"github.com/gin-gonic/gin"
	"github.com/unitrack/portal/internal/middleware"
	"github.com/unitrack/portal/pkg/logger"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices) {
	h := svc.handler

	r.Use(middleware.RequestID(), logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS(svc.cfg.Server.AllowOrigins...))

	r.GET("/health", h.Health)

	api := r.Group("/api", svc.limiter.Middleware(), middleware.Audit(svc.actor))
	{
		api.GET("/state", h.State)

		auth := api.Group("/auth")
		{
			auth.POST("/login", h.Login)
			auth.POST("/guest-login", h.GuestLogin)
			auth.POST("/logout", h.Logout)
			auth.POST("/signup/student", h.SignupStudent)
			auth.POST("/signup/supervisor", h.SignupSupervisor)
		}

		// Guests may read below but not mutate.
		gated := api.Group("", middleware.ReadOnly(svc.portal.Gate))
		{
			gated.GET("/academic-session", h.AcademicSession)
			gated.POST("/academic-session", h.CreateAcademicSession)

			student := gated.Group("/student")
			{
				student.GET("/project", h.CurrentProject)
				student.GET("/projects", h.ListProjects)
				student.POST("/projects", h.CreateProject)
				student.GET("/submissions", h.ListSubmissions)
				student.POST("/submissions", h.Submit)
				student.POST("/submissions/:milestone/resubmit", h.Resubmit)
			}

			gated.GET("/projects/:id", h.ProjectDetail)
			gated.POST("/projects/:id/approve", h.ApproveProposal)
			gated.POST("/projects/:id/reject", h.RejectProposal)

			admin := gated.Group("/admin")
			{
				admin.GET("/pending", h.PendingSupervisors)
				admin.POST("/supervisors/:id/approve", h.ApproveSupervisor)
				admin.GET("/supervisors", h.Supervisors)
				admin.GET("/students", h.Students)
				admin.GET("/assigned-students", h.AssignedStudents)
				admin.GET("/selection", h.Selection)
				admin.POST("/selection/:id", h.ToggleStudent)
				admin.POST("/assign", h.Assign)
			}

			gated.GET("/supervisors/:id/students", h.SupervisorStudents)
			gated.GET("/supervisors/:id/students/:student_id", h.SupervisorStudent)
			gated.GET("/students/:id", h.StudentProfile)
			gated.POST("/students/:id/reject", h.RejectStudent)
		}
	}
}
