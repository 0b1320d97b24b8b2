package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/unitrack/portal/internal/apiclient"
	"github.com/unitrack/portal/internal/models"
	"github.com/unitrack/portal/internal/services"
	"github.com/unitrack/portal/pkg/response"
)

// CurrentProject returns the student's project, or null before one exists.
// GET /api/student/project
func (h *Handler) CurrentProject(c *gin.Context) {
	p, err := h.portal.Projects.Current(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, p)
}

// ListProjects
// GET /api/student/projects
func (h *Handler) ListProjects(c *gin.Context) {
	list, err := h.portal.Projects.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, list)
}

// CreateProject
// POST /api/student/projects
func (h *Handler) CreateProject(c *gin.Context) {
	var req services.CreateProjectRequest
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.portal.Projects.Create(c.Request.Context(), &req)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Created(c, p)
}

// ListSubmissions
// GET /api/student/submissions
func (h *Handler) ListSubmissions(c *gin.Context) {
	subs, err := h.portal.Projects.Submissions(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, subs)
}

// Submit uploads the multipart "file" for the tracker's current milestone.
// POST /api/student/submissions
func (h *Handler) Submit(c *gin.Context) {
	file, closeFile, err := formUpload(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	defer closeFile()

	sub, err := h.portal.Projects.SubmitCurrent(c.Request.Context(), file)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Response{
		Code:    0,
		Message: "created",
		Data: gin.H{
			"submission": sub,
			"progress":   h.portal.Progress.Snapshot(),
		},
	})
}

// Resubmit uploads a new version of a rejected milestone.
// POST /api/student/submissions/:milestone/resubmit
func (h *Handler) Resubmit(c *gin.Context) {
	file, closeFile, err := formUpload(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	defer closeFile()

	sub, err := h.portal.Projects.Resubmit(c.Request.Context(), models.Milestone(c.Param("milestone")), file)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Created(c, sub)
}

// formUpload opens the "file" form field. A request without one yields an
// empty Upload so the service reports the missing file.
func formUpload(c *gin.Context) (apiclient.Upload, func(), error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return apiclient.Upload{}, func() {}, nil
	}
	f, err := fh.Open()
	if err != nil {
		return apiclient.Upload{}, func() {}, err
	}
	return apiclient.Upload{FileName: fh.Filename, Content: f}, func() { _ = f.Close() }, nil
}
