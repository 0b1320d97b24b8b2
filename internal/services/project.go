package services

import (
	"context"
	"strings"

	"github.com/unitrack/portal/internal/apiclient"
	"github.com/unitrack/portal/internal/gate"
	"github.com/unitrack/portal/internal/models"
	"github.com/unitrack/portal/internal/store"
	"github.com/unitrack/portal/pkg/logger"
	"github.com/unitrack/portal/pkg/response"
)

// ProjectService covers a student's own project and its milestone uploads.
type ProjectService struct {
	api      *apiclient.Client
	progress *store.Progress
	gate     *gate.Gate
}

func NewProjectService(api *apiclient.Client, progress *store.Progress, g *gate.Gate) *ProjectService {
	return &ProjectService{api: api, progress: progress, gate: g}
}

type CreateProjectRequest struct {
	Title       string `json:"title" validate:"notblank"`
	Description string `json:"description" validate:"notblank"`
}

// Create registers the student's project and makes it the tracker's active
// project.
func (s *ProjectService) Create(ctx context.Context, req *CreateProjectRequest) (*models.Project, error) {
	var created models.Project
	err := s.gate.Guard(gate.OpCreateProject, func() error {
		if err := validateStruct(req, messages{
			"title.notblank":       "All fields are required.",
			"description.notblank": "All fields are required.",
		}); err != nil {
			return err
		}

		p, err := s.api.CreateProject(ctx, strings.TrimSpace(req.Title), strings.TrimSpace(req.Description))
		if err != nil {
			return err
		}
		created = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.progress.SetProjectID(created.ID)
	logger.Info().Int64("project_id", created.ID).Msg("project created")
	return &created, nil
}

// Current returns the signed-in student's project, or nil when there is
// none yet, and restores the tracker from the project's submissions.
func (s *ProjectService) Current(ctx context.Context) (*models.Project, error) {
	projects, err := s.api.Projects(ctx)
	if response.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(projects) == 0 {
		return nil, nil
	}
	p := projects[0]

	subs, err := s.api.Submissions(ctx)
	if err != nil && !response.IsNotFound(err) {
		return nil, err
	}
	s.progress.Restore(p.ID, subs)
	return &p, nil
}

func (s *ProjectService) List(ctx context.Context) ([]models.Project, error) {
	return s.api.Projects(ctx)
}
