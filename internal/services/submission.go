package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/unitrack/portal/internal/apiclient"
	"github.com/unitrack/portal/internal/gate"
	"github.com/unitrack/portal/internal/models"
	"github.com/unitrack/portal/internal/review"
	"github.com/unitrack/portal/pkg/logger"
)

// ErrNotRejected refuses a resubmission for a milestone whose latest
// version was not rejected.
var ErrNotRejected = errors.New("only a rejected milestone can be resubmitted")

const msgNoFile = "Please select a file before submitting"

// Submissions lists the signed-in student's submissions.
func (s *ProjectService) Submissions(ctx context.Context) ([]models.Submission, error) {
	return s.api.Submissions(ctx)
}

// SubmitCurrent uploads file for the tracker's current milestone and moves the
// tracker on once the server has stored it.
func (s *ProjectService) SubmitCurrent(ctx context.Context, file apiclient.Upload) (*models.Submission, error) {
	var sub models.Submission
	err := s.gate.Guard(gate.OpSubmitMilestone, func() error {
		projectID, err := s.progress.RequireProject()
		if err != nil {
			return err
		}
		if file.Content == nil {
			return newFieldError("file", msgNoFile)
		}

		stage := s.progress.CurrentStage()
		sub, err = s.api.CreateSubmission(ctx, projectID, stage, file)
		return err
	})
	if err != nil {
		return nil, err
	}

	next := s.progress.AdvanceStage()
	logger.Info().
		Int64("project_id", sub.ProjectID).
		Str("milestone", string(sub.Milestone)).
		Int("version", sub.Version).
		Str("next_stage", string(next)).
		Msg("milestone submitted")
	return &sub, nil
}

// Resubmit uploads a new version of a milestone whose latest version was
// rejected. The server assigns the version; the tracker does not move.
func (s *ProjectService) Resubmit(ctx context.Context, milestone models.Milestone, file apiclient.Upload) (*models.Submission, error) {
	var sub models.Submission
	err := s.gate.Guard(gate.OpResubmitMilestone, func() error {
		if milestone.Index() < 0 {
			return newFieldError("milestone", fmt.Sprintf("Unknown milestone %q.", milestone))
		}
		projectID, err := s.progress.RequireProject()
		if err != nil {
			return err
		}
		if file.Content == nil {
			return newFieldError("file", msgNoFile)
		}

		all, err := s.api.Submissions(ctx)
		if err != nil {
			return err
		}
		var own []models.Submission
		for _, candidate := range all {
			if candidate.ProjectID == projectID {
				own = append(own, candidate)
			}
		}
		latest := review.Latest(own, milestone)
		if latest == nil || !latest.IsRejected {
			return ErrNotRejected
		}

		sub, err = s.api.CreateSubmission(ctx, projectID, milestone, file)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Info().
		Int64("project_id", sub.ProjectID).
		Str("milestone", string(sub.Milestone)).
		Int("version", sub.Version).
		Msg("milestone resubmitted")
	return &sub, nil
}
