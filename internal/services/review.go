package services

import (
	"context"
	"errors"
	"sync"

	"github.com/unitrack/portal/internal/apiclient"
	"github.com/unitrack/portal/internal/gate"
	"github.com/unitrack/portal/internal/models"
	"github.com/unitrack/portal/internal/review"
	"github.com/unitrack/portal/pkg/logger"
)

// ErrActionInProgress refuses a review action while another is in flight.
var ErrActionInProgress = errors.New("a review action is already in progress")

// ReviewService runs supervisor verdicts on proposals. It keeps no copy of a
// project: every result is a fresh fetch.
type ReviewService struct {
	api  *apiclient.Client
	gate *gate.Gate

	mu      sync.Mutex
	loading bool
}

func NewReviewService(api *apiclient.Client, g *gate.Gate) *ReviewService {
	return &ReviewService{api: api, gate: g}
}

// ProjectReview is a project with its submissions and what a reviewer can do
// with it.
type ProjectReview struct {
	Project  models.ProjectDetail `json:"project"`
	Review   review.Projection    `json:"review"`
	Timeline []review.Step        `json:"timeline"`
}

type RejectRequest struct {
	Comment string `json:"comment" validate:"notblank"`
}

// Detail fetches a project and projects its review state.
func (s *ReviewService) Detail(ctx context.Context, projectID int64) (*ProjectReview, error) {
	detail, err := s.api.ProjectDetail(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return &ProjectReview{
		Project:  detail,
		Review:   review.Project(detail.Status, detail.Submissions),
		Timeline: review.Timeline(detail.Submissions),
	}, nil
}

// ActionLoading reports whether a verdict is being sent.
func (s *ReviewService) ActionLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *ReviewService) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loading {
		return ErrActionInProgress
	}
	s.loading = true
	return nil
}

func (s *ReviewService) end() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
}

// Approve accepts the project's latest proposal and returns the refetched
// project.
func (s *ReviewService) Approve(ctx context.Context, projectID int64) (*ProjectReview, error) {
	var out *ProjectReview
	err := s.gate.Guard(gate.OpApproveProposal, func() error {
		var err error
		out, err = s.act(ctx, projectID, apiclient.ProposalApprove, "")
		return err
	})
	return out, err
}

// Reject turns down the latest proposal with a comment that is sent exactly
// as written.
func (s *ReviewService) Reject(ctx context.Context, projectID int64, req *RejectRequest) (*ProjectReview, error) {
	var out *ProjectReview
	err := s.gate.Guard(gate.OpRejectProposal, func() error {
		if err := validateStruct(req, messages{
			"comment.notblank": "Please provide a reason for rejection.",
		}); err != nil {
			return err
		}
		var err error
		out, err = s.act(ctx, projectID, apiclient.ProposalReject, req.Comment)
		return err
	})
	return out, err
}

func (s *ReviewService) act(ctx context.Context, projectID int64, action apiclient.ProposalAction, comment string) (*ProjectReview, error) {
	if err := s.begin(); err != nil {
		return nil, err
	}
	defer s.end()

	if err := s.api.ReviewProposal(ctx, projectID, action, comment); err != nil {
		logger.Warn().Err(err).Int64("project_id", projectID).Str("action", string(action)).Msg("proposal action failed")
		return nil, err
	}
	logger.Info().Int64("project_id", projectID).Str("action", string(action)).Msg("proposal reviewed")
	return s.Detail(ctx, projectID)
}
