package services

import (
	"context"

	"github.com/unitrack/portal/internal/apiclient"
	"github.com/unitrack/portal/internal/gate"
	"github.com/unitrack/portal/internal/models"
	"github.com/unitrack/portal/internal/store"
	"github.com/unitrack/portal/pkg/logger"
)

// SessionService keeps the academic session store in step with the API.
type SessionService struct {
	api      *apiclient.Client
	academic *store.Academic
	gate     *gate.Gate
}

func NewSessionService(api *apiclient.Client, academic *store.Academic, g *gate.Gate) *SessionService {
	return &SessionService{api: api, academic: academic, gate: g}
}

type CreateSessionRequest struct {
	Session   string `json:"session" validate:"notblank"`
	Duration  string `json:"duration" validate:"notblank"`
	StartDate string `json:"start_date" validate:"notblank"`
	EndDate   string `json:"end_date" validate:"notblank"`
}

var allFieldsRequired = messages{
	"session.notblank":    "All fields are required.",
	"duration.notblank":   "All fields are required.",
	"start_date.notblank": "All fields are required.",
	"end_date.notblank":   "All fields are required.",
}

// Fetch loads the running session into the store. A response without a
// session leaves the store as it was.
func (s *SessionService) Fetch(ctx context.Context) (*models.AcademicSession, error) {
	current, ok, err := s.api.AcademicSession(ctx)
	if err != nil {
		return nil, err
	}
	if ok {
		s.academic.Set(current)
	}
	if cur, ok := s.academic.Current(); ok {
		return &cur, nil
	}
	return nil, nil
}

func (s *SessionService) Current() (*models.AcademicSession, bool) {
	cur, ok := s.academic.Current()
	if !ok {
		return nil, false
	}
	return &cur, true
}

// Create opens a new academic session and adopts it locally.
func (s *SessionService) Create(ctx context.Context, req *CreateSessionRequest) (*models.AcademicSession, error) {
	var created models.AcademicSession
	err := s.gate.Guard(gate.OpCreateSession, func() error {
		if err := validateStruct(req, allFieldsRequired); err != nil {
			return err
		}
		created = models.AcademicSession{
			Session:   req.Session,
			Duration:  req.Duration,
			StartDate: req.StartDate,
			EndDate:   req.EndDate,
		}
		return s.api.CreateAcademicSession(ctx, created)
	})
	if err != nil {
		return nil, err
	}
	s.academic.Set(created)
	logger.Info().Str("session", created.Session).Msg("academic session created")
	return &created, nil
}
