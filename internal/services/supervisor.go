package services

import (
	"context"

	"github.com/unitrack/portal/internal/apiclient"
	"github.com/unitrack/portal/internal/gate"
	"github.com/unitrack/portal/internal/models"
	"github.com/unitrack/portal/pkg/logger"
)

// SupervisorService is a supervisor's view of the students under them.
type SupervisorService struct {
	api  *apiclient.Client
	gate *gate.Gate
}

func NewSupervisorService(api *apiclient.Client, g *gate.Gate) *SupervisorService {
	return &SupervisorService{api: api, gate: g}
}

func (s *SupervisorService) Students(ctx context.Context, supervisorID int64) ([]models.Student, error) {
	return s.api.SupervisorStudents(ctx, supervisorID)
}

func (s *SupervisorService) Student(ctx context.Context, supervisorID, studentID int64) (*models.Student, error) {
	st, err := s.api.SupervisorStudent(ctx, supervisorID, studentID)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// RejectStudent releases a student from supervision.
func (s *SupervisorService) RejectStudent(ctx context.Context, studentID int64) error {
	return s.gate.Guard(gate.OpRejectStudent, func() error {
		if err := s.api.RejectStudent(ctx, studentID); err != nil {
			return err
		}
		logger.Info().Int64("student_id", studentID).Msg("student rejected")
		return nil
	})
}

// StudentService serves student profiles.
type StudentService struct {
	api *apiclient.Client
}

func NewStudentService(api *apiclient.Client) *StudentService {
	return &StudentService{api: api}
}

func (s *StudentService) Profile(ctx context.Context, studentID int64) (*models.Student, error) {
	st, err := s.api.Student(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return &st, nil
}
