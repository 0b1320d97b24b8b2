package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/unitrack/portal/internal/apiclient"
	"github.com/unitrack/portal/internal/gate"
	"github.com/unitrack/portal/internal/models"
	"github.com/unitrack/portal/pkg/logger"
)

// MaxSelectedStudents caps how many students one assignment may cover.
const MaxSelectedStudents = 5

// Selection is the ordered set of students picked for the next assignment.
type Selection struct {
	mu  sync.Mutex
	ids []int64
}

// Toggle adds id, or removes it when already selected. Adding beyond the cap
// is ignored. It reports whether id is selected afterwards.
func (s *Selection) Toggle(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.ids {
		if existing == id {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			return false
		}
	}
	if len(s.ids) >= MaxSelectedStudents {
		return false
	}
	s.ids = append(s.ids, id)
	return true
}

func (s *Selection) IDs() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int64(nil), s.ids...)
}

// Remove drops ids that are no longer selectable.
func (s *Selection) Remove(ids ...int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.ids[:0]
	for _, existing := range s.ids {
		drop := false
		for _, id := range ids {
			if id == existing {
				drop = true
				break
			}
		}
		if !drop {
			kept = append(kept, existing)
		}
	}
	s.ids = kept
}

func (s *Selection) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = nil
}

// AdminService covers supervisor approval and student assignment.
type AdminService struct {
	api       *apiclient.Client
	gate      *gate.Gate
	selection Selection
}

func NewAdminService(api *apiclient.Client, g *gate.Gate) *AdminService {
	return &AdminService{api: api, gate: g}
}

type AssignRequest struct {
	SupervisorID int64 `json:"supervisor_id"`
}

// AssignResult reports a completed assignment.
type AssignResult struct {
	Supervisor models.Supervisor `json:"supervisor"`
	StudentIDs []int64           `json:"student_ids"`
	Message    string            `json:"message"`
}

func (s *AdminService) PendingSupervisors(ctx context.Context) ([]models.Supervisor, error) {
	return s.api.PendingSupervisors(ctx)
}

func (s *AdminService) Supervisors(ctx context.Context) ([]models.Supervisor, error) {
	return s.api.Supervisors(ctx)
}

func (s *AdminService) Students(ctx context.Context) ([]models.Student, error) {
	return s.api.Students(ctx)
}

func (s *AdminService) AssignedStudents(ctx context.Context) ([]models.Student, error) {
	return s.api.AssignedStudents(ctx)
}

func (s *AdminService) ApproveSupervisor(ctx context.Context, supervisorID int64) error {
	return s.gate.Guard(gate.OpApproveSupervisor, func() error {
		if err := s.api.ApproveSupervisor(ctx, supervisorID); err != nil {
			return err
		}
		logger.Info().Int64("supervisor_id", supervisorID).Msg("supervisor approved")
		return nil
	})
}

// ToggleStudent flips id in the assignment selection.
func (s *AdminService) ToggleStudent(id int64) (selected bool, err error) {
	err = s.gate.Guard(gate.OpToggleStudent, func() error {
		selected = s.selection.Toggle(id)
		return nil
	})
	return selected, err
}

func (s *AdminService) Selected() []int64 {
	return s.selection.IDs()
}

func (s *AdminService) ClearSelection() {
	s.selection.Clear()
}

// Assign gives the selected students to a supervisor and clears the
// selection on success.
func (s *AdminService) Assign(ctx context.Context, req *AssignRequest) (*AssignResult, error) {
	var out *AssignResult
	err := s.gate.Guard(gate.OpAssignSupervisor, func() error {
		if req.SupervisorID == 0 {
			return newFieldError("supervisor_id", "Choose a supervisor first.")
		}
		ids := s.selection.IDs()
		if len(ids) == 0 {
			return newFieldError("student_ids", "Choose students first.")
		}

		if err := s.api.AssignSupervisor(ctx, req.SupervisorID, ids); err != nil {
			return err
		}
		chosen := s.supervisorByID(ctx, req.SupervisorID)
		s.selection.Remove(ids...)
		out = &AssignResult{
			Supervisor: chosen,
			StudentIDs: ids,
			Message:    assignedMessage(chosen.FullName, len(ids)),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Info().Int64("supervisor_id", req.SupervisorID).Int("students", len(out.StudentIDs)).Msg("supervisor assigned")
	return out, nil
}

// supervisorByID is best effort: the assignment has already happened, so a
// failed lookup only costs the display name.
func (s *AdminService) supervisorByID(ctx context.Context, id int64) models.Supervisor {
	chosen := models.Supervisor{ID: id, FullName: "Supervisor"}
	supervisors, err := s.api.Supervisors(ctx)
	if err != nil {
		logger.Warn().Err(err).Int64("supervisor_id", id).Msg("supervisor lookup failed after assignment")
		return chosen
	}
	for _, sup := range supervisors {
		if sup.ID == id {
			return sup
		}
	}
	return chosen
}

func assignedMessage(name string, n int) string {
	noun := "student"
	if n > 1 {
		noun = "students"
	}
	return fmt.Sprintf("%s has been assigned to %d %s.", name, n, noun)
}
