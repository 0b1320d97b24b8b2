package store

import (
	"errors"
	"sync"

	"github.com/unitrack/portal/internal/models"
)

var ErrNoProject = errors.New("no project has been created yet")

// ProgressState is a read-only view of the tracker.
type ProgressState struct {
	ProjectID    *int64           `json:"project_id"`
	CurrentStage models.Milestone `json:"current_stage"`
	ActionLabel  string           `json:"action_label"`
}

// Progress tracks the active project and the next milestone the student has
// to submit. The stage only ever moves forward through models.Milestones.
type Progress struct {
	mu         sync.Mutex
	projectID  int64
	hasProject bool
	stage      models.Milestone
}

func NewProgress() *Progress {
	return &Progress{stage: models.MilestoneProposal}
}

func (p *Progress) ProjectID() (int64, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.projectID, p.hasProject
}

func (p *Progress) SetProjectID(id int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.projectID = id
	p.hasProject = true
}

// RequireProject returns the project id or ErrNoProject.
func (p *Progress) RequireProject() (int64, error) {
	id, ok := p.ProjectID()
	if !ok {
		return 0, ErrNoProject
	}
	return id, nil
}

func (p *Progress) CurrentStage() models.Milestone {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stage
}

// AdvanceStage moves to the next milestone and returns the new stage. It is a
// no-op at final_report.
func (p *Progress) AdvanceStage() models.Milestone {
	p.mu.Lock()
	defer p.mu.Unlock()
	if next, ok := p.stage.Next(); ok {
		p.stage = next
	}
	return p.stage
}

func (p *Progress) ActionLabel() string {
	return models.ActionLabel(p.CurrentStage())
}

// Restore adopts projectID and moves the stage forward to the milestone after
// the furthest one that already has a submission for that project. It never
// moves the stage backwards.
func (p *Progress) Restore(projectID int64, subs []models.Submission) {
	furthest := -1
	for _, s := range subs {
		if s.ProjectID != projectID {
			continue
		}
		if i := s.Milestone.Index(); i > furthest {
			furthest = i
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.projectID = projectID
	p.hasProject = true

	target := furthest + 1
	if target >= len(models.Milestones) {
		target = len(models.Milestones) - 1
	}
	if target > p.stage.Index() {
		p.stage = models.Milestones[target]
	}
}

// Reset returns to the initial state for a new session.
func (p *Progress) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.projectID = 0
	p.hasProject = false
	p.stage = models.MilestoneProposal
}

func (p *Progress) Snapshot() ProgressState {
	p.mu.Lock()
	defer p.mu.Unlock()
	st := ProgressState{CurrentStage: p.stage, ActionLabel: models.ActionLabel(p.stage)}
	if p.hasProject {
		id := p.projectID
		st.ProjectID = &id
	}
	return st
}
