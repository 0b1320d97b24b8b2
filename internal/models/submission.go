package models

import (
	"strings"
	"time"
)

// Milestone is one of the fixed submission checkpoints of a project.
type Milestone string

const (
	MilestoneProposal    Milestone = "proposal"
	MilestoneChapterOne  Milestone = "chapter_one"
	MilestoneChapterTwo  Milestone = "chapter_two"
	MilestoneFinalReport Milestone = "final_report"
)

// Milestones is the fixed order every project passes through.
var Milestones = []Milestone{
	MilestoneProposal,
	MilestoneChapterOne,
	MilestoneChapterTwo,
	MilestoneFinalReport,
}

// ParseMilestone returns the milestone named by s and whether it is known.
func ParseMilestone(s string) (Milestone, bool) {
	for _, m := range Milestones {
		if string(m) == s {
			return m, true
		}
	}
	return "", false
}

// Index is the position of m in Milestones, or -1.
func (m Milestone) Index() int {
	for i, candidate := range Milestones {
		if candidate == m {
			return i
		}
	}
	return -1
}

// Next returns the milestone after m. At the last milestone, or for an
// unknown one, it returns m and false.
func (m Milestone) Next() (Milestone, bool) {
	i := m.Index()
	if i < 0 || i == len(Milestones)-1 {
		return m, false
	}
	return Milestones[i+1], true
}

// Humanize replaces underscores with spaces: "chapter_one" -> "chapter one".
func (m Milestone) Humanize() string {
	return strings.ReplaceAll(string(m), "_", " ")
}

// ActionLabel names the next action for a student at stage: a project has to
// exist before anything can be uploaded.
func ActionLabel(stage Milestone) string {
	if stage == MilestoneProposal {
		return "Create Project"
	}
	return "Submit " + stage.Humanize()
}

// Submission is one uploaded version of a milestone document. Older versions
// are immutable history; the highest version per milestone is authoritative.
type Submission struct {
	ID               int64     `json:"id"`
	ProjectID        int64     `json:"project_id"`
	Milestone        Milestone `json:"milestone"`
	Version          int       `json:"version"`
	FileURL          string    `json:"file_url"`
	SubmittedAt      time.Time `json:"submitted_at"`
	IsRead           bool      `json:"is_read"`
	IsApproved       bool      `json:"is_approved"`
	IsRejected       bool      `json:"is_rejected"`
	RejectionComment string    `json:"rejection_comment,omitempty"`
	Comment          string    `json:"comment,omitempty"`
}
