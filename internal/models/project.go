package models

import "time"

// ProjectStatus is the server-owned review state of a project.
type ProjectStatus string

const (
	StatusProposalPending  ProjectStatus = "proposal_pending"
	StatusProposalApproved ProjectStatus = "proposal_approved"
	StatusProposalRejected ProjectStatus = "proposal_rejected"
)

// Project is owned by a student; supervisors change it only through proposal review.
type Project struct {
	ID           int64         `json:"id"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	Status       ProjectStatus `json:"status"`
	StudentID    int64         `json:"student_id"`
	SupervisorID int64         `json:"supervisor_id"`
	CreatedAt    time.Time     `json:"created_at"`
}

// ProjectDetail is a project together with all of its submissions.
type ProjectDetail struct {
	Project
	Submissions []Submission `json:"submissions"`
}
