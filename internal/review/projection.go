// Package review derives what a supervisor may do with a project from its
// submissions. Everything here is recomputed from scratch on each fetch.
package review

import (
	"sort"

	"github.com/unitrack/portal/internal/models"
)

// Banner is shown when the latest proposal was rejected.
type Banner struct {
	Version int    `json:"version"`
	Comment string `json:"comment"`
}

// Projection is the review-relevant view of one project.
type Projection struct {
	LatestProposal  *models.Submission `json:"latest_proposal"`
	Reviewable      bool               `json:"reviewable"`
	RejectionBanner *Banner            `json:"rejection_banner"`
}

// Project computes the projection for a project in status with subs.
func Project(status models.ProjectStatus, subs []models.Submission) Projection {
	latest := Latest(subs, models.MilestoneProposal)

	p := Projection{LatestProposal: latest}
	if latest == nil {
		return p
	}
	if latest.IsRejected {
		p.RejectionBanner = &Banner{Version: latest.Version, Comment: latest.RejectionComment}
	}
	p.Reviewable = status == models.StatusProposalPending && !latest.IsRejected
	return p
}

// Latest returns a copy of the highest-version submission for milestone, or nil.
func Latest(subs []models.Submission, milestone models.Milestone) *models.Submission {
	var latest *models.Submission
	for i := range subs {
		s := subs[i]
		if s.Milestone != milestone {
			continue
		}
		if latest == nil || s.Version > latest.Version {
			latest = &s
		}
	}
	return latest
}

// History returns the submissions for milestone ordered by ascending version.
func History(subs []models.Submission, milestone models.Milestone) []models.Submission {
	var out []models.Submission
	for _, s := range subs {
		if s.Milestone == milestone {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out
}

// Step is one milestone of a project's timeline.
type Step struct {
	Milestone models.Milestone   `json:"milestone"`
	Latest    *models.Submission `json:"latest"`
	Versions  int                `json:"versions"`
}

// Timeline lists every milestone in order with its latest submission.
func Timeline(subs []models.Submission) []Step {
	steps := make([]Step, 0, len(models.Milestones))
	for _, m := range models.Milestones {
		steps = append(steps, Step{
			Milestone: m,
			Latest:    Latest(subs, m),
			Versions:  len(History(subs, m)),
		})
	}
	return steps
}
