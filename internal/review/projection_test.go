package review

import (
	"testing"

	"github.com/unitrack/portal/internal/models"
)

func proposal(version int, rejected bool, comment string) models.Submission {
	return models.Submission{
		ID:               int64(version),
		ProjectID:        1,
		Milestone:        models.MilestoneProposal,
		Version:          version,
		IsRejected:       rejected,
		RejectionComment: comment,
	}
}

func TestProject_LatestRejectedIsNotReviewable(t *testing.T) {
	subs := []models.Submission{
		proposal(1, false, ""),
		proposal(3, true, "Please add a literature review"),
		proposal(2, false, ""),
	}

	statuses := []models.ProjectStatus{
		models.StatusProposalPending,
		models.StatusProposalApproved,
		models.StatusProposalRejected,
	}
	for _, status := range statuses {
		p := Project(status, subs)
		if p.LatestProposal == nil || p.LatestProposal.Version != 3 {
			t.Fatalf("%s: LatestProposal = %+v, expected version 3", status, p.LatestProposal)
		}
		if p.Reviewable {
			t.Errorf("%s: Reviewable = true, expected false for a rejected latest proposal", status)
		}
		if p.RejectionBanner == nil || p.RejectionBanner.Comment != "Please add a literature review" {
			t.Errorf("%s: RejectionBanner = %+v", status, p.RejectionBanner)
		}
	}
}

func TestProject_PendingWithFreshProposalIsReviewable(t *testing.T) {
	subs := []models.Submission{proposal(1, true, "too short"), proposal(2, false, "")}

	p := Project(models.StatusProposalPending, subs)
	if !p.Reviewable {
		t.Error("pending project with a non-rejected latest proposal should be reviewable")
	}
	if p.RejectionBanner != nil {
		t.Errorf("RejectionBanner = %+v, expected none for a resubmitted proposal", p.RejectionBanner)
	}
}

func TestProject_RequiresPendingStatusAndProposal(t *testing.T) {
	if p := Project(models.StatusProposalApproved, []models.Submission{proposal(1, false, "")}); p.Reviewable {
		t.Error("approved project should not be reviewable")
	}

	chapter := models.Submission{Milestone: models.MilestoneChapterOne, Version: 5}
	p := Project(models.StatusProposalPending, []models.Submission{chapter})
	if p.LatestProposal != nil || p.Reviewable || p.RejectionBanner != nil {
		t.Errorf("project without proposal: %+v", p)
	}
}

func TestLatest_ReturnsCopy(t *testing.T) {
	subs := []models.Submission{proposal(1, false, "")}
	latest := Latest(subs, models.MilestoneProposal)
	latest.Version = 99
	if subs[0].Version != 1 {
		t.Error("Latest should not alias the input slice")
	}
}

func TestHistoryAndTimeline(t *testing.T) {
	subs := []models.Submission{
		proposal(2, false, ""),
		proposal(1, true, "redo"),
		{Milestone: models.MilestoneChapterOne, Version: 1},
	}

	history := History(subs, models.MilestoneProposal)
	if len(history) != 2 || history[0].Version != 1 || history[1].Version != 2 {
		t.Errorf("History() = %+v", history)
	}

	steps := Timeline(subs)
	if len(steps) != len(models.Milestones) {
		t.Fatalf("Timeline() has %d steps, expected %d", len(steps), len(models.Milestones))
	}
	if steps[0].Versions != 2 || steps[0].Latest.Version != 2 {
		t.Errorf("proposal step = %+v", steps[0])
	}
	if steps[1].Latest == nil || steps[2].Latest != nil || steps[3].Latest != nil {
		t.Errorf("unexpected steps: %+v", steps)
	}
}
