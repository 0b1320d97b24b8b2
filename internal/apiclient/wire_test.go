package apiclient

import (
	"encoding/json"
	"testing"

	"github.com/unitrack/portal/internal/models"
)

func TestRefID_AcceptsNumbersStringsAndObjects(t *testing.T) {
	tests := map[string]int64{
		`12`:                       12,
		`"34"`:                     34,
		`{"id": 56, "title": "x"}`: 56,
		`null`:                     0,
		`""`:                       0,
	}

	for input, expected := range tests {
		var r refID
		if err := json.Unmarshal([]byte(input), &r); err != nil {
			t.Errorf("%s: unexpected error %v", input, err)
			continue
		}
		if int64(r) != expected {
			t.Errorf("%s: got %d, expected %d", input, r, expected)
		}
	}
}

func TestSubmissionMapping_DefaultsAndExclusiveVerdicts(t *testing.T) {
	var dto submissionDTO
	body := `{"id": 9, "project": 3, "milestone": "proposal", "file": "/media/p.pdf",
		"is_approved": true, "is_rejected": true, "rejection_comment": "Redo"}`
	if err := json.Unmarshal([]byte(body), &dto); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	sub := dto.toSubmission()
	if sub.ProjectID != 3 {
		t.Errorf("expected project id 3, got %d", sub.ProjectID)
	}
	if sub.Version != 1 {
		t.Errorf("missing version should default to 1, got %d", sub.Version)
	}
	if sub.FileURL != "/media/p.pdf" {
		t.Errorf("expected file fallback, got %q", sub.FileURL)
	}
	if sub.IsApproved || !sub.IsRejected {
		t.Errorf("approved and rejected must not both hold: %+v", sub)
	}
	if !sub.SubmittedAt.IsZero() {
		t.Errorf("missing time should be zero, got %v", sub.SubmittedAt)
	}
}

func TestProjectMapping(t *testing.T) {
	var dto projectDTO
	body := `{"id": 4, "title": "T", "student": {"id": 7, "full_name": "S"}, "supervisor": null,
		"created_at": "2024-10-01T09:30:00Z",
		"submissions": [{"id": 1, "milestone": "proposal", "version": 2}]}`
	if err := json.Unmarshal([]byte(body), &dto); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	detail := dto.toDetail()
	if detail.StudentID != 7 || detail.SupervisorID != 0 {
		t.Errorf("unexpected references: student %d supervisor %d", detail.StudentID, detail.SupervisorID)
	}
	if detail.Status != models.StatusProposalPending {
		t.Errorf("missing status should default to pending, got %q", detail.Status)
	}
	if detail.CreatedAt.IsZero() {
		t.Error("expected created_at to parse")
	}
	if len(detail.Submissions) != 1 || detail.Submissions[0].ProjectID != 4 {
		t.Errorf("nested submissions should inherit the project id: %+v", detail.Submissions)
	}
}

func TestStudentMapping_Supervisor(t *testing.T) {
	var list studentsDTO
	body := `[
		{"id": 1, "full_name": "A", "supervisor": null},
		{"id": 2, "full_name": "B", "supervisor": {"id": 5, "full_name": "Dr. C", "is_approved": true}},
		{"id": 3, "full_name": "D", "supervisor": 6}
	]`
	if err := json.Unmarshal([]byte(body), &list); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	students := list.toStudents()
	if students[0].Supervisor != nil {
		t.Errorf("expected no supervisor, got %+v", students[0].Supervisor)
	}
	if s := students[1].Supervisor; s == nil || s.ID != 5 || s.FullName != "Dr. C" {
		t.Errorf("unexpected embedded supervisor: %+v", s)
	}
	if s := students[2].Supervisor; s == nil || s.ID != 6 {
		t.Errorf("unexpected bare supervisor id: %+v", s)
	}
	if students[0].Role != models.RoleStudent {
		t.Errorf("missing role should default to student, got %q", students[0].Role)
	}
}

func TestDecodeAcademicSession(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		ok      bool
		session string
	}{
		{"list", `[{"session": "2024/2025", "duration": "1 year"}, {"session": "old"}]`, true, "2024/2025"},
		{"object", `{"session": "2025/2026"}`, true, "2025/2026"},
		{"empty list", `[]`, false, ""},
		{"no session field", `{"detail": "none"}`, false, ""},
		{"empty body", ``, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, ok, err := decodeAcademicSession([]byte(tt.body))
			if err != nil {
				t.Fatalf("unexpected error %v", err)
			}
			if ok != tt.ok || s.Session != tt.session {
				t.Errorf("got (%q, %v), expected (%q, %v)", s.Session, ok, tt.session, tt.ok)
			}
		})
	}
}
