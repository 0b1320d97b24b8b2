package services

import (
	"context"
	"errors"
	"testing"

	"github.com/unitrack/portal/internal/models"
)

func TestSessions_FetchAndCreate(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.login(t, h.account(models.RoleAdmin, "admin@uni.test"))

	cur, err := h.portal.Sessions.Fetch(ctx)
	if err != nil || cur != nil {
		t.Fatalf("Fetch() with no session = (%+v, %v)", cur, err)
	}

	_, err = h.portal.Sessions.Create(ctx, &CreateSessionRequest{Session: "2024/2025", Duration: "1 year"})
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.First("session", "duration", "start_date", "end_date") != "All fields are required." {
		t.Fatalf("expected all-fields error, got %v", err)
	}

	created, err := h.portal.Sessions.Create(ctx, &CreateSessionRequest{
		Session: "2024/2025", Duration: "1 year", StartDate: "2024-09-01", EndDate: "2025-08-31",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if got, ok := h.portal.Sessions.Current(); !ok || *got != *created {
		t.Errorf("store should hold the created session, got %+v", got)
	}

	h.portal.Academic.Clear()
	cur, err = h.portal.Sessions.Fetch(ctx)
	if err != nil || cur == nil || cur.EndDate != "2025-08-31" {
		t.Errorf("Fetch() = (%+v, %v)", cur, err)
	}
}

func TestSignup_Validation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		req   StudentSignupRequest
		field string
		msg   string
	}{
		{"short name", StudentSignupRequest{FullName: "Al", MatricNo: "2021/297854", Email: "al@uni.test", Password: "password1"}, "full_name", "Full name must be at least 3 characters."},
		{"bad matric", StudentSignupRequest{FullName: "Ada Obi", MatricNo: "21/2978", Email: "ada@uni.test", Password: "password1"}, "matric_no", "Matric number must follow the format 2021/297854."},
		{"other department", StudentSignupRequest{FullName: "Ada Obi", MatricNo: "2021/297854", Email: "ada@uni.test", Department: "Physics", Password: "password1"}, "department", "Department must be Computer Science."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := h.portal.Signup.Student(ctx, &tt.req)
			var verr *ValidationError
			if !errors.As(err, &verr) || verr.Fields[tt.field] != tt.msg {
				t.Errorf("expected %s error %q, got %v", tt.field, tt.msg, err)
			}
		})
	}

	err := h.portal.Signup.Supervisor(ctx, &SupervisorSignupRequest{FullName: "Dr. Eze", StaffID: "ab-1", Email: "eze@uni.test", Password: "password1"})
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Fields["staff_id"] != "Staff ID must be alphanumeric." {
		t.Errorf("expected staff id error, got %v", err)
	}
	if got := h.api.TotalCalls(); got != 0 {
		t.Errorf("invalid signups must not reach the network, saw %d calls", got)
	}
}

func TestSignup_RegistersAndRejectsDuplicates(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	req := StudentSignupRequest{FullName: "Ada Obi", MatricNo: "2021/297854", Email: "ada@uni.test", Password: "password1"}

	if err := h.portal.Signup.Student(ctx, &req); err != nil {
		t.Fatalf("Student() error = %v", err)
	}
	dup := req
	err := h.portal.Signup.Student(ctx, &dup)
	if err == nil {
		t.Fatal("a duplicate email must be refused")
	}
}
