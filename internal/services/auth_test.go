package services

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/unitrack/portal/internal/apiclient"
	"github.com/unitrack/portal/internal/models"
	"github.com/unitrack/portal/internal/store"
)

func TestDashboardFor(t *testing.T) {
	tests := []struct {
		role     models.Role
		expected string
		err      error
	}{
		{models.RoleAdmin, PathAdminDashboard, nil},
		{models.RoleSupervisor, PathSupervisorDashboard, nil},
		{models.RoleStudent, PathStudentDashboard, nil},
		{models.Role("registrar"), "", ErrUnknownRole},
	}

	for _, tt := range tests {
		got, err := DashboardFor(tt.role)
		if got != tt.expected || !errors.Is(err, tt.err) {
			t.Errorf("DashboardFor(%q) = (%q, %v), expected (%q, %v)", tt.role, got, err, tt.expected, tt.err)
		}
	}
}

func TestAuth_LoginRedirectsByRole(t *testing.T) {
	h := newHarness(t)
	sup := h.account(models.RoleSupervisor, "sup@uni.test")

	res, err := h.portal.Auth.Login(context.Background(), &LoginRequest{Email: sup.Email, Password: sup.Password})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if res.Redirect != PathSupervisorDashboard {
		t.Errorf("expected %s, got %s", PathSupervisorDashboard, res.Redirect)
	}
	st := h.portal.Users.Snapshot()
	if st.IsGuest || st.User == nil || st.User.ID != sup.ID {
		t.Errorf("unexpected session: %+v", st)
	}
}

func TestAuth_LoginUnknownRoleStoresNothing(t *testing.T) {
	h := newHarness(t)
	a := h.account(models.Role("registrar"), "reg@uni.test")

	_, err := h.portal.Auth.Login(context.Background(), &LoginRequest{Email: a.Email, Password: a.Password})
	if !errors.Is(err, ErrUnknownRole) {
		t.Fatalf("expected ErrUnknownRole, got %v", err)
	}
	if h.portal.Users.Snapshot().Authenticated() {
		t.Error("an unknown role must not be signed in")
	}
}

func TestAuth_LoginValidationSkipsNetwork(t *testing.T) {
	h := newHarness(t)
	tests := []struct {
		req   LoginRequest
		field string
		msg   string
	}{
		{LoginRequest{Email: "not-an-email", Password: "password1"}, "email", "Invalid email address."},
		{LoginRequest{Email: "a@uni.test", Password: "short1"}, "password", "Password must be at least 8 characters."},
		{LoginRequest{Email: "a@uni.test", Password: "PASSWORD1"}, "password", "Password must contain a lowercase letter."},
	}

	for _, tt := range tests {
		_, err := h.portal.Auth.Login(context.Background(), &tt.req)
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("%+v: expected ValidationError, got %v", tt.req, err)
			continue
		}
		if got := verr.Fields[tt.field]; got != tt.msg {
			t.Errorf("%+v: %s message = %q, expected %q", tt.req, tt.field, got, tt.msg)
		}
	}
	if got := h.api.TotalCalls(); got != 0 {
		t.Errorf("invalid forms must not reach the network, saw %d calls", got)
	}
}

func TestAuth_GuestLoginNormalizesUser(t *testing.T) {
	h := newHarness(t)

	res, err := h.portal.Auth.GuestLogin(context.Background(), &GuestLoginRequest{Role: models.RoleSupervisor})
	if err != nil {
		t.Fatalf("GuestLogin() error = %v", err)
	}
	if res.Redirect != PathSupervisorDashboard {
		t.Errorf("expected %s, got %s", PathSupervisorDashboard, res.Redirect)
	}
	if res.User.FullName != "Guest supervisor" {
		t.Errorf("expected default guest name, got %q", res.User.FullName)
	}
	st := h.portal.Users.Snapshot()
	if !st.IsGuest || st.GuestRole != models.RoleSupervisor {
		t.Errorf("unexpected guest state: %+v", st)
	}
	if !h.portal.Gate.IsReadOnly() {
		t.Error("guest sessions are read-only")
	}
}

func TestAuth_GuestLoginFallsBackToSelectedRole(t *testing.T) {
	h := newHarness(t)
	h.api.FailNext(http.MethodPost, "/api/guest-login/", http.StatusOK, gin.H{
		"message": "ok",
		"user":    gin.H{"id": 5, "role": "visitor", "full_name": "Visitor"},
	})

	res, err := h.portal.Auth.GuestLogin(context.Background(), &GuestLoginRequest{Role: models.RoleStudent})
	if err != nil {
		t.Fatalf("GuestLogin() error = %v", err)
	}
	if res.User.Role != models.RoleStudent || res.User.FullName != "Visitor" {
		t.Errorf("unexpected normalized user: %+v", res.User)
	}
	if res.Redirect != PathStudentDashboard {
		t.Errorf("expected %s, got %s", PathStudentDashboard, res.Redirect)
	}
}

func TestAuth_LogoutClearsEverything(t *testing.T) {
	h := newHarness(t)
	student := h.account(models.RoleStudent, "ada@uni.test")
	h.login(t, student)
	h.portal.Progress.SetProjectID(9)
	h.portal.Progress.AdvanceStage()
	h.portal.Academic.Set(models.AcademicSession{Session: "2024/2025"})

	if err := h.portal.Auth.Logout(context.Background()); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if h.portal.Users.Snapshot().Authenticated() {
		t.Error("session should be anonymous")
	}
	if got := h.portal.Progress.CurrentStage(); got != models.MilestoneProposal {
		t.Errorf("tracker should restart at proposal, got %s", got)
	}
	if _, ok := h.portal.Academic.Current(); ok {
		t.Error("academic session should be cleared")
	}
	if _, ok := h.portal.API.Jar().Value(apiclient.AccessCookieName); ok {
		t.Error("cookies should be dropped")
	}
	if _, err := h.kv.Get(context.Background(), store.UserStorageKey); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("persisted session should be deleted, got %v", err)
	}
}
