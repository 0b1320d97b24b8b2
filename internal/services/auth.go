package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/unitrack/portal/internal/models"
	"github.com/unitrack/portal/internal/store"
	"github.com/unitrack/portal/pkg/logger"
)

var ErrUnknownRole = errors.New("Unknown role. Please contact support.")

type AuthService struct {
	portal *Portal
}

func NewAuthService(p *Portal) *AuthService {
	return &AuthService{portal: p}
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,haslower"`
}

type GuestLoginRequest struct {
	Role models.Role `json:"role" validate:"required,oneof=student supervisor admin"`
}

// LoginResult is the signed-in user and the dashboard to open.
type LoginResult struct {
	User     models.User `json:"user"`
	Redirect string      `json:"redirect"`
}

// DashboardFor returns the landing page of role.
func DashboardFor(role models.Role) (string, error) {
	switch role {
	case models.RoleAdmin:
		return PathAdminDashboard, nil
	case models.RoleSupervisor:
		return PathSupervisorDashboard, nil
	case models.RoleStudent:
		return PathStudentDashboard, nil
	default:
		return "", ErrUnknownRole
	}
}

// Login signs in with credentials. The session is only stored for a role the
// portal knows how to serve.
func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*LoginResult, error) {
	if err := validateStruct(req, nil); err != nil {
		return nil, err
	}

	user, err := s.portal.API.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	redirect, err := DashboardFor(user.Role)
	if err != nil {
		logger.Warn().Str("role", string(user.Role)).Msg("login returned an unknown role")
		return nil, err
	}

	s.portal.Progress.Reset()
	if err := s.portal.Users.Replace(ctx, sessionFor(user, false, "")); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	logger.Info().Int64("user_id", user.ID).Str("role", string(user.Role)).Msg("signed in")
	return &LoginResult{User: user, Redirect: redirect}, nil
}

// GuestLogin starts a read-only session acting as req.Role. The landing page
// always follows the selected role.
func (s *AuthService) GuestLogin(ctx context.Context, req *GuestLoginRequest) (*LoginResult, error) {
	if err := validateStruct(req, messages{
		"role.required": "Choose a role to explore as.",
		"role.oneof":    "Choose a role to explore as.",
	}); err != nil {
		return nil, err
	}

	serverUser, err := s.portal.API.GuestLogin(ctx, req.Role)
	if err != nil {
		return nil, err
	}
	user := normalizeGuest(serverUser, req.Role)

	s.portal.Progress.Reset()
	if err := s.portal.Users.Replace(ctx, sessionFor(user, true, req.Role)); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	redirect, _ := DashboardFor(req.Role)
	logger.Info().Str("role", string(req.Role)).Msg("signed in as guest")
	return &LoginResult{User: user, Redirect: redirect}, nil
}

// normalizeGuest keeps the server's role when it is one the portal knows and
// falls back to the selected role otherwise.
func normalizeGuest(u models.User, selected models.Role) models.User {
	if _, ok := models.ParseRole(string(u.Role)); !ok {
		u.Role = selected
	}
	if u.FullName == "" {
		u.FullName = "Guest " + string(selected)
	}
	return u
}

func sessionFor(u models.User, guest bool, role models.Role) store.SessionState {
	return store.SessionState{User: &u, IsGuest: guest, GuestRole: role}
}

// Logout forgets the session, its cookies and every session-scoped store.
func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.portal.resetLocal(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	logger.Info().Msg("signed out")
	return nil
}
