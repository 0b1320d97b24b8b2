// Package services implements the portal's user-facing operations on top of
// the API client and the local stores.
package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/unitrack/portal/internal/apiclient"
	"github.com/unitrack/portal/internal/config"
	"github.com/unitrack/portal/internal/gate"
	"github.com/unitrack/portal/internal/models"
	"github.com/unitrack/portal/internal/store"
	"github.com/unitrack/portal/pkg/logger"
)

// Page paths a portal operation may send the viewer to.
const (
	PathLogin               = "/auth/login"
	PathAdminDashboard      = "/admin-dashboard"
	PathSupervisorDashboard = "/supervisor-dashboard"
	PathStudentDashboard    = "/student-dashboard"
)

// Navigator receives the page changes the portal decides on by itself, such as
// the jump to the login page when a session can no longer be refreshed.
type Navigator interface {
	Navigate(path string)
}

// Recorder is a Navigator that remembers where it was sent.
type Recorder struct {
	mu      sync.Mutex
	history []string
}

func (r *Recorder) Navigate(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.history = append(r.history, path)
}

// Last returns the most recent destination, or "".
func (r *Recorder) Last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.history) == 0 {
		return ""
	}
	return r.history[len(r.history)-1]
}

// History returns every destination in order.
func (r *Recorder) History() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.history...)
}

// Portal is one client instance: the session, its stores and the services
// operating on them. Build one per viewer; nothing here is global.
type Portal struct {
	Users    *store.UserStore
	Progress *store.Progress
	Academic *store.Academic
	Gate     *gate.Gate
	API      *apiclient.Client

	Auth        *AuthService
	Projects    *ProjectService
	Reviews     *ReviewService
	Admin       *AdminService
	Supervisors *SupervisorService
	Students    *StudentService
	Sessions    *SessionService
	Signup      *SignupService

	nav Navigator
}

// NewPortal restores the persisted session and cookies from kv (nil keeps
// everything in memory) and wires the services together.
func NewPortal(ctx context.Context, cfg *config.APIConfig, kv store.KV, nav Navigator) (*Portal, error) {
	if nav == nil {
		nav = &Recorder{}
	}
	users, err := store.NewUserStore(ctx, kv)
	if err != nil {
		return nil, err
	}
	jar, err := apiclient.NewJar(ctx, kv, cfg.BaseURL)
	if err != nil {
		return nil, err
	}

	p := &Portal{
		Users:    users,
		Progress: store.NewProgress(),
		Academic: store.NewAcademic(),
		Gate:     gate.New(users),
		nav:      nav,
	}
	p.API, err = apiclient.New(apiclient.Options{
		BaseURL:          cfg.BaseURL,
		Timeout:          cfg.Timeout(),
		RateLimitRPS:     cfg.RateLimitRPS,
		RateLimitBurst:   cfg.RateLimitBurst,
		Jar:              jar,
		OnSessionExpired: p.sessionExpired,
	})
	if err != nil {
		return nil, err
	}

	p.Auth = NewAuthService(p)
	p.Projects = NewProjectService(p.API, p.Progress, p.Gate)
	p.Reviews = NewReviewService(p.API, p.Gate)
	p.Admin = NewAdminService(p.API, p.Gate)
	p.Supervisors = NewSupervisorService(p.API, p.Gate)
	p.Students = NewStudentService(p.API)
	p.Sessions = NewSessionService(p.API, p.Academic, p.Gate)
	p.Signup = NewSignupService(p.API, p.Gate)
	return p, nil
}

// sessionExpired runs when a refresh fails: the viewer is signed out locally
// and sent to the login page.
func (p *Portal) sessionExpired(ctx context.Context) {
	if err := p.resetLocal(ctx); err != nil {
		logger.Warn().Err(err).Msg("failed to clear expired session")
	}
	p.nav.Navigate(PathLogin)
}

func (p *Portal) resetLocal(ctx context.Context) error {
	p.Progress.Reset()
	p.Academic.Clear()
	p.Admin.ClearSelection()
	return errors.Join(p.Users.Clear(ctx), p.API.Jar().Reset(ctx))
}

// State is everything a UI needs to render the current viewer.
type State struct {
	Session     store.SessionState      `json:"session"`
	Gate        gate.Snapshot           `json:"gate"`
	Progress    store.ProgressState     `json:"progress"`
	Academic    *models.AcademicSession `json:"academic_session"`
	TokenExpiry *time.Time              `json:"token_expires_at,omitempty"`
}

func (p *Portal) State() State {
	st := State{
		Session:  p.Users.Snapshot(),
		Gate:     p.Gate.Snapshot(),
		Progress: p.Progress.Snapshot(),
	}
	if s, ok := p.Academic.Current(); ok {
		st.Academic = &s
	}
	if exp, ok := p.API.AccessTokenExpiry(); ok {
		st.TokenExpiry = &exp
	}
	return st
}
