package main

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/unitrack/portal/internal/apitest"
	"github.com/unitrack/portal/internal/config"
	"github.com/unitrack/portal/internal/handlers"
	"github.com/unitrack/portal/internal/middleware"
	"github.com/unitrack/portal/internal/models"
	"github.com/unitrack/portal/internal/services"
	"github.com/unitrack/portal/internal/store"
)

type envelope struct {
	Code     int             `json:"code"`
	Message  string          `json:"message"`
	Data     json.RawMessage `json:"data"`
	Redirect string          `json:"redirect"`
}

type gateway struct {
	router *gin.Engine
	api    *apitest.Server
	svc    *appServices
}

func newGateway(t *testing.T) *gateway {
	t.Helper()
	gin.SetMode(gin.TestMode)
	api := apitest.New(t)

	cfg := config.DefaultConfig()
	cfg.API.BaseURL = api.URL
	cfg.API.RateLimitRPS = 0
	portal, err := services.NewPortal(context.Background(), &cfg.API, store.NewMemoryKV(), &services.Recorder{})
	if err != nil {
		t.Fatalf("NewPortal() error = %v", err)
	}
	svc := &appServices{
		cfg:     cfg,
		portal:  portal,
		handler: handlers.New(portal, nil),
		limiter: middleware.NewRateLimiter(1000, 1000),
	}
	t.Cleanup(svc.shutdown)

	r := gin.New()
	registerRoutes(r, svc)
	return &gateway{router: r, api: api, svc: svc}
}

func (g *gateway) do(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, _ := http.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return g.serve(t, req)
}

func (g *gateway) serve(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	g.router.ServeHTTP(w, req)
	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s %s: decode response: %v", req.Method, req.URL.Path, err)
		}
	}
	return w, env
}

func (g *gateway) login(t *testing.T, role models.Role, email string) apitest.Account {
	t.Helper()
	a := g.api.AddAccount(apitest.Account{
		FullName: "Test " + string(role),
		Email:    email,
		Password: "password1",
		Role:     role,
		Approved: true,
	})
	w, _ := g.do(t, http.MethodPost, "/api/auth/login", gin.H{"email": a.Email, "password": a.Password})
	if w.Code != http.StatusOK {
		t.Fatalf("login: expected %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}
	return a
}

func TestHealth(t *testing.T) {
	g := newGateway(t)
	w, _ := g.do(t, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Errorf("expected %d, got %d", http.StatusOK, w.Code)
	}
	if !strings.Contains(w.Body.String(), `"storage":"memory"`) {
		t.Errorf("unexpected health body %s", w.Body.String())
	}
}

func TestLogin_RedirectsAndReportsState(t *testing.T) {
	g := newGateway(t)
	a := g.api.AddAccount(apitest.Account{FullName: "Dr. Bello", Email: "bello@uni.test", Password: "password1", Role: models.RoleSupervisor, Approved: true})

	w, env := g.do(t, http.MethodPost, "/api/auth/login", gin.H{"email": a.Email, "password": a.Password})
	if w.Code != http.StatusOK || env.Redirect != services.PathSupervisorDashboard {
		t.Fatalf("login = %d redirect %q, expected 200 redirect %q", w.Code, env.Redirect, services.PathSupervisorDashboard)
	}

	_, env = g.do(t, http.MethodGet, "/api/state", nil)
	var state services.State
	if err := json.Unmarshal(env.Data, &state); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	if state.Session.User == nil || state.Session.User.ID != a.ID {
		t.Errorf("expected user %d in state, got %+v", a.ID, state.Session.User)
	}
	if state.Gate.IsReadOnly {
		t.Error("a signed-in supervisor is not read-only")
	}
	if state.TokenExpiry == nil {
		t.Error("state should report the access token expiry")
	}
}

func TestLogin_ValidationErrorsPerField(t *testing.T) {
	g := newGateway(t)
	w, env := g.do(t, http.MethodPost, "/api/auth/login", gin.H{"email": "nope", "password": "password1"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected %d, got %d", http.StatusBadRequest, w.Code)
	}
	var fields map[string]string
	_ = json.Unmarshal(env.Data, &fields)
	if fields["email"] != "Invalid email address." {
		t.Errorf("unexpected field errors %v", fields)
	}
	if g.api.TotalCalls() != 0 {
		t.Error("an invalid form must not reach the API")
	}
}

func TestGuest_ReadsButCannotMutate(t *testing.T) {
	g := newGateway(t)
	w, env := g.do(t, http.MethodPost, "/api/auth/guest-login", gin.H{"role": "supervisor"})
	if w.Code != http.StatusOK || env.Redirect != services.PathSupervisorDashboard {
		t.Fatalf("guest login = %d redirect %q", w.Code, env.Redirect)
	}

	before := g.api.TotalCalls()
	w, _ = g.do(t, http.MethodPost, "/api/projects/1/reject", gin.H{"comment": "no"})
	if w.Code != http.StatusForbidden {
		t.Errorf("guest reject: expected %d, got %d", http.StatusForbidden, w.Code)
	}
	w, _ = g.do(t, http.MethodPost, "/api/auth/signup/student", gin.H{"full_name": "Ada Obi"})
	if w.Code != http.StatusForbidden {
		t.Errorf("guest signup: expected %d, got %d", http.StatusForbidden, w.Code)
	}
	if g.api.TotalCalls() != before {
		t.Error("refused operations must not reach the API")
	}

	w, _ = g.do(t, http.MethodGet, "/api/admin/supervisors", nil)
	if w.Code != http.StatusOK {
		t.Errorf("guest read: expected %d, got %d", http.StatusOK, w.Code)
	}

	w, env = g.do(t, http.MethodPost, "/api/auth/logout", nil)
	if w.Code != http.StatusOK || env.Redirect != services.PathLogin {
		t.Errorf("logout = %d redirect %q", w.Code, env.Redirect)
	}
}

func TestExpiredSession_RedirectsToLogin(t *testing.T) {
	g := newGateway(t)
	g.login(t, models.RoleStudent, "ada@uni.test")
	g.api.ExpireSession()

	w, env := g.do(t, http.MethodGet, "/api/student/project", nil)
	if w.Code != http.StatusUnauthorized || env.Redirect != services.PathLogin {
		t.Fatalf("expected 401 with redirect %q, got %d %q", services.PathLogin, w.Code, env.Redirect)
	}
	if g.svc.portal.Users.Snapshot().Authenticated() {
		t.Error("the portal should have signed out")
	}
}

func TestStudent_CreateAndSubmit(t *testing.T) {
	g := newGateway(t)
	g.login(t, models.RoleStudent, "ada@uni.test")

	w, _ := g.do(t, http.MethodPost, "/api/student/submissions", nil)
	if w.Code != http.StatusConflict {
		t.Errorf("submit without project: expected %d, got %d", http.StatusConflict, w.Code)
	}

	w, _ = g.do(t, http.MethodPost, "/api/student/projects", gin.H{"title": "Bus tracker", "description": "GPS"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create project: expected %d, got %d: %s", http.StatusCreated, w.Code, w.Body.String())
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, _ := mw.CreateFormFile("file", "proposal.pdf")
	_, _ = part.Write([]byte("%PDF proposal"))
	_ = mw.Close()
	req, _ := http.NewRequest(http.MethodPost, "/api/student/submissions", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	w, env := g.serve(t, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("submit: expected %d, got %d: %s", http.StatusCreated, w.Code, w.Body.String())
	}
	var out struct {
		Submission models.Submission   `json:"submission"`
		Progress   store.ProgressState `json:"progress"`
	}
	if err := json.Unmarshal(env.Data, &out); err != nil {
		t.Fatalf("decode submission: %v", err)
	}
	if out.Submission.Milestone != models.MilestoneProposal || out.Progress.CurrentStage != models.MilestoneChapterOne {
		t.Errorf("unexpected submit result %+v", out)
	}
	uploads := g.api.Uploads()
	if len(uploads) != 1 || string(uploads[0].Content) != "%PDF proposal" {
		t.Errorf("upload did not reach the API intact: %+v", uploads)
	}
}

func TestSupervisor_RejectNeedsComment(t *testing.T) {
	g := newGateway(t)
	student := g.api.AddAccount(apitest.Account{FullName: "Ada", Email: "ada@uni.test", Role: models.RoleStudent})
	p := g.api.AddProject(student.ID, "Library app", "")
	g.api.AddSubmission(models.Submission{ProjectID: p.ID, Milestone: models.MilestoneProposal, Version: 1})
	g.login(t, models.RoleSupervisor, "sup@uni.test")

	path := "/api/projects/" + itoa(p.ID) + "/reject"
	w, _ := g.do(t, http.MethodPost, path, gin.H{"comment": "  "})
	if w.Code != http.StatusBadRequest {
		t.Errorf("blank comment: expected %d, got %d", http.StatusBadRequest, w.Code)
	}

	w, env := g.do(t, http.MethodPost, path, gin.H{"comment": "Please add a literature review"})
	if w.Code != http.StatusOK {
		t.Fatalf("reject: expected %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}
	if !strings.Contains(string(env.Data), "Please add a literature review") {
		t.Errorf("rejection comment missing from refetched detail: %s", env.Data)
	}
}

func TestRequestID_ForwardedUpstream(t *testing.T) {
	g := newGateway(t)
	g.login(t, models.RoleStudent, "ada@uni.test")

	req, _ := http.NewRequest(http.MethodGet, "/api/student/projects", nil)
	req.Header.Set(middleware.RequestIDHeader, "trace-7")
	w, _ := g.serve(t, req)
	if w.Header().Get(middleware.RequestIDHeader) != "trace-7" {
		t.Errorf("expected the request id to be echoed, got %q", w.Header().Get(middleware.RequestIDHeader))
	}
	if got := g.api.LastRequestID(); got != "trace-7" {
		t.Errorf("expected upstream request id trace-7, got %q", got)
	}
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
