// Package apitest runs an in-process UniTrack API for tests. It issues JWT
// cookies the way the real API does, counts every call and can be scripted
// to fail specific requests.
package apitest

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/unitrack/portal/internal/models"
)

// Account is a user known to the fake API.
type Account struct {
	ID           int64
	FullName     string
	Email        string
	Password     string
	Role         models.Role
	StaffID      string
	MatricNo     string
	Department   string
	Approved     bool
	IsGuest      bool
	SupervisorID int64
	CreatedAt    time.Time
}

// ReviewCall is one recorded proposal action.
type ReviewCall struct {
	ProjectID  int64
	Action     string
	Comment    string
	HasComment bool
}

// UploadCall is one recorded submission upload.
type UploadCall struct {
	ProjectID int64
	Milestone string
	FileName  string
	Content   []byte
}

type failure struct {
	status int
	body   gin.H
}

type Server struct {
	URL string

	srv    *httptest.Server
	secret []byte

	mu           sync.Mutex
	nextID       int64
	accessGen    int
	refreshGen   int
	accessTTL    time.Duration
	refreshFails bool
	refreshDelay time.Duration
	calls        map[string]int
	lastReqID    string
	failures     map[string][]failure
	accounts     map[int64]*Account
	projects     map[int64]*models.Project
	submissions  []models.Submission
	session      *models.AcademicSession
	reviews      []ReviewCall
	uploads      []UploadCall
	assignments  map[int64][]int64
}

// New starts a fake API that shuts down with the test.
func New(t testing.TB) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := &Server{
		secret:      []byte("apitest-secret"),
		nextID:      100,
		accessTTL:   15 * time.Minute,
		calls:       make(map[string]int),
		failures:    make(map[string][]failure),
		accounts:    make(map[int64]*Account),
		projects:    make(map[int64]*models.Project),
		assignments: make(map[int64][]int64),
	}
	s.srv = httptest.NewServer(s.router())
	s.URL = s.srv.URL
	t.Cleanup(s.srv.Close)
	return s
}

// Close stops the server early, turning every later call into a network
// failure.
func (s *Server) Close() {
	s.srv.Close()
}

func (s *Server) router() *gin.Engine {
	r := gin.New()
	r.Use(s.record, s.scripted)

	r.POST("/api/login/", s.login)
	r.POST("/api/guest-login/", s.guestLogin)
	r.POST("/api/refresh/", s.refresh)
	r.POST("/api/signup/", s.signup)

	auth := r.Group("", s.authenticated)
	auth.GET("/api/projects/", s.listProjects)
	auth.POST("/api/projects/create/", s.createProject)
	auth.GET("/api/projects/:id/", s.projectDetail)
	auth.POST("/api/projects/:id/proposal/action/", s.proposalAction)
	auth.GET("/api/submissions/", s.listSubmissions)
	auth.POST("/api/submissions/create/", s.createSubmission)
	auth.GET("/projects/session/", s.getSession)
	auth.POST("/projects/session/", s.createSession)
	auth.GET("/api/pending", s.pendingSupervisors)
	auth.GET("/api/supervisors/", s.approvedSupervisors)
	auth.POST("/api/supervisors/:id/approve/", s.approveSupervisor)
	auth.GET("/api/supervisors/:id/students/", s.supervisorStudents)
	auth.GET("/api/supervisors/:id/students/:student_id/", s.supervisorStudent)
	auth.GET("/api/students/", s.listStudents)
	auth.GET("/api/students/:id/", s.studentDetail)
	auth.POST("/api/students/:id/reject/", s.rejectStudent)
	auth.GET("/api/assigned-students/", s.assignedStudents)
	auth.POST("/api/assign-supervisor/", s.assignSupervisor)
	return r
}

func callKey(method, path string) string {
	return method + " " + path
}

// Calls reports how many requests reached method and path, scripted
// failures included.
func (s *Server) Calls(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[callKey(method, path)]
}

// TotalCalls counts every request the server has seen.
// LastRequestID is the X-Request-ID header of the most recent call.
func (s *Server) LastRequestID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastReqID
}

func (s *Server) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		n += c
	}
	return n
}

// FailNext makes the next request to method and path answer with status and
// body instead of being handled.
func (s *Server) FailNext(method, path string, status int, body gin.H) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := callKey(method, path)
	s.failures[key] = append(s.failures[key], failure{status: status, body: body})
}

// ExpireAccessTokens revokes every access token issued so far; refresh
// tokens stay valid.
func (s *Server) ExpireAccessTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessGen++
}

// ExpireSession revokes access and refresh tokens alike.
func (s *Server) ExpireSession() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessGen++
	s.refreshGen++
}

// FailRefresh makes the refresh endpoint answer 401 while set.
func (s *Server) FailRefresh(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshFails = fail
}

// SetRefreshDelay slows the refresh endpoint down so concurrent callers
// overlap.
func (s *Server) SetRefreshDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshDelay = d
}

// SetAccessTTL changes the lifetime of access tokens issued from now on.
func (s *Server) SetAccessTTL(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessTTL = d
}

func (s *Server) id() int64 {
	s.nextID++
	return s.nextID
}

// AddAccount registers a, assigning an id when it has none.
func (s *Server) AddAccount(a Account) Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID == 0 {
		a.ID = s.id()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	stored := a
	s.accounts[a.ID] = &stored
	return a
}

// Account returns a copy of the account with id.
func (s *Server) Account(id int64) (Account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return Account{}, false
	}
	return *a, true
}

// AddProject stores a pending project owned by studentID.
func (s *Server) AddProject(studentID int64, title, description string) models.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addProjectLocked(studentID, title, description)
}

func (s *Server) addProjectLocked(studentID int64, title, description string) models.Project {
	p := models.Project{
		ID:          s.id(),
		Title:       title,
		Description: description,
		Status:      models.StatusProposalPending,
		StudentID:   studentID,
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
	}
	if student, ok := s.accounts[studentID]; ok {
		p.SupervisorID = student.SupervisorID
	}
	stored := p
	s.projects[p.ID] = &stored
	return p
}

// SetProjectStatus overrides a project's review status.
func (s *Server) SetProjectStatus(projectID int64, status models.ProjectStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.projects[projectID]; ok {
		p.Status = status
	}
}

// Project returns a copy of the stored project.
func (s *Server) Project(projectID int64) (models.Project, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[projectID]
	if !ok {
		return models.Project{}, false
	}
	return *p, true
}

// AddSubmission stores sub as given, assigning an id and a submit time.
func (s *Server) AddSubmission(sub models.Submission) models.Submission {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sub.ID == 0 {
		sub.ID = s.id()
	}
	if sub.SubmittedAt.IsZero() {
		sub.SubmittedAt = time.Now().UTC().Truncate(time.Second)
	}
	s.submissions = append(s.submissions, sub)
	return sub
}

// SetAcademicSession replaces the running academic session.
func (s *Server) SetAcademicSession(session models.AcademicSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = &session
}

// Reviews lists the proposal actions received so far.
func (s *Server) Reviews() []ReviewCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ReviewCall(nil), s.reviews...)
}

// Uploads lists the submission uploads received so far.
func (s *Server) Uploads() []UploadCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]UploadCall(nil), s.uploads...)
}

// Assignments reports the student ids last assigned to supervisorID.
func (s *Server) Assignments(supervisorID int64) []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int64(nil), s.assignments[supervisorID]...)
}

func (s *Server) record(c *gin.Context) {
	s.mu.Lock()
	s.calls[callKey(c.Request.Method, c.Request.URL.Path)]++
	s.lastReqID = c.GetHeader("X-Request-ID")
	s.mu.Unlock()
	c.Next()
}

func (s *Server) scripted(c *gin.Context) {
	key := callKey(c.Request.Method, c.Request.URL.Path)
	s.mu.Lock()
	queue := s.failures[key]
	var f *failure
	if len(queue) > 0 {
		f = &queue[0]
		s.failures[key] = queue[1:]
	}
	s.mu.Unlock()

	if f != nil {
		if f.body == nil {
			c.AbortWithStatus(f.status)
			return
		}
		c.AbortWithStatusJSON(f.status, f.body)
		return
	}
	c.Next()
}

func (s *Server) issueTokens(c *gin.Context, a *Account) error {
	access, _, err := signToken(s.secret, a.ID, string(a.Role), "access", s.accessGen, s.accessTTL)
	if err != nil {
		return err
	}
	refresh, _, err := signToken(s.secret, a.ID, string(a.Role), "refresh", s.refreshGen, 24*time.Hour)
	if err != nil {
		return err
	}
	c.SetCookie(AccessCookie, access, int(s.accessTTL.Seconds()), "/", "", false, true)
	c.SetCookie(RefreshCookie, refresh, 24*60*60, "/", "", false, true)
	return nil
}

func (s *Server) authenticated(c *gin.Context) {
	raw, err := c.Cookie(AccessCookie)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Authentication credentials were not provided."})
		return
	}
	claims, err := parseToken(s.secret, raw, "access")

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil || claims.Generation != s.accessGen {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Given token not valid for any token type"})
		return
	}
	a, ok := s.accounts[claims.UserID]
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "User not found"})
		return
	}
	c.Set("account", *a)
}

func current(c *gin.Context) Account {
	return c.MustGet("account").(Account)
}

func (s *Server) login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if strings.EqualFold(a.Email, req.Email) && a.Password == req.Password && !a.IsGuest {
			if a.Role == models.RoleSupervisor && !a.Approved {
				c.JSON(http.StatusForbidden, gin.H{"error": "Your account is awaiting approval."})
				return
			}
			if err := s.issueTokens(c, a); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusOK, gin.H{"message": "Login successful", "user": userJSON(a)})
			return
		}
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email or password"})
}

func (s *Server) guestLogin(c *gin.Context) {
	var req struct {
		Role string `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	role, ok := models.ParseRole(req.Role)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	a := &Account{
		ID:        s.id(),
		Email:     fmt.Sprintf("guest-%s@unitrack.test", role),
		Role:      role,
		Approved:  true,
		IsGuest:   true,
		CreatedAt: time.Now().UTC(),
	}
	s.accounts[a.ID] = a
	if err := s.issueTokens(c, a); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Guest login successful", "user": userJSON(a)})
}

func (s *Server) refresh(c *gin.Context) {
	s.mu.Lock()
	delay := s.refreshDelay
	s.mu.Unlock()
	if delay > 0 {
		time.Sleep(delay)
	}

	raw, err := c.Cookie(RefreshCookie)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Refresh token missing"})
		return
	}
	claims, err := parseToken(s.secret, raw, "refresh")

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.refreshFails || err != nil || claims.Generation != s.refreshGen {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Token is invalid or expired"})
		return
	}
	a, ok := s.accounts[claims.UserID]
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "User not found"})
		return
	}
	access, _, err := signToken(s.secret, a.ID, string(a.Role), "access", s.accessGen, s.accessTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.SetCookie(AccessCookie, access, int(s.accessTTL.Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Token refreshed"})
}

func (s *Server) signup(c *gin.Context) {
	var req struct {
		FullName   string `json:"full_name"`
		Email      string `json:"email"`
		Role       string `json:"role"`
		Department string `json:"department"`
		MatricNo   string `json:"matric_no"`
		StaffID    string `json:"staff_id"`
		Password   string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	role, ok := models.ParseRole(req.Role)
	if !ok || role == models.RoleAdmin || req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid signup details"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if strings.EqualFold(a.Email, req.Email) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "A user with this email already exists."})
			return
		}
	}
	a := &Account{
		ID:         s.id(),
		FullName:   req.FullName,
		Email:      req.Email,
		Password:   req.Password,
		Role:       role,
		Department: req.Department,
		MatricNo:   req.MatricNo,
		StaffID:    req.StaffID,
		Approved:   role == models.RoleStudent,
		CreatedAt:  time.Now().UTC(),
	}
	s.accounts[a.ID] = a
	c.JSON(http.StatusCreated, gin.H{"message": "Signup successful", "user": userJSON(a)})
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return 0, false
	}
	return id, true
}

func (s *Server) listProjects(c *gin.Context) {
	me := current(c)
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []gin.H{}
	for _, p := range s.sortedProjects() {
		if me.Role == models.RoleStudent && p.StudentID != me.ID {
			continue
		}
		if me.Role == models.RoleSupervisor && p.SupervisorID != me.ID {
			continue
		}
		out = append(out, projectJSON(p, nil))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) sortedProjects() []*models.Project {
	out := make([]*models.Project, 0, len(s.projects))
	for _, p := range s.projects {
		out = append(out, p)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].ID < out[j-1].ID; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

func (s *Server) createProject(c *gin.Context) {
	me := current(c)
	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title is required."})
		return
	}
	if me.Role != models.RoleStudent {
		c.JSON(http.StatusForbidden, gin.H{"detail": "Only students can create projects."})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.projects {
		if p.StudentID == me.ID {
			c.JSON(http.StatusBadRequest, gin.H{"error": "You already have a project."})
			return
		}
	}
	p := s.addProjectLocked(me.ID, req.Title, req.Description)
	c.JSON(http.StatusCreated, gin.H{"message": "Project created", "project": projectJSON(&p, nil)})
}

func (s *Server) projectDetail(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return
	}
	c.JSON(http.StatusOK, projectJSON(p, s.projectSubmissions(id)))
}

func (s *Server) projectSubmissions(projectID int64) []models.Submission {
	var out []models.Submission
	for _, sub := range s.submissions {
		if sub.ProjectID == projectID {
			out = append(out, sub)
		}
	}
	return out
}

func (s *Server) proposalAction(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Action  string  `json:"action"`
		Comment *string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return
	}
	call := ReviewCall{ProjectID: id, Action: req.Action}
	if req.Comment != nil {
		call.Comment = *req.Comment
		call.HasComment = true
	}
	s.reviews = append(s.reviews, call)

	latest := -1
	for i, sub := range s.submissions {
		if sub.ProjectID != id || sub.Milestone != models.MilestoneProposal {
			continue
		}
		if latest < 0 || sub.Version > s.submissions[latest].Version {
			latest = i
		}
	}
	if latest < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No proposal has been submitted."})
		return
	}

	switch req.Action {
	case "approve":
		p.Status = models.StatusProposalApproved
		s.submissions[latest].IsApproved = true
		s.submissions[latest].IsRejected = false
	case "reject":
		if call.Comment == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "A comment is required to reject a proposal."})
			return
		}
		p.Status = models.StatusProposalRejected
		s.submissions[latest].IsRejected = true
		s.submissions[latest].IsApproved = false
		s.submissions[latest].RejectionComment = call.Comment
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown action."})
		return
	}
	s.submissions[latest].IsRead = true
	c.JSON(http.StatusOK, projectJSON(p, s.projectSubmissions(id)))
}

func (s *Server) listSubmissions(c *gin.Context) {
	me := current(c)
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []gin.H{}
	for _, sub := range s.submissions {
		p, ok := s.projects[sub.ProjectID]
		if !ok {
			continue
		}
		if me.Role == models.RoleStudent && p.StudentID != me.ID {
			continue
		}
		out = append(out, submissionJSON(sub))
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) createSubmission(c *gin.Context) {
	me := current(c)
	projectID, err := strconv.ParseInt(c.PostForm("project"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "project is required"})
		return
	}
	milestone, ok := models.ParseMilestone(c.PostForm("milestone"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid milestone"})
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[projectID]
	if !ok || p.StudentID != me.ID {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Project not found."})
		return
	}
	s.uploads = append(s.uploads, UploadCall{
		ProjectID: projectID,
		Milestone: string(milestone),
		FileName:  fh.Filename,
		Content:   content,
	})

	version := 1
	for _, sub := range s.submissions {
		if sub.ProjectID == projectID && sub.Milestone == milestone && sub.Version >= version {
			version = sub.Version + 1
		}
	}
	sub := models.Submission{
		ID:          s.id(),
		ProjectID:   projectID,
		Milestone:   milestone,
		Version:     version,
		FileURL:     fmt.Sprintf("/media/submissions/%d/%s/v%d/%s", projectID, milestone, version, fh.Filename),
		SubmittedAt: time.Now().UTC().Truncate(time.Second),
	}
	s.submissions = append(s.submissions, sub)
	if milestone == models.MilestoneProposal {
		p.Status = models.StatusProposalPending
	}
	c.JSON(http.StatusCreated, submissionJSON(sub))
}

func (s *Server) getSession(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		c.JSON(http.StatusOK, []gin.H{})
		return
	}
	c.JSON(http.StatusOK, []gin.H{sessionJSON(*s.session)})
}

func (s *Server) createSession(c *gin.Context) {
	if current(c).Role != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"detail": "Only administrators can set the session."})
		return
	}
	var req models.AcademicSession
	if err := c.ShouldBindJSON(&req); err != nil || req.Session == "" || req.Duration == "" || req.StartDate == "" || req.EndDate == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "All fields are required."})
		return
	}
	s.mu.Lock()
	s.session = &req
	s.mu.Unlock()
	c.JSON(http.StatusCreated, sessionJSON(req))
}

func (s *Server) supervisorsWhere(approved bool) []gin.H {
	out := []gin.H{}
	for _, a := range s.sortedAccounts() {
		if a.Role == models.RoleSupervisor && !a.IsGuest && a.Approved == approved {
			out = append(out, s.supervisorJSON(a))
		}
	}
	return out
}

func (s *Server) sortedAccounts() []*Account {
	out := make([]*Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, a)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].ID < out[j-1].ID; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

func (s *Server) pendingSupervisors(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, s.supervisorsWhere(false))
}

func (s *Server) approvedSupervisors(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, s.supervisorsWhere(true))
}

func (s *Server) approveSupervisor(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok || a.Role != models.RoleSupervisor {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Supervisor not found."})
		return
	}
	a.Approved = true
	c.JSON(http.StatusOK, gin.H{"message": "Supervisor approved"})
}

func (s *Server) studentsWhere(keep func(*Account) bool) []gin.H {
	out := []gin.H{}
	for _, a := range s.sortedAccounts() {
		if a.Role == models.RoleStudent && !a.IsGuest && keep(a) {
			out = append(out, s.studentJSON(a))
		}
	}
	return out
}

func (s *Server) listStudents(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, s.studentsWhere(func(*Account) bool { return true }))
}

func (s *Server) assignedStudents(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, s.studentsWhere(func(a *Account) bool { return a.SupervisorID != 0 }))
}

func (s *Server) supervisorStudents(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, s.studentsWhere(func(a *Account) bool { return a.SupervisorID == id }))
}

func (s *Server) studentDetail(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok || a.Role != models.RoleStudent {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Student not found."})
		return
	}
	c.JSON(http.StatusOK, s.studentJSON(a))
}

func (s *Server) supervisorStudent(c *gin.Context) {
	supervisorID, ok := pathID(c, "id")
	if !ok {
		return
	}
	studentID, ok := pathID(c, "student_id")
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[studentID]
	if !ok || a.Role != models.RoleStudent || a.SupervisorID != supervisorID {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Student not found."})
		return
	}
	c.JSON(http.StatusOK, s.studentJSON(a))
}

func (s *Server) rejectStudent(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok || a.Role != models.RoleStudent {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Student not found."})
		return
	}
	a.SupervisorID = 0
	c.JSON(http.StatusOK, gin.H{"message": "Student rejected"})
}

func (s *Server) assignSupervisor(c *gin.Context) {
	var req struct {
		SupervisorID int64   `json:"supervisor_id"`
		StudentIDs   []int64 `json:"student_ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.SupervisorID == 0 || len(req.StudentIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "supervisor_id and student_ids are required"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	sup, ok := s.accounts[req.SupervisorID]
	if !ok || sup.Role != models.RoleSupervisor || !sup.Approved {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Supervisor is not approved."})
		return
	}
	for _, id := range req.StudentIDs {
		student, ok := s.accounts[id]
		if !ok || student.Role != models.RoleStudent {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Student %d not found.", id)})
			return
		}
	}
	for _, id := range req.StudentIDs {
		s.accounts[id].SupervisorID = req.SupervisorID
		for _, p := range s.projects {
			if p.StudentID == id {
				p.SupervisorID = req.SupervisorID
			}
		}
	}
	s.assignments[req.SupervisorID] = append([]int64(nil), req.StudentIDs...)
	c.JSON(http.StatusOK, gin.H{"message": "Supervisor assigned"})
}
