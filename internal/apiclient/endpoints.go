package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/unitrack/portal/internal/models"
)

// Upload is a document to attach to a submission. Content is read once and
// buffered so the request can be replayed after a token refresh.
type Upload struct {
	FileName string
	Content  io.Reader
}

// SignupRequest registers a student (MatricNo) or a supervisor (StaffID).
type SignupRequest struct {
	FullName   string      `json:"full_name"`
	Email      string      `json:"email"`
	Role       models.Role `json:"role"`
	Department string      `json:"department"`
	MatricNo   string      `json:"matric_no,omitempty"`
	StaffID    string      `json:"staff_id,omitempty"`
	Password   string      `json:"password"`
}

// ProposalAction is the verdict sent for a proposal.
type ProposalAction string

const (
	ProposalApprove ProposalAction = "approve"
	ProposalReject  ProposalAction = "reject"
)

func (c *Client) Login(ctx context.Context, email, password string) (models.User, error) {
	var out authDTO
	_, err := c.postJSON(ctx, "/api/login/", map[string]string{
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		return models.User{}, err
	}
	return out.User.toUser(), nil
}

func (c *Client) GuestLogin(ctx context.Context, role models.Role) (models.User, error) {
	var out authDTO
	if _, err := c.postJSON(ctx, "/api/guest-login/", map[string]string{"role": string(role)}, &out); err != nil {
		return models.User{}, err
	}
	return out.User.toUser(), nil
}

// Refresh renews the access cookie outside of the 401 handling.
func (c *Client) Refresh(ctx context.Context) error {
	return c.callRefresh(ctx)
}

func (c *Client) Signup(ctx context.Context, req SignupRequest) error {
	status, err := c.postJSON(ctx, "/api/signup/", req, nil)
	if err != nil {
		return err
	}
	return expectStatus(status, http.StatusCreated, "Signup failed. Please try again.")
}

// Projects lists the projects visible to the current user.
func (c *Client) Projects(ctx context.Context) ([]models.Project, error) {
	var out projectsDTO
	if err := c.get(ctx, "/api/projects/", &out); err != nil {
		return nil, err
	}
	return out.toProjects(), nil
}

func (c *Client) ProjectDetail(ctx context.Context, projectID int64) (models.ProjectDetail, error) {
	var out projectDTO
	if err := c.get(ctx, fmt.Sprintf("/api/projects/%d/", projectID), &out); err != nil {
		return models.ProjectDetail{}, err
	}
	return out.toDetail(), nil
}

func (c *Client) CreateProject(ctx context.Context, title, description string) (models.Project, error) {
	var out struct {
		Project projectDTO `json:"project"`
	}
	_, err := c.postJSON(ctx, "/api/projects/create/", map[string]string{
		"title":       title,
		"description": description,
	}, &out)
	if err != nil {
		return models.Project{}, err
	}
	if out.Project.ID == 0 {
		return models.Project{}, fmt.Errorf("create project: response carries no project id")
	}
	p := out.Project.toProject()
	if p.Title == "" {
		p.Title = title
	}
	if p.Description == "" {
		p.Description = description
	}
	return p, nil
}

// ReviewProposal sends the verdict for a project's latest proposal. The
// comment is sent exactly as given and omitted when empty.
func (c *Client) ReviewProposal(ctx context.Context, projectID int64, action ProposalAction, comment string) error {
	body := map[string]string{"action": string(action)}
	if comment != "" {
		body["comment"] = comment
	}
	_, err := c.postJSON(ctx, fmt.Sprintf("/api/projects/%d/proposal/action/", projectID), body, nil)
	return err
}

// Submissions lists the current student's submissions.
func (c *Client) Submissions(ctx context.Context) ([]models.Submission, error) {
	var out submissionsDTO
	if err := c.get(ctx, "/api/submissions/", &out); err != nil {
		return nil, err
	}
	return out.toSubmissions(), nil
}

func (c *Client) CreateSubmission(ctx context.Context, projectID int64, milestone models.Milestone, file Upload) (models.Submission, error) {
	body, contentType, err := submissionForm(projectID, milestone, file)
	if err != nil {
		return models.Submission{}, err
	}
	res, err := c.do(ctx, request{
		method:      http.MethodPost,
		path:        "/api/submissions/create/",
		body:        body,
		contentType: contentType,
	})
	if err != nil {
		return models.Submission{}, err
	}

	var out submissionDTO
	if err := decode("/api/submissions/create/", res.body, &out); err != nil {
		return models.Submission{}, err
	}
	sub := out.toSubmission()
	if sub.ProjectID == 0 {
		sub.ProjectID = projectID
	}
	if sub.Milestone == "" {
		sub.Milestone = milestone
	}
	return sub, nil
}

func submissionForm(projectID int64, milestone models.Milestone, file Upload) ([]byte, string, error) {
	if file.Content == nil {
		return nil, "", fmt.Errorf("submission: no file content")
	}
	name := file.FileName
	if name == "" {
		name = string(milestone)
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("project", strconv.FormatInt(projectID, 10)); err != nil {
		return nil, "", err
	}
	if err := w.WriteField("milestone", string(milestone)); err != nil {
		return nil, "", err
	}
	part, err := w.CreateFormFile("file", name)
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, file.Content); err != nil {
		return nil, "", fmt.Errorf("read upload: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

// AcademicSession returns the running session; ok is false when the server
// has none.
func (c *Client) AcademicSession(ctx context.Context) (models.AcademicSession, bool, error) {
	res, err := c.do(ctx, request{method: http.MethodGet, path: "/projects/session/"})
	if err != nil {
		return models.AcademicSession{}, false, err
	}
	s, ok, err := decodeAcademicSession(res.body)
	if err != nil {
		return models.AcademicSession{}, false, fmt.Errorf("decode /projects/session/: %w", err)
	}
	return s, ok, nil
}

func (c *Client) CreateAcademicSession(ctx context.Context, s models.AcademicSession) error {
	status, err := c.postJSON(ctx, "/projects/session/", s, nil)
	if err != nil {
		return err
	}
	return expectStatus(status, http.StatusCreated, "Failed to create session.")
}

func (c *Client) PendingSupervisors(ctx context.Context) ([]models.Supervisor, error) {
	var out supervisorsDTO
	if err := c.get(ctx, "/api/pending", &out); err != nil {
		return nil, err
	}
	return out.toSupervisors(), nil
}

func (c *Client) ApproveSupervisor(ctx context.Context, supervisorID int64) error {
	status, err := c.postJSON(ctx, fmt.Sprintf("/api/supervisors/%d/approve/", supervisorID), nil, nil)
	if err != nil {
		return err
	}
	return expectStatus(status, http.StatusOK, "Approval failed")
}

// Supervisors lists approved supervisors.
func (c *Client) Supervisors(ctx context.Context) ([]models.Supervisor, error) {
	var out supervisorsDTO
	if err := c.get(ctx, "/api/supervisors/", &out); err != nil {
		return nil, err
	}
	return out.toSupervisors(), nil
}

func (c *Client) Students(ctx context.Context) ([]models.Student, error) {
	return c.students(ctx, "/api/students/")
}

func (c *Client) AssignedStudents(ctx context.Context) ([]models.Student, error) {
	return c.students(ctx, "/api/assigned-students/")
}

func (c *Client) SupervisorStudents(ctx context.Context, supervisorID int64) ([]models.Student, error) {
	return c.students(ctx, fmt.Sprintf("/api/supervisors/%d/students/", supervisorID))
}

func (c *Client) students(ctx context.Context, path string) ([]models.Student, error) {
	var out studentsDTO
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out.toStudents(), nil
}

func (c *Client) Student(ctx context.Context, studentID int64) (models.Student, error) {
	return c.student(ctx, fmt.Sprintf("/api/students/%d/", studentID))
}

func (c *Client) SupervisorStudent(ctx context.Context, supervisorID, studentID int64) (models.Student, error) {
	return c.student(ctx, fmt.Sprintf("/api/supervisors/%d/students/%d/", supervisorID, studentID))
}

func (c *Client) student(ctx context.Context, path string) (models.Student, error) {
	var out studentDTO
	if err := c.get(ctx, path, &out); err != nil {
		return models.Student{}, err
	}
	return out.toStudent(), nil
}

func (c *Client) RejectStudent(ctx context.Context, studentID int64) error {
	_, err := c.postJSON(ctx, fmt.Sprintf("/api/students/%d/reject/", studentID), nil, nil)
	return err
}

func (c *Client) AssignSupervisor(ctx context.Context, supervisorID int64, studentIDs []int64) error {
	_, err := c.postJSON(ctx, "/api/assign-supervisor/", map[string]interface{}{
		"supervisor_id": supervisorID,
		"student_ids":   studentIDs,
	}, nil)
	return err
}
