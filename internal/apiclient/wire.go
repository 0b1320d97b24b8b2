package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/unitrack/portal/internal/models"
)

// The API speaks snake_case with optional fields and loosely typed
// references. Everything below maps those shapes to models in one place:
// missing strings become "", missing references become 0 and unparseable
// times become the zero time.

// refID accepts either a bare id (12 or "12") or an embedded object with an
// id field.
type refID int64

func (r *refID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = 0
		return nil
	}
	switch data[0] {
	case '{':
		var obj struct {
			ID refID `json:"id"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		*r = obj.ID
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*r = 0
			return nil
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return fmt.Errorf("reference %q is not an id", s)
		}
		*r = refID(n)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		i, err := n.Int64()
		if err != nil {
			return err
		}
		*r = refID(i)
	}
	return nil
}

// first returns the first non-zero reference.
func first(refs ...refID) int64 {
	for _, r := range refs {
		if r != 0 {
			return int64(r)
		}
	}
	return 0
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

type userDTO struct {
	ID       refID  `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	StaffID  string `json:"staff_id"`
	MatricNo string `json:"matric_no"`
	IsGuest  bool   `json:"is_guest"`
}

// toUser keeps the role as sent; callers decide what an unknown role means.
func (d userDTO) toUser() models.User {
	return models.User{
		ID:       int64(d.ID),
		FullName: d.FullName,
		Email:    d.Email,
		Role:     models.Role(d.Role),
		StaffID:  d.StaffID,
		MatricNo: d.MatricNo,
	}
}

type authDTO struct {
	Message string  `json:"message"`
	User    userDTO `json:"user"`
}

type projectDTO struct {
	ID           refID          `json:"id"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Status       string         `json:"status"`
	Student      refID          `json:"student"`
	StudentID    refID          `json:"student_id"`
	Supervisor   refID          `json:"supervisor"`
	SupervisorID refID          `json:"supervisor_id"`
	CreatedAt    string         `json:"created_at"`
	Submissions  submissionsDTO `json:"submissions"`
}

func (d projectDTO) toProject() models.Project {
	status := models.ProjectStatus(d.Status)
	if status == "" {
		status = models.StatusProposalPending
	}
	return models.Project{
		ID:           int64(d.ID),
		Title:        d.Title,
		Description:  d.Description,
		Status:       status,
		StudentID:    first(d.StudentID, d.Student),
		SupervisorID: first(d.SupervisorID, d.Supervisor),
		CreatedAt:    parseTime(d.CreatedAt),
	}
}

func (d projectDTO) toDetail() models.ProjectDetail {
	p := d.toProject()
	subs := d.Submissions.toSubmissions()
	for i := range subs {
		if subs[i].ProjectID == 0 {
			subs[i].ProjectID = p.ID
		}
	}
	return models.ProjectDetail{Project: p, Submissions: subs}
}

type projectsDTO []projectDTO

func (d projectsDTO) toProjects() []models.Project {
	out := make([]models.Project, 0, len(d))
	for _, p := range d {
		out = append(out, p.toProject())
	}
	return out
}

type submissionDTO struct {
	ID               refID  `json:"id"`
	Project          refID  `json:"project"`
	ProjectID        refID  `json:"project_id"`
	Milestone        string `json:"milestone"`
	Version          int    `json:"version"`
	FileURL          string `json:"file_url"`
	File             string `json:"file"`
	SubmittedAt      string `json:"submitted_at"`
	IsRead           bool   `json:"is_read"`
	IsApproved       bool   `json:"is_approved"`
	IsRejected       bool   `json:"is_rejected"`
	RejectionComment string `json:"rejection_comment"`
	Comment          string `json:"comment"`
}

// toSubmission never reports both approved and rejected: a rejection is the
// later, more specific verdict.
func (d submissionDTO) toSubmission() models.Submission {
	fileURL := d.FileURL
	if fileURL == "" {
		fileURL = d.File
	}
	version := d.Version
	if version < 1 {
		version = 1
	}
	return models.Submission{
		ID:               int64(d.ID),
		ProjectID:        first(d.ProjectID, d.Project),
		Milestone:        models.Milestone(d.Milestone),
		Version:          version,
		FileURL:          fileURL,
		SubmittedAt:      parseTime(d.SubmittedAt),
		IsRead:           d.IsRead,
		IsApproved:       d.IsApproved && !d.IsRejected,
		IsRejected:       d.IsRejected,
		RejectionComment: d.RejectionComment,
		Comment:          d.Comment,
	}
}

type submissionsDTO []submissionDTO

func (d submissionsDTO) toSubmissions() []models.Submission {
	out := make([]models.Submission, 0, len(d))
	for _, s := range d {
		out = append(out, s.toSubmission())
	}
	return out
}

type supervisorDTO struct {
	ID            refID  `json:"id"`
	FullName      string `json:"full_name"`
	Email         string `json:"email"`
	StaffID       string `json:"staff_id"`
	Department    string `json:"department"`
	IsApproved    bool   `json:"is_approved"`
	IsFullyBooked bool   `json:"is_fully_booked"`
}

func (d supervisorDTO) toSupervisor() models.Supervisor {
	return models.Supervisor{
		ID:            int64(d.ID),
		FullName:      d.FullName,
		Email:         d.Email,
		StaffID:       d.StaffID,
		Department:    d.Department,
		IsApproved:    d.IsApproved,
		IsFullyBooked: d.IsFullyBooked,
	}
}

func (d supervisorDTO) toRef() *models.SupervisorRef {
	return &models.SupervisorRef{
		ID:            int64(d.ID),
		FullName:      d.FullName,
		Email:         d.Email,
		StaffID:       d.StaffID,
		IsApproved:    d.IsApproved,
		IsFullyBooked: d.IsFullyBooked,
	}
}

type supervisorsDTO []supervisorDTO

func (d supervisorsDTO) toSupervisors() []models.Supervisor {
	out := make([]models.Supervisor, 0, len(d))
	for _, s := range d {
		out = append(out, s.toSupervisor())
	}
	return out
}

// supervisorField is either null, a bare id or an embedded supervisor.
type supervisorField struct {
	set bool
	dto supervisorDTO
}

func (f *supervisorField) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = supervisorField{}
		return nil
	}
	if len(data) > 0 && data[0] == '{' {
		if err := json.Unmarshal(data, &f.dto); err != nil {
			return err
		}
		f.set = true
		return nil
	}
	var id refID
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	f.dto = supervisorDTO{ID: id}
	f.set = id != 0
	return nil
}

type studentDTO struct {
	ID         refID           `json:"id"`
	FullName   string          `json:"full_name"`
	Email      string          `json:"email"`
	MatricNo   string          `json:"matric_no"`
	Department string          `json:"department"`
	Role       string          `json:"role"`
	CreatedAt  string          `json:"created_at"`
	Supervisor supervisorField `json:"supervisor"`
}

func (d studentDTO) toStudent() models.Student {
	role := models.Role(d.Role)
	if role == "" {
		role = models.RoleStudent
	}
	s := models.Student{
		ID:         int64(d.ID),
		FullName:   d.FullName,
		Email:      d.Email,
		MatricNo:   d.MatricNo,
		Department: d.Department,
		Role:       role,
		CreatedAt:  d.CreatedAt,
	}
	if d.Supervisor.set {
		s.Supervisor = d.Supervisor.dto.toRef()
	}
	return s
}

type studentsDTO []studentDTO

func (d studentsDTO) toStudents() []models.Student {
	out := make([]models.Student, 0, len(d))
	for _, s := range d {
		out = append(out, s.toStudent())
	}
	return out
}

type academicSessionDTO struct {
	Session   *string `json:"session"`
	Duration  string  `json:"duration"`
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
}

// decodeAcademicSession accepts a list (first element wins) or a single
// object. A payload without a session field carries no session.
func decodeAcademicSession(body []byte) (models.AcademicSession, bool, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return models.AcademicSession{}, false, nil
	}

	var dto academicSessionDTO
	if body[0] == '[' {
		var list []academicSessionDTO
		if err := json.Unmarshal(body, &list); err != nil {
			return models.AcademicSession{}, false, err
		}
		if len(list) == 0 {
			return models.AcademicSession{}, false, nil
		}
		dto = list[0]
	} else if body[0] == '{' {
		if err := json.Unmarshal(body, &dto); err != nil {
			return models.AcademicSession{}, false, err
		}
	} else {
		return models.AcademicSession{}, false, nil
	}

	if dto.Session == nil {
		return models.AcademicSession{}, false, nil
	}
	return models.AcademicSession{
		Session:   *dto.Session,
		Duration:  dto.Duration,
		StartDate: dto.StartDate,
		EndDate:   dto.EndDate,
	}, true, nil
}
