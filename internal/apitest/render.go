package apitest

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/unitrack/portal/internal/models"
)

// The renderers below produce the snake_case shapes the real API sends,
// including its habit of referencing related rows by bare id.

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func userJSON(a *Account) gin.H {
	out := gin.H{
		"id":          a.ID,
		"email":       a.Email,
		"role":        string(a.Role),
		"full_name":   a.FullName,
		"is_guest":    a.IsGuest,
		"is_approved": a.Approved,
	}
	if a.StaffID != "" {
		out["staff_id"] = a.StaffID
	}
	if a.MatricNo != "" {
		out["matric_no"] = a.MatricNo
	}
	return out
}

func projectJSON(p *models.Project, subs []models.Submission) gin.H {
	out := gin.H{
		"id":          p.ID,
		"title":       p.Title,
		"description": p.Description,
		"status":      string(p.Status),
		"student":     p.StudentID,
		"created_at":  formatTime(p.CreatedAt),
	}
	if p.SupervisorID != 0 {
		out["supervisor"] = p.SupervisorID
	} else {
		out["supervisor"] = nil
	}
	if subs != nil {
		list := make([]gin.H, 0, len(subs))
		for _, sub := range subs {
			list = append(list, submissionJSON(sub))
		}
		out["submissions"] = list
	}
	return out
}

func submissionJSON(sub models.Submission) gin.H {
	out := gin.H{
		"id":           sub.ID,
		"project":      sub.ProjectID,
		"milestone":    string(sub.Milestone),
		"version":      sub.Version,
		"file_url":     sub.FileURL,
		"submitted_at": formatTime(sub.SubmittedAt),
		"is_read":      sub.IsRead,
		"is_approved":  sub.IsApproved,
		"is_rejected":  sub.IsRejected,
	}
	if sub.RejectionComment != "" {
		out["rejection_comment"] = sub.RejectionComment
	}
	if sub.Comment != "" {
		out["comment"] = sub.Comment
	}
	return out
}

func sessionJSON(s models.AcademicSession) gin.H {
	return gin.H{
		"session":    s.Session,
		"duration":   s.Duration,
		"start_date": s.StartDate,
		"end_date":   s.EndDate,
	}
}

func (s *Server) supervisorJSON(a *Account) gin.H {
	booked := 0
	for _, other := range s.accounts {
		if other.SupervisorID == a.ID {
			booked++
		}
	}
	return gin.H{
		"id":              a.ID,
		"full_name":       a.FullName,
		"email":           a.Email,
		"staff_id":        a.StaffID,
		"department":      a.Department,
		"is_approved":     a.Approved,
		"is_fully_booked": booked >= 10,
	}
}

func (s *Server) studentJSON(a *Account) gin.H {
	out := gin.H{
		"id":         a.ID,
		"full_name":  a.FullName,
		"email":      a.Email,
		"matric_no":  a.MatricNo,
		"department": a.Department,
		"role":       string(a.Role),
		"created_at": formatTime(a.CreatedAt),
		"supervisor": nil,
	}
	if sup, ok := s.accounts[a.SupervisorID]; ok {
		out["supervisor"] = s.supervisorJSON(sup)
	}
	return out
}
