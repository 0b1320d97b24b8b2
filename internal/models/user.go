package models

// Role is the portal role a user acts under.
type Role string

const (
	RoleStudent    Role = "student"
	RoleSupervisor Role = "supervisor"
	RoleAdmin      Role = "admin"
)

// Roles lists the known roles.
var Roles = []Role{RoleStudent, RoleSupervisor, RoleAdmin}

// ParseRole returns the role named by s and whether it is a known role.
func ParseRole(s string) (Role, bool) {
	for _, r := range Roles {
		if string(r) == s {
			return r, true
		}
	}
	return "", false
}

// User is the authenticated identity held by the session store.
type User struct {
	ID       int64  `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	StaffID  string `json:"staff_id,omitempty"`
	MatricNo string `json:"matric_no,omitempty"`
}

// SupervisorRef is the short supervisor shape embedded in student records.
type SupervisorRef struct {
	ID            int64  `json:"id"`
	FullName      string `json:"full_name"`
	Email         string `json:"email,omitempty"`
	StaffID       string `json:"staff_id,omitempty"`
	IsApproved    bool   `json:"is_approved"`
	IsFullyBooked bool   `json:"is_fully_booked"`
}

// Supervisor is a staff member as listed to administrators.
type Supervisor struct {
	ID            int64  `json:"id"`
	FullName      string `json:"full_name"`
	Email         string `json:"email"`
	StaffID       string `json:"staff_id"`
	Department    string `json:"department"`
	IsApproved    bool   `json:"is_approved"`
	IsFullyBooked bool   `json:"is_fully_booked"`
}

// Student is a student record; Supervisor is nil until one is assigned.
type Student struct {
	ID         int64          `json:"id"`
	FullName   string         `json:"full_name"`
	Email      string         `json:"email"`
	MatricNo   string         `json:"matric_no"`
	Department string         `json:"department"`
	Role       Role           `json:"role"`
	CreatedAt  string         `json:"created_at,omitempty"`
	Supervisor *SupervisorRef `json:"supervisor,omitempty"`
}
