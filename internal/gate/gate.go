// Package gate derives the guest read-only capability from the session and
// is the single place mutating operations are checked against it.
package gate

import (
	"errors"
	"fmt"

	"github.com/unitrack/portal/internal/models"
	"github.com/unitrack/portal/internal/store"
	"github.com/unitrack/portal/pkg/logger"
)

var ErrReadOnly = errors.New("guest mode is read-only")

// Operation names a mutating action for Guard.
type Operation string

const (
	OpApproveProposal   Operation = "approve proposal"
	OpRejectProposal    Operation = "reject proposal"
	OpAssignSupervisor  Operation = "assign supervisor"
	OpApproveSupervisor Operation = "approve supervisor"
	OpCreateSession     Operation = "create session"
	OpCreateProject     Operation = "create project"
	OpSubmitMilestone   Operation = "submit milestone"
	OpResubmitMilestone Operation = "resubmit milestone"
	OpToggleStudent     Operation = "toggle student selection"
	OpRejectStudent     Operation = "reject student"
	OpSignup            Operation = "sign up"
)

// DeniedError reports which operation the gate refused.
type DeniedError struct {
	Op Operation
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, ErrReadOnly)
}

func (e *DeniedError) Unwrap() error {
	return ErrReadOnly
}

// Gate is a projection of the session store; it has no state of its own.
type Gate struct {
	users *store.UserStore
}

func New(users *store.UserStore) *Gate {
	return &Gate{users: users}
}

func (g *Gate) IsGuest() bool {
	return g.users.Snapshot().IsGuest
}

// GuestRole is the impersonated role, empty unless in guest mode.
func (g *Gate) GuestRole() models.Role {
	st := g.users.Snapshot()
	if !st.IsGuest {
		return ""
	}
	return st.GuestRole
}

func (g *Gate) IsReadOnly() bool {
	return g.IsGuest()
}

// Check returns a *DeniedError when op may not run in the current session.
func (g *Gate) Check(op Operation) error {
	if g.IsReadOnly() {
		logger.Debug().Str("operation", string(op)).Msg("guest mode refused mutating operation")
		return &DeniedError{Op: op}
	}
	return nil
}

// Guard runs fn only when op is allowed.
func (g *Gate) Guard(op Operation, fn func() error) error {
	if err := g.Check(op); err != nil {
		return err
	}
	return fn()
}

// Snapshot is the gate as reported to a UI.
type Snapshot struct {
	IsGuest    bool        `json:"is_guest"`
	GuestRole  models.Role `json:"guest_role,omitempty"`
	IsReadOnly bool        `json:"is_read_only"`
}

func (g *Gate) Snapshot() Snapshot {
	st := g.users.Snapshot()
	snap := Snapshot{IsGuest: st.IsGuest, IsReadOnly: st.IsGuest}
	if st.IsGuest {
		snap.GuestRole = st.GuestRole
	}
	return snap
}
