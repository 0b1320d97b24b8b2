package store

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/unitrack/portal/internal/models"
	"github.com/unitrack/portal/pkg/logger"
)

// UserStorageKey is the fixed key the session is persisted under.
const UserStorageKey = "user-storage"

// SessionState is what the portal knows about the current viewer.
type SessionState struct {
	User      *models.User `json:"user"`
	IsGuest   bool         `json:"is_guest"`
	GuestRole models.Role  `json:"guest_role,omitempty"`
}

// Authenticated reports whether a real or guest user is signed in.
func (s SessionState) Authenticated() bool {
	return s.User != nil
}

// Role is the role the viewer acts under, empty when anonymous.
func (s SessionState) Role() models.Role {
	if s.IsGuest && s.GuestRole != "" {
		return s.GuestRole
	}
	if s.User != nil {
		return s.User.Role
	}
	return ""
}

func (s SessionState) clone() SessionState {
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}

// UserStore holds the session for one portal instance and mirrors every
// change into its KV.
type UserStore struct {
	mu    sync.RWMutex
	kv    KV
	state SessionState
	subs  map[int]func(SessionState)
	next  int
}

// NewUserStore restores a previously persisted session from kv. A nil kv keeps
// the session in memory only. Unreadable persisted data is discarded.
func NewUserStore(ctx context.Context, kv KV) (*UserStore, error) {
	s := &UserStore{kv: kv, subs: make(map[int]func(SessionState))}
	if kv == nil {
		return s, nil
	}

	data, err := kv.Get(ctx, UserStorageKey)
	switch {
	case errors.Is(err, ErrNotFound):
		return s, nil
	case errors.Is(err, ErrSealBroken):
		logger.Warn().Err(err).Msg("discarding unreadable stored session")
		return s, kv.Delete(ctx, UserStorageKey)
	case err != nil:
		return nil, err
	}

	var state SessionState
	if err := json.Unmarshal(data, &state); err != nil {
		logger.Warn().Err(err).Msg("discarding malformed stored session")
		return s, kv.Delete(ctx, UserStorageKey)
	}
	s.state = state
	return s, nil
}

// Snapshot returns a copy of the current session.
func (s *UserStore) Snapshot() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// SetUser replaces the user, keeping the guest flag.
func (s *UserStore) SetUser(ctx context.Context, user models.User) error {
	return s.update(ctx, func(st *SessionState) {
		st.User = &user
	})
}

// SetGuest sets the guest flag. The guest role is dropped when isGuest is false.
func (s *UserStore) SetGuest(ctx context.Context, isGuest bool, role models.Role) error {
	return s.update(ctx, func(st *SessionState) {
		st.IsGuest = isGuest
		st.GuestRole = ""
		if isGuest {
			st.GuestRole = role
		}
	})
}

// Replace swaps the whole session in one step.
func (s *UserStore) Replace(ctx context.Context, next SessionState) error {
	return s.update(ctx, func(st *SessionState) {
		*st = next.clone()
		if !st.IsGuest {
			st.GuestRole = ""
		}
	})
}

// Clear returns to the anonymous state and deletes the persisted copy before
// returning.
func (s *UserStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.state = SessionState{}
	var err error
	if s.kv != nil {
		err = s.kv.Delete(ctx, UserStorageKey)
	}
	subs := s.subscribers()
	s.mu.Unlock()

	notify(subs, SessionState{})
	return err
}

// Subscribe registers fn for every later change and returns its cancel func.
func (s *UserStore) Subscribe(fn func(SessionState)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.next
	s.next++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

func (s *UserStore) update(ctx context.Context, mutate func(*SessionState)) error {
	s.mu.Lock()
	mutate(&s.state)
	state := s.state.clone()
	var err error
	if s.kv != nil {
		var data []byte
		if data, err = json.Marshal(state); err == nil {
			err = s.kv.Put(ctx, UserStorageKey, data)
		}
	}
	subs := s.subscribers()
	s.mu.Unlock()

	notify(subs, state)
	return err
}

func (s *UserStore) subscribers() []func(SessionState) {
	subs := make([]func(SessionState), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	return subs
}

func notify(subs []func(SessionState), state SessionState) {
	for _, fn := range subs {
		fn(state.clone())
	}
}
