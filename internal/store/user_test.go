package store

import (
	"context"
	"errors"
	"testing"

	"github.com/unitrack/portal/internal/models"
)

func TestUserStore_PersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	kv := newTestGormKV(t)

	first, err := NewUserStore(ctx, kv)
	if err != nil {
		t.Fatalf("NewUserStore() error = %v", err)
	}
	if first.Snapshot().Authenticated() {
		t.Fatal("fresh store should be anonymous")
	}

	user := models.User{ID: 5, FullName: "Ada Obi", Email: "ada@uni.edu", Role: models.RoleStudent, MatricNo: "2021/297854"}
	if err := first.SetUser(ctx, user); err != nil {
		t.Fatalf("SetUser() error = %v", err)
	}

	second, err := NewUserStore(ctx, kv)
	if err != nil {
		t.Fatalf("NewUserStore() reload error = %v", err)
	}
	got := second.Snapshot()
	if got.User == nil || *got.User != user {
		t.Errorf("reloaded user = %+v, expected %+v", got.User, user)
	}
}

func TestUserStore_ClearDeletesPersistedCopy(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	s, _ := NewUserStore(ctx, kv)

	_ = s.SetUser(ctx, models.User{ID: 1, Role: models.RoleAdmin})
	_ = s.SetGuest(ctx, true, models.RoleAdmin)

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if s.Snapshot().Authenticated() || s.Snapshot().IsGuest {
		t.Error("store should be anonymous after Clear")
	}
	if _, err := kv.Get(ctx, UserStorageKey); !errors.Is(err, ErrNotFound) {
		t.Errorf("persisted session still present: %v", err)
	}
}

func TestUserStore_GuestRoleDroppedWhenNotGuest(t *testing.T) {
	ctx := context.Background()
	s, _ := NewUserStore(ctx, nil)

	_ = s.SetGuest(ctx, true, models.RoleSupervisor)
	if got := s.Snapshot().GuestRole; got != models.RoleSupervisor {
		t.Errorf("GuestRole = %q, expected supervisor", got)
	}

	_ = s.SetGuest(ctx, false, models.RoleSupervisor)
	if got := s.Snapshot().GuestRole; got != "" {
		t.Errorf("GuestRole = %q, expected empty", got)
	}
}

func TestUserStore_SnapshotIsACopy(t *testing.T) {
	ctx := context.Background()
	s, _ := NewUserStore(ctx, nil)
	_ = s.SetUser(ctx, models.User{FullName: "Original"})

	snap := s.Snapshot()
	snap.User.FullName = "Mutated"

	if s.Snapshot().User.FullName != "Original" {
		t.Error("mutating a snapshot must not change the store")
	}
}

func TestUserStore_SubscribeAndCancel(t *testing.T) {
	ctx := context.Background()
	s, _ := NewUserStore(ctx, nil)

	var seen []bool
	cancel := s.Subscribe(func(st SessionState) { seen = append(seen, st.IsGuest) })

	_ = s.SetGuest(ctx, true, models.RoleStudent)
	_ = s.Clear(ctx)
	cancel()
	_ = s.SetGuest(ctx, true, models.RoleStudent)

	if len(seen) != 2 || !seen[0] || seen[1] {
		t.Errorf("notifications = %v, expected [true false]", seen)
	}
}

func TestUserStore_DiscardsMalformedPersistedState(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	_ = kv.Put(ctx, UserStorageKey, []byte("{not json"))

	s, err := NewUserStore(ctx, kv)
	if err != nil {
		t.Fatalf("NewUserStore() error = %v", err)
	}
	if s.Snapshot().Authenticated() {
		t.Error("malformed state should load as anonymous")
	}
	if _, err := kv.Get(ctx, UserStorageKey); !errors.Is(err, ErrNotFound) {
		t.Error("malformed state should be deleted")
	}
}

func TestSessionState_Role(t *testing.T) {
	st := SessionState{User: &models.User{Role: models.RoleAdmin}, IsGuest: true, GuestRole: models.RoleStudent}
	if st.Role() != models.RoleStudent {
		t.Errorf("guest Role() = %q, expected student", st.Role())
	}
	st.IsGuest = false
	if st.Role() != models.RoleAdmin {
		t.Errorf("Role() = %q, expected admin", st.Role())
	}
	if (SessionState{}).Role() != "" {
		t.Error("anonymous Role() should be empty")
	}
}
