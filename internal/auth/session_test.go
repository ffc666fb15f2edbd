package auth

import (
	"path/filepath"
	"testing"

	"github.com/fastseller/fastseller/internal/events"
	"github.com/fastseller/fastseller/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "auth.db"))
	if err != nil {
		t.Fatalf("store.Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func newSessions(t *testing.T, n events.Notifier) (*SessionStore, *Directory) {
	t.Helper()
	s := newTestStore(t)
	users := NewDirectory(s)
	return NewSessionStore(s, users, n), users
}

func TestSessionLifecycle(t *testing.T) {
	ss, users := newSessions(t, events.Discard)

	if ss.IsAuthenticated() {
		t.Fatal("fresh store reports a session")
	}
	if ss.Get() != nil || ss.CurrentUser() != nil || ss.AccessToken() != "" {
		t.Fatal("empty session must read as nil")
	}

	u := &User{ID: "u1", Username: "anna", WalletBalance: 50}
	if err := ss.Set(&Session{User: u, AccessToken: "tok", RefreshToken: "ref"}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if !ss.IsAuthenticated() {
		t.Fatal("IsAuthenticated false after Set")
	}
	if got := ss.AccessToken(); got != "tok" {
		t.Errorf("AccessToken = %q", got)
	}
	if cur := ss.CurrentUser(); cur == nil || cur.Username != "anna" {
		t.Errorf("CurrentUser = %+v", cur)
	}

	// Set keeps the directory record in step with the session.
	rec, err := users.FindByID("u1")
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if rec == nil || rec.Username != "anna" || rec.WalletBalance != 50 {
		t.Errorf("directory not synced: %+v", rec)
	}

	if err := ss.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if ss.IsAuthenticated() {
		t.Fatal("session survived Clear")
	}
}

func TestSessionNormalizesWalletOnWrite(t *testing.T) {
	ss, _ := newSessions(t, events.Discard)

	u := &User{ID: "u1", Username: "anna", WalletBalance: -12.5}
	if err := ss.Set(&Session{User: u, AccessToken: "tok"}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if got := ss.CurrentUser().WalletBalance; got != 0 {
		t.Errorf("negative balance not clamped, got %v", got)
	}
}

func TestSessionBroadcastsAuthChange(t *testing.T) {
	bus := events.NewBus()
	ss, _ := newSessions(t, bus)

	var notified int
	if _, err := bus.Subscribe(events.AuthChanged, func() { notified++ }); err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	if err := ss.Set(&Session{User: &User{ID: "u1"}, AccessToken: "tok"}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := ss.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if notified != 2 {
		t.Errorf("expected 2 auth-changed events, got %d", notified)
	}
}

func TestDirectoryFindByLoginIsCaseInsensitive(t *testing.T) {
	s := newTestStore(t)
	users := NewDirectory(s)

	if err := users.Insert(Record{User: User{ID: "u1", Username: "Anna", Email: "anna@example.it"}}); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	for _, login := range []string{"anna", "ANNA", "Anna@Example.IT"} {
		rec, err := users.FindByLogin(login)
		if err != nil {
			t.Fatalf("FindByLogin(%q) failed: %v", login, err)
		}
		if rec == nil || rec.ID != "u1" {
			t.Errorf("FindByLogin(%q) = %+v", login, rec)
		}
	}
}

func TestSyncUserPreservesPasswordHash(t *testing.T) {
	s := newTestStore(t)
	users := NewDirectory(s)

	if err := users.Insert(Record{User: User{ID: "u1", Username: "anna"}, PasswordHash: "$2a$fake"}); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := users.SyncUser(User{ID: "u1", Username: "anna", WalletBalance: 99}); err != nil {
		t.Fatalf("SyncUser failed: %v", err)
	}

	rec, err := users.FindByID("u1")
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if rec.WalletBalance != 99 {
		t.Errorf("public fields not merged: %+v", rec)
	}
	if rec.PasswordHash != "$2a$fake" {
		t.Errorf("password hash lost on sync: %q", rec.PasswordHash)
	}
}
