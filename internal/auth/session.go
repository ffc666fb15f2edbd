package auth

import (
	"github.com/fastseller/fastseller/internal/events"
	"github.com/fastseller/fastseller/internal/store"
)

// SessionStore owns the persisted auth session. It is an explicit service
// instance rather than ambient global state, so tests get isolation from a
// fresh store per test.
type SessionStore struct {
	store    *store.Store
	notifier events.Notifier
	users    *Directory
}

// NewSessionStore wires the session to its backing store, the user directory
// it keeps in sync, and the change notifier.
func NewSessionStore(s *store.Store, users *Directory, n events.Notifier) *SessionStore {
	return &SessionStore{store: s, notifier: n, users: users}
}

// Get returns the current session, or nil when no user is logged in. The
// user's wallet balance is normalized on read.
func (ss *SessionStore) Get() *Session {
	var sess Session
	if err := ss.store.Read(store.KeyAuth, &sess); err != nil {
		return nil
	}
	if sess.User == nil && sess.AccessToken == "" {
		return nil
	}
	ensureWallet(sess.User)
	return &sess
}

// Set persists the session, syncs the user directory record, and broadcasts
// the auth change.
func (ss *SessionStore) Set(sess *Session) error {
	ensureWallet(sess.User)
	if err := ss.store.Write(store.KeyAuth, sess); err != nil {
		return err
	}
	if sess.User != nil && sess.User.ID != "" {
		if err := ss.users.SyncUser(*sess.User); err != nil {
			return err
		}
	}
	ss.notifier.Emit(events.AuthChanged)
	return nil
}

// Clear destroys the session entirely and broadcasts the auth change.
func (ss *SessionStore) Clear() error {
	if err := ss.store.Delete(store.KeyAuth); err != nil {
		return err
	}
	ss.notifier.Emit(events.AuthChanged)
	return nil
}

// IsAuthenticated reports whether a session record exists.
func (ss *SessionStore) IsAuthenticated() bool {
	return ss.Get() != nil
}

// CurrentUser returns the logged-in user, or nil.
func (ss *SessionStore) CurrentUser() *User {
	sess := ss.Get()
	if sess == nil {
		return nil
	}
	return sess.User
}

// AccessToken returns the current bearer token, or the empty string.
func (ss *SessionStore) AccessToken() string {
	sess := ss.Get()
	if sess == nil {
		return ""
	}
	return sess.AccessToken
}
