package auth

import (
	"strings"

	"github.com/fastseller/fastseller/internal/store"
)

// Record is a user as persisted in the directory. The password hash never
// leaves this package.
type Record struct {
	User
	PasswordHash string `json:"password_hash,omitempty"`
}

// Directory is the persisted user list, newest first. Users are created at
// registration and updated by profile changes; they are never deleted.
type Directory struct {
	store *store.Store
}

// NewDirectory returns a store-backed user directory.
func NewDirectory(s *store.Store) *Directory {
	return &Directory{store: s}
}

func (d *Directory) readAll() ([]Record, error) {
	var users []Record
	if err := d.store.Read(store.KeyUsers, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// List returns every known user with wallets normalized.
func (d *Directory) List() ([]Record, error) {
	users, err := d.readAll()
	if err != nil {
		return nil, err
	}
	for i := range users {
		ensureWallet(&users[i].User)
	}
	return users, nil
}

// FindByID returns the record with the given id, or nil.
func (d *Directory) FindByID(id string) (*Record, error) {
	users, err := d.readAll()
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == id {
			ensureWallet(&users[i].User)
			rec := users[i]
			return &rec, nil
		}
	}
	return nil, nil
}

// FindByLogin matches a username or email, case-insensitively.
func (d *Directory) FindByLogin(login string) (*Record, error) {
	users, err := d.readAll()
	if err != nil {
		return nil, err
	}
	for i := range users {
		if strings.EqualFold(users[i].Username, login) || strings.EqualFold(users[i].Email, login) {
			ensureWallet(&users[i].User)
			rec := users[i]
			return &rec, nil
		}
	}
	return nil, nil
}

// Insert prepends a new record.
func (d *Directory) Insert(rec Record) error {
	ensureWallet(&rec.User)
	users, err := d.readAll()
	if err != nil {
		return err
	}
	users = append([]Record{rec}, users...)
	return d.store.Write(store.KeyUsers, users)
}

// SyncUser merges the public fields of u onto its directory record so later
// reads stay consistent with the session. Unknown users are prepended; the
// stored password hash is preserved.
func (d *Directory) SyncUser(u User) error {
	if u.ID == "" {
		return nil
	}
	ensureWallet(&u)
	users, err := d.readAll()
	if err != nil {
		return err
	}
	for i := range users {
		if users[i].ID == u.ID {
			users[i].User = u
			return d.store.Write(store.KeyUsers, users)
		}
	}
	users = append([]Record{{User: u}}, users...)
	return d.store.Write(store.KeyUsers, users)
}
