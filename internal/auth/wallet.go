package auth

import (
	"errors"
	"math"

	"github.com/fastseller/fastseller/internal/money"
)

// Wallet adjustment failures.
var (
	ErrNoSession         = errors.New("nessun utente autenticato")
	ErrInsufficientFunds = errors.New("saldo insufficiente")
)

// Ledger manages wallet balances per user. Adjustments are all-or-nothing: a
// delta whose result would be negative or not a number is rejected and the
// balance is left untouched.
type Ledger struct {
	users    *Directory
	sessions *SessionStore
}

// NewLedger returns a ledger over the user directory. When an adjusted user
// is also the session user the session is refreshed, which broadcasts the
// auth change so balance displays follow.
func NewLedger(users *Directory, sessions *SessionStore) *Ledger {
	return &Ledger{users: users, sessions: sessions}
}

// Balance returns the user's wallet balance, zero for an unknown id.
func (l *Ledger) Balance(userID string) float64 {
	rec, err := l.users.FindByID(userID)
	if err != nil || rec == nil {
		return 0
	}
	return rec.WalletBalance
}

// Adjust applies a relative change to the user's balance and returns the new
// value. On failure nothing is written. A success is persisted to the
// directory; when the user is also the logged-in session user the session is
// updated in the same step and the auth change broadcast.
func (l *Ledger) Adjust(userID string, delta float64) (float64, error) {
	if userID == "" {
		return 0, ErrNoSession
	}
	rec, err := l.users.FindByID(userID)
	if err != nil {
		return 0, err
	}
	if rec == nil {
		return 0, ErrNoSession
	}

	next := money.Round2(rec.WalletBalance + delta)
	if math.IsNaN(next) || next < 0 {
		return rec.WalletBalance, ErrInsufficientFunds
	}

	u := rec.User
	u.WalletBalance = next
	if sess := l.sessions.Get(); sess != nil && sess.User != nil && sess.User.ID == userID {
		sess.User = &u
		// Set also syncs the directory record.
		if err := l.sessions.Set(sess); err != nil {
			return 0, err
		}
		return next, nil
	}
	if err := l.users.SyncUser(u); err != nil {
		return 0, err
	}
	return next, nil
}
