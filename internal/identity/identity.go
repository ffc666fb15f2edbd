// Package identity derives stable owner keys for partitioning per-user data
// and decides listing ownership. Ownership matching is a string heuristic
// kept from the original client, not a security boundary: the remote and
// local paths populate different owner fields, so several candidates are
// compared.
package identity

import (
	"strings"

	"github.com/fastseller/fastseller/internal/auth"
	"github.com/fastseller/fastseller/internal/item"
)

// GuestKey is the shared bucket for every anonymous user. All anonymous
// sessions share it; that is the intended behavior, not a bug.
const GuestKey = "guest"

// OwnerKey derives the partitioning key for a user: id first, then email,
// then username, else the guest bucket. Total and deterministic.
func OwnerKey(u *auth.User) string {
	if u != nil {
		switch {
		case u.ID != "":
			return "user:" + u.ID
		case u.Email != "":
			return "email:" + u.Email
		case u.Username != "":
			return "username:" + u.Username
		}
	}
	return GuestKey
}

// IsOwnedBy reports whether the user owns the listing. A strict ownerId/id
// match wins; otherwise the lower-cased, trimmed candidate sets of the user
// and the listing are intersected. Ids are compared as strings, so numeric
// and string ids still match.
func IsOwnedBy(it *item.Item, u *auth.User) bool {
	if it == nil || u == nil {
		return false
	}
	if it.OwnerID != "" && u.ID != "" && it.OwnerID == u.ID {
		return true
	}

	userSet := candidateSet(u.ID, u.Username, u.Email)
	itemSet := candidateSet(it.OwnerID, it.Owner, it.OwnerName)
	for c := range itemSet {
		if userSet[c] {
			return true
		}
	}
	return false
}

func candidateSet(values ...string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			set[v] = true
		}
	}
	return set
}
