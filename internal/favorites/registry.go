// Package favorites keeps the per-user sets of favorited item ids.
package favorites

import (
	"github.com/fastseller/fastseller/internal/auth"
	"github.com/fastseller/fastseller/internal/events"
	"github.com/fastseller/fastseller/internal/identity"
	"github.com/fastseller/fastseller/internal/store"
)

// Registry partitions favorite item ids by owner key. An owner with an empty
// set is removed from the mapping, so no empty entries persist.
type Registry struct {
	store    *store.Store
	notifier events.Notifier
}

// NewRegistry returns a store-backed registry.
func NewRegistry(s *store.Store, n events.Notifier) *Registry {
	return &Registry{store: s, notifier: n}
}

func (r *Registry) read() (map[string][]string, error) {
	data := map[string][]string{}
	if err := r.store.Read(store.KeyFavorites, &data); err != nil {
		return nil, err
	}
	if data == nil {
		data = map[string][]string{}
	}
	return data, nil
}

func (r *Registry) write(data map[string][]string) error {
	if err := r.store.Write(store.KeyFavorites, data); err != nil {
		return err
	}
	r.notifier.Emit(events.FavoritesChanged)
	return nil
}

// List returns the user's favorite item ids. The order is stable but carries
// no meaning.
func (r *Registry) List(u *auth.User) ([]string, error) {
	data, err := r.read()
	if err != nil {
		return nil, err
	}
	list := data[identity.OwnerKey(u)]
	out := make([]string, len(list))
	copy(out, list)
	return out, nil
}

// IsFavorite reports whether the item is in the user's set. Pure query, no
// side effect.
func (r *Registry) IsFavorite(itemID string, u *auth.User) (bool, error) {
	data, err := r.read()
	if err != nil {
		return false, err
	}
	for _, id := range data[identity.OwnerKey(u)] {
		if id == itemID {
			return true, nil
		}
	}
	return false, nil
}

// Toggle adds the item to the user's set, or removes it if already present,
// and returns the new full list. The favorites change is broadcast
// synchronously after the write completes. Toggling twice restores the
// original set.
func (r *Registry) Toggle(itemID string, u *auth.User) ([]string, error) {
	key := identity.OwnerKey(u)
	data, err := r.read()
	if err != nil {
		return nil, err
	}

	list := data[key]
	next := make([]string, 0, len(list)+1)
	removed := false
	seen := map[string]bool{}
	for _, id := range list {
		if id == "" || seen[id] {
			continue
		}
		if id == itemID {
			removed = true
			continue
		}
		seen[id] = true
		next = append(next, id)
	}
	if !removed && itemID != "" {
		next = append(next, itemID)
	}

	if len(next) == 0 {
		delete(data, key)
	} else {
		data[key] = next
	}
	if err := r.write(data); err != nil {
		return nil, err
	}
	return next, nil
}

// Clear removes the user's whole set.
func (r *Registry) Clear(u *auth.User) error {
	key := identity.OwnerKey(u)
	data, err := r.read()
	if err != nil {
		return err
	}
	if _, ok := data[key]; !ok {
		return nil
	}
	delete(data, key)
	return r.write(data)
}
