package item

import (
	"context"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/fastseller/fastseller/internal/geo"
	"github.com/fastseller/fastseller/internal/money"
	"github.com/fastseller/fastseller/internal/store"
)

// Filter narrows a listing query. Zero values mean "no constraint".
type Filter struct {
	Search    string
	Category  string
	SellerID  string
	MinPrice  *float64
	MaxPrice  *float64
	Latitude  *float64
	Longitude *float64
	RadiusKm  *float64
	OrderBy   string // created_at, price or title; empty means title
	OrderDir  string // asc or desc
	Page      int
	PerPage   int
}

func (f Filter) geoActive() bool {
	return f.Latitude != nil && f.Longitude != nil
}

// Repository is the item collection. Get returns (nil, nil) for an unknown
// id: not-found is a valid outcome, distinct from a transport failure.
// Delete reports whether a record was removed. The repository does not
// re-check ownership; the caller is responsible for that gate.
type Repository interface {
	List(ctx context.Context, f Filter) ([]Item, error)
	Get(ctx context.Context, id string) (*Item, error)
	Create(ctx context.Context, draft Draft) (*Item, error)
	Update(ctx context.Context, id string, patch Patch) (*Item, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// LocalRepository keeps the collection in the keyed blob store, the mock
// backend used when no upstream API is configured.
type LocalRepository struct {
	store *store.Store
}

// NewLocalRepository returns a store-backed repository.
func NewLocalRepository(s *store.Store) *LocalRepository {
	return &LocalRepository{store: s}
}

func (r *LocalRepository) readAll() ([]Item, error) {
	var items []Item
	if err := r.store.Read(store.KeyItems, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *LocalRepository) writeAll(items []Item) error {
	return r.store.Write(store.KeyItems, items)
}

// Create validates the draft, assigns an id and creation time, and prepends
// the new listing. The owner display name defaults to the owner username,
// then to "Utente".
func (r *LocalRepository) Create(ctx context.Context, draft Draft) (*Item, error) {
	if err := validateTitle(draft.Title); err != nil {
		return nil, err
	}
	if err := validateDescription(draft.Description); err != nil {
		return nil, err
	}
	price, err := parsePrice(draft.Price, false)
	if err != nil {
		return nil, err
	}
	if err := validateCoordinates(draft.Latitude, draft.Longitude); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	it := Item{
		ID:          store.NewID(),
		Title:       strings.TrimSpace(draft.Title),
		Description: strings.TrimSpace(draft.Description),
		Price:       price,
		Image:       draft.Image,
		Category:    draft.Category,
		Condition:   draft.Condition,
		Location:    draft.Location,
		Latitude:    draft.Latitude,
		Longitude:   draft.Longitude,
		Owner:       draft.Owner,
		OwnerID:     draft.OwnerID,
		OwnerName:   resolveOwnerName(draft.OwnerName, draft.Owner),
		CreatedAt:   &now,
	}

	items, err := r.readAll()
	if err != nil {
		return nil, err
	}
	items = append([]Item{it}, items...)
	if err := r.writeAll(items); err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *LocalRepository) Get(ctx context.Context, id string) (*Item, error) {
	items, err := r.readAll()
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID == id {
			it := items[i]
			return &it, nil
		}
	}
	return nil, nil
}

// Update merges the supplied fields onto the stored record. The id is
// immutable.
func (r *LocalRepository) Update(ctx context.Context, id string, patch Patch) (*Item, error) {
	items, err := r.readAll()
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID != id {
			continue
		}
		merged, err := merge(items[i], patch)
		if err != nil {
			return nil, err
		}
		if merged.Title != items[i].Title {
			if err := validateTitle(merged.Title); err != nil {
				return nil, err
			}
		}
		if err := validateDescription(merged.Description); err != nil {
			return nil, err
		}
		if err := validateCoordinates(merged.Latitude, merged.Longitude); err != nil {
			return nil, err
		}
		merged.ID = id
		now := time.Now().UTC()
		merged.UpdatedAt = &now
		items[i] = merged
		if err := r.writeAll(items); err != nil {
			return nil, err
		}
		out := merged
		return &out, nil
	}
	return nil, nil
}

// Delete removes the record unconditionally. Deletion is permanent: there is
// no soft-delete in the local store.
func (r *LocalRepository) Delete(ctx context.Context, id string) (bool, error) {
	items, err := r.readAll()
	if err != nil {
		return false, err
	}
	for i := range items {
		if items[i].ID == id {
			items = append(items[:i], items[i+1:]...)
			if err := r.writeAll(items); err != nil {
				return false, err
			}
			return true, nil
		}
	}
	return false, nil
}

// List applies the filter and returns a sorted copy of the matching listings.
// Without an explicit ordering the result is sorted by title ascending,
// locale-aware and case-insensitive. When a geo radius is active each match
// carries its computed distance and the result is sorted nearest first.
func (r *LocalRepository) List(ctx context.Context, f Filter) ([]Item, error) {
	items, err := r.readAll()
	if err != nil {
		return nil, err
	}

	out := make([]Item, 0, len(items))
	search := strings.ToLower(strings.TrimSpace(f.Search))
	for _, it := range items {
		if search != "" {
			haystack := strings.ToLower(it.Title + " " + it.Description)
			if !strings.Contains(haystack, search) {
				continue
			}
		}
		if f.Category != "" && !strings.EqualFold(it.Category, f.Category) {
			continue
		}
		if f.SellerID != "" && it.OwnerID != f.SellerID {
			continue
		}
		if f.MinPrice != nil && (it.Price == nil || *it.Price < *f.MinPrice) {
			continue
		}
		if f.MaxPrice != nil && (it.Price == nil || *it.Price > *f.MaxPrice) {
			continue
		}
		if f.geoActive() {
			if it.Latitude == nil || it.Longitude == nil {
				if f.RadiusKm != nil {
					continue
				}
				out = append(out, it)
				continue
			}
			d := money.Round2(geo.HaversineKm(*f.Latitude, *f.Longitude, *it.Latitude, *it.Longitude))
			it.DistanceKm = &d
			if f.RadiusKm != nil && !geo.WithinRadius(it.DistanceKm, it.Latitude, it.Longitude, *f.Latitude, *f.Longitude, *f.RadiusKm) {
				continue
			}
		}
		out = append(out, it)
	}

	sortItems(out, f)
	return paginate(out, f.Page, f.PerPage), nil
}

func sortItems(items []Item, f Filter) {
	desc := strings.EqualFold(f.OrderDir, "desc")

	if f.geoActive() && f.RadiusKm != nil {
		sort.SliceStable(items, func(i, j int) bool {
			di, dj := items[i].DistanceKm, items[j].DistanceKm
			if di == nil {
				return false
			}
			if dj == nil {
				return true
			}
			return *di < *dj
		})
		return
	}

	switch f.OrderBy {
	case "price":
		sort.SliceStable(items, func(i, j int) bool {
			pi, pj := priceOrZero(items[i]), priceOrZero(items[j])
			if desc {
				return pi > pj
			}
			return pi < pj
		})
	case "created_at":
		sort.SliceStable(items, func(i, j int) bool {
			ti, tj := createdOrZero(items[i]), createdOrZero(items[j])
			if desc {
				return ti.After(tj)
			}
			return ti.Before(tj)
		})
	default:
		coll := collate.New(language.Italian, collate.IgnoreCase)
		sort.SliceStable(items, func(i, j int) bool {
			cmp := coll.CompareString(items[i].Title, items[j].Title)
			if desc {
				return cmp > 0
			}
			return cmp < 0
		})
	}
}

func priceOrZero(it Item) float64 {
	if it.Price == nil {
		return 0
	}
	return *it.Price
}

func createdOrZero(it Item) time.Time {
	if it.CreatedAt == nil {
		return time.Time{}
	}
	return *it.CreatedAt
}

func paginate(items []Item, page, perPage int) []Item {
	if perPage <= 0 {
		return items
	}
	if perPage > 100 {
		perPage = 100
	}
	if page <= 0 {
		page = 1
	}
	start := (page - 1) * perPage
	if start >= len(items) {
		return []Item{}
	}
	end := start + perPage
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
