package geo

import (
	"math"
	"time"

	"github.com/fastseller/fastseller/internal/store"
)

// historyLimit caps the number of remembered map searches.
const historyLimit = 5

// HistoryEntry is one remembered map search.
type HistoryEntry struct {
	Label     string  `json:"label,omitempty"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
	RadiusKm  int     `json:"radius"`
	SavedAt   int64   `json:"savedAt"`
}

// History keeps the most recent map searches, newest first, capped at five
// entries and deduplicated by position rounded to four decimals plus the
// integer radius.
type History struct {
	store *store.Store
}

// NewHistory returns a store-backed search history.
func NewHistory(s *store.Store) *History {
	return &History{store: s}
}

// List returns the remembered searches, newest first.
func (h *History) List() ([]HistoryEntry, error) {
	var entries []HistoryEntry
	if err := h.store.Read(store.KeyMapHistory, &entries); err != nil {
		return nil, err
	}
	if len(entries) > historyLimit {
		entries = entries[:historyLimit]
	}
	return entries, nil
}

// Remember records a search. An entry matching an existing one is moved to
// the front rather than duplicated.
func (h *History) Remember(label string, lat, lon, radiusKm float64) error {
	entries, err := h.List()
	if err != nil {
		return err
	}

	entry := HistoryEntry{
		Label:     label,
		Latitude:  roundCoord(lat),
		Longitude: roundCoord(lon),
		RadiusKm:  int(math.Round(radiusKm)),
		SavedAt:   time.Now().UnixMilli(),
	}

	deduped := make([]HistoryEntry, 0, len(entries)+1)
	deduped = append(deduped, entry)
	for _, e := range entries {
		if sameSearch(e, entry) {
			continue
		}
		deduped = append(deduped, e)
	}
	if len(deduped) > historyLimit {
		deduped = deduped[:historyLimit]
	}
	return h.store.Write(store.KeyMapHistory, deduped)
}

// Clear forgets every remembered search.
func (h *History) Clear() error {
	return h.store.Delete(store.KeyMapHistory)
}

func sameSearch(a, b HistoryEntry) bool {
	return math.Abs(a.Latitude-b.Latitude) < 0.0001 &&
		math.Abs(a.Longitude-b.Longitude) < 0.0001 &&
		a.RadiusKm == b.RadiusKm
}

func roundCoord(v float64) float64 {
	return math.Round(v*10000) / 10000
}
