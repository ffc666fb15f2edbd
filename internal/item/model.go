package item

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fastseller/fastseller/internal/money"
)

// DefaultOwnerName is shown when a listing carries no owner information.
const DefaultOwnerName = "Utente"

// Item is a marketplace listing. Optional numeric fields are pointers so a
// missing value is distinguishable from zero. DistanceKm is ephemeral: it is
// attached by a geo query and never persisted.
type Item struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Price       *float64   `json:"price,omitempty"`
	Image       string     `json:"image,omitempty"`
	Category    string     `json:"category,omitempty"`
	Condition   string     `json:"condition,omitempty"`
	Location    string     `json:"location,omitempty"`
	Latitude    *float64   `json:"latitude,omitempty"`
	Longitude   *float64   `json:"longitude,omitempty"`
	Owner       string     `json:"owner,omitempty"`
	OwnerName   string     `json:"ownerName,omitempty"`
	OwnerID     string     `json:"ownerId,omitempty"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
	DistanceKm  *float64   `json:"distance_km,omitempty"`
}

// Draft is the payload for creating a listing. Price is kept untyped so both
// JSON numbers and strings with comma or dot decimals are accepted; the
// repository owns normalization.
type Draft struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       any      `json:"price"`
	Image       string   `json:"image"`
	Category    string   `json:"category"`
	Condition   string   `json:"condition"`
	Location    string   `json:"location"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Owner       string   `json:"owner"`
	OwnerName   string   `json:"ownerName"`
	OwnerID     string   `json:"ownerId"`
}

// Patch carries a partial update. Nil fields are left unchanged.
type Patch struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Price       any      `json:"price"`
	Image       *string  `json:"image"`
	Category    *string  `json:"category"`
	Condition   *string  `json:"condition"`
	Location    *string  `json:"location"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Owner       *string  `json:"owner"`
	OwnerName   *string  `json:"ownerName"`
	OwnerID     *string  `json:"ownerId"`
}

// ValidationError marks failures that should surface to the caller before any
// I/O happens.
type ValidationError struct{ msg string }

func (e *ValidationError) Error() string { return e.msg }

func validationErrorf(format string, args ...any) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return validationErrorf("il titolo è obbligatorio")
	}
	if len(title) > 100 {
		return validationErrorf("titolo troppo lungo (max 100 caratteri)")
	}
	return nil
}

func validateDescription(desc string) error {
	if len(desc) > 5000 {
		return validationErrorf("descrizione troppo lunga (max 5000 caratteri)")
	}
	return nil
}

// parsePrice normalizes a raw price value. A nil raw yields a nil price when
// required is false; otherwise it is a validation failure.
func parsePrice(raw any, required bool) (*float64, error) {
	if raw == nil {
		if required {
			return nil, validationErrorf("il prezzo è obbligatorio")
		}
		return nil, nil
	}
	p, err := money.Parse(raw)
	if err != nil {
		return nil, validationErrorf("prezzo non valido")
	}
	if p < 0 {
		return nil, validationErrorf("il prezzo non può essere negativo")
	}
	if p > 999999 {
		return nil, validationErrorf("prezzo troppo alto (max 999999)")
	}
	return &p, nil
}

func validateCoordinates(lat, lon *float64) error {
	if lat == nil && lon == nil {
		return nil
	}
	if lat == nil || lon == nil {
		return validationErrorf("coordinate incomplete")
	}
	if *lat < -90 || *lat > 90 {
		return validationErrorf("latitudine non valida (range: -90 a 90)")
	}
	if *lon < -180 || *lon > 180 {
		return validationErrorf("longitudine non valida (range: -180 a 180)")
	}
	return nil
}

// resolveOwnerName applies the display-name default chain.
func resolveOwnerName(ownerName, owner string) string {
	if ownerName != "" {
		return ownerName
	}
	if owner != "" {
		return owner
	}
	return DefaultOwnerName
}

// merge applies the non-nil fields of p onto base and returns the result.
// Unspecified fields keep their prior values; the owner display name is
// recomputed when any owner-related field changes.
func merge(base Item, p Patch) (Item, error) {
	out := base
	if p.Title != nil {
		out.Title = *p.Title
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.Price != nil {
		price, err := parsePrice(p.Price, false)
		if err != nil {
			return Item{}, err
		}
		out.Price = price
	}
	if p.Image != nil {
		out.Image = *p.Image
	}
	if p.Category != nil {
		out.Category = *p.Category
	}
	if p.Condition != nil {
		out.Condition = *p.Condition
	}
	if p.Location != nil {
		out.Location = *p.Location
	}
	if p.Latitude != nil {
		out.Latitude = p.Latitude
	}
	if p.Longitude != nil {
		out.Longitude = p.Longitude
	}
	ownerChanged := false
	if p.Owner != nil {
		out.Owner = *p.Owner
		ownerChanged = true
	}
	if p.OwnerID != nil {
		out.OwnerID = *p.OwnerID
		ownerChanged = true
	}
	if p.OwnerName != nil {
		out.OwnerName = *p.OwnerName
		ownerChanged = true
	}
	if ownerChanged {
		out.OwnerName = resolveOwnerName(out.OwnerName, out.Owner)
	}
	return out, nil
}
