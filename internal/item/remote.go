package item

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/guonaihong/gout"
	"github.com/spf13/cast"
)

// RemoteRepository delegates every item operation to an upstream FastSeller
// API and maps its wire records onto the local item shape. A deployment uses
// either this or the local repository, never both.
type RemoteRepository struct {
	base  string
	token func() string
}

// NewRemoteRepository returns a repository bound to the upstream base URL.
// token supplies the bearer token attached to mutations; it may return the
// empty string for anonymous reads.
func NewRemoteRepository(base string, token func() string) *RemoteRepository {
	if token == nil {
		token = func() string { return "" }
	}
	return &RemoteRepository{base: strings.TrimRight(base, "/"), token: token}
}

type itemEnvelope struct {
	Success *bool     `json:"success"`
	Message string    `json:"message"`
	Data    *wireItem `json:"data"`
}

type itemListEnvelope struct {
	Success *bool      `json:"success"`
	Message string     `json:"message"`
	Data    []wireItem `json:"data"`
	Items   []wireItem `json:"items"`
}

// wireItem tolerates both the REST backend's field names (name, seller_id,
// seller_username) and the client-side names (title, owner, ownerId).
type wireItem struct {
	ID             any      `json:"id"`
	Title          string   `json:"title"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Price          any      `json:"price"`
	Image          string   `json:"image"`
	Category       string   `json:"category"`
	Condition      string   `json:"condition"`
	Location       string   `json:"location"`
	Latitude       *float64 `json:"latitude"`
	Longitude      *float64 `json:"longitude"`
	Owner          string   `json:"owner"`
	OwnerName      string   `json:"ownerName"`
	OwnerID        any      `json:"ownerId"`
	SellerID       any      `json:"seller_id"`
	SellerUsername string   `json:"seller_username"`
	CreatedAt      string   `json:"created_at"`
	DistanceKm     *float64 `json:"distance_km"`
}

func (w wireItem) toItem() Item {
	title := w.Title
	if title == "" {
		title = w.Name
	}
	owner := w.Owner
	if owner == "" {
		owner = w.SellerUsername
	}
	ownerID := cast.ToString(w.OwnerID)
	if ownerID == "" {
		ownerID = cast.ToString(w.SellerID)
	}

	it := Item{
		ID:          cast.ToString(w.ID),
		Title:       title,
		Description: w.Description,
		Image:       w.Image,
		Category:    w.Category,
		Condition:   w.Condition,
		Location:    w.Location,
		Latitude:    w.Latitude,
		Longitude:   w.Longitude,
		Owner:       owner,
		OwnerID:     ownerID,
		OwnerName:   resolveOwnerName(w.OwnerName, owner),
		DistanceKm:  w.DistanceKm,
	}
	if w.Price != nil {
		if p, err := cast.ToFloat64E(w.Price); err == nil {
			it.Price = &p
		}
	}
	if w.CreatedAt != "" {
		if t, err := time.Parse(time.RFC3339, w.CreatedAt); err == nil {
			it.CreatedAt = &t
		}
	}
	return it
}

func (r *RemoteRepository) authHeader() gout.H {
	h := gout.H{"Content-Type": "application/json"}
	if tok := r.token(); tok != "" {
		h["Authorization"] = "Bearer " + tok
	}
	return h
}

func remoteErr(message string, code int) error {
	if message != "" {
		return errors.New(message)
	}
	return fmt.Errorf("richiesta fallita (HTTP %d)", code)
}

func (r *RemoteRepository) List(ctx context.Context, f Filter) ([]Item, error) {
	query := gout.H{}
	if f.Search != "" {
		query["search"] = f.Search
	}
	if f.Category != "" {
		query["category"] = f.Category
	}
	if f.SellerID != "" {
		query["seller_id"] = f.SellerID
	}
	if f.MinPrice != nil {
		query["min_price"] = *f.MinPrice
	}
	if f.MaxPrice != nil {
		query["max_price"] = *f.MaxPrice
	}
	if f.Latitude != nil && f.Longitude != nil {
		query["latitude"] = *f.Latitude
		query["longitude"] = *f.Longitude
	}
	if f.RadiusKm != nil {
		query["radius_km"] = *f.RadiusKm
	}
	if f.OrderBy != "" {
		query["order_by"] = f.OrderBy
	}
	if f.OrderDir != "" {
		query["order_dir"] = f.OrderDir
	}
	if f.Page > 0 {
		query["page"] = f.Page
	}
	if f.PerPage > 0 {
		query["per_page"] = f.PerPage
	}

	var resp itemListEnvelope
	var code int
	err := gout.GET(r.base + "/api/items").
		WithContext(ctx).
		SetQuery(query).
		BindJSON(&resp).
		Code(&code).
		Do()
	if err != nil {
		return nil, fmt.Errorf("elenco oggetti non disponibile: %w", err)
	}
	if code < 200 || code >= 300 {
		return nil, remoteErr(resp.Message, code)
	}

	wire := resp.Data
	if wire == nil {
		wire = resp.Items
	}
	items := make([]Item, 0, len(wire))
	for _, w := range wire {
		items = append(items, w.toItem())
	}
	return items, nil
}

func (r *RemoteRepository) Get(ctx context.Context, id string) (*Item, error) {
	var resp itemEnvelope
	var code int
	err := gout.GET(r.base + "/api/items/" + id).
		WithContext(ctx).
		BindJSON(&resp).
		Code(&code).
		Do()
	if err != nil {
		return nil, fmt.Errorf("oggetto non disponibile: %w", err)
	}
	if code == 404 {
		return nil, nil
	}
	if code < 200 || code >= 300 || resp.Data == nil {
		return nil, remoteErr(resp.Message, code)
	}
	it := resp.Data.toItem()
	return &it, nil
}

// Create fails fast on an invalid draft: a missing title or a non-finite
// price is rejected before any request is sent.
func (r *RemoteRepository) Create(ctx context.Context, draft Draft) (*Item, error) {
	if err := validateTitle(draft.Title); err != nil {
		return nil, err
	}
	price, err := parsePrice(draft.Price, true)
	if err != nil {
		return nil, err
	}
	draft.Price = *price

	var resp itemEnvelope
	var code int
	err = gout.POST(r.base + "/api/items").
		WithContext(ctx).
		SetHeader(r.authHeader()).
		SetJSON(draft).
		BindJSON(&resp).
		Code(&code).
		Do()
	if err != nil {
		return nil, fmt.Errorf("creazione oggetto fallita: %w", err)
	}
	if code < 200 || code >= 300 || resp.Data == nil {
		return nil, remoteErr(resp.Message, code)
	}
	it := resp.Data.toItem()
	return &it, nil
}

func (r *RemoteRepository) Update(ctx context.Context, id string, patch Patch) (*Item, error) {
	var resp itemEnvelope
	var code int
	err := gout.PUT(r.base + "/api/items/" + id).
		WithContext(ctx).
		SetHeader(r.authHeader()).
		SetJSON(patch).
		BindJSON(&resp).
		Code(&code).
		Do()
	if err != nil {
		return nil, fmt.Errorf("aggiornamento oggetto fallito: %w", err)
	}
	if code == 404 {
		return nil, nil
	}
	if code < 200 || code >= 300 || resp.Data == nil {
		return nil, remoteErr(resp.Message, code)
	}
	it := resp.Data.toItem()
	return &it, nil
}

func (r *RemoteRepository) Delete(ctx context.Context, id string) (bool, error) {
	var resp itemEnvelope
	var code int
	err := gout.DELETE(r.base + "/api/items/" + id).
		WithContext(ctx).
		SetHeader(r.authHeader()).
		BindJSON(&resp).
		Code(&code).
		Do()
	if err != nil {
		return false, fmt.Errorf("eliminazione oggetto fallita: %w", err)
	}
	if code == 404 {
		return false, nil
	}
	if code < 200 || code >= 300 {
		return false, remoteErr(resp.Message, code)
	}
	return true, nil
}
