// Package order persists completed checkouts and runs the checkout flow.
package order

import (
	"context"
	"time"

	"github.com/fastseller/fastseller/internal/money"
	"github.com/fastseller/fastseller/internal/store"
)

// Payment methods accepted at checkout.
const (
	MethodCard   = "card"
	MethodPaypal = "paypal"
	MethodBank   = "bank"
	MethodWallet = "wallet"
)

// Buyer identifies who placed the order.
type Buyer struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
}

// Address is the shipping address.
type Address struct {
	Line1 string `json:"line1"`
	City  string `json:"city"`
	Zip   string `json:"zip"`
}

// CheckoutPayload is the input of a checkout.
type CheckoutPayload struct {
	ItemID        string  `json:"itemId"`
	Amount        float64 `json:"amount"`
	Shipping      float64 `json:"shipping"`
	ServiceFee    float64 `json:"serviceFee"`
	PaymentMethod string  `json:"paymentMethod"`
	Buyer         Buyer   `json:"buyer"`
	Address       Address `json:"address"`
	Note          string  `json:"note,omitempty"`
}

// Record is an immutable snapshot of a completed checkout. It is created
// exactly once and never mutated or deleted.
type Record struct {
	CheckoutPayload
	ID        string    `json:"id"`
	Total     float64   `json:"total"`
	CreatedAt time.Time `json:"createdAt"`
}

// Repository is the append-only order history, newest first.
type Repository struct {
	store *store.Store
}

// NewRepository returns a store-backed order history.
func NewRepository(s *store.Store) *Repository {
	return &Repository{store: s}
}

func (r *Repository) readAll() ([]Record, error) {
	var orders []Record
	if err := r.store.Read(store.KeyOrders, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// Create computes the total, assigns id and creation time, and prepends the
// record. Payload completeness is the caller's responsibility; the
// repository itself never rejects one.
func (r *Repository) Create(ctx context.Context, payload CheckoutPayload) (*Record, error) {
	rec := Record{
		CheckoutPayload: payload,
		ID:              store.NewID(),
		Total:           money.Round2(payload.Amount + payload.Shipping + payload.ServiceFee),
		CreatedAt:       time.Now().UTC(),
	}

	orders, err := r.readAll()
	if err != nil {
		return nil, err
	}
	orders = append([]Record{rec}, orders...)
	if err := r.store.Write(store.KeyOrders, orders); err != nil {
		return nil, err
	}
	return &rec, nil
}

// List returns the full order history, newest first.
func (r *Repository) List(ctx context.Context) ([]Record, error) {
	orders, err := r.readAll()
	if err != nil {
		return nil, err
	}
	return orders, nil
}
