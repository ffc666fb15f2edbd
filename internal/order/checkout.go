package order

import (
	"context"
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/fastseller/fastseller/internal/auth"
	"github.com/fastseller/fastseller/internal/money"
)

// Fixed checkout fees, as shown in the original checkout summary.
const (
	ShippingCost   = 4.9
	serviceFeeMin  = 1.2
	serviceFeeRate = 0.025
)

// ServiceFee returns the platform fee for a given item price.
func ServiceFee(price float64) float64 {
	return money.Round2(math.Max(serviceFeeMin, price*serviceFeeRate))
}

// Checkout turns a payload into an order record. Wallet payments debit the
// balance before the order is created; if creating the order then fails the
// debit is reversed with an equal-and-opposite credit.
type Checkout struct {
	orders *Repository
	ledger *auth.Ledger
	log    *zap.Logger
}

// NewCheckout wires the checkout flow.
func NewCheckout(orders *Repository, ledger *auth.Ledger) *Checkout {
	return &Checkout{orders: orders, ledger: ledger, log: zap.L()}
}

func validMethod(m string) bool {
	switch m {
	case MethodCard, MethodPaypal, MethodBank, MethodWallet:
		return true
	}
	return false
}

// Process completes a checkout for the given buyer. Wallet payments debit
// that user's balance; insufficient funds block the order with no partial
// write: the balance stays unchanged and no record is created.
func (c *Checkout) Process(ctx context.Context, buyerID string, payload CheckoutPayload) (*Record, error) {
	if !validMethod(payload.PaymentMethod) {
		return nil, fmt.Errorf("metodo di pagamento non supportato: %q", payload.PaymentMethod)
	}

	total := money.Round2(payload.Amount + payload.Shipping + payload.ServiceFee)

	debited := false
	if payload.PaymentMethod == MethodWallet {
		if _, err := c.ledger.Adjust(buyerID, -total); err != nil {
			return nil, err
		}
		debited = true
	}

	rec, err := c.orders.Create(ctx, payload)
	if err != nil {
		if debited {
			// Compensating credit: the debit must not survive a failed order.
			if _, crErr := c.ledger.Adjust(buyerID, total); crErr != nil {
				c.log.Error("storno del saldo fallito dopo errore ordine",
					zap.Float64("amount", total), zap.Error(crErr))
				return nil, errors.Join(err, crErr)
			}
		}
		return nil, err
	}
	return rec, nil
}
