package httpapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fastseller/fastseller/internal/auth"
	"github.com/fastseller/fastseller/internal/order"
)

// CheckoutRequest is the order form. Completeness is validated here, at the
// form level; the order repository itself accepts any payload.
type CheckoutRequest struct {
	ItemID        string   `json:"itemId" validate:"required"`
	Amount        float64  `json:"amount" validate:"gte=0"`
	Shipping      *float64 `json:"shipping" validate:"omitempty,gte=0"`
	ServiceFee    *float64 `json:"serviceFee" validate:"omitempty,gte=0"`
	PaymentMethod string   `json:"paymentMethod" validate:"required,oneof=card paypal bank wallet"`
	Buyer         struct {
		FullName string `json:"fullName" validate:"required"`
		Email    string `json:"email" validate:"required,email"`
		Phone    string `json:"phone"`
	} `json:"buyer" validate:"required"`
	Address struct {
		Line1 string `json:"line1" validate:"required"`
		City  string `json:"city" validate:"required"`
		Zip   string `json:"zip" validate:"required"`
	} `json:"address" validate:"required"`
	Note string `json:"note"`
}

// PlaceOrder handles POST /api/orders, the simulated checkout.
func (a *API) PlaceOrder(c echo.Context) error {
	var req CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "payload non valido"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "dati di checkout incompleti"})
	}

	payload := order.CheckoutPayload{
		ItemID:        req.ItemID,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		Buyer:         order.Buyer{FullName: req.Buyer.FullName, Email: req.Buyer.Email, Phone: req.Buyer.Phone},
		Address:       order.Address{Line1: req.Address.Line1, City: req.Address.City, Zip: req.Address.Zip},
		Note:          req.Note,
	}
	// Omitted fees get the platform defaults; an explicit zero is honored.
	payload.Shipping = order.ShippingCost
	if req.Shipping != nil {
		payload.Shipping = *req.Shipping
	}
	if req.ServiceFee != nil {
		payload.ServiceFee = *req.ServiceFee
	} else if req.Amount > 0 {
		payload.ServiceFee = order.ServiceFee(req.Amount)
	}

	buyerID, _ := c.Get("user_id").(string)
	rec, err := a.Checkout.Process(c.Request().Context(), buyerID, payload)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, auth.ErrNoSession) {
			status = http.StatusUnauthorized
		}
		return c.JSON(status, echo.Map{"success": false, "message": err.Error()})
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": rec})
}

// ListOrders handles GET /api/orders, full history newest first.
func (a *API) ListOrders(c echo.Context) error {
	orders, err := a.Orders.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": orders})
}
