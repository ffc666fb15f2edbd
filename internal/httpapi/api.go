// Package httpapi exposes the FastSeller REST surface over echo.
package httpapi

import (
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/fastseller/fastseller/internal/auth"
	"github.com/fastseller/fastseller/internal/favorites"
	"github.com/fastseller/fastseller/internal/geo"
	"github.com/fastseller/fastseller/internal/item"
	"github.com/fastseller/fastseller/internal/message"
	"github.com/fastseller/fastseller/internal/order"
	"github.com/labstack/echo/v4"
)

// API bundles the handlers' dependencies. Route wiring lives in cmd/server.
type API struct {
	Items     item.Repository
	Auth      *auth.Service
	Favorites *favorites.Registry
	Checkout  *order.Checkout
	Orders    *order.Repository
	Messages  *message.Store
	Geo       *geo.Nominatim
	Resolver  *geo.Resolver
	History   *geo.History

	log *zap.Logger
}

// New returns the API with a reverse-geocoding resolver wired to the
// Nominatim client.
func New(items item.Repository, authSvc *auth.Service, favs *favorites.Registry,
	checkout *order.Checkout, orders *order.Repository, msgs *message.Store,
	nominatim *geo.Nominatim, history *geo.History) *API {
	return &API{
		Items:     items,
		Auth:      authSvc,
		Favorites: favs,
		Checkout:  checkout,
		Orders:    orders,
		Messages:  msgs,
		Geo:       nominatim,
		Resolver:  geo.NewResolver(nominatim.Reverse),
		History:   history,
		log:       zap.L(),
	}
}

// Validator adapts go-playground/validator to echo's Validator interface.
type Validator struct {
	validate *validator.Validate
}

// NewValidator returns the request validator installed on the echo instance.
func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

func (v *Validator) Validate(i any) error {
	return v.validate.Struct(i)
}

// currentUser resolves the authenticated user from the request context, or
// nil for anonymous requests. Anonymous callers all land in the shared guest
// bucket for per-user data.
func (a *API) currentUser(c echo.Context) *auth.User {
	userID, _ := c.Get("user_id").(string)
	if userID == "" {
		return nil
	}
	rec, err := a.Auth.Users().FindByID(userID)
	if err != nil || rec == nil {
		return nil
	}
	u := rec.User
	return &u
}
