package httpapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"

	"github.com/fastseller/fastseller/internal/identity"
	"github.com/fastseller/fastseller/internal/item"
)

func floatParam(c echo.Context, name string) *float64 {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return nil
	}
	f, err := cast.ToFloat64E(raw)
	if err != nil {
		return nil
	}
	return &f
}

// ListItems handles GET /api/items.
func (a *API) ListItems(c echo.Context) error {
	f := item.Filter{
		Search:    c.QueryParam("search"),
		Category:  c.QueryParam("category"),
		SellerID:  c.QueryParam("seller_id"),
		MinPrice:  floatParam(c, "min_price"),
		MaxPrice:  floatParam(c, "max_price"),
		Latitude:  floatParam(c, "latitude"),
		Longitude: floatParam(c, "longitude"),
		RadiusKm:  floatParam(c, "radius_km"),
		OrderBy:   c.QueryParam("order_by"),
		OrderDir:  c.QueryParam("order_dir"),
		Page:      cast.ToInt(c.QueryParam("page")),
		PerPage:   cast.ToInt(c.QueryParam("per_page")),
	}

	items, err := a.Items.List(c.Request().Context(), f)
	if err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"success": false, "message": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": items})
}

// GetItem handles GET /api/items/:id.
func (a *API) GetItem(c echo.Context) error {
	it, err := a.Items.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"success": false, "message": err.Error()})
	}
	if it == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "Oggetto non trovato"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": it})
}

// CreateItem handles POST /api/items. The listing is stamped with the
// authenticated user as owner.
func (a *API) CreateItem(c echo.Context) error {
	var draft item.Draft
	if err := c.Bind(&draft); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "payload non valido"})
	}

	if u := a.currentUser(c); u != nil {
		draft.Owner = u.Username
		draft.OwnerID = u.ID
		if draft.OwnerName == "" {
			full := strings.TrimSpace(u.FirstName + " " + u.LastName)
			if full != "" {
				draft.OwnerName = full
			}
		}
	}

	created, err := a.Items.Create(c.Request().Context(), draft)
	if err != nil {
		status := http.StatusBadGateway
		if item.IsValidation(err) {
			status = http.StatusBadRequest
		}
		return c.JSON(status, echo.Map{"success": false, "message": err.Error()})
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": created})
}

// UpdateItem handles PUT /api/items/:id. Only the owner may update; the
// check happens here, not in the repository.
func (a *API) UpdateItem(c echo.Context) error {
	id := c.Param("id")
	existing, err := a.Items.Get(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"success": false, "message": err.Error()})
	}
	if existing == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "Oggetto non trovato"})
	}
	if !identity.IsOwnedBy(existing, a.currentUser(c)) {
		return c.JSON(http.StatusForbidden, echo.Map{"success": false, "message": "Non sei autorizzato a modificare questo oggetto"})
	}

	var patch item.Patch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "payload non valido"})
	}

	updated, err := a.Items.Update(c.Request().Context(), id, patch)
	if err != nil {
		status := http.StatusBadGateway
		if item.IsValidation(err) {
			status = http.StatusBadRequest
		}
		return c.JSON(status, echo.Map{"success": false, "message": err.Error()})
	}
	if updated == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "Oggetto non trovato"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": updated})
}

// DeleteItem handles DELETE /api/items/:id. Deletion is permanent.
func (a *API) DeleteItem(c echo.Context) error {
	id := c.Param("id")
	existing, err := a.Items.Get(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"success": false, "message": err.Error()})
	}
	if existing == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "Oggetto non trovato"})
	}
	if !identity.IsOwnedBy(existing, a.currentUser(c)) {
		return c.JSON(http.StatusForbidden, echo.Map{"success": false, "message": "Non sei autorizzato a eliminare questo oggetto"})
	}

	removed, err := a.Items.Delete(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"success": false, "message": err.Error()})
	}
	if !removed {
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "Oggetto non trovato"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Oggetto eliminato con successo"})
}
