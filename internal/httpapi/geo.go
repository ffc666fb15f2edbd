package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"
	"go.uber.org/zap"

	"github.com/fastseller/fastseller/internal/item"
)

// ReverseGeocode handles GET /api/geo/reverse?lat&lon. Lookups go through
// the latest-wins resolver: a result superseded while in flight yields 204.
func (a *API) ReverseGeocode(c echo.Context) error {
	lat, latErr := cast.ToFloat64E(c.QueryParam("lat"))
	lon, lonErr := cast.ToFloat64E(c.QueryParam("lon"))
	if latErr != nil || lonErr != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "coordinate non valide"})
	}

	place, err := a.Resolver.Resolve(c.Request().Context(), lat, lon)
	if err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"success": false, "message": err.Error()})
	}
	if place == nil {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": place})
}

// SearchPlaces handles GET /api/geo/search?q&limit.
func (a *API) SearchPlaces(c echo.Context) error {
	query := c.QueryParam("q")
	limit := cast.ToInt(c.QueryParam("limit"))

	places, err := a.Geo.Search(c.Request().Context(), query, limit)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "results": places})
}

// NearbyItems handles GET /api/geo/nearby?lat&lon&radius. The search is
// remembered in the capped map history.
func (a *API) NearbyItems(c echo.Context) error {
	lat, latErr := cast.ToFloat64E(c.QueryParam("lat"))
	lon, lonErr := cast.ToFloat64E(c.QueryParam("lon"))
	if latErr != nil || lonErr != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "coordinate non valide"})
	}
	radius := cast.ToFloat64(c.QueryParam("radius"))
	if radius <= 0 {
		radius = 10
	}

	items, err := a.Items.List(c.Request().Context(), item.Filter{
		Latitude:  &lat,
		Longitude: &lon,
		RadiusKm:  &radius,
	})
	if err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"success": false, "message": err.Error()})
	}

	if err := a.History.Remember(c.QueryParam("label"), lat, lon, radius); err != nil {
		a.log.Warn("salvataggio cronologia ricerche fallito", zap.Error(err))
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "items": items})
}

// SearchHistory handles GET /api/geo/history.
func (a *API) SearchHistory(c echo.Context) error {
	entries, err := a.History.List()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": entries})
}

// ClearSearchHistory handles DELETE /api/geo/history.
func (a *API) ClearSearchHistory(c echo.Context) error {
	if err := a.History.Clear(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
