package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ListFavorites handles GET /api/favorites. Anonymous callers read the
// shared guest bucket.
func (a *API) ListFavorites(c echo.Context) error {
	list, err := a.Favorites.List(a.currentUser(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": list})
}

// ToggleFavorite handles POST /api/favorites/:itemId/toggle and returns the
// new full list.
func (a *API) ToggleFavorite(c echo.Context) error {
	itemID := c.Param("itemId")
	if itemID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "id oggetto mancante"})
	}
	list, err := a.Favorites.Toggle(itemID, a.currentUser(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": list})
}
