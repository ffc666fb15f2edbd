package httpapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fastseller/fastseller/internal/auth"
)

// Register handles POST /api/auth/register.
func (a *API) Register(c echo.Context) error {
	var req auth.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "payload non valido"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "dati di registrazione non validi"})
	}

	user, err := a.Auth.Register(c.Request().Context(), req)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": err.Error()})
	}

	sess := a.Auth.Sessions().Get()
	return c.JSON(http.StatusCreated, echo.Map{
		"success":       true,
		"user":          user,
		"access_token":  sess.AccessToken,
		"refresh_token": sess.RefreshToken,
	})
}

// Login handles POST /api/auth/login.
func (a *API) Login(c echo.Context) error {
	var req struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "payload non valido"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "credenziali mancanti"})
	}

	user, err := a.Auth.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": err.Error()})
	}

	sess := a.Auth.Sessions().Get()
	return c.JSON(http.StatusOK, echo.Map{
		"success":       true,
		"user":          user,
		"access_token":  sess.AccessToken,
		"refresh_token": sess.RefreshToken,
	})
}

// UpdateProfile handles PATCH /api/auth/profile for the authenticated user.
func (a *API) UpdateProfile(c echo.Context) error {
	userID, _ := c.Get("user_id").(string)
	if userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "unauthorized"})
	}

	var update auth.ProfileUpdate
	if err := c.Bind(&update); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "payload non valido"})
	}

	user, err := a.Auth.UpdateUserProfile(userID, update)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "user": user})
}

// Me handles GET /api/auth/me.
func (a *API) Me(c echo.Context) error {
	u := a.currentUser(c)
	if u == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "unauthorized"})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "user": u})
}
