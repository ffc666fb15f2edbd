package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// TokenParser verifies a bearer token and returns the user id it carries.
type TokenParser func(token string) (string, error)

// JWT requires a valid bearer token and sets "user_id" in the echo context.
func JWT(parse TokenParser) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, ok := bearerUserID(c, parse)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "unauthorized"})
			}
			c.Set("user_id", userID)
			return next(c)
		}
	}
}

// OptionalJWT sets "user_id" when a valid bearer token is present and lets
// anonymous requests through.
func OptionalJWT(parse TokenParser) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if userID, ok := bearerUserID(c, parse); ok {
				c.Set("user_id", userID)
			}
			return next(c)
		}
	}
}

func bearerUserID(c echo.Context, parse TokenParser) (string, bool) {
	header := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	userID, err := parse(strings.TrimPrefix(header, "Bearer "))
	if err != nil || userID == "" {
		return "", false
	}
	return userID, true
}
