// Package middleware holds the echo middleware guarding authenticated routes.
package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/moneymanager/money-api/internal/core/ports"
)

// Context keys populated by Auth.
const (
	UsernameKey = "username"
	TokenKey    = "token"
)

// Auth validates the bearer token and injects the bound username into context.
func Auth(tokens ports.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			token := strings.TrimSpace(parts[1])
			username, err := tokens.Validate(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
			}

			c.Set(UsernameKey, username)
			c.Set(TokenKey, token)
			return next(c)
		}
	}
}
