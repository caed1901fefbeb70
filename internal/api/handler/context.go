package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/moneymanager/money-api/internal/api/middleware"
)

// ctxUsername extracts the username injected by the Auth middleware. Its
// absence means the route was mounted without the middleware.
func ctxUsername(c echo.Context) (string, error) {
	username, _ := c.Get(middleware.UsernameKey).(string)
	if username == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return username, nil
}

func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if c.Echo().Validator != nil {
		return c.Validate(req)
	}
	return nil
}

type messageResponse struct {
	Message string `json:"message"`
}
