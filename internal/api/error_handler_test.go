package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/moneymanager/money-api/internal/core/domain"
)

func TestHTTPErrorHandler(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid username or password"},
		{"expired token", domain.ErrTokenExpired, http.StatusUnauthorized, "token expired"},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, "access denied"},
		{"income not found", domain.KindIncome.NotFound(), http.StatusNotFound, "Income not found"},
		{"wrapped user not found", fmt.Errorf("lookup: %w", domain.ErrUserNotFound), http.StatusNotFound, "User not found"},
		{"duplicate username", domain.ErrDuplicateUsername, http.StatusBadRequest, "Username is already taken"},
		{"validation", domain.ValidationError("amount must be zero or positive"), http.StatusBadRequest, "amount must be zero or positive"},
		{"echo error", echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header"), http.StatusUnauthorized, "missing authorization header"},
		{"unexpected", errors.New("db exploded"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			NewHTTPErrorHandler(zerolog.Nop())(tt.err, c)

			if rec.Code != tt.code {
				t.Fatalf("expected %d, got %d", tt.code, rec.Code)
			}
			var resp errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if resp.Error != tt.message {
				t.Errorf("expected %q, got %q", tt.message, resp.Error)
			}
		})
	}
}

func TestHTTPErrorHandler_CommittedResponse(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	_ = c.String(http.StatusOK, "done")

	NewHTTPErrorHandler(zerolog.Nop())(errors.New("late"), c)

	if rec.Code != http.StatusOK || rec.Body.String() != "done" {
		t.Errorf("committed response was modified: %d %q", rec.Code, rec.Body.String())
	}
}
