package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/moneymanager/money-api/internal/api/middleware"
	"github.com/moneymanager/money-api/internal/core/domain"
	"github.com/moneymanager/money-api/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*domain.PublicUser, error)
	loginFn    func(ctx context.Context, username, password string) (*ports.LoginResult, error)
	currentFn  func(ctx context.Context, token string) (*domain.PublicUser, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.PublicUser, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubAuthService) CurrentUser(ctx context.Context, token string) (*domain.PublicUser, error) {
	return s.currentFn(ctx, token)
}

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(_ context.Context, in ports.RegisterInput) (*domain.PublicUser, error) {
			if in.Username != "alice" || in.Email != "a@example.com" || in.FirstName != "Alice" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.PublicUser{Username: in.Username}, nil
		},
	}
	c, rec := newContext(http.MethodPost, "/auth/register",
		`{"username":"alice","password":"secret","email":"a@example.com","firstName":"Alice"}`, "")

	if err := NewAuthHandler(stub).Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	expectStatus(t, rec, http.StatusCreated)

	var resp registerResponse
	decode(t, rec, &resp)
	if resp.Message != "User registered successfully" || resp.Username != "alice" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestAuthHandler_Register_DuplicatePassesThrough(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*domain.PublicUser, error) {
			return nil, domain.ErrDuplicateUsername
		},
	}
	c, _ := newContext(http.MethodPost, "/auth/register", `{"username":"bob","email":"b@x.com","password":"p"}`, "")

	if err := NewAuthHandler(stub).Register(c); !errors.Is(err, domain.ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}
}

func TestAuthHandler_Register_InvalidPayload(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*domain.PublicUser, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}

	c, _ := newContext(http.MethodPost, "/auth/register", "not-json", "")
	expectHTTPError(t, NewAuthHandler(stub).Register(c), http.StatusBadRequest)

	c, _ = newContext(http.MethodPost, "/auth/register", `{"username":"bob"}`, "")
	if err := NewAuthHandler(stub).Register(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAuthHandler_Register_OverlongFields(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*domain.PublicUser, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}

	bodies := map[string]string{
		"username": `{"username":"` + strings.Repeat("u", 51) + `","email":"a@x.com","password":"p"}`,
		"email":    `{"username":"bob","email":"` + strings.Repeat("e", 256) + `","password":"p"}`,
	}
	for field, body := range bodies {
		c, _ := newContext(http.MethodPost, "/auth/register", body, "")
		err := NewAuthHandler(stub).Register(c)
		if !errors.Is(err, domain.ErrValidation) || !strings.Contains(err.Error(), field+" must be at most") {
			t.Errorf("%s: expected length validation error, got %v", field, err)
		}
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(_ context.Context, username, password string) (*ports.LoginResult, error) {
			if username != "alice" || password != "secret" {
				t.Fatalf("unexpected args: %s %s", username, password)
			}
			return &ports.LoginResult{
				Token:     "token123",
				ExpiresAt: time.Now().Add(time.Hour),
				User:      domain.PublicUser{ID: "u1", Username: "alice", Email: "a@x.com", Role: domain.RoleUser},
			}, nil
		},
	}
	c, rec := newContext(http.MethodPost, "/auth/login", `{"username":"alice","password":"secret"}`, "")

	if err := NewAuthHandler(stub).Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	expectStatus(t, rec, http.StatusOK)

	var resp loginResponse
	decode(t, rec, &resp)
	want := loginResponse{Token: "token123", Type: "Bearer", ID: "u1", Username: "alice", Email: "a@x.com", Role: "ROLE_USER"}
	if resp != want {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (*ports.LoginResult, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	c, _ := newContext(http.MethodPost, "/auth/login", `{"username":"alice","password":"bad"}`, "")

	if err := NewAuthHandler(stub).Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	stub := &stubAuthService{
		currentFn: func(_ context.Context, token string) (*domain.PublicUser, error) {
			if token != "tok" {
				t.Fatalf("unexpected token %s", token)
			}
			return &domain.PublicUser{ID: "u1", Username: "alice", Role: domain.RoleUser}, nil
		},
	}
	c, rec := newContext(http.MethodGet, "/auth/me", "", "alice")
	c.Set(middleware.TokenKey, "tok")

	if err := NewAuthHandler(stub).Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	expectStatus(t, rec, http.StatusOK)

	var resp map[string]any
	decode(t, rec, &resp)
	if resp["username"] != "alice" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if _, ok := resp["password"]; ok {
		t.Fatalf("password must not be exposed")
	}
}

func TestAuthHandler_Me_WithoutToken(t *testing.T) {
	c, _ := newContext(http.MethodGet, "/auth/me", "", "")
	expectHTTPError(t, NewAuthHandler(&stubAuthService{}).Me(c), http.StatusUnauthorized)
}
