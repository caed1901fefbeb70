package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/moneymanager/money-api/internal/core/domain"
)

func TestTokenService_IssueValidate(t *testing.T) {
	svc := NewJWTTokenService("secret", time.Hour)

	token, expiresAt, err := svc.Issue("alice")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if time.Until(expiresAt) <= 0 {
		t.Fatalf("expected expiry in the future, got %v", expiresAt)
	}

	username, err := svc.Validate(token)
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if username != "alice" {
		t.Fatalf("expected alice, got %s", username)
	}

	claims := &jwt.RegisteredClaims{}
	if _, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) { return []byte("secret"), nil }); err != nil {
		t.Fatalf("token not parseable: %v", err)
	}
	if claims.IssuedAt == nil || claims.ExpiresAt == nil || claims.Subject != "alice" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestTokenService_Expired(t *testing.T) {
	svc := NewJWTTokenService("secret", time.Minute)
	issuedAt := time.Now().Add(-2 * time.Hour)
	svc.now = func() time.Time { return issuedAt }

	token, _, err := svc.Issue("alice")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	svc.now = time.Now
	if _, err := svc.Validate(token); !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}

	info := svc.Inspect(token)
	if info.Valid || !info.Expired || info.Username != "alice" {
		t.Fatalf("unexpected info for expired token: %+v", info)
	}
}

func TestTokenService_WrongSecret(t *testing.T) {
	token, _, _ := NewJWTTokenService("other", time.Hour).Issue("alice")

	if _, err := NewJWTTokenService("secret", time.Hour).Validate(token); !errors.Is(err, domain.ErrTokenSignature) {
		t.Fatalf("expected ErrTokenSignature, got %v", err)
	}
}

func TestTokenService_Malformed(t *testing.T) {
	svc := NewJWTTokenService("secret", time.Hour)
	if _, err := svc.Validate("not-a-token"); !errors.Is(err, domain.ErrTokenMalformed) {
		t.Fatalf("expected ErrTokenMalformed, got %v", err)
	}
	if !errors.Is(domain.ErrTokenMalformed, domain.ErrUnauthorized) {
		t.Fatalf("malformed token must be an unauthorized error")
	}
}

func TestTokenService_RejectsOtherAlgorithms(t *testing.T) {
	claims := jwt.RegisteredClaims{Subject: "alice", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := NewJWTTokenService("secret", time.Hour).Validate(unsigned); err == nil {
		t.Fatalf("expected unsigned token to be rejected")
	}
}

func TestTokenService_RequiresSubjectAndExpiry(t *testing.T) {
	noSubject, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("secret"))
	noExpiry, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "alice"}).SignedString([]byte("secret"))

	svc := NewJWTTokenService("secret", time.Hour)
	for name, token := range map[string]string{"no subject": noSubject, "no expiry": noExpiry} {
		if _, err := svc.Validate(token); !errors.Is(err, domain.ErrTokenMalformed) {
			t.Fatalf("%s: expected ErrTokenMalformed, got %v", name, err)
		}
	}
}

func TestTokenService_InspectEmpty(t *testing.T) {
	info := NewJWTTokenService("secret", time.Hour).Inspect("")
	if info.Valid || info.Error != "No token provided" {
		t.Fatalf("unexpected info: %+v", info)
	}
}

func TestTokenService_InspectValid(t *testing.T) {
	svc := NewJWTTokenService("secret", time.Hour)
	token, _, _ := svc.Issue("bob")

	info := svc.Inspect(token)
	if !info.Valid || info.Expired || info.Username != "bob" || info.Error != "" {
		t.Fatalf("unexpected info: %+v", info)
	}
}
