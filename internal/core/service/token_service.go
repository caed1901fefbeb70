package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/moneymanager/money-api/internal/core/domain"
	"github.com/moneymanager/money-api/internal/core/ports"
)

const defaultTokenTTL = 24 * time.Hour

// JWTTokenService issues HS256 tokens whose subject is the username. Nothing
// is stored server side; a token is valid until it expires.
type JWTTokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewJWTTokenService(secret string, ttl time.Duration) *JWTTokenService {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &JWTTokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (s *JWTTokenService) Issue(username string) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func (s *JWTTokenService) Validate(token string) (string, error) {
	claims, err := s.parse(token)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// Inspect reports on token without failing. Expired tokens still expose
// their subject.
func (s *JWTTokenService) Inspect(token string) ports.TokenInfo {
	if token == "" {
		return ports.TokenInfo{Error: "No token provided"}
	}

	claims, err := s.parse(token)
	switch {
	case err == nil:
		return ports.TokenInfo{Valid: true, Username: claims.Subject}
	case errors.Is(err, domain.ErrTokenExpired):
		return ports.TokenInfo{Username: claims.Subject, Expired: true, Error: err.Error()}
	default:
		return ports.TokenInfo{Error: err.Error()}
	}
}

// parse always returns non-nil claims so expired tokens can be inspected.
func (s *JWTTokenService) parse(token string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenExpired):
		return claims, domain.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return claims, domain.ErrTokenSignature
	default:
		return claims, domain.ErrTokenMalformed
	}

	if claims.Subject == "" {
		return claims, domain.ErrTokenMalformed
	}
	return claims, nil
}
