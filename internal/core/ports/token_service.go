package ports

import "time"

// TokenInfo is the diagnostic view of an arbitrary token.
type TokenInfo struct {
	Valid    bool
	Username string
	Expired  bool
	Error    string
}

// TokenService mints and checks stateless signed session tokens.
type TokenService interface {
	Issue(username string) (token string, expiresAt time.Time, err error)
	// Validate returns the username bound to token, or one of
	// domain.ErrTokenExpired, domain.ErrTokenMalformed, domain.ErrTokenSignature.
	Validate(token string) (string, error)
	Inspect(token string) TokenInfo
}

// PasswordHasher is a one-way hash with verification.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Verify returns nil when password matches hash.
	Verify(hash, password string) error
}
