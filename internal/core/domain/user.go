package domain

import (
	"fmt"
	"time"
	"unicode/utf8"
)

// RoleUser is the only role the system hands out.
const RoleUser = "ROLE_USER"

// Field limits, in characters. The SQL schemas size their columns to match.
const (
	MaxUsernameLen = 50
	MaxEmailLen    = 255
	MaxNameLen     = 100
)

// User models a registered account. PasswordHash never leaves the service
// layer; responses are built from PublicUser.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Validate checks the length limits of the user's textual fields.
func (u *User) Validate() error {
	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"username", u.Username, MaxUsernameLen},
		{"email", u.Email, MaxEmailLen},
		{"firstName", u.FirstName, MaxNameLen},
		{"lastName", u.LastName, MaxNameLen},
	}
	for _, f := range fields {
		if utf8.RuneCountInString(f.value) > f.max {
			return ValidationError(fmt.Sprintf("%s must be at most %d characters", f.name, f.max))
		}
	}
	return nil
}

// PublicUser is the projection of a User that is safe to return to clients.
type PublicUser struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      RoleUser,
	}
}

// ProfilePatch holds the optional fields of a profile update. Nil fields are
// left untouched.
type ProfilePatch struct {
	FirstName *string
	LastName  *string
	Email     *string
}

// Apply copies every non-nil field of p onto u and reports whether the email
// changed.
func (p ProfilePatch) Apply(u *User) (emailChanged bool) {
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.Email != nil && *p.Email != u.Email {
		u.Email = *p.Email
		emailChanged = true
	}
	return emailChanged
}
