// Package auth issues and verifies the bearer tokens guarding the admin API.
package auth

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// RoleAdmin is the only role the archive knows about.
const RoleAdmin = "admin"

var (
	// ErrUnauthorized is returned for any token that fails verification.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidCredentials is returned by Login for an unknown user or wrong password.
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// Claims is the JWT payload carried by archive tokens.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role,omitempty"`
}

// Verifier validates a bearer token and returns its claims.
type Verifier interface {
	Verify(token string) (*Claims, error)
	Close() error
}
