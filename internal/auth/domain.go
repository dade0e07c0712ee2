// Package auth verifies bearer tokens issued by the identity provider and gates admin routes.
package auth

import (
	"errors"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMissingToken indicates the request carried no bearer token.
	ErrMissingToken = errors.New("auth: missing bearer token")
	// ErrInvalidToken indicates a malformed, expired or wrongly signed token.
	ErrInvalidToken = errors.New("auth: invalid or expired token")
)

// Claims is the token payload issued by the identity provider.
type Claims struct {
	jwtlib.RegisteredClaims
	Email string `json:"email"`
}
