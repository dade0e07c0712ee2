package auth

import (
	"fmt"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"

	"github.com/odyssey-erp/odyssey-admin/internal/shared"
)

// Verifier checks HS256 tokens and assigns roles from the admin allow-list.
type Verifier struct {
	secret []byte
	admins map[string]struct{}
}

func NewVerifier(secret string, adminEmails []string) *Verifier {
	admins := make(map[string]struct{}, len(adminEmails))
	for _, email := range adminEmails {
		if email = normalizeEmail(email); email != "" {
			admins[email] = struct{}{}
		}
	}
	return &Verifier{secret: []byte(secret), admins: admins}
}

// Verify parses tokenStr and resolves the caller.
func (v *Verifier) Verify(tokenStr string) (shared.Principal, error) {
	claims := &Claims{}
	token, err := jwtlib.ParseWithClaims(tokenStr, claims, func(t *jwtlib.Token) (interface{}, error) {
		return v.secret, nil
	}, jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return shared.Principal{}, ErrInvalidToken
	}
	email := normalizeEmail(claims.Email)
	if email == "" {
		return shared.Principal{}, fmt.Errorf("%w: email claim missing", ErrInvalidToken)
	}
	role := shared.RoleUser
	if _, ok := v.admins[email]; ok {
		role = shared.RoleAdmin
	}
	return shared.Principal{Email: email, Role: role}, nil
}

// Sign issues a token for email. The server only verifies; Sign backs the seed tool and tests.
func (v *Verifier) Sign(email string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(ttl)),
		},
		Email: email,
	}
	return jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(v.secret)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
