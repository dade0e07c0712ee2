package cli

import (
	"errors"
	"strings"
	"time"

	"github.com/odyssey-erp/odyssey-admin/internal/auth"
)

// IssueToken signs a bearer token for local development against the configured secret.
func IssueToken(secret, email string, ttl time.Duration) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", errors.New("token: email is required")
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return auth.NewVerifier(secret, nil).Sign(email, ttl)
}
