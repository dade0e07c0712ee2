// Package media stores uploaded product images on local disk or Google Cloud Storage.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrForeignURL is returned when a URL does not belong to the store.
var ErrForeignURL = errors.New("media: url not managed by this store")

// Store persists uploaded files and resolves them to public URLs.
type Store interface {
	Save(ctx context.Context, name, contentType string, body io.Reader) (string, error)
	Delete(ctx context.Context, url string) error
}

// ObjectName prefixes the cleaned base name with the upload time in unix milliseconds.
func ObjectName(now time.Time, name string) string {
	return fmt.Sprintf("%d-%s", now.UnixMilli(), cleanBase(name))
}

// UniqueObjectName inserts a short random segment after the timestamp. It is used when
// ObjectName is already taken.
func UniqueObjectName(now time.Time, name string) string {
	return fmt.Sprintf("%d-%s-%s", now.UnixMilli(), uuid.NewString()[:8], cleanBase(name))
}

func cleanBase(name string) string {
	base := path.Base(strings.ReplaceAll(strings.TrimSpace(name), "\\", "/"))
	if base == "." || base == "/" || base == "" {
		base = "upload"
	}
	return strings.ReplaceAll(base, " ", "_")
}

// objectFromURL returns the object name of url when it starts with prefix.
func objectFromURL(prefix, url string) (string, error) {
	prefix = strings.TrimSuffix(prefix, "/") + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", fmt.Errorf("%w: %s", ErrForeignURL, url)
	}
	name := strings.TrimPrefix(url, prefix)
	if name == "" || strings.Contains(name, "/") || name == ".." {
		return "", fmt.Errorf("%w: %s", ErrForeignURL, url)
	}
	return name, nil
}
