package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const maxNameAttempts = 3

// LocalStore writes files into a directory served under a public URL prefix.
type LocalStore struct {
	dir    string
	prefix string
	now    func() time.Time
}

// NewLocalStore ensures dir exists.
func NewLocalStore(dir, publicPrefix string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("media: create dir %q: %w", dir, err)
	}
	prefix := "/" + strings.Trim(publicPrefix, "/")
	return &LocalStore{dir: dir, prefix: prefix, now: time.Now}, nil
}

func (s *LocalStore) Save(ctx context.Context, name, contentType string, body io.Reader) (string, error) {
	now := s.now()
	object := ObjectName(now, name)
	f, err := s.create(object)
	for attempt := 0; errors.Is(err, fs.ErrExist) && attempt < maxNameAttempts; attempt++ {
		object = UniqueObjectName(now, name)
		f, err = s.create(object)
	}
	if err != nil {
		return "", fmt.Errorf("media: create %q: %w", object, err)
	}
	if _, err := io.Copy(f, body); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("media: write %q: %w", object, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("media: close %q: %w", object, err)
	}
	return s.prefix + "/" + object, nil
}

func (s *LocalStore) create(object string) (*os.File, error) {
	return os.OpenFile(filepath.Join(s.dir, object), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
}

// Delete removes the file behind url. Missing files are not an error.
func (s *LocalStore) Delete(ctx context.Context, url string) error {
	object, err := objectFromURL(s.prefix, url)
	if err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(s.dir, object)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("media: delete %q: %w", object, err)
	}
	return nil
}

// Prefix is the URL path the files are served under.
func (s *LocalStore) Prefix() string { return s.prefix }

// FileServer serves stored files; mount it under Prefix.
func (s *LocalStore) FileServer() http.Handler {
	return http.StripPrefix(s.prefix, http.FileServer(http.Dir(s.dir)))
}
