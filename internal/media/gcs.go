package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"cloud.google.com/go/storage"
)

const gcsPublicHost = "https://storage.googleapis.com"

// GCSStore keeps files as objects of one bucket. Credentials come from Application
// Default Credentials.
type GCSStore struct {
	client *storage.Client
	bucket string
	now    func() time.Time
}

func NewGCSStore(ctx context.Context, bucket string) (*GCSStore, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("media: create storage client: %w", err)
	}
	return &GCSStore{client: client, bucket: bucket, now: time.Now}, nil
}

func (s *GCSStore) Save(ctx context.Context, name, contentType string, body io.Reader) (string, error) {
	// The body is streamed once, so a taken name cannot be retried as on local disk.
	object := UniqueObjectName(s.now(), name)

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := s.client.Bucket(s.bucket).Object(object).If(storage.Conditions{DoesNotExist: true}).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := io.Copy(w, body); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("media: copy to gcs: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("media: finalize upload: %w", err)
	}
	return s.publicPrefix() + "/" + object, nil
}

// Delete removes the object behind url. Missing objects are not an error.
func (s *GCSStore) Delete(ctx context.Context, url string) error {
	object, err := objectFromURL(s.publicPrefix(), url)
	if err != nil {
		return err
	}
	err = s.client.Bucket(s.bucket).Object(object).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("media: delete %s/%s: %w", s.bucket, object, err)
	}
	return nil
}

func (s *GCSStore) Close() error {
	return s.client.Close()
}

func (s *GCSStore) publicPrefix() string {
	return gcsPublicHost + "/" + s.bucket
}
