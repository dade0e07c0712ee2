package media

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(t *testing.T) *LocalStore {
	t.Helper()
	store, err := NewLocalStore(filepath.Join(t.TempDir(), "uploads"), "/uploads/")
	require.NoError(t, err)
	store.now = func() time.Time { return time.UnixMilli(1700000000123) }
	return store
}

func TestObjectName(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	assert.Equal(t, "1700000000123-cola.png", ObjectName(now, "cola.png"))
	assert.Equal(t, "1700000000123-evil.png", ObjectName(now, "../../evil.png"))
	assert.Equal(t, "1700000000123-my_photo.jpg", ObjectName(now, `C:\pics\my photo.jpg`))
	assert.Equal(t, "1700000000123-upload", ObjectName(now, ""))
	assert.Regexp(t, `^1700000000123-[0-9a-f]{8}-my_photo\.jpg$`, UniqueObjectName(now, "my photo.jpg"))
}

func TestLocalStoreSameNameSameMillisecond(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first, err := store.Save(ctx, "cola.png", "image/png", strings.NewReader("first"))
	require.NoError(t, err)
	second, err := store.Save(ctx, "cola.png", "image/png", strings.NewReader("second"))
	require.NoError(t, err)

	assert.Equal(t, "/uploads/1700000000123-cola.png", first)
	assert.Regexp(t, `^/uploads/1700000000123-[0-9a-f]{8}-cola\.png$`, second)

	raw, err := os.ReadFile(filepath.Join(store.dir, "1700000000123-cola.png"))
	require.NoError(t, err)
	assert.Equal(t, "first", string(raw))
	raw, err = os.ReadFile(filepath.Join(store.dir, strings.TrimPrefix(second, "/uploads/")))
	require.NoError(t, err)
	assert.Equal(t, "second", string(raw))
}

func TestLocalStoreSaveAndDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	url, err := store.Save(ctx, "cola.png", "image/png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/1700000000123-cola.png", url)

	raw, err := os.ReadFile(filepath.Join(store.dir, "1700000000123-cola.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(raw))

	require.NoError(t, store.Delete(ctx, url))
	_, err = os.Stat(filepath.Join(store.dir, "1700000000123-cola.png"))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, store.Delete(ctx, url), "deleting twice is a no-op")
	assert.ErrorIs(t, store.Delete(ctx, "https://elsewhere.example/x.png"), ErrForeignURL)
	assert.ErrorIs(t, store.Delete(ctx, "/uploads/../secret"), ErrForeignURL)
}

func TestLocalStoreFileServer(t *testing.T) {
	store := newTestStore(t)
	url, err := store.Save(context.Background(), "a.txt", "text/plain", strings.NewReader("hello"))
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Handle(store.Prefix()+"/*", store.FileServer())

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hello", rec.Body.String())
}

type failingStore struct {
	Store
	deleted []string
}

func (f *failingStore) Delete(ctx context.Context, url string) error {
	f.deleted = append(f.deleted, url)
	if strings.Contains(url, "bad") {
		return errors.New("boom")
	}
	return nil
}

func TestRemoverContinuesPastFailures(t *testing.T) {
	store := &failingStore{}
	err := NewRemover(store, discardLogger()).RemoveImages(context.Background(), []string{"/uploads/bad", "/uploads/good"})
	assert.Error(t, err)
	assert.Equal(t, []string{"/uploads/bad", "/uploads/good"}, store.deleted)

	assert.NoError(t, NewRemover(store, discardLogger()).RemoveImages(context.Background(), nil))
}

func multipartBody(t *testing.T, field string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for name, content := range files {
		part, err := mw.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func TestUploadHandler(t *testing.T) {
	store := newTestStore(t)
	r := chi.NewRouter()
	NewHandler(discardLogger(), store).MountRoutes(r)

	body, contentType := multipartBody(t, "files", map[string]string{"cola.png": "png"})
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp UploadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"/uploads/1700000000123-cola.png"}, resp.URLs)

	body, contentType = multipartBody(t, "files", map[string]string{"cola.png": "png again"})
	req = httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, "a taken name must not fail the upload")
	resp = UploadResponse{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.URLs, 1)
	assert.NotEqual(t, "/uploads/1700000000123-cola.png", resp.URLs[0])
}

func TestUploadHandlerRequiresFiles(t *testing.T) {
	store := newTestStore(t)
	r := chi.NewRouter()
	NewHandler(discardLogger(), store).MountRoutes(r)

	body, contentType := multipartBody(t, "other", map[string]string{"a.png": "x"})
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
