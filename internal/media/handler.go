package media

import (
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/odyssey-erp/odyssey-admin/internal/platform/httpx"
	"github.com/odyssey-erp/odyssey-admin/internal/shared"
)

const (
	uploadField    = "files"
	maxUploadBytes = 32 << 20
)

// UploadResponse lists the public URLs of stored files in upload order.
type UploadResponse struct {
	URLs []string `json:"urls"`
}

type Handler struct {
	logger *slog.Logger
	store  Store
}

func NewHandler(logger *slog.Logger, store Store) *Handler {
	return &Handler{logger: logger, store: store}
}

// MountRoutes registers POST /upload.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/upload", h.Upload)
}

func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httpx.Problem(w, http.StatusRequestEntityTooLarge, "Payload Too Large", "upload exceeds size limit")
			return
		}
		httpx.RespondError(w, shared.NewValidationError(uploadField, "must be a multipart form"))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	files := r.MultipartForm.File[uploadField]
	if len(files) == 0 {
		httpx.RespondError(w, shared.NewValidationError(uploadField, "is required"))
		return
	}

	urls := make([]string, 0, len(files))
	for _, fh := range files {
		url, err := h.save(r, fh)
		if err != nil {
			h.logger.Error("upload failed", slog.String("file", fh.Filename), slog.Any("error", err))
			httpx.RespondError(w, err)
			return
		}
		urls = append(urls, url)
	}
	httpx.JSON(w, http.StatusOK, UploadResponse{URLs: urls})
}

func (h *Handler) save(r *http.Request, fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()
	return h.store.Save(r.Context(), fh.Filename, fh.Header.Get("Content-Type"), f)
}
