package ledger

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/odyssey-erp/odyssey-admin/internal/platform/httpx"
	"github.com/odyssey-erp/odyssey-admin/internal/shared"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
	loc     *time.Location
}

// NewHandler serves one ledger kind. loc interprets the from/to query dates.
func NewHandler(logger *slog.Logger, service *Service, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{logger: logger, service: service, loc: loc}
}

// MountRoutes registers list/create/delete relative to /sales or /expenses.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Delete("/", h.Delete)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	period, _, err := shared.ParseDateRange(q.Get("from"), q.Get("to"), h.loc)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	entries, err := h.service.List(r.Context(), period)
	if err != nil {
		h.fail(w, "list ledger failed", err)
		return
	}
	httpx.JSON(w, http.StatusOK, entries)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in CreateInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	created, err := h.service.Create(r.Context(), in)
	if err != nil {
		h.fail(w, "create ledger entry failed", err, slog.String("product_id", in.ProductID))
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.RequiredQuery(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.fail(w, "delete ledger entry failed", err, slog.String("id", id))
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": string(h.service.Kind()) + " deleted"})
}

func (h *Handler) fail(w http.ResponseWriter, msg string, err error, attrs ...any) {
	attrs = append(attrs, slog.String("kind", string(h.service.Kind())), slog.Any("error", err))
	h.logger.Error(msg, attrs...)
	httpx.RespondError(w, err)
}
