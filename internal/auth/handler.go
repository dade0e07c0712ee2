package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/odyssey-erp/odyssey-admin/internal/platform/httpx"
	"github.com/odyssey-erp/odyssey-admin/internal/shared"
)

// Handler exposes the authentication middleware and the caller endpoint.
type Handler struct {
	logger   *slog.Logger
	verifier *Verifier
}

func NewHandler(logger *slog.Logger, verifier *Verifier) *Handler {
	return &Handler{logger: logger, verifier: verifier}
}

// MountRoutes registers GET /me.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/me", h.me)
}

// Authenticate resolves the bearer token into a principal. Missing or invalid tokens get 401.
func (h *Handler) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := bearerToken(r)
		if err == nil {
			var p shared.Principal
			p, err = h.verifier.Verify(token)
			if err == nil {
				next.ServeHTTP(w, r.WithContext(shared.ContextWithPrincipal(r.Context(), p)))
				return
			}
		}
		h.logger.Debug("authentication failed", slog.String("path", r.URL.Path), slog.Any("error", err))
		httpx.RespondError(w, shared.ErrUnauthorized)
	})
}

// RequireAdmin rejects authenticated callers without the admin role.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := shared.PrincipalFromContext(r.Context())
		if !ok {
			httpx.RespondError(w, shared.ErrUnauthorized)
			return
		}
		if !p.IsAdmin() {
			httpx.RespondError(w, shared.ErrForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type meResponse struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	p, ok := shared.PrincipalFromContext(r.Context())
	if !ok {
		httpx.RespondError(w, shared.ErrUnauthorized)
		return
	}
	httpx.JSON(w, http.StatusOK, meResponse{Email: p.Email, Role: p.Role})
}

func bearerToken(r *http.Request) (string, error) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, token, ok := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", ErrMissingToken
	}
	return token, nil
}
