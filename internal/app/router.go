package app

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/odyssey-erp/odyssey-admin/internal/auth"
	"github.com/odyssey-erp/odyssey-admin/internal/ledger"
	"github.com/odyssey-erp/odyssey-admin/internal/masterdata/categories"
	"github.com/odyssey-erp/odyssey-admin/internal/masterdata/products"
	"github.com/odyssey-erp/odyssey-admin/internal/media"
	"github.com/odyssey-erp/odyssey-admin/internal/observability"
	"github.com/odyssey-erp/odyssey-admin/internal/platform/httpx"
	reporthttp "github.com/odyssey-erp/odyssey-admin/internal/report/http"
	"github.com/odyssey-erp/odyssey-admin/jobs"
)

// HealthCheck probes a backing service for /healthz.
type HealthCheck func(ctx context.Context) error

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger  *slog.Logger
	Config  *Config
	Metrics *observability.Metrics

	AuthHandler       *auth.Handler
	CategoriesHandler *categories.Handler
	ProductsHandler   *products.Handler
	SalesHandler      *ledger.Handler
	ExpensesHandler   *ledger.Handler
	ReportHandler     *reporthttp.Handler
	MediaHandler      *media.Handler
	JobHandler        *jobs.Handler

	// MediaFiles serves uploaded files under MediaPrefix when media is stored locally.
	MediaFiles  http.Handler
	MediaPrefix string

	HealthChecks map[string]HealthCheck
}

// NewRouter constructs the chi.Router with the admin API defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", healthHandler(params.Logger, params.HealthChecks))
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}
	if params.MediaFiles != nil && params.MediaPrefix != "" {
		registerMediaTypes(params.Logger)
		r.Handle(params.MediaPrefix+"/*", mediaCacheHandler(params.MediaFiles))
	}

	r.Group(func(r chi.Router) {
		r.Use(params.AuthHandler.Authenticate)
		params.AuthHandler.MountRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAdmin)
			if params.CategoriesHandler != nil {
				r.Route("/categories", params.CategoriesHandler.MountRoutes)
			}
			if params.ProductsHandler != nil {
				r.Route("/products", params.ProductsHandler.MountRoutes)
			}
			if params.SalesHandler != nil {
				r.Route("/sales", params.SalesHandler.MountRoutes)
			}
			if params.ExpensesHandler != nil {
				r.Route("/expenses", params.ExpensesHandler.MountRoutes)
			}
			if params.ReportHandler != nil {
				r.Route("/reports", params.ReportHandler.MountRoutes)
			}
			if params.MediaHandler != nil {
				params.MediaHandler.MountRoutes(r)
			}
			if params.JobHandler != nil {
				r.Route("/jobs", params.JobHandler.MountRoutes)
			}
		})
	})

	return r
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func healthHandler(logger *slog.Logger, checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := healthResponse{Status: "ok"}
		status := http.StatusOK
		if len(checks) > 0 {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			resp.Checks = make(map[string]string, len(checks))
			for name, check := range checks {
				if err := check(ctx); err != nil {
					logger.Warn("health check failed", slog.String("check", name), slog.Any("error", err))
					resp.Checks[name] = "down"
					resp.Status = "degraded"
					status = http.StatusServiceUnavailable
					continue
				}
				resp.Checks[name] = "ok"
			}
		}
		httpx.JSON(w, status, resp)
	}
}

// mediaCacheHandler wraps the media file server with Cache-Control headers.
// Uploaded names are unique, so files are cached for a day.
func mediaCacheHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=86400")
		next.ServeHTTP(w, r)
	})
}
