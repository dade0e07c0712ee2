// Package reporthttp exposes the report engine over HTTP.
package reporthttp

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/odyssey-erp/odyssey-admin/internal/platform/httpx"
	"github.com/odyssey-erp/odyssey-admin/internal/shared"
)

// MountRoutes registers the report endpoints relative to /reports.
func (h *Handler) MountRoutes(r chi.Router) {
	if h == nil {
		return
	}
	limiter := httprate.Limit(h.exportLimit, time.Minute,
		httprate.WithKeyFuncs(rateLimitKey),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			httpx.Problem(w, http.StatusTooManyRequests, http.StatusText(http.StatusTooManyRequests), "")
		}),
	)

	r.Get("/category-rollup", h.handleCategoryRollup)
	r.Get("/product-detail", h.handleProductDetail)
	r.Get("/timeseries", h.handleTimeSeries)
	r.Get("/sales-lines", h.handleSalesLines)
	r.Get("/summary", h.handleSummary)
	r.Get("/category-rollup/print", h.handleCategoryPrint)
	r.Get("/product-detail/print", h.handleProductPrint)
	r.Get("/timeseries/print", h.handleTimeSeriesPrint)

	r.Group(func(gr chi.Router) {
		gr.Use(limiter)
		gr.Get("/category-rollup/export.csv", h.handleCategoryCSV)
		gr.Get("/category-rollup/export.xlsx", h.handleCategoryXLSX)
		gr.Get("/category-rollup/export.pdf", h.handleCategoryPDF)
		gr.Get("/product-detail/export.csv", h.handleProductCSV)
		gr.Get("/product-detail/export.xlsx", h.handleProductXLSX)
		gr.Get("/product-detail/export.pdf", h.handleProductPDF)
		gr.Get("/timeseries/export.csv", h.handleTimeSeriesCSV)
		gr.Get("/timeseries/export.pdf", h.handleTimeSeriesPDF)
	})
}

func rateLimitKey(r *http.Request) (string, error) {
	if p, ok := shared.PrincipalFromContext(r.Context()); ok {
		if email := strings.TrimSpace(p.Email); email != "" {
			return "user:" + email, nil
		}
	}
	key, err := httprate.KeyByIP(r)
	if err != nil {
		return "", err
	}
	return "ip:" + key, nil
}
