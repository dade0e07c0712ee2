package reporthttp

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/odyssey-erp/odyssey-admin/internal/platform/httpx"
	"github.com/odyssey-erp/odyssey-admin/internal/report"
	"github.com/odyssey-erp/odyssey-admin/internal/report/export"
	"github.com/odyssey-erp/odyssey-admin/internal/shared"
)

// ReportService is the report contract used by the handler.
type ReportService interface {
	Location() *time.Location
	CategoryRollup(ctx context.Context) ([]report.CategoryRow, error)
	ProductDetail(ctx context.Context, categoryID string) ([]report.ProductRow, error)
	TimeSeries(ctx context.Context, period shared.DateRange) ([]report.DayRow, error)
	SalesLines(ctx context.Context, period shared.DateRange) ([]report.LineRow, error)
	SummaryFor(ctx context.Context, view string) (report.Summary, error)
	CategoryName(ctx context.Context, id string) (string, error)
}

// Handler serves the report JSON endpoints and their exports.
type Handler struct {
	logger      *slog.Logger
	service     ReportService
	printer     *export.Printer
	exportLimit int
	now         func() time.Time
}

// NewHandler constructs the report handler. A nil printer disables print and PDF routes.
func NewHandler(logger *slog.Logger, service ReportService, printer *export.Printer) *Handler {
	return &Handler{logger: logger, service: service, printer: printer, exportLimit: 10, now: time.Now}
}

// WithNow overrides the handler clock for testing.
func (h *Handler) WithNow(fn func() time.Time) {
	if fn != nil {
		h.now = fn
	}
}

// WithExportLimit sets the per-minute request budget for export routes.
func (h *Handler) WithExportLimit(perMinute int) {
	if perMinute > 0 {
		h.exportLimit = perMinute
	}
}

func (h *Handler) handleCategoryRollup(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.CategoryRollup(r.Context())
	if err != nil {
		h.fail(w, "category rollup failed", err)
		return
	}
	httpx.JSON(w, http.StatusOK, rows)
}

func (h *Handler) handleProductDetail(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.ProductDetail(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		h.fail(w, "product detail failed", err)
		return
	}
	httpx.JSON(w, http.StatusOK, rows)
}

func (h *Handler) handleTimeSeries(w http.ResponseWriter, r *http.Request) {
	period, err := h.period(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	rows, err := h.service.TimeSeries(r.Context(), period)
	if err != nil {
		h.fail(w, "timeseries failed", err)
		return
	}
	httpx.JSON(w, http.StatusOK, rows)
}

func (h *Handler) handleSalesLines(w http.ResponseWriter, r *http.Request) {
	period, err := h.period(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	rows, err := h.service.SalesLines(r.Context(), period)
	if err != nil {
		h.fail(w, "sales lines failed", err)
		return
	}
	httpx.JSON(w, http.StatusOK, rows)
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.SummaryFor(r.Context(), r.URL.Query().Get("view"))
	if err != nil {
		h.fail(w, "report summary failed", err)
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}

func (h *Handler) handleCategoryCSV(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.CategoryRollup(r.Context())
	if err != nil {
		h.fail(w, "category rollup failed", err)
		return
	}
	h.writeCSV(w, "category-rollup.csv", func(buf *bytes.Buffer) error { return export.WriteCategoryCSV(buf, rows) })
}

func (h *Handler) handleProductCSV(w http.ResponseWriter, r *http.Request) {
	categoryID, err := httpx.RequiredQuery(r, "category")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	rows, err := h.service.ProductDetail(r.Context(), categoryID)
	if err != nil {
		h.fail(w, "product detail failed", err)
		return
	}
	h.writeCSV(w, "product-detail-"+categoryID+".csv", func(buf *bytes.Buffer) error { return export.WriteProductCSV(buf, rows) })
}

func (h *Handler) handleTimeSeriesCSV(w http.ResponseWriter, r *http.Request) {
	period, err := h.period(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	rows, err := h.service.TimeSeries(r.Context(), period)
	if err != nil {
		h.fail(w, "timeseries failed", err)
		return
	}
	h.writeCSV(w, "timeseries.csv", func(buf *bytes.Buffer) error { return export.WriteTimeSeriesCSV(buf, rows) })
}

func (h *Handler) handleCategoryXLSX(w http.ResponseWriter, r *http.Request) {
	table, err := h.categoryTable(r)
	if err != nil {
		h.fail(w, "category rollup failed", err)
		return
	}
	h.writeXLSX(w, "", table)
}

func (h *Handler) handleProductXLSX(w http.ResponseWriter, r *http.Request) {
	table, categoryID, err := h.productTable(r)
	if err != nil {
		h.fail(w, "product detail failed", err)
		return
	}
	h.writeXLSX(w, categoryID, table)
}

func (h *Handler) handleCategoryPrint(w http.ResponseWriter, r *http.Request) {
	table, err := h.categoryTable(r)
	if err != nil {
		h.fail(w, "category rollup failed", err)
		return
	}
	h.writePrint(w, table)
}

func (h *Handler) handleProductPrint(w http.ResponseWriter, r *http.Request) {
	table, _, err := h.productTable(r)
	if err != nil {
		h.fail(w, "product detail failed", err)
		return
	}
	h.writePrint(w, table)
}

func (h *Handler) handleTimeSeriesPrint(w http.ResponseWriter, r *http.Request) {
	table, err := h.dayTable(r)
	if err != nil {
		h.fail(w, "timeseries failed", err)
		return
	}
	h.writePrint(w, table)
}

func (h *Handler) handleCategoryPDF(w http.ResponseWriter, r *http.Request) {
	table, err := h.categoryTable(r)
	if err != nil {
		h.fail(w, "category rollup failed", err)
		return
	}
	h.writePDF(w, r, "category-rollup.pdf", table)
}

func (h *Handler) handleProductPDF(w http.ResponseWriter, r *http.Request) {
	table, categoryID, err := h.productTable(r)
	if err != nil {
		h.fail(w, "product detail failed", err)
		return
	}
	h.writePDF(w, r, "product-detail-"+categoryID+".pdf", table)
}

func (h *Handler) handleTimeSeriesPDF(w http.ResponseWriter, r *http.Request) {
	table, err := h.dayTable(r)
	if err != nil {
		h.fail(w, "timeseries failed", err)
		return
	}
	h.writePDF(w, r, "timeseries.pdf", table)
}

func (h *Handler) categoryTable(r *http.Request) (export.Table, error) {
	rows, err := h.service.CategoryRollup(r.Context())
	if err != nil {
		return export.Table{}, err
	}
	return export.CategoryTable(rows), nil
}

func (h *Handler) productTable(r *http.Request) (export.Table, string, error) {
	categoryID, err := httpx.RequiredQuery(r, "category")
	if err != nil {
		return export.Table{}, "", err
	}
	rows, err := h.service.ProductDetail(r.Context(), categoryID)
	if err != nil {
		return export.Table{}, "", err
	}
	name, err := h.service.CategoryName(r.Context(), categoryID)
	if err != nil {
		return export.Table{}, "", err
	}
	return export.ProductTable(name, rows), categoryID, nil
}

func (h *Handler) dayTable(r *http.Request) (export.Table, error) {
	period, err := h.period(r)
	if err != nil {
		return export.Table{}, err
	}
	rows, err := h.service.TimeSeries(r.Context(), period)
	if err != nil {
		return export.Table{}, err
	}
	label := ""
	if !period.IsZero() {
		label = period.From.Format(shared.DateLayout) + " bis " + period.To.Format(shared.DateLayout)
	}
	return export.DayTable(label, rows), nil
}

func (h *Handler) period(r *http.Request) (shared.DateRange, error) {
	q := r.URL.Query()
	period, _, err := shared.ParseDateRange(strings.TrimSpace(q.Get("from")), strings.TrimSpace(q.Get("to")), h.service.Location())
	return period, err
}

func (h *Handler) writeCSV(w http.ResponseWriter, filename string, write func(*bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		h.fail(w, "write csv failed", err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", attachment(filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) writeXLSX(w http.ResponseWriter, scope string, table export.Table) {
	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, table); err != nil {
		h.fail(w, "write xlsx failed", err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", attachment(export.XLSXFilename(scope, h.now().In(h.service.Location()))))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) writePrint(w http.ResponseWriter, table export.Table) {
	if h.printer == nil {
		httpx.Problem(w, http.StatusServiceUnavailable, "Print Unavailable", "print view not configured")
		return
	}
	html, err := h.printer.HTML(table)
	if err != nil {
		h.fail(w, "render print view failed", err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(html)
}

func (h *Handler) writePDF(w http.ResponseWriter, r *http.Request, filename string, table export.Table) {
	if h.printer == nil {
		httpx.Problem(w, http.StatusServiceUnavailable, "PDF Unavailable", "pdf exporter not configured")
		return
	}
	pdf, err := h.printer.PDF(r.Context(), table)
	if err != nil {
		h.fail(w, "render pdf failed", err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", attachment(filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

func attachment(filename string) string {
	return fmt.Sprintf("attachment; filename=%q", filename)
}

func (h *Handler) fail(w http.ResponseWriter, msg string, err error) {
	h.logger.Error(msg, slog.Any("error", err))
	httpx.RespondError(w, err)
}
