package export

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"time"

	"github.com/odyssey-erp/odyssey-admin/internal/report"
	"github.com/odyssey-erp/odyssey-admin/internal/report/chart"
	"github.com/odyssey-erp/odyssey-admin/internal/view"
)

const printTemplate = "reports/print.html"

// PDFRenderer converts an HTML document to PDF bytes.
type PDFRenderer interface {
	RenderHTML(ctx context.Context, html []byte) ([]byte, error)
}

// Printer renders tables as printable HTML and, through a PDFRenderer, as PDF.
type Printer struct {
	engine *view.Engine
	pdf    PDFRenderer
	now    func() time.Time
}

func NewPrinter(engine *view.Engine, pdf PDFRenderer) *Printer {
	return &Printer{engine: engine, pdf: pdf, now: time.Now}
}

type printData struct {
	LabelHeader string
	Period      string
	Chart       template.HTML
	Rows        []Line
	Totals      report.Summary
}

// HTML renders the print view of table.
func (p *Printer) HTML(table Table) ([]byte, error) {
	groups := make([]chart.Group, 0, len(table.Lines))
	for _, line := range table.Lines {
		groups = append(groups, chart.Group{Label: line.Label, Sales: line.Sales, Expenses: line.Expenses})
	}
	svg, err := chart.Bars(groups, chart.Opts{Title: table.Title})
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	err = p.engine.Execute(&buf, printTemplate, view.TemplateData{
		Title:       table.Title,
		GeneratedAt: p.now(),
		Data: printData{
			LabelHeader: table.LabelHeader,
			Period:      table.Period,
			Chart:       svg,
			Rows:        table.Lines,
			Totals:      table.Totals,
		},
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// PDF renders the print view and converts it.
func (p *Printer) PDF(ctx context.Context, table Table) ([]byte, error) {
	if p.pdf == nil {
		return nil, errors.New("export: pdf renderer not configured")
	}
	html, err := p.HTML(table)
	if err != nil {
		return nil, err
	}
	return p.pdf.RenderHTML(ctx, html)
}
