// Package chart renders small inline SVG charts for print views.
package chart

import (
	"fmt"
	"html/template"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Defaults for the print charts.
const (
	DefaultWidth   = 720
	DefaultHeight  = 240
	DefaultPadding = 32.0
	DefaultTicks   = 5
)

// Group is one labelled pair of bars.
type Group struct {
	Label    string
	Sales    decimal.Decimal
	Expenses decimal.Decimal
}

// Opts customises the chart.
type Opts struct {
	Title         string
	SalesLabel    string
	ExpensesLabel string
	SalesColor    string
	ExpensesColor string
	AxisColor     string
	Width         int
	Height        int
}

// Bars renders sales against expenses per group. An empty input renders nothing.
func Bars(groups []Group, opts Opts) (template.HTML, error) {
	if len(groups) == 0 {
		return "", nil
	}
	width := opts.Width
	if width <= 0 {
		width = DefaultWidth
	}
	height := opts.Height
	if height <= 0 {
		height = DefaultHeight
	}
	padding := DefaultPadding
	chartWidth := float64(width) - 2*padding
	chartHeight := float64(height) - 2*padding
	if chartWidth <= 0 || chartHeight <= 0 {
		return "", fmt.Errorf("chart: viewport too small")
	}

	axis := fallback(opts.AxisColor, "#475569")
	salesColor := fallback(opts.SalesColor, "#16a34a")
	expensesColor := fallback(opts.ExpensesColor, "#dc2626")
	salesLabel := fallback(opts.SalesLabel, "Umsatz")
	expensesLabel := fallback(opts.ExpensesLabel, "Ausgaben")

	maxVal := 0.0
	for _, g := range groups {
		maxVal = math.Max(maxVal, math.Max(g.Sales.InexactFloat64(), g.Expenses.InexactFloat64()))
	}
	if maxVal <= 0 {
		maxVal = 1
	}
	scale := chartHeight / maxVal
	bottom := padding + chartHeight
	groupWidth := chartWidth / float64(len(groups))
	barWidth := groupWidth / 3

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" role="img">`, width, height)
	fmt.Fprintf(&b, `<title>%s</title>`, template.HTMLEscapeString(fallback(opts.Title, "Umsatz und Ausgaben")))

	for i := 0; i <= DefaultTicks; i++ {
		ratio := float64(i) / float64(DefaultTicks)
		y := bottom - ratio*chartHeight
		fmt.Fprintf(&b, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="0.5" stroke-dasharray="2,4"></line>`, padding, y, padding+chartWidth, y, axis)
		fmt.Fprintf(&b, `<text x="%.2f" y="%.2f" fill="%s" font-size="10" text-anchor="end">%s</text>`, padding-6, y+4, axis, formatTick(maxVal*ratio))
	}
	fmt.Fprintf(&b, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s"></line>`, padding, bottom, padding+chartWidth, bottom, axis)

	for i, g := range groups {
		x := padding + float64(i)*groupWidth
		for j, bar := range []struct {
			value decimal.Decimal
			color string
			label string
		}{{g.Sales, salesColor, salesLabel}, {g.Expenses, expensesColor, expensesLabel}} {
			h := math.Max(bar.value.InexactFloat64(), 0) * scale
			fmt.Fprintf(&b, `<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" aria-label="%s %s"></rect>`,
				x+barWidth*(0.3+1.1*float64(j)), bottom-h, barWidth, h, bar.color,
				template.HTMLEscapeString(bar.label), template.HTMLEscapeString(g.Label))
		}
		fmt.Fprintf(&b, `<text x="%.2f" y="%.2f" fill="%s" font-size="10" text-anchor="middle">%s</text>`,
			x+groupWidth/2, bottom+14, axis, template.HTMLEscapeString(g.Label))
	}

	legendY := padding - 12
	fmt.Fprintf(&b, `<rect x="%.2f" y="%.2f" width="10" height="10" fill="%s"></rect>`, padding, legendY-8, salesColor)
	fmt.Fprintf(&b, `<text x="%.2f" y="%.2f" fill="%s" font-size="10">%s</text>`, padding+14, legendY, axis, template.HTMLEscapeString(salesLabel))
	fmt.Fprintf(&b, `<rect x="%.2f" y="%.2f" width="10" height="10" fill="%s"></rect>`, padding+90, legendY-8, expensesColor)
	fmt.Fprintf(&b, `<text x="%.2f" y="%.2f" fill="%s" font-size="10">%s</text>`, padding+104, legendY, axis, template.HTMLEscapeString(expensesLabel))
	b.WriteString("</svg>")
	return template.HTML(b.String()), nil
}

func formatTick(v float64) string {
	switch {
	case v >= 1_000_000:
		return fmt.Sprintf("%.1fM", v/1_000_000)
	case v >= 1_000:
		return fmt.Sprintf("%.1fk", v/1_000)
	default:
		return fmt.Sprintf("%.0f", v)
	}
}

func fallback(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
