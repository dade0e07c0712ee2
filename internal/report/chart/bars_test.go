package chart

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBarsRendersGroupsAndEscapesLabels(t *testing.T) {
	out, err := Bars([]Group{
		{Label: "Drinks & <Co>", Sales: decimal.NewFromInt(6), Expenses: decimal.RequireFromString("1.5")},
		{Label: "Snacks", Sales: decimal.Zero, Expenses: decimal.NewFromInt(2)},
	}, Opts{})
	require.NoError(t, err)

	svg := string(out)
	assert.True(t, strings.HasPrefix(svg, "<svg"))
	assert.Contains(t, svg, "Drinks &amp; &lt;Co&gt;")
	assert.Equal(t, 4, strings.Count(svg, "<rect")-2)
}

func TestBarsEmpty(t *testing.T) {
	out, err := Bars(nil, Opts{})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestFormatTick(t *testing.T) {
	assert.Equal(t, "12", formatTick(12))
	assert.Equal(t, "1.5k", formatTick(1500))
	assert.Equal(t, "2.0M", formatTick(2_000_000))
}
