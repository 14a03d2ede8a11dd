package wallet

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-wallet/components/wallet/chart"
)

func monthSnapshot(t *testing.T) Snapshot {
	t.Helper()
	snap, err := NewStaticAnalyticsProvider().Snapshot(context.Background(), PeriodMonth)
	require.NoError(t, err)
	return snap
}

func TestLegendPercentagesSumToHundred(t *testing.T) {
	rows := BuildLegend(nil, monthSnapshot(t).Categories)
	require.Len(t, rows, 5)

	assert.Equal(t, "Rp 1.850.000", rows[0].Amount)
	assert.Equal(t, "35.2%", rows[0].Percent)
	assert.Equal(t, "#FFD700", rows[0].Color)

	sum := decimal.Zero
	for _, row := range rows {
		value, err := decimal.NewFromString(strings.TrimSuffix(row.Percent, "%"))
		require.NoError(t, err)
		sum = sum.Add(value)
	}
	diff, _ := sum.Sub(decimal.NewFromInt(100)).Abs().Float64()
	if diff > 0.1 {
		t.Fatalf("legend percentages sum to %s", sum)
	}
}

func TestLegendWithZeroTotal(t *testing.T) {
	rows := BuildLegend(nil, []CategoryBreakdown{{Name: "Kosong", Amount: 0, Color: "#000000"}})
	require.Len(t, rows, 1)
	assert.Equal(t, "0.0%", rows[0].Percent)
	assert.Equal(t, "Rp 0", rows[0].Amount)
}

func TestChartPainterDrawsEveryVisibleChart(t *testing.T) {
	reg := NewRecorderRegistry()
	painter := NewChartPainter(reg, StaticActivitySource{{Index: 0, Count: 1}, {Index: 1, Count: 2}, {Index: 2, Count: 3}})

	summary, err := painter.Draw(context.Background(), monthSnapshot(t), chart.DefaultStyle())
	require.NoError(t, err)
	assert.Equal(t, []string{SurfaceSpending, SurfaceTrend, SurfaceActivity}, summary.Drawn)
	assert.Len(t, summary.Slices, 5)
	assert.Len(t, summary.Trend.A, 6)
	assert.Len(t, summary.Bars, 3)

	pie := reg.Lookup(SurfaceSpending).(*chart.Recorder)
	assert.Equal(t, 5, pie.Count(chart.OpFill))
	assert.Equal(t, 1, pie.Clears())
}

func TestChartPainterSkipsHiddenAndMissing(t *testing.T) {
	reg := NewRecorderRegistry()
	reg.Detach(SurfaceTrend)
	painter := NewChartPainter(reg, StaticActivitySource{{Index: 0, Count: 4}})

	assert.False(t, painter.Toggle(SurfaceActivity))
	summary, err := painter.Draw(context.Background(), monthSnapshot(t), chart.DefaultStyle())
	require.NoError(t, err)
	assert.Equal(t, []string{SurfaceSpending}, summary.Drawn)

	assert.True(t, painter.Toggle(SurfaceActivity))
	assert.True(t, painter.Visible(SurfaceActivity))
}

func TestEChartsRendererUsesCache(t *testing.T) {
	cache := NewChartCache(time.Minute)
	renderer := NewEChartsRenderer(WithChartCache(cache), WithAssetsHost("/assets/"))
	snap := monthSnapshot(t)
	palette := PaletteFor(ThemeDark)

	first, err := renderer.Render(SurfaceSpending, snap, nil, palette)
	require.NoError(t, err)
	assert.Contains(t, first, "Pengeluaran per Kategori")
	assert.Contains(t, first, "Makanan")

	second, err := renderer.Render(SurfaceSpending, snap, nil, palette)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, cache.Len())

	_, err = renderer.Render(SurfaceSpending, snap, nil, PaletteFor(ThemeLight))
	require.NoError(t, err)
	assert.Equal(t, 2, cache.Len(), "theme is part of the key")

	trend, err := renderer.Render(SurfaceTrend, snap, nil, palette)
	require.NoError(t, err)
	assert.Contains(t, trend, "Pemasukan")

	bars, err := renderer.Render(SurfaceActivity, snap, []ActivitySample{{Index: 0, Count: 3}}, palette)
	require.NoError(t, err)
	assert.Contains(t, bars, "Aktivitas Harian")

	_, err = renderer.Render("unknown", snap, nil, palette)
	assert.ErrorIs(t, err, ErrUnknownChart)
}
