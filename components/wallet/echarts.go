package wallet

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const defaultEChartsHeight = "300px"

// ErrUnknownChart is returned for chart ids the renderer does not draw.
var ErrUnknownChart = errors.New("wallet: unknown chart")

var sharedChartCache = NewChartCache(5 * time.Minute)

// EChartsRenderer renders the analytics charts as standalone HTML pages.
type EChartsRenderer struct {
	cache      RenderCache
	assetsHost string
	height     string
}

// EChartsOption customizes renderer behavior.
type EChartsOption func(*EChartsRenderer)

// WithChartCache injects a render cache. Nil disables caching.
func WithChartCache(cache RenderCache) EChartsOption {
	return func(r *EChartsRenderer) {
		r.cache = cache
	}
}

// WithAssetsHost points the ECharts runtime at a different host.
func WithAssetsHost(host string) EChartsOption {
	return func(r *EChartsRenderer) {
		r.assetsHost = host
	}
}

// WithChartHeight overrides the chart height (CSS length).
func WithChartHeight(height string) EChartsOption {
	return func(r *EChartsRenderer) {
		if height != "" {
			r.height = height
		}
	}
}

// NewEChartsRenderer builds a renderer backed by the shared chart cache.
func NewEChartsRenderer(options ...EChartsOption) *EChartsRenderer {
	r := &EChartsRenderer{
		cache:  sharedChartCache,
		height: defaultEChartsHeight,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// Render draws the chart bound to id: spending, trend or activity.
func (r *EChartsRenderer) Render(id string, snapshot Snapshot, activity []ActivitySample, palette ThemePalette) (string, error) {
	switch id {
	case SurfaceSpending:
		return r.Spending(snapshot, palette)
	case SurfaceTrend:
		return r.Trend(snapshot, palette)
	case SurfaceActivity:
		return r.Activity(activity, palette)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownChart, id)
	}
}

// Spending renders the category breakdown as a pie.
func (r *EChartsRenderer) Spending(snapshot Snapshot, palette ThemePalette) (string, error) {
	return r.cached(SurfaceSpending, palette, snapshot.Categories, func() (string, error) {
		pie := charts.NewPie()
		pie.SetGlobalOptions(r.globalOptions("Pengeluaran per Kategori", snapshot.Period.Label(), palette)...)
		data := make([]opts.PieData, 0, len(snapshot.Categories))
		for _, cat := range snapshot.Categories {
			data = append(data, opts.PieData{
				Name:      cat.Name,
				Value:     cat.Amount,
				ItemStyle: &opts.ItemStyle{Color: cat.Color},
			})
		}
		pie.AddSeries("Pengeluaran", data,
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: "{b}: {d}%"}),
		)
		return renderChart(pie)
	})
}

// Trend renders income and expense lines.
func (r *EChartsRenderer) Trend(snapshot Snapshot, palette ThemePalette) (string, error) {
	return r.cached(SurfaceTrend, palette, snapshot.Trend, func() (string, error) {
		line := charts.NewLine()
		line.SetGlobalOptions(r.globalOptions("Tren Keuangan", snapshot.Period.Label(), palette)...)
		labels := make([]string, 0, len(snapshot.Trend))
		income := make([]opts.LineData, 0, len(snapshot.Trend))
		expense := make([]opts.LineData, 0, len(snapshot.Trend))
		for _, p := range snapshot.Trend {
			labels = append(labels, p.Period)
			income = append(income, opts.LineData{Name: p.Period, Value: p.Income})
			expense = append(expense, opts.LineData{Name: p.Period, Value: p.Expense})
		}
		line.SetXAxis(labels)
		line.AddSeries("Pemasukan", income,
			charts.WithLineStyleOpts(opts.LineStyle{Color: "#FFD700", Width: 3}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: "#FFD700"}),
		)
		line.AddSeries("Pengeluaran", expense,
			charts.WithLineStyleOpts(opts.LineStyle{Color: "#FF6B35", Width: 3}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: "#FF6B35"}),
		)
		return renderChart(line)
	})
}

// Activity renders the daily transaction counts as bars.
func (r *EChartsRenderer) Activity(samples []ActivitySample, palette ThemePalette) (string, error) {
	return r.cached(SurfaceActivity, palette, samples, func() (string, error) {
		bar := charts.NewBar()
		bar.SetGlobalOptions(r.globalOptions("Aktivitas Harian", "", palette)...)
		labels := make([]string, 0, len(samples))
		data := make([]opts.BarData, 0, len(samples))
		for _, s := range samples {
			label := strconv.Itoa(s.Index + 1)
			labels = append(labels, label)
			data = append(data, opts.BarData{Name: label, Value: s.Count})
		}
		bar.SetXAxis(labels)
		bar.AddSeries("Transaksi", data, charts.WithItemStyleOpts(opts.ItemStyle{Color: palette.Tokens["accent"]}))
		return renderChart(bar)
	})
}

func (r *EChartsRenderer) cached(id string, palette ThemePalette, input any, render func() (string, error)) (string, error) {
	if r.cache == nil {
		return render()
	}
	key := fmt.Sprintf("%s:%s:%s", id, palette.Theme, contentHash(input))
	return r.cache.GetOrRender(key, render)
}

func (r *EChartsRenderer) globalOptions(title, subtitle string, palette ThemePalette) []charts.GlobalOpts {
	init := opts.Initialization{
		Theme:           palette.ChartTheme,
		Width:           "100%",
		Height:          r.height,
		BackgroundColor: palette.Tokens["bg-card"],
	}
	if r.assetsHost != "" {
		init.AssetsHost = r.assetsHost
	}
	return []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithInitializationOpts(init),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	}
}

func renderChart(renderable interface{ Render(io.Writer) error }) (string, error) {
	var buf bytes.Buffer
	if err := renderable.Render(&buf); err != nil {
		return "", fmt.Errorf("wallet: render chart: %w", err)
	}
	return buf.String(), nil
}
