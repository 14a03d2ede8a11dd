package wallet

import (
	"context"
	"fmt"
	"sync"

	"github.com/goliatone/go-wallet/components/wallet/chart"
)

// ActivityDays is the number of daily samples plotted on the activity chart.
const ActivityDays = 30

// SurfaceSize is the pixel size of a chart element.
type SurfaceSize struct {
	Width  int
	Height int
}

// SurfaceSizes lists the canvas sizes of the page shell.
var SurfaceSizes = map[string]SurfaceSize{
	SurfaceSpending: {Width: 300, Height: 200},
	SurfaceTrend:    {Width: 300, Height: 200},
	SurfaceActivity: {Width: 300, Height: 150},
	SurfaceQR:       {Width: 200, Height: 200},
}

// NewRasterRegistry attaches a raster surface for every known element id.
func NewRasterRegistry() *chart.Registry {
	reg := chart.NewRegistry()
	for id, size := range SurfaceSizes {
		reg.Attach(id, chart.NewRasterSurface(size.Width, size.Height))
	}
	return reg
}

// NewRecorderRegistry attaches a recording surface for every known element id.
func NewRecorderRegistry() *chart.Registry {
	reg := chart.NewRegistry()
	for id, size := range SurfaceSizes {
		reg.Attach(id, chart.NewRecorder(size.Width, size.Height))
	}
	return reg
}

// SpendingSlices maps the category breakdown to pie input.
func SpendingSlices(s Snapshot) []chart.Slice {
	out := make([]chart.Slice, 0, len(s.Categories))
	for _, cat := range s.Categories {
		c, err := chart.ParseHex(cat.Color)
		if err != nil {
			c = chart.MustHex("#747D8C")
		}
		out = append(out, chart.Slice{Label: cat.Name, Amount: cat.Amount, Color: c})
	}
	return out
}

// TrendSeries maps income to series A and expense to series B.
func TrendSeries(s Snapshot) []chart.TrendPoint {
	out := make([]chart.TrendPoint, 0, len(s.Trend))
	for _, p := range s.Trend {
		out = append(out, chart.TrendPoint{Label: p.Period, A: p.Income, B: p.Expense})
	}
	return out
}

// ActivityValues extracts the bar heights from the samples.
func ActivityValues(samples []ActivitySample) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = s.Count
	}
	return out
}

// ChartSummary reports what a draw pass produced.
type ChartSummary struct {
	Drawn    []string              `json:"drawn"`
	Slices   []chart.SliceGeometry `json:"slices,omitempty"`
	Trend    chart.TrendLayout     `json:"trend"`
	Bars     []chart.BarRect       `json:"bars,omitempty"`
	Activity []ActivitySample      `json:"activity,omitempty"`
}

// ChartPainter draws the three analytics charts onto registry surfaces.
// Charts can be hidden individually; missing surfaces are skipped.
type ChartPainter struct {
	registry *chart.Registry
	activity ActivitySource

	mu     sync.Mutex
	hidden map[string]bool
}

// NewChartPainter builds a painter. A nil registry gets raster surfaces and
// a nil activity source gets a seeded one.
func NewChartPainter(registry *chart.Registry, activity ActivitySource) *ChartPainter {
	if registry == nil {
		registry = NewRasterRegistry()
	}
	if activity == nil {
		activity = NewSeededActivitySource(1)
	}
	return &ChartPainter{registry: registry, activity: activity, hidden: map[string]bool{}}
}

// Registry exposes the surfaces the painter draws on.
func (p *ChartPainter) Registry() *chart.Registry {
	return p.registry
}

// Toggle flips a chart's visibility and returns the new state.
func (p *ChartPainter) Toggle(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.hidden[id] = !p.hidden[id]
	return !p.hidden[id]
}

// Visible reports whether a chart is shown.
func (p *ChartPainter) Visible(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.hidden[id]
}

// Draw renders spending, trend and activity with style.
func (p *ChartPainter) Draw(ctx context.Context, snapshot Snapshot, style chart.Style) (ChartSummary, error) {
	var summary ChartSummary

	if s := p.surface(SurfaceSpending); s != nil {
		summary.Slices = chart.DrawPie(s, SpendingSlices(snapshot), style)
		summary.Drawn = append(summary.Drawn, SurfaceSpending)
	}
	if s := p.surface(SurfaceTrend); s != nil {
		summary.Trend = chart.DrawTrend(s, TrendSeries(snapshot), style)
		summary.Drawn = append(summary.Drawn, SurfaceTrend)
	}
	if s := p.surface(SurfaceActivity); s != nil {
		samples, err := p.activity.DailyActivity(ctx, ActivityDays)
		if err != nil {
			return summary, fmt.Errorf("wallet: load activity: %w", err)
		}
		summary.Bars = chart.DrawBars(s, ActivityValues(samples), style)
		summary.Activity = samples
		summary.Drawn = append(summary.Drawn, SurfaceActivity)
	}
	return summary, nil
}

func (p *ChartPainter) surface(id string) chart.Surface {
	if !p.Visible(id) {
		return nil
	}
	return p.registry.Lookup(id)
}
