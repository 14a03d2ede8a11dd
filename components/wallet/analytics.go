package wallet

import (
	"context"
	"errors"
	"math/rand"
	"sync"
)

// AnalyticsProvider returns the analytics snapshot for a period.
type AnalyticsProvider interface {
	Snapshot(ctx context.Context, period Period) (Snapshot, error)
}

// ActivitySource supplies the per-day transaction counts for the activity chart.
type ActivitySource interface {
	DailyActivity(ctx context.Context, days int) ([]ActivitySample, error)
}

// ErrNoActivityDays is returned when a non-positive day count is requested.
var ErrNoActivityDays = errors.New("wallet: activity days must be positive")

// Category palette shared by the canned snapshots and the pie chart.
var categoryPalette = []struct {
	Name  string
	Icon  string
	Color string
}{
	{"Makanan & Minuman", "🍽️", "#FFD700"},
	{"Transportasi", "🚗", "#FFA500"},
	{"Belanja", "🛍️", "#FF6B35"},
	{"Hiburan", "🎬", "#FF4757"},
	{"Tagihan", "📄", "#747D8C"},
}

var categoryShares = []float64{35.2, 22.9, 18.1, 14.3, 9.5}

var trendLabels = []string{"Jan", "Feb", "Mar", "Apr", "Mei", "Jun"}

type snapshotSeed struct {
	income, expense int64
	categories      [5]int64
	trend           [6][2]float64
	transactions    float64
	averageTicket   float64
	savings, target int64
}

var cannedSnapshots = map[Period]snapshotSeed{
	PeriodWeek: {
		income: 2150000, expense: 1350000,
		categories:    [5]int64{850000, 550000, 435000, 345000, 230000},
		trend:         [6][2]float64{{45, 30}, {55, 40}, {65, 50}, {50, 35}, {70, 55}, {75, 60}},
		transactions:  67,
		averageTicket: 32150,
		savings:       1250000, target: 5000000,
	},
	PeriodMonth: {
		income: 8750000, expense: 5250000,
		categories:    [5]int64{1850000, 1200000, 950000, 750000, 500000},
		trend:         [6][2]float64{{60, 40}, {75, 55}, {85, 65}, {70, 50}, {90, 70}, {95, 75}},
		transactions:  247,
		averageTicket: 21255,
		savings:       4750000, target: 10000000,
	},
	PeriodYear: {
		income: 105000000, expense: 63000000,
		categories:    [5]int64{22200000, 14430000, 11403000, 9009000, 5985000},
		trend:         [6][2]float64{{65, 45}, {70, 50}, {80, 60}, {75, 55}, {85, 65}, {90, 70}},
		transactions:  2847,
		averageTicket: 36875,
		savings:       28500000, target: 50000000,
	},
}

func (seed snapshotSeed) build(period Period) Snapshot {
	snap := Snapshot{
		Period:  period,
		Income:  seed.income,
		Expense: seed.expense,
		Net:     seed.income - seed.expense,
	}
	for i, meta := range categoryPalette {
		snap.Categories = append(snap.Categories, CategoryBreakdown{
			Name:       meta.Name,
			Amount:     seed.categories[i],
			Percentage: categoryShares[i],
			Icon:       meta.Icon,
			Color:      meta.Color,
		})
	}
	for i, label := range trendLabels {
		snap.Trend = append(snap.Trend, TrendPoint{
			Period:  label,
			Income:  seed.trend[i][0],
			Expense: seed.trend[i][1],
		})
	}
	snap.QuickStats = []QuickStat{
		{Label: "Total Transaksi", Icon: "📊", Value: seed.transactions},
		{Label: "Rata-rata Transaksi", Icon: "💰", Value: seed.averageTicket},
		{Label: "Kategori Terfavorit", Icon: "⭐", Text: "Makanan"},
	}
	snap.Savings = SavingsGoal{
		Current:    seed.savings,
		Target:     seed.target,
		Percentage: percentOf(seed.savings, seed.target).InexactFloat64(),
	}
	return snap
}

// StaticAnalyticsProvider serves the canned week/month/year snapshots.
type StaticAnalyticsProvider struct {
	snapshots map[Period]Snapshot
}

// NewStaticAnalyticsProvider builds the provider with the demo datasets.
func NewStaticAnalyticsProvider() *StaticAnalyticsProvider {
	snapshots := make(map[Period]Snapshot, len(cannedSnapshots))
	for period, seed := range cannedSnapshots {
		snapshots[period] = seed.build(period)
	}
	return &StaticAnalyticsProvider{snapshots: snapshots}
}

// Snapshot returns a copy of the canned snapshot. Unknown periods fall back to
// the monthly dataset.
func (p *StaticAnalyticsProvider) Snapshot(_ context.Context, period Period) (Snapshot, error) {
	snap, ok := p.snapshots[period]
	if !ok {
		snap = p.snapshots[PeriodMonth]
	}
	return snap.Clone(), nil
}

// SeededActivitySource generates 1..10 transactions per day from a seeded
// generator so repeated runs with the same seed match.
type SeededActivitySource struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewSeededActivitySource creates a source for the given seed.
func NewSeededActivitySource(seed int64) *SeededActivitySource {
	return &SeededActivitySource{rnd: rand.New(rand.NewSource(seed))}
}

// DailyActivity returns one sample per day.
func (s *SeededActivitySource) DailyActivity(_ context.Context, days int) ([]ActivitySample, error) {
	if days <= 0 {
		return nil, ErrNoActivityDays
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ActivitySample, days)
	for i := range out {
		out[i] = ActivitySample{Index: i, Count: float64(s.rnd.Intn(10) + 1)}
	}
	return out, nil
}

// StaticActivitySource replays fixed samples, truncated to the requested days.
type StaticActivitySource []ActivitySample

// DailyActivity returns the configured samples.
func (s StaticActivitySource) DailyActivity(_ context.Context, days int) ([]ActivitySample, error) {
	if days <= 0 {
		return nil, ErrNoActivityDays
	}
	if days > len(s) {
		days = len(s)
	}
	return append([]ActivitySample(nil), s[:days]...), nil
}
