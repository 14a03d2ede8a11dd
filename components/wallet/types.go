package wallet

import (
	"strings"
	"time"
)

// Period selects which analytics snapshot is returned.
type Period string

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

// ParsePeriod normalizes period names, accepting the weekly/monthly/yearly
// aliases. Unknown values resolve to PeriodMonth and ok=false.
func ParsePeriod(raw string) (Period, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "week", "weekly":
		return PeriodWeek, true
	case "month", "monthly":
		return PeriodMonth, true
	case "year", "yearly":
		return PeriodYear, true
	default:
		return PeriodMonth, false
	}
}

// Label returns the user-facing period name.
func (p Period) Label() string {
	switch p {
	case PeriodWeek:
		return "minggu ini"
	case PeriodYear:
		return "tahun ini"
	default:
		return "bulan ini"
	}
}

// MetricPoint is a single labeled datum for a bar, line, or slice.
type MetricPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// CategoryBreakdown is one pie slice of the spending breakdown.
type CategoryBreakdown struct {
	Name       string  `json:"name"`
	Amount     int64   `json:"amount"`
	Percentage float64 `json:"percentage"`
	Icon       string  `json:"icon,omitempty"`
	Color      string  `json:"color"`
}

// TrendPoint pairs income/expense values for one period label.
type TrendPoint struct {
	Period  string  `json:"period"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

// ActivitySample counts transactions for one day.
type ActivitySample struct {
	Index int     `json:"index"`
	Count float64 `json:"count"`
}

// QuickStat is a headline figure shown above the charts. Text wins over Value
// when set.
type QuickStat struct {
	Label string  `json:"label"`
	Icon  string  `json:"icon,omitempty"`
	Value float64 `json:"value,omitempty"`
	Text  string  `json:"text,omitempty"`
}

// SavingsGoal tracks progress towards a target amount.
type SavingsGoal struct {
	Current    int64   `json:"current"`
	Target     int64   `json:"target"`
	Percentage float64 `json:"percentage"`
}

// Snapshot is the immutable analytics payload for one period.
type Snapshot struct {
	Period     Period              `json:"period"`
	Income     int64               `json:"income"`
	Expense    int64               `json:"expense"`
	Net        int64               `json:"net"`
	Categories []CategoryBreakdown `json:"categories"`
	Trend      []TrendPoint        `json:"trend"`
	QuickStats []QuickStat         `json:"quick_stats"`
	Savings    SavingsGoal         `json:"savings"`
}

// CategoryPoints flattens the breakdown into label/value points.
func (s Snapshot) CategoryPoints() []MetricPoint {
	out := make([]MetricPoint, 0, len(s.Categories))
	for _, cat := range s.Categories {
		out = append(out, MetricPoint{Label: cat.Name, Value: float64(cat.Amount)})
	}
	return out
}

// Clone deep-copies the slices so callers cannot mutate shared fixtures.
func (s Snapshot) Clone() Snapshot {
	out := s
	out.Categories = append([]CategoryBreakdown(nil), s.Categories...)
	out.Trend = append([]TrendPoint(nil), s.Trend...)
	out.QuickStats = append([]QuickStat(nil), s.QuickStats...)
	return out
}

// Theme is the wallet color scheme.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// Valid reports whether the theme is a known value.
func (t Theme) Valid() bool {
	return t == ThemeDark || t == ThemeLight
}

// NotificationKind classifies toast messages.
type NotificationKind string

const (
	KindSuccess NotificationKind = "success"
	KindError   NotificationKind = "error"
	KindWarning NotificationKind = "warning"
	KindInfo    NotificationKind = "info"
	KindLoading NotificationKind = "loading"
)

// Notification is a visible toast entry.
type Notification struct {
	ID        string           `json:"id"`
	Message   string           `json:"message"`
	Kind      NotificationKind `json:"kind"`
	Icon      string           `json:"icon"`
	TTL       time.Duration    `json:"ttl"`
	CreatedAt time.Time        `json:"created_at"`
}

// Persistent reports whether the toast waits for an explicit dismiss.
func (n Notification) Persistent() bool {
	return n.TTL == 0
}

// PageID names a page section of the wallet shell.
type PageID string

const (
	PageHome          PageID = "home"
	PageAnalytics     PageID = "analytics"
	PageHistory       PageID = "history"
	PageNotifications PageID = "notifications"
	PageProfile       PageID = "profile"
	PageQR            PageID = "qr"
	PageDashboard     PageID = "dashboard"
)

// Surface identifiers with their fixed pixel sizes.
const (
	SurfaceSpending = "spending-chart"
	SurfaceTrend    = "trend-chart"
	SurfaceActivity = "activity-chart"
	SurfaceQR       = "qr-canvas"
)
