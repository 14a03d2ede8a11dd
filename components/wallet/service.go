package wallet

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/goliatone/go-wallet/components/wallet/chart"
)

// AnalyticsElement is the loading marker shown while a period loads.
const AnalyticsElement = "analytics-content"

var errMissingSurface = errors.New("wallet: chart surface not attached")

// Options configures the wallet Service. Every collaborator is an interface
// with a working default so hosts only override what they need.
type Options struct {
	Analytics       AnalyticsProvider
	Activity        ActivitySource
	Balance         BalanceSource
	ThemeStore      KeyValueStore
	Surfaces        *chart.Registry
	Validator       RequestValidator
	ChartCache      RenderCache
	Publisher       Publisher
	Telemetry       Telemetry
	Formatter       *Formatter
	Scheduler       Scheduler
	Camera          Camera
	Detector        Detector
	Rand            *rand.Rand
	Transactions    []Transaction
	InitialPeriod   Period
	InitialPage     PageID
	RefreshInterval time.Duration
	// QRProcessDelay is passed to the QR simulator; negative skips the wait.
	QRProcessDelay time.Duration
	AssetsHost     string
}

// Service wires the wallet managers together and keeps the selected period.
type Service struct {
	opts          Options
	bus           *EventBus
	notifications *NotificationManager
	loading       *LoadingManager
	theme         *ThemeManager
	pages         *PageController
	wallet        *Wallet
	qr            *QRSimulator
	painter       *ChartPainter
	echarts       *EChartsRenderer
	transactions  *TransactionList
	validator     RequestValidator

	mu       sync.RWMutex
	period   Period
	snapshot Snapshot
	charts   ChartSummary
	drawn    bool

	// drawMu serializes a full chart pass against PNG encoding so an image
	// never mixes two themes or periods. qrMu does the same for the QR surface.
	drawMu sync.Mutex
	qrMu   sync.Mutex
}

// NewService builds a Service and loads the initial snapshot.
func NewService(ctx context.Context, opts Options) (*Service, error) {
	if opts.Analytics == nil {
		opts.Analytics = NewStaticAnalyticsProvider()
	}
	if opts.Activity == nil {
		opts.Activity = NewSeededActivitySource(time.Now().UnixNano())
	}
	if opts.Surfaces == nil {
		opts.Surfaces = NewRasterRegistry()
	}
	if opts.Validator == nil {
		opts.Validator = NewJSONSchemaValidator()
	}
	if opts.Transactions == nil {
		opts.Transactions = DefaultTransactions()
	}
	if opts.RefreshInterval <= 0 {
		opts.RefreshInterval = DefaultRefreshInterval
	}
	if opts.InitialPeriod == "" {
		opts.InitialPeriod = PeriodMonth
	}
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	opts.Formatter = normalizeFormatter(opts.Formatter)

	s := &Service{opts: opts, validator: opts.Validator}
	if opts.Publisher == nil {
		s.bus = NewEventBus(0)
		opts.Publisher = s.bus
	} else if bus, ok := opts.Publisher.(*EventBus); ok {
		s.bus = bus
	}

	s.notifications = NewNotificationManager(NotificationOptions{
		Publisher: opts.Publisher,
		Scheduler: opts.Scheduler,
		Telemetry: opts.Telemetry,
	})
	s.loading = NewLoadingManager(opts.Publisher)
	s.theme = NewThemeManager(ctx, ThemeOptions{
		Store:     opts.ThemeStore,
		Publisher: opts.Publisher,
		Telemetry: opts.Telemetry,
	})
	s.pages = NewPageController(PageOptions{
		Initial:   opts.InitialPage,
		Publisher: opts.Publisher,
		Telemetry: opts.Telemetry,
	})
	s.wallet = NewWallet(WalletOptions{
		Source:    opts.Balance,
		Formatter: opts.Formatter,
		Publisher: opts.Publisher,
		Telemetry: opts.Telemetry,
	})
	s.qr = NewQRSimulator(QROptions{
		Camera:       opts.Camera,
		Detector:     opts.Detector,
		Notifier:     s.notifications,
		Loader:       s.loading,
		Publisher:    opts.Publisher,
		Telemetry:    opts.Telemetry,
		Formatter:    opts.Formatter,
		Rand:         opts.Rand,
		ProcessDelay: opts.QRProcessDelay,
	})
	s.painter = NewChartPainter(opts.Surfaces, opts.Activity)
	echartsOpts := []EChartsOption{}
	if opts.ChartCache != nil {
		echartsOpts = append(echartsOpts, WithChartCache(opts.ChartCache))
	}
	if opts.AssetsHost != "" {
		echartsOpts = append(echartsOpts, WithAssetsHost(opts.AssetsHost))
	}
	s.echarts = NewEChartsRenderer(echartsOpts...)
	s.transactions = NewTransactionList(opts.Transactions)
	s.opts = opts

	period, _ := ParsePeriod(string(opts.InitialPeriod))
	snapshot, err := opts.Analytics.Snapshot(ctx, period)
	if err != nil {
		return nil, fmt.Errorf("wallet: load %s snapshot: %w", period, err)
	}
	s.period = period
	s.snapshot = snapshot

	s.pages.OnPageChanged(func(page PageID) {
		if chartPage(page) {
			s.redraw(context.Background(), "page")
		}
	})
	s.theme.OnChange(func(Theme) {
		if chartPage(s.pages.Current()) {
			s.redraw(context.Background(), "theme")
		}
	})
	if chartPage(s.pages.Current()) {
		s.redraw(ctx, "init")
	}
	return s, nil
}

func chartPage(page PageID) bool {
	return page == PageAnalytics || page == PageDashboard
}

// Bus returns the internal event bus, or nil when an external Publisher was
// supplied that is not an *EventBus.
func (s *Service) Bus() *EventBus { return s.bus }

// Notifications exposes the toast queue.
func (s *Service) Notifications() *NotificationManager { return s.notifications }

// Loading exposes the loading overlay.
func (s *Service) Loading() *LoadingManager { return s.loading }

// Theme exposes the theme manager.
func (s *Service) Theme() *ThemeManager { return s.theme }

// Pages exposes the page controller.
func (s *Service) Pages() *PageController { return s.pages }

// Wallet exposes the balance card.
func (s *Service) Wallet() *Wallet { return s.wallet }

// QR exposes the QR simulator.
func (s *Service) QR() *QRSimulator { return s.qr }

// Validator returns the request validator.
func (s *Service) Validator() RequestValidator { return s.validator }

// Formatter returns the formatter used for all rendered amounts.
func (s *Service) Formatter() *Formatter { return s.opts.Formatter }

// Transactions exposes the history list.
func (s *Service) Transactions() *TransactionList { return s.transactions }

// Period returns the selected period.
func (s *Service) Period() Period {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.period
}

// Snapshot returns the snapshot of the selected period.
func (s *Service) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.Clone()
}

// SnapshotFor loads the snapshot of period without selecting it.
func (s *Service) SnapshotFor(ctx context.Context, raw string) (Snapshot, error) {
	period, _ := ParsePeriod(raw)
	snapshot, err := s.opts.Analytics.Snapshot(ctx, period)
	if err != nil {
		return Snapshot{}, fmt.Errorf("wallet: load %s snapshot: %w", period, err)
	}
	return snapshot, nil
}

// Legend returns the spending legend of the selected period.
func (s *Service) Legend() []LegendRow {
	return BuildLegend(s.opts.Formatter, s.Snapshot().Categories)
}

// LastCharts returns the most recent draw summary and whether any draw
// happened yet.
func (s *Service) LastCharts() (ChartSummary, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.charts, s.drawn
}

// SelectPeriod switches the analytics period. Aliases such as "weekly" are
// accepted; unknown names fall back to month. Charts are redrawn only when a
// chart page is active.
func (s *Service) SelectPeriod(ctx context.Context, raw string) (Snapshot, error) {
	period, _ := ParsePeriod(raw)
	s.loading.ShowElement(ctx, AnalyticsElement, "Memuat data...")
	defer s.loading.HideElement(ctx, AnalyticsElement)

	snapshot, err := s.opts.Analytics.Snapshot(ctx, period)
	if err != nil {
		s.notifications.Error(ctx, "Gagal memuat data analitik")
		return Snapshot{}, fmt.Errorf("wallet: load %s snapshot: %w", period, err)
	}
	s.mu.Lock()
	s.period = period
	s.snapshot = snapshot
	s.mu.Unlock()

	s.opts.Telemetry.Record(ctx, "wallet.analytics.period", map[string]any{"period": string(period)})
	s.opts.Publisher.Publish(ctx, Event{Type: EventAnalyticsUpdated, Period: period})
	s.notifications.Info(ctx, "Data diperbarui untuk periode "+period.Label())

	if chartPage(s.pages.Current()) {
		s.redraw(ctx, "period")
	}
	return snapshot.Clone(), nil
}

// Navigate activates page.
func (s *Service) Navigate(ctx context.Context, page PageID) bool {
	return s.pages.Show(ctx, page)
}

// Swipe forwards a gesture to the page controller.
func (s *Service) Swipe(ctx context.Context, dx, dy float64) (PageID, bool) {
	return s.pages.Swipe(ctx, dx, dy)
}

// DrawCharts draws the three analytics charts with the active theme.
func (s *Service) DrawCharts(ctx context.Context) (ChartSummary, error) {
	s.drawMu.Lock()
	defer s.drawMu.Unlock()
	return s.drawChartsLocked(ctx)
}

func (s *Service) drawChartsLocked(ctx context.Context) (ChartSummary, error) {
	summary, err := s.painter.Draw(ctx, s.Snapshot(), s.theme.Palette().ChartStyle())
	if err != nil {
		return summary, err
	}
	s.mu.Lock()
	s.charts = summary
	s.drawn = true
	s.mu.Unlock()
	return summary, nil
}

func (s *Service) redraw(ctx context.Context, reason string) {
	summary, err := s.DrawCharts(ctx)
	if err != nil {
		s.opts.Telemetry.Record(ctx, "wallet.charts.failed", map[string]any{"reason": reason, "error": err.Error()})
		return
	}
	s.opts.Telemetry.Record(ctx, "wallet.charts.drawn", map[string]any{"reason": reason, "charts": summary.Drawn})
}

// ToggleChart flips a chart's visibility and returns the new state.
func (s *Service) ToggleChart(ctx context.Context, id string) bool {
	visible := s.painter.Toggle(id)
	s.opts.Telemetry.Record(ctx, "wallet.charts.toggle", map[string]any{"chart": id, "visible": visible})
	return visible
}

// ChartVisible reports whether a chart is shown.
func (s *Service) ChartVisible(id string) bool {
	return s.painter.Visible(id)
}

// ChartHTML renders chart id as a standalone ECharts page.
func (s *Service) ChartHTML(ctx context.Context, id string) (string, error) {
	var activity []ActivitySample
	if id == SurfaceActivity {
		if summary, ok := s.LastCharts(); ok && len(summary.Activity) > 0 {
			activity = summary.Activity
		} else {
			samples, err := s.opts.Activity.DailyActivity(ctx, ActivityDays)
			if err != nil {
				return "", fmt.Errorf("wallet: load activity: %w", err)
			}
			activity = samples
		}
	}
	return s.echarts.Render(id, s.Snapshot(), activity, s.theme.Palette())
}

// ChartPNG writes the raster surface of chart id, drawing first when the
// charts were never drawn.
func (s *Service) ChartPNG(ctx context.Context, id string, w io.Writer) error {
	switch id {
	case SurfaceSpending, SurfaceTrend, SurfaceActivity:
	default:
		return fmt.Errorf("%w: %s", ErrUnknownChart, id)
	}
	s.drawMu.Lock()
	defer s.drawMu.Unlock()
	if _, drawn := s.LastCharts(); !drawn {
		if _, err := s.drawChartsLocked(ctx); err != nil {
			return err
		}
	}
	return s.encodeSurface(id, w)
}

func (s *Service) encodeSurface(id string, w io.Writer) error {
	surface := s.opts.Surfaces.Lookup(id)
	if surface == nil {
		return fmt.Errorf("%w: %s", errMissingSurface, id)
	}
	enc, ok := surface.(pngEncoder)
	if !ok {
		return fmt.Errorf("%w: %s", ErrShareUnsupported, id)
	}
	return enc.EncodePNG(w)
}

// GenerateQR draws a receive-payment code onto the QR surface.
func (s *Service) GenerateQR(ctx context.Context) (GeneratedQR, bool) {
	s.qrMu.Lock()
	defer s.qrMu.Unlock()
	return s.qr.Generate(ctx, s.opts.Surfaces.Lookup(SurfaceQR))
}

// ShareQR writes the QR surface as PNG.
func (s *Service) ShareQR(ctx context.Context, w io.Writer) error {
	s.qrMu.Lock()
	defer s.qrMu.Unlock()
	return s.qr.Share(ctx, s.opts.Surfaces.Lookup(SurfaceQR), w)
}

// Search filters the history by title or subtitle.
func (s *Service) Search(term string) TransactionView {
	return s.transactions.Search(term)
}

// Filter filters the history by type.
func (s *Service) Filter(kind string) TransactionView {
	return s.transactions.Filter(kind)
}

// Run refreshes the balance until ctx ends.
func (s *Service) Run(ctx context.Context) error {
	return s.wallet.Run(ctx, s.opts.RefreshInterval)
}
