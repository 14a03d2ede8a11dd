package wallet

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type manualTimer struct {
	delay     time.Duration
	fn        func()
	cancelled bool
}

type manualScheduler struct {
	mu     sync.Mutex
	timers []*manualTimer
}

func (s *manualScheduler) Schedule(d time.Duration, fn func()) func() {
	timer := &manualTimer{delay: d, fn: fn}
	s.mu.Lock()
	s.timers = append(s.timers, timer)
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		timer.cancelled = true
		s.mu.Unlock()
	}
}

// fireUpTo runs every pending timer whose delay is <= d.
func (s *manualScheduler) fireUpTo(d time.Duration) {
	s.mu.Lock()
	var due []*manualTimer
	rest := s.timers[:0]
	for _, timer := range s.timers {
		if timer.delay <= d && !timer.cancelled {
			due = append(due, timer)
			continue
		}
		if !timer.cancelled {
			rest = append(rest, timer)
		}
	}
	s.timers = rest
	s.mu.Unlock()
	for _, timer := range due {
		timer.fn()
	}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
}

func (p *recordingPublisher) Publish(_ context.Context, event Event) {
	p.mu.Lock()
	p.events = append(p.events, event)
	p.mu.Unlock()
}

func (p *recordingPublisher) count(kind EventType) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, e := range p.events {
		if e.Type == kind {
			n++
		}
	}
	return n
}

func TestNotificationAutoDismissAfterTTL(t *testing.T) {
	sched := &manualScheduler{}
	pub := &recordingPublisher{}
	m := NewNotificationManager(NotificationOptions{Scheduler: sched.Schedule, Publisher: pub})
	ctx := context.Background()

	ok := m.Success(ctx, "Saved")
	fail := m.Error(ctx, "Failed")
	sticky := m.Show(ctx, "Processing", KindLoading, 0)

	assert.Equal(t, "✅", ok.Icon)
	assert.Equal(t, 4*time.Second, ok.TTL)
	assert.Equal(t, 6*time.Second, fail.TTL)
	assert.True(t, sticky.Persistent())
	require.Len(t, m.Visible(), 3)

	sched.fireUpTo(4 * time.Second)
	visible := m.Visible()
	require.Len(t, visible, 2)
	assert.Equal(t, fail.ID, visible[0].ID)

	sched.fireUpTo(time.Minute)
	visible = m.Visible()
	require.Len(t, visible, 1)
	assert.Equal(t, sticky.ID, visible[0].ID)

	assert.Equal(t, 3, pub.count(EventToastShow))
	assert.Equal(t, 2, pub.count(EventToastDismiss))
}

func TestNotificationRemoveAndClear(t *testing.T) {
	sched := &manualScheduler{}
	m := NewNotificationManager(NotificationOptions{Scheduler: sched.Schedule})
	ctx := context.Background()

	n := m.Info(ctx, "hello")
	assert.True(t, m.Remove(ctx, n.ID))
	assert.False(t, m.Remove(ctx, n.ID))

	// expiring a removed toast is a no-op
	sched.fireUpTo(time.Minute)
	assert.Empty(t, m.Visible())

	m.Warning(ctx, "a")
	m.Loading(ctx, "b")
	m.Clear(ctx)
	assert.Empty(t, m.Visible())
}

func TestNotificationNormalizesKindAndTTL(t *testing.T) {
	m := NewNotificationManager(NotificationOptions{Scheduler: (&manualScheduler{}).Schedule})
	n := m.Show(context.Background(), "odd", NotificationKind("shout"), -time.Second)
	assert.Equal(t, KindInfo, n.Kind)
	assert.Equal(t, "ℹ️", n.Icon)
	assert.Zero(t, n.TTL)
}

func TestLoadingReferenceCounting(t *testing.T) {
	pub := &recordingPublisher{}
	m := NewLoadingManager(pub)
	ctx := context.Background()

	first := m.Show(ctx, "Memuat...", "")
	second := m.Show(ctx, "Menyimpan...", "dots")
	assert.NotEqual(t, first, second)
	assert.True(t, m.Visible())
	assert.Equal(t, "Menyimpan...", m.State().Message)

	m.Hide(ctx, first)
	assert.True(t, m.Visible(), "overlay must stay while a loader is active")
	assert.Equal(t, 1, m.State().Active)

	m.Hide(ctx, second)
	assert.False(t, m.Visible())

	m.Hide(ctx, "unknown")
	assert.False(t, m.Visible())
	assert.Equal(t, 2, pub.count(EventLoadingChanged))
}

func TestLoadingElementMarkers(t *testing.T) {
	m := NewLoadingManager(nil)
	ctx := context.Background()

	m.ShowElement(ctx, "balance-card", "Memuat saldo")
	assert.Equal(t, map[string]string{"balance-card": "Memuat saldo"}, m.State().Elements)
	assert.False(t, m.Visible())

	m.HideElement(ctx, "balance-card")
	assert.Empty(t, m.State().Elements)
}

func TestLoadingConcurrentCallers(t *testing.T) {
	m := NewLoadingManager(nil)
	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			token := m.Show(ctx, "x", "")
			m.Hide(ctx, token)
		}()
	}
	wg.Wait()
	assert.False(t, m.Visible())
}

func TestThemeDefaultsToDark(t *testing.T) {
	store := NewInMemoryKeyValueStore()
	require.NoError(t, store.Set(context.Background(), ThemeStorageKey, "sepia"))

	m := NewThemeManager(context.Background(), ThemeOptions{Store: store})
	assert.Equal(t, ThemeDark, m.Current())
}

func TestThemeReadsStoredValue(t *testing.T) {
	store := NewInMemoryKeyValueStore()
	require.NoError(t, store.Set(context.Background(), ThemeStorageKey, "light"))

	m := NewThemeManager(context.Background(), ThemeOptions{Store: store})
	assert.Equal(t, ThemeLight, m.Current())
}

func TestThemeToggleTwiceRestoresInitial(t *testing.T) {
	store := NewInMemoryKeyValueStore()
	pub := &recordingPublisher{}
	m := NewThemeManager(context.Background(), ThemeOptions{Store: store, Publisher: pub})
	initial := m.Current()

	var seen []Theme
	m.OnChange(func(theme Theme) { seen = append(seen, theme) })

	next, err := m.Toggle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, next)
	stored, _, _ := store.Get(context.Background(), ThemeStorageKey)
	assert.Equal(t, "light", stored)

	_, err = m.Toggle(context.Background())
	require.NoError(t, err)

	assert.Equal(t, initial, m.Current())
	assert.Equal(t, []Theme{ThemeLight, ThemeDark}, seen)
	assert.Equal(t, 2, pub.count(EventThemeChanged))
}

func TestThemeSetRejectsInvalid(t *testing.T) {
	m := NewThemeManager(context.Background(), ThemeOptions{})
	calls := 0
	cancel := m.OnChange(func(Theme) { calls++ })

	err := m.Set(context.Background(), Theme("neon"))
	assert.ErrorIs(t, err, ErrInvalidTheme)
	assert.Equal(t, ThemeDark, m.Current())
	assert.Zero(t, calls)

	require.NoError(t, m.Set(context.Background(), ThemeLight))
	assert.Equal(t, 1, calls)

	cancel()
	require.NoError(t, m.Set(context.Background(), ThemeDark))
	assert.Equal(t, 1, calls)
}

type failingStore struct{ *InMemoryKeyValueStore }

func (failingStore) Set(context.Context, string, string) error { return errors.New("disk full") }

func TestThemePersistFailureKeepsState(t *testing.T) {
	m := NewThemeManager(context.Background(), ThemeOptions{Store: failingStore{NewInMemoryKeyValueStore()}})
	_, err := m.Toggle(context.Background())
	assert.Error(t, err)
	assert.Equal(t, ThemeDark, m.Current())
}

func TestThemePaletteChartStyle(t *testing.T) {
	style := PaletteFor(ThemeLight).ChartStyle()
	assert.Equal(t, uint8(0xff), style.Background.R)
	assert.Contains(t, PaletteFor(ThemeDark).CSSVariablesInline(), "--accent: #FFD700;")
}

func TestEventBusListenersAndSubscribers(t *testing.T) {
	bus := NewEventBus(2)
	var got []EventType
	cancelListen := bus.Listen(func(e Event) { got = append(got, e.Type) })
	ch, cancelSub := bus.Subscribe()

	bus.Publish(context.Background(), Event{Type: EventPageChanged, Page: PageAnalytics})
	bus.Publish(context.Background(), Event{Type: EventThemeChanged, Theme: ThemeLight})
	bus.Publish(context.Background(), Event{Type: EventThemeChanged, Theme: ThemeDark})

	assert.Equal(t, []EventType{EventPageChanged, EventThemeChanged, EventThemeChanged}, got)
	first := <-ch
	assert.Equal(t, PageAnalytics, first.Page)
	assert.False(t, first.At.IsZero())
	<-ch
	select {
	case e := <-ch:
		t.Fatalf("expected slow subscriber to drop events, got %v", e.Type)
	default:
	}

	cancelListen()
	cancelSub()
	bus.Publish(context.Background(), Event{Type: EventToastShow})
	assert.Len(t, got, 3)
}
