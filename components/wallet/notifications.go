package wallet

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Scheduler runs fn once after d and returns a func that cancels it.
type Scheduler func(d time.Duration, fn func()) (cancel func())

func timerScheduler(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}

var notificationDefaults = map[NotificationKind]struct {
	icon string
	ttl  time.Duration
}{
	KindSuccess: {"✅", 4 * time.Second},
	KindError:   {"❌", 6 * time.Second},
	KindWarning: {"⚠️", 5 * time.Second},
	KindInfo:    {"ℹ️", 4 * time.Second},
	KindLoading: {"⏳", 0},
}

// NormalizeKind maps unknown kinds to KindInfo.
func NormalizeKind(kind NotificationKind) NotificationKind {
	if _, ok := notificationDefaults[kind]; ok {
		return kind
	}
	return KindInfo
}

// DefaultTTL returns the auto-dismiss delay used by the kind helpers.
func DefaultTTL(kind NotificationKind) time.Duration {
	return notificationDefaults[NormalizeKind(kind)].ttl
}

// NotificationOptions configures a NotificationManager.
type NotificationOptions struct {
	Publisher Publisher
	Scheduler Scheduler
	Telemetry Telemetry
	Now       func() time.Time
}

// NotificationManager keeps the queue of visible toasts and expires them.
type NotificationManager struct {
	mu        sync.Mutex
	items     []Notification
	cancels   map[string]func()
	publisher Publisher
	schedule  Scheduler
	telemetry Telemetry
	now       func() time.Time
}

// NewNotificationManager builds a manager backed by real timers unless a
// Scheduler is supplied.
func NewNotificationManager(opts NotificationOptions) *NotificationManager {
	m := &NotificationManager{
		cancels:   make(map[string]func()),
		publisher: normalizePublisher(opts.Publisher),
		schedule:  opts.Scheduler,
		telemetry: normalizeTelemetry(opts.Telemetry),
		now:       opts.Now,
	}
	if m.schedule == nil {
		m.schedule = timerScheduler
	}
	if m.now == nil {
		m.now = time.Now
	}
	return m
}

// Show queues a toast. A zero ttl keeps it until Remove or Clear; negative
// values are treated as zero.
func (m *NotificationManager) Show(ctx context.Context, message string, kind NotificationKind, ttl time.Duration) Notification {
	kind = NormalizeKind(kind)
	if ttl < 0 {
		ttl = 0
	}
	n := Notification{
		ID:        uuid.NewString(),
		Message:   message,
		Kind:      kind,
		Icon:      notificationDefaults[kind].icon,
		TTL:       ttl,
		CreatedAt: m.now(),
	}

	m.mu.Lock()
	m.items = append(m.items, n)
	if ttl > 0 {
		detached := context.WithoutCancel(ctx)
		m.cancels[n.ID] = m.schedule(ttl, func() {
			m.expire(detached, n.ID)
		})
	}
	m.mu.Unlock()

	m.telemetry.Record(ctx, "wallet.toast.show", map[string]any{
		"id":   n.ID,
		"kind": string(kind),
		"ttl":  ttl.Milliseconds(),
	})
	shown := n
	m.publisher.Publish(ctx, Event{Type: EventToastShow, Notification: &shown})
	return n
}

// Success shows a success toast with the default ttl.
func (m *NotificationManager) Success(ctx context.Context, message string) Notification {
	return m.Show(ctx, message, KindSuccess, DefaultTTL(KindSuccess))
}

// Error shows an error toast with the default ttl.
func (m *NotificationManager) Error(ctx context.Context, message string) Notification {
	return m.Show(ctx, message, KindError, DefaultTTL(KindError))
}

// Warning shows a warning toast with the default ttl.
func (m *NotificationManager) Warning(ctx context.Context, message string) Notification {
	return m.Show(ctx, message, KindWarning, DefaultTTL(KindWarning))
}

// Info shows an info toast with the default ttl.
func (m *NotificationManager) Info(ctx context.Context, message string) Notification {
	return m.Show(ctx, message, KindInfo, DefaultTTL(KindInfo))
}

// Loading shows a persistent loading toast.
func (m *NotificationManager) Loading(ctx context.Context, message string) Notification {
	return m.Show(ctx, message, KindLoading, 0)
}

// Remove dismisses a toast. It reports whether the id was visible.
func (m *NotificationManager) Remove(ctx context.Context, id string) bool {
	removed, ok := m.take(id, true)
	if !ok {
		return false
	}
	m.publisher.Publish(ctx, Event{Type: EventToastDismiss, Notification: &removed})
	return true
}

func (m *NotificationManager) expire(ctx context.Context, id string) {
	removed, ok := m.take(id, false)
	if !ok {
		return
	}
	m.publisher.Publish(ctx, Event{Type: EventToastDismiss, Notification: &removed})
}

func (m *NotificationManager) take(id string, stopTimer bool) (Notification, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, n := range m.items {
		if n.ID != id {
			continue
		}
		m.items = append(m.items[:i], m.items[i+1:]...)
		if cancel, ok := m.cancels[id]; ok {
			if stopTimer {
				cancel()
			}
			delete(m.cancels, id)
		}
		return n, true
	}
	return Notification{}, false
}

// Clear dismisses every visible toast.
func (m *NotificationManager) Clear(ctx context.Context) {
	m.mu.Lock()
	items := m.items
	m.items = nil
	for id, cancel := range m.cancels {
		cancel()
		delete(m.cancels, id)
	}
	m.mu.Unlock()

	for i := range items {
		m.publisher.Publish(ctx, Event{Type: EventToastDismiss, Notification: &items[i]})
	}
}

// Visible returns the queue in creation order.
func (m *NotificationManager) Visible() []Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Notification(nil), m.items...)
}
