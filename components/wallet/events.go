package wallet

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// EventType names the outbound events collaborators can observe.
type EventType string

const (
	EventPageChanged      EventType = "page.changed"
	EventThemeChanged     EventType = "theme.changed"
	EventToastShow        EventType = "toast.show"
	EventToastDismiss     EventType = "toast.dismiss"
	EventLoadingChanged   EventType = "loading.changed"
	EventAnalyticsUpdated EventType = "analytics.updated"
	EventBalanceUpdated   EventType = "balance.updated"
	EventPaymentDetected  EventType = "qr.detected"
)

// Event is the envelope published on the bus. Only the fields relevant to
// Type are populated.
type Event struct {
	Type         EventType       `json:"type"`
	Page         PageID          `json:"page,omitempty"`
	Theme        Theme           `json:"theme,omitempty"`
	Period       Period          `json:"period,omitempty"`
	Notification *Notification   `json:"notification,omitempty"`
	Loading      *LoadingState   `json:"loading,omitempty"`
	Account      *Account        `json:"account,omitempty"`
	Payment      *PaymentRequest `json:"payment,omitempty"`
	At           time.Time       `json:"at"`
}

// Publisher receives events from the service objects.
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, Event) {}

func normalizePublisher(p Publisher) Publisher {
	if p == nil {
		return noopPublisher{}
	}
	return p
}

// EventBus delivers events synchronously to listeners and fans them out to
// buffered channel subscribers. Slow subscribers drop events.
type EventBus struct {
	mu        sync.RWMutex
	listeners map[int]func(Event)
	subs      map[int]chan Event
	next      int
	buffer    int
	now       func() time.Time
}

// NewEventBus creates a bus whose subscriber channels hold buffer events.
func NewEventBus(buffer int) *EventBus {
	if buffer <= 0 {
		buffer = 16
	}
	return &EventBus{
		listeners: make(map[int]func(Event)),
		subs:      make(map[int]chan Event),
		buffer:    buffer,
		now:       time.Now,
	}
}

// Publish stamps the event, calls every listener in the caller's goroutine
// in registration order and offers the event to each subscriber without
// blocking.
func (b *EventBus) Publish(_ context.Context, event Event) {
	if event.At.IsZero() {
		event.At = b.now()
	}
	b.mu.RLock()
	ids := make([]int, 0, len(b.listeners))
	for id := range b.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	listeners := make([]func(Event), 0, len(ids))
	for _, id := range ids {
		listeners = append(listeners, b.listeners[id])
	}
	for _, ch := range b.subs {
		select {
		case ch <- event:
		default:
		}
	}
	b.mu.RUnlock()

	for _, fn := range listeners {
		fn(event)
	}
}

// Listen registers a synchronous callback and returns its cancel func.
func (b *EventBus) Listen(fn func(Event)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.next
	b.next++
	b.listeners[id] = fn
	return func() {
		b.mu.Lock()
		delete(b.listeners, id)
		b.mu.Unlock()
	}
}

// Subscribe returns a channel of events and a cancel func.
func (b *EventBus) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.next
	b.next++
	ch := make(chan Event, b.buffer)
	b.subs[id] = ch
	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket upgrades the request and streams events as JSON.
func (b *EventBus) ServeWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	defer conn.Close()

	events, cancel := b.Subscribe()
	defer cancel()

	for {
		select {
		case <-r.Context().Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if err := conn.WriteJSON(event); err != nil {
				return
			}
		}
	}
}

// ServeSSE streams events as Server-Sent Events.
func (b *EventBus) ServeSSE(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	events, cancel := b.Subscribe()
	defer cancel()

	encoder := json.NewEncoder(w)
	flusher, _ := w.(http.Flusher)
	if flusher != nil {
		flusher.Flush()
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			w.Write([]byte("event: " + string(event.Type) + "\ndata: "))
			if err := encoder.Encode(event); err != nil {
				return
			}
			w.Write([]byte("\n"))
			if flusher != nil {
				flusher.Flush()
			}
		}
	}
}
