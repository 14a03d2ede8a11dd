package wallet

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func waitForSubscribers(t *testing.T, bus *EventBus, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		bus.mu.RLock()
		count := len(bus.subs)
		bus.mu.RUnlock()
		if count >= n {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d subscribers", n)
}

func TestEventBusListenersRunInRegistrationOrder(t *testing.T) {
	bus := NewEventBus(1)
	var order []int
	for i := 0; i < 20; i++ {
		i := i
		bus.Listen(func(Event) { order = append(order, i) })
	}
	for round := 0; round < 5; round++ {
		order = order[:0]
		bus.Publish(context.Background(), Event{Type: EventToastShow})
		for i, got := range order {
			if got != i {
				t.Fatalf("round %d: expected listener %d at position %d, got %v", round, i, i, order)
			}
		}
	}
}

func TestEventBusServeWebSocket(t *testing.T) {
	bus := NewEventBus(4)
	server := httptest.NewServer(http.HandlerFunc(bus.ServeWebSocket))
	defer server.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http"), nil)
	if err != nil {
		t.Fatalf("Dial returned error: %v", err)
	}
	defer conn.Close()

	waitForSubscribers(t, bus, 1)
	bus.Publish(context.Background(), Event{Type: EventPageChanged, Page: PageAnalytics})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got Event
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatalf("ReadJSON returned error: %v", err)
	}
	if got.Type != EventPageChanged || got.Page != PageAnalytics {
		t.Fatalf("unexpected event %+v", got)
	}
}

func TestEventBusServeSSE(t *testing.T) {
	bus := NewEventBus(4)
	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/events", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		bus.ServeSSE(rec, req)
		close(done)
	}()

	waitForSubscribers(t, bus, 1)
	bus.Publish(context.Background(), Event{Type: EventThemeChanged, Theme: ThemeLight})
	// give the stream a moment to write before closing it
	time.Sleep(20 * time.Millisecond)
	cancel()
	<-done

	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("unexpected content type %q", ct)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "event: theme.changed\ndata: ") || !strings.Contains(body, `"theme":"light"`) {
		t.Fatalf("unexpected stream %q", body)
	}
}
