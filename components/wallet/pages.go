package wallet

import (
	"context"
	"math"
	"sort"
	"sync"
)

// SwipeThreshold is the minimum horizontal travel for a swipe to navigate.
const SwipeThreshold = 50.0

// DefaultPages lists every page section of the shell.
var DefaultPages = []PageID{
	PageHome, PageAnalytics, PageHistory, PageNotifications, PageProfile, PageQR, PageDashboard,
}

// DefaultSwipeOrder is the left-to-right order used by swipe navigation.
var DefaultSwipeOrder = []PageID{
	PageHome, PageAnalytics, PageHistory, PageNotifications, PageProfile,
}

// NavItem is one entry of the bottom navigation.
type NavItem struct {
	Page   PageID `json:"page"`
	Active bool   `json:"active"`
}

// PageOptions configures a PageController.
type PageOptions struct {
	Pages      []PageID
	SwipeOrder []PageID
	Initial    PageID
	Publisher  Publisher
	Telemetry  Telemetry
}

// PageController tracks the single active page and its history.
type PageController struct {
	mu        sync.Mutex
	pages     []PageID
	known     map[PageID]bool
	swipe     []PageID
	current   PageID
	history   []PageID
	listeners map[int]func(PageID)
	next      int
	publisher Publisher
	telemetry Telemetry
}

// NewPageController builds a controller starting on Initial (home by default).
func NewPageController(opts PageOptions) *PageController {
	pages := opts.Pages
	if len(pages) == 0 {
		pages = DefaultPages
	}
	swipe := opts.SwipeOrder
	if len(swipe) == 0 {
		swipe = DefaultSwipeOrder
	}
	c := &PageController{
		pages:     append([]PageID(nil), pages...),
		known:     make(map[PageID]bool, len(pages)),
		swipe:     append([]PageID(nil), swipe...),
		listeners: make(map[int]func(PageID)),
		publisher: normalizePublisher(opts.Publisher),
		telemetry: normalizeTelemetry(opts.Telemetry),
	}
	for _, p := range pages {
		c.known[p] = true
	}
	c.current = PageHome
	if opts.Initial != "" && c.known[opts.Initial] {
		c.current = opts.Initial
	}
	return c
}

// Current returns the active page.
func (c *PageController) Current() PageID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Pages returns every known page.
func (c *PageController) Pages() []PageID {
	return append([]PageID(nil), c.pages...)
}

// Nav returns the navigation entries with the active page highlighted.
func (c *PageController) Nav() []NavItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]NavItem, 0, len(c.pages))
	for _, p := range c.pages {
		out = append(out, NavItem{Page: p, Active: p == c.current})
	}
	return out
}

// Show activates page. Unknown pages are ignored and report false.
func (c *PageController) Show(ctx context.Context, page PageID) bool {
	return c.transition(ctx, page, true)
}

// Swipe navigates to the neighbour page when the gesture is mostly
// horizontal and longer than SwipeThreshold. A rightward swipe (dx > 0) goes
// back in the swipe order.
func (c *PageController) Swipe(ctx context.Context, dx, dy float64) (PageID, bool) {
	if math.Abs(dx) <= math.Abs(dy) || math.Abs(dx) <= SwipeThreshold {
		return c.Current(), false
	}
	c.mu.Lock()
	idx := -1
	for i, p := range c.swipe {
		if p == c.current {
			idx = i
			break
		}
	}
	var target PageID
	switch {
	case dx > 0 && idx > 0:
		target = c.swipe[idx-1]
	case dx < 0 && idx < len(c.swipe)-1:
		target = c.swipe[idx+1]
	}
	c.mu.Unlock()

	if target == "" {
		return c.Current(), false
	}
	return target, c.transition(ctx, target, true)
}

// Back returns to the previous page, or home when there is no history.
func (c *PageController) Back(ctx context.Context) PageID {
	c.mu.Lock()
	target := PageHome
	if n := len(c.history); n > 0 {
		target = c.history[n-1]
		c.history = c.history[:n-1]
	}
	c.mu.Unlock()

	c.transition(ctx, target, false)
	return c.Current()
}

// OnPageChanged registers a listener called synchronously after each
// transition.
func (c *PageController) OnPageChanged(fn func(PageID)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.next
	c.next++
	c.listeners[id] = fn
	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

func (c *PageController) transition(ctx context.Context, page PageID, record bool) bool {
	c.mu.Lock()
	if !c.known[page] {
		c.mu.Unlock()
		return false
	}
	previous := c.current
	if record && previous != page {
		c.history = append(c.history, previous)
	}
	c.current = page
	ids := make([]int, 0, len(c.listeners))
	for id := range c.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(PageID), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, c.listeners[id])
	}
	c.mu.Unlock()

	for _, fn := range fns {
		fn(page)
	}
	c.telemetry.Record(ctx, "wallet.page.changed", map[string]any{
		"from": string(previous),
		"to":   string(page),
	})
	c.publisher.Publish(ctx, Event{Type: EventPageChanged, Page: page})
	return true
}
