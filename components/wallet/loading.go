package wallet

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// LoadingState describes the global overlay.
type LoadingState struct {
	Visible  bool              `json:"visible"`
	Active   int               `json:"active"`
	Message  string            `json:"message,omitempty"`
	Style    string            `json:"style,omitempty"`
	Elements map[string]string `json:"elements,omitempty"`
}

type loader struct {
	message string
	style   string
	seq     int
}

// LoadingManager reference-counts overlay requests. The overlay stays visible
// while any token is outstanding.
type LoadingManager struct {
	mu        sync.Mutex
	loaders   map[string]loader
	elements  map[string]string
	seq       int
	publisher Publisher
}

// NewLoadingManager creates a manager publishing visibility changes.
func NewLoadingManager(publisher Publisher) *LoadingManager {
	return &LoadingManager{
		loaders:   make(map[string]loader),
		elements:  make(map[string]string),
		publisher: normalizePublisher(publisher),
	}
}

// Show registers a loader and returns its token. An empty style means
// "spinner".
func (m *LoadingManager) Show(ctx context.Context, message, style string) string {
	if style == "" {
		style = "spinner"
	}
	token := uuid.NewString()
	m.mu.Lock()
	wasVisible := len(m.loaders) > 0
	m.seq++
	m.loaders[token] = loader{message: message, style: style, seq: m.seq}
	state := m.stateLocked()
	m.mu.Unlock()

	m.publish(ctx, state, wasVisible)
	return token
}

// Hide releases a token. Unknown tokens are ignored.
func (m *LoadingManager) Hide(ctx context.Context, token string) {
	m.mu.Lock()
	if _, ok := m.loaders[token]; !ok {
		m.mu.Unlock()
		return
	}
	delete(m.loaders, token)
	state := m.stateLocked()
	m.mu.Unlock()

	m.publish(ctx, state, true)
}

// ShowElement marks a single element as loading.
func (m *LoadingManager) ShowElement(ctx context.Context, id, message string) {
	if id == "" {
		return
	}
	m.mu.Lock()
	m.elements[id] = message
	state := m.stateLocked()
	m.mu.Unlock()
	m.publisher.Publish(ctx, Event{Type: EventLoadingChanged, Loading: &state})
}

// HideElement clears an element marker.
func (m *LoadingManager) HideElement(ctx context.Context, id string) {
	m.mu.Lock()
	if _, ok := m.elements[id]; !ok {
		m.mu.Unlock()
		return
	}
	delete(m.elements, id)
	state := m.stateLocked()
	m.mu.Unlock()
	m.publisher.Publish(ctx, Event{Type: EventLoadingChanged, Loading: &state})
}

// Visible reports whether the overlay is shown.
func (m *LoadingManager) Visible() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.loaders) > 0
}

// State returns a snapshot of the overlay.
func (m *LoadingManager) State() LoadingState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stateLocked()
}

// stateLocked reports the most recent loader's message while any is active.
func (m *LoadingManager) stateLocked() LoadingState {
	state := LoadingState{Active: len(m.loaders), Visible: len(m.loaders) > 0}
	if len(m.loaders) > 0 {
		tokens := make([]string, 0, len(m.loaders))
		for token := range m.loaders {
			tokens = append(tokens, token)
		}
		sort.Slice(tokens, func(i, j int) bool {
			return m.loaders[tokens[i]].seq > m.loaders[tokens[j]].seq
		})
		latest := m.loaders[tokens[0]]
		state.Message = latest.message
		state.Style = latest.style
	}
	if len(m.elements) > 0 {
		state.Elements = make(map[string]string, len(m.elements))
		for id, msg := range m.elements {
			state.Elements[id] = msg
		}
	}
	return state
}

func (m *LoadingManager) publish(ctx context.Context, state LoadingState, wasVisible bool) {
	if state.Visible == wasVisible {
		return
	}
	m.publisher.Publish(ctx, Event{Type: EventLoadingChanged, Loading: &state})
}
