package wallet

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/goliatone/go-wallet/components/wallet/chart"
)

// ThemeStorageKey is the fixed preference key holding the theme name.
const ThemeStorageKey = "uki-wallet-theme"

// ErrInvalidTheme is returned by Set for values other than dark or light.
var ErrInvalidTheme = errors.New("wallet: invalid theme")

// ThemePalette carries the design tokens for one theme.
type ThemePalette struct {
	Theme      Theme
	Tokens     map[string]string
	ChartTheme string
}

var palettes = map[Theme]ThemePalette{
	ThemeDark: {
		Theme: ThemeDark,
		Tokens: map[string]string{
			"bg-primary":     "#0F0F0F",
			"bg-card":        "#1A1A1A",
			"text-primary":   "#FFFFFF",
			"text-secondary": "#A0A0A0",
			"accent":         "#FFD700",
			"grid":           "#2A2A2A",
		},
		ChartTheme: types.ThemeChalk,
	},
	ThemeLight: {
		Theme: ThemeLight,
		Tokens: map[string]string{
			"bg-primary":     "#F5F5F5",
			"bg-card":        "#FFFFFF",
			"text-primary":   "#1A1A1A",
			"text-secondary": "#666666",
			"accent":         "#FFA500",
			"grid":           "#E5E5E5",
		},
		ChartTheme: types.ThemeWesteros,
	},
}

// PaletteFor returns a copy of the palette for theme, defaulting to dark.
func PaletteFor(theme Theme) ThemePalette {
	p, ok := palettes[theme]
	if !ok {
		p = palettes[ThemeDark]
	}
	out := p
	out.Tokens = make(map[string]string, len(p.Tokens))
	for k, v := range p.Tokens {
		out.Tokens[k] = v
	}
	return out
}

// CSSVariables maps tokens to CSS custom property names.
func (p ThemePalette) CSSVariables() map[string]string {
	vars := make(map[string]string, len(p.Tokens))
	for key, value := range p.Tokens {
		if strings.HasPrefix(key, "--") {
			vars[key] = value
			continue
		}
		vars["--"+key] = value
	}
	return vars
}

// CSSVariablesInline renders the variables as a sorted style attribute.
func (p ThemePalette) CSSVariablesInline() string {
	vars := p.CSSVariables()
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(vars[k])
		b.WriteString("; ")
	}
	return strings.TrimSpace(b.String())
}

// ChartStyle derives the raster chart style. Slice borders use the card
// background so they read as gaps.
func (p ThemePalette) ChartStyle() chart.Style {
	style := chart.DefaultStyle()
	if bg, err := chart.ParseHex(p.Tokens["bg-card"]); err == nil {
		style.Background = bg
	}
	if grid, err := chart.ParseHex(p.Tokens["grid"]); err == nil {
		style.Grid = grid
	}
	if label, err := chart.ParseHex(p.Tokens["text-secondary"]); err == nil {
		style.Label = label
	}
	return style
}

// ThemeOptions configures a ThemeManager.
type ThemeOptions struct {
	Store     KeyValueStore
	Publisher Publisher
	Telemetry Telemetry
}

// ThemeManager owns the persisted theme and notifies listeners on change.
type ThemeManager struct {
	mu        sync.Mutex
	current   Theme
	store     KeyValueStore
	publisher Publisher
	telemetry Telemetry

	listenersMu sync.RWMutex
	listeners   map[int]func(Theme)
	next        int
}

// NewThemeManager reads the stored theme. A missing, invalid or unreadable
// value starts the manager in dark mode.
func NewThemeManager(ctx context.Context, opts ThemeOptions) *ThemeManager {
	m := &ThemeManager{
		current:   ThemeDark,
		store:     opts.Store,
		publisher: normalizePublisher(opts.Publisher),
		telemetry: normalizeTelemetry(opts.Telemetry),
		listeners: make(map[int]func(Theme)),
	}
	if m.store == nil {
		m.store = NewInMemoryKeyValueStore()
	}
	stored, ok, err := m.store.Get(ctx, ThemeStorageKey)
	switch {
	case err != nil:
		m.telemetry.Record(ctx, "wallet.theme.load_failed", map[string]any{"error": err.Error()})
	case ok && Theme(stored).Valid():
		m.current = Theme(stored)
	}
	return m
}

// Current returns the active theme.
func (m *ThemeManager) Current() Theme {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Palette returns the tokens of the active theme.
func (m *ThemeManager) Palette() ThemePalette {
	return PaletteFor(m.Current())
}

// Toggle flips between dark and light.
func (m *ThemeManager) Toggle(ctx context.Context) (Theme, error) {
	m.mu.Lock()
	next := ThemeLight
	if m.current == ThemeLight {
		next = ThemeDark
	}
	if err := m.persistLocked(ctx, next); err != nil {
		m.mu.Unlock()
		return m.Current(), err
	}
	m.mu.Unlock()

	m.broadcast(ctx, next)
	return next, nil
}

// Set stores theme and notifies listeners, even when it is unchanged.
func (m *ThemeManager) Set(ctx context.Context, theme Theme) error {
	if !theme.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidTheme, theme)
	}
	m.mu.Lock()
	if err := m.persistLocked(ctx, theme); err != nil {
		m.mu.Unlock()
		return err
	}
	m.mu.Unlock()

	m.broadcast(ctx, theme)
	return nil
}

// OnChange registers a listener called synchronously on every change.
func (m *ThemeManager) OnChange(fn func(Theme)) func() {
	m.listenersMu.Lock()
	defer m.listenersMu.Unlock()
	id := m.next
	m.next++
	m.listeners[id] = fn
	return func() {
		m.listenersMu.Lock()
		delete(m.listeners, id)
		m.listenersMu.Unlock()
	}
}

func (m *ThemeManager) persistLocked(ctx context.Context, theme Theme) error {
	if err := m.store.Set(ctx, ThemeStorageKey, string(theme)); err != nil {
		return fmt.Errorf("wallet: persist theme: %w", err)
	}
	m.current = theme
	return nil
}

func (m *ThemeManager) broadcast(ctx context.Context, theme Theme) {
	m.listenersMu.RLock()
	ids := make([]int, 0, len(m.listeners))
	for id := range m.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(Theme), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, m.listeners[id])
	}
	m.listenersMu.RUnlock()

	for _, fn := range fns {
		fn(theme)
	}
	m.telemetry.Record(ctx, "wallet.theme.changed", map[string]any{"theme": string(theme)})
	m.publisher.Publish(ctx, Event{Type: EventThemeChanged, Theme: theme})
}
