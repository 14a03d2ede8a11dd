package wallet

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"
)

// BalanceAnimationSteps is the number of frames used when the balance moves.
const BalanceAnimationSteps = 30

// DefaultRefreshInterval is how often the mock balance is refreshed.
const DefaultRefreshInterval = 30 * time.Second

// Account is the balance card state.
type Account struct {
	Balance       int64  `json:"balance"`
	Points        int    `json:"points"`
	Tier          string `json:"tier"`
	BalanceHidden bool   `json:"balance_hidden"`
}

// DefaultAccount is the demo account shown before the first refresh.
func DefaultAccount() Account {
	return Account{Balance: 2500000, Points: 1250, Tier: "BASIC"}
}

// BalanceSource fetches the latest balance and points.
type BalanceSource interface {
	Balance(ctx context.Context) (Account, error)
}

// MockBalanceSource jitters the demo balance by up to Rp 100.000 and the
// points by up to 100.
type MockBalanceSource struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewMockBalanceSource builds a source from seed.
func NewMockBalanceSource(seed int64) *MockBalanceSource {
	return &MockBalanceSource{rnd: rand.New(rand.NewSource(seed))}
}

// Balance returns a fresh jittered account.
func (s *MockBalanceSource) Balance(context.Context) (Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	base := DefaultAccount()
	base.Balance += s.rnd.Int63n(100000)
	base.Points += s.rnd.Intn(100)
	return base, nil
}

// WalletOptions configures a Wallet.
type WalletOptions struct {
	Source    BalanceSource
	Initial   *Account
	Formatter *Formatter
	Publisher Publisher
	Telemetry Telemetry
}

// Wallet owns the balance card: balance, points, tier and masking.
type Wallet struct {
	mu        sync.Mutex
	account   Account
	source    BalanceSource
	formatter *Formatter
	publisher Publisher
	telemetry Telemetry
}

// NewWallet builds a wallet starting from DefaultAccount unless Initial is set.
func NewWallet(opts WalletOptions) *Wallet {
	w := &Wallet{
		account:   DefaultAccount(),
		source:    opts.Source,
		formatter: normalizeFormatter(opts.Formatter),
		publisher: normalizePublisher(opts.Publisher),
		telemetry: normalizeTelemetry(opts.Telemetry),
	}
	if opts.Initial != nil {
		w.account = *opts.Initial
	}
	if w.source == nil {
		w.source = NewMockBalanceSource(time.Now().UnixNano())
	}
	return w
}

// Account returns the current state.
func (w *Wallet) Account() Account {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.account
}

// Refresh pulls from the source, keeping the tier and masking flag when the
// source leaves them empty.
func (w *Wallet) Refresh(ctx context.Context) (Account, error) {
	next, err := w.source.Balance(ctx)
	if err != nil {
		return w.Account(), fmt.Errorf("wallet: refresh balance: %w", err)
	}
	w.mu.Lock()
	if next.Tier == "" {
		next.Tier = w.account.Tier
	}
	next.BalanceHidden = w.account.BalanceHidden
	previous := w.account
	w.account = next
	w.mu.Unlock()

	w.telemetry.Record(ctx, "wallet.balance.refreshed", map[string]any{
		"balance": next.Balance,
		"delta":   next.Balance - previous.Balance,
	})
	published := next
	w.publisher.Publish(ctx, Event{Type: EventBalanceUpdated, Account: &published})
	return next, nil
}

// Run refreshes on every tick until ctx is cancelled. Refresh errors are
// recorded and the loop continues.
func (w *Wallet) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := w.Refresh(ctx); err != nil {
				w.telemetry.Record(ctx, "wallet.balance.refresh_failed", map[string]any{"error": err.Error()})
			}
		}
	}
}

// ToggleBalance flips the masking flag and returns the new value.
func (w *Wallet) ToggleBalance(ctx context.Context) bool {
	w.mu.Lock()
	w.account.BalanceHidden = !w.account.BalanceHidden
	account := w.account
	w.mu.Unlock()
	w.publisher.Publish(ctx, Event{Type: EventBalanceUpdated, Account: &account})
	return account.BalanceHidden
}

// BalanceText renders the balance, masked when hidden.
func (w *Wallet) BalanceText() string {
	account := w.Account()
	if account.BalanceHidden {
		return HiddenBalance
	}
	return w.formatter.FormatCurrency(account.Balance)
}

// PointsText renders the loyalty points.
func (w *Wallet) PointsText() string {
	return w.formatter.FormatPoints(w.Account().Points)
}

// TierText renders the tier badge.
func (w *Wallet) TierText() string {
	return "TIER " + w.Account().Tier
}

// EaseOutQuart decelerates towards 1.
func EaseOutQuart(t float64) float64 {
	return 1 - math.Pow(1-t, 4)
}

// CounterFrames returns steps values moving from start to end along ease.
// The final frame is exactly end.
func CounterFrames(start, end float64, steps int, ease func(float64) float64) []float64 {
	if steps <= 0 {
		return []float64{end}
	}
	if ease == nil {
		ease = EaseOutQuart
	}
	frames := make([]float64, steps)
	for i := 1; i <= steps; i++ {
		progress := float64(i) / float64(steps)
		frames[i-1] = math.Floor(start + (end-start)*ease(progress))
	}
	frames[steps-1] = end
	return frames
}

// BalanceFrames animates a balance change in BalanceAnimationSteps linear
// increments.
func BalanceFrames(from, to int64) []int64 {
	linear := func(t float64) float64 { return t }
	raw := CounterFrames(float64(from), float64(to), BalanceAnimationSteps, linear)
	out := make([]int64, len(raw))
	for i, v := range raw {
		out[i] = int64(v)
	}
	return out
}
