package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	wallet "github.com/goliatone/go-wallet/components/wallet"
)

// ErrMissingPeriod is returned when the fixtures hold no snapshot for a period.
var ErrMissingPeriod = errors.New("analytics: no snapshot for period")

// MockData seeds deterministic analytics responses for tests or local demos.
type MockData struct {
	Snapshots map[wallet.Period]wallet.Snapshot `json:"snapshots"`
	Activity  []wallet.ActivitySample            `json:"activity"`
}

// MockClient implements Client using in-memory fixtures.
type MockClient struct {
	data MockData
	mu   sync.RWMutex
}

// NewMockClient builds a mock analytics client from the provided fixtures.
func NewMockClient(data MockData) *MockClient {
	return &MockClient{data: data}
}

// DefaultMockData copies the built-in week, month and year datasets.
func DefaultMockData(ctx context.Context) MockData {
	provider := wallet.NewStaticAnalyticsProvider()
	data := MockData{Snapshots: make(map[wallet.Period]wallet.Snapshot, 3)}
	for _, period := range []wallet.Period{wallet.PeriodWeek, wallet.PeriodMonth, wallet.PeriodYear} {
		snapshot, _ := provider.Snapshot(ctx, period)
		data.Snapshots[period] = snapshot
	}
	return data
}

// LoadMockData decodes fixtures from JSON. Keys may use period aliases such
// as "weekly" and are stored under the canonical period, which also
// overrides the snapshot's own period field. Missing periods stay missing.
func LoadMockData(r io.Reader) (MockData, error) {
	var data MockData
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return MockData{}, fmt.Errorf("analytics: decode fixtures: %w", err)
	}
	snapshots := make(map[wallet.Period]wallet.Snapshot, len(data.Snapshots))
	for key, snapshot := range data.Snapshots {
		period, ok := wallet.ParsePeriod(string(key))
		if !ok {
			return MockData{}, fmt.Errorf("analytics: unknown period %q in fixtures", key)
		}
		if _, dup := snapshots[period]; dup {
			return MockData{}, fmt.Errorf("analytics: period %q defined more than once in fixtures", period)
		}
		snapshot.Period = period
		snapshot.Net = snapshot.Income - snapshot.Expense
		snapshots[period] = snapshot
	}
	data.Snapshots = snapshots
	return data, nil
}

// LoadMockFile reads fixtures from path.
func LoadMockFile(path string) (MockData, error) {
	f, err := os.Open(path)
	if err != nil {
		return MockData{}, fmt.Errorf("analytics: open fixtures: %w", err)
	}
	defer f.Close()
	return LoadMockData(f)
}

// FetchSnapshot returns the fixture for period, falling back to month.
func (c *MockClient) FetchSnapshot(_ context.Context, period wallet.Period) (wallet.Snapshot, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	snapshot, ok := c.data.Snapshots[period]
	if !ok {
		snapshot, ok = c.data.Snapshots[wallet.PeriodMonth]
	}
	if !ok {
		return wallet.Snapshot{}, fmt.Errorf("%w: %s", ErrMissingPeriod, period)
	}
	return snapshot.Clone(), nil
}

// FetchActivity returns the last days samples of the fixture, re-indexed
// from zero.
func (c *MockClient) FetchActivity(_ context.Context, days int) ([]wallet.ActivitySample, error) {
	if days <= 0 {
		return nil, wallet.ErrNoActivityDays
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	samples := c.data.Activity
	if len(samples) > days {
		samples = samples[len(samples)-days:]
	}
	out := make([]wallet.ActivitySample, len(samples))
	for i, sample := range samples {
		out[i] = wallet.ActivitySample{Index: i, Count: sample.Count}
	}
	return out, nil
}

// SetSnapshot replaces the fixture of one period.
func (c *MockClient) SetSnapshot(period wallet.Period, snapshot wallet.Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.data.Snapshots == nil {
		c.data.Snapshots = map[wallet.Period]wallet.Snapshot{}
	}
	c.data.Snapshots[period] = snapshot.Clone()
}
