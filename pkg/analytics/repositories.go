package analytics

import (
	"context"

	wallet "github.com/goliatone/go-wallet/components/wallet"
)

// NewSnapshotProvider adapts an analytics client into the wallet provider.
func NewSnapshotProvider(client SnapshotClient) wallet.AnalyticsProvider {
	return &snapshotProvider{client: client}
}

type snapshotProvider struct {
	client SnapshotClient
}

func (p *snapshotProvider) Snapshot(ctx context.Context, period wallet.Period) (wallet.Snapshot, error) {
	return p.client.FetchSnapshot(ctx, period)
}

// NewActivitySource adapts the analytics client for the activity chart.
func NewActivitySource(client ActivityClient) wallet.ActivitySource {
	return &activitySource{client: client}
}

type activitySource struct {
	client ActivityClient
}

func (s *activitySource) DailyActivity(ctx context.Context, days int) ([]wallet.ActivitySample, error) {
	return s.client.FetchActivity(ctx, days)
}
