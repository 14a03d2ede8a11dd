package analytics

import (
	"context"

	wallet "github.com/goliatone/go-wallet/components/wallet"
)

// SnapshotClient fetches the analytics snapshot of a period.
type SnapshotClient interface {
	FetchSnapshot(ctx context.Context, period wallet.Period) (wallet.Snapshot, error)
}

// ActivityClient fetches per-day transaction counts.
type ActivityClient interface {
	FetchActivity(ctx context.Context, days int) ([]wallet.ActivitySample, error)
}

// Client is a convenience union for sources that implement both calls.
type Client interface {
	SnapshotClient
	ActivityClient
}
