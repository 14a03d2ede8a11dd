package queries

import (
	"context"
	"strings"

	gocommand "github.com/goliatone/go-command"
	wallet "github.com/goliatone/go-wallet/components/wallet"
)

// AnalyticsInput names a period. An empty period means the selected one.
type AnalyticsInput struct {
	Period string
}

type analyticsService interface {
	Snapshot() wallet.Snapshot
	SnapshotFor(ctx context.Context, raw string) (wallet.Snapshot, error)
}

// AnalyticsQuery reads a snapshot without changing the selected period.
type AnalyticsQuery struct {
	service analyticsService
}

// NewAnalyticsQuery builds the query.
func NewAnalyticsQuery(service analyticsService) *AnalyticsQuery {
	return &AnalyticsQuery{service: service}
}

var _ gocommand.Querier[AnalyticsInput, wallet.Snapshot] = (*AnalyticsQuery)(nil)

// Query returns the snapshot for input.Period.
func (q *AnalyticsQuery) Query(ctx context.Context, input AnalyticsInput) (wallet.Snapshot, error) {
	if strings.TrimSpace(input.Period) == "" {
		return q.service.Snapshot(), nil
	}
	return q.service.SnapshotFor(ctx, input.Period)
}
