package queries

import (
	"context"
	"errors"
	"testing"

	wallet "github.com/goliatone/go-wallet/components/wallet"
)

type stubShellService struct {
	calls int
}

func (s *stubShellService) Shell(context.Context) (wallet.Shell, error) {
	s.calls++
	return wallet.Shell{Page: "home"}, nil
}

type stubAnalyticsService struct {
	current   wallet.Snapshot
	requested string
	err       error
}

func (s *stubAnalyticsService) Snapshot() wallet.Snapshot { return s.current }

func (s *stubAnalyticsService) SnapshotFor(_ context.Context, raw string) (wallet.Snapshot, error) {
	s.requested = raw
	return wallet.Snapshot{Period: wallet.PeriodYear}, s.err
}

func TestShellQuery(t *testing.T) {
	service := &stubShellService{}
	shell, err := NewShellQuery(service).Query(context.Background(), ShellInput{})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if service.calls != 1 || shell.Page != "home" {
		t.Fatalf("unexpected shell %+v after %d calls", shell, service.calls)
	}
}

func TestAnalyticsQuery(t *testing.T) {
	service := &stubAnalyticsService{current: wallet.Snapshot{Period: wallet.PeriodMonth}}
	query := NewAnalyticsQuery(service)

	snapshot, err := query.Query(context.Background(), AnalyticsInput{})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if snapshot.Period != wallet.PeriodMonth || service.requested != "" {
		t.Fatalf("expected selected snapshot without loading, got %s", snapshot.Period)
	}

	snapshot, err = query.Query(context.Background(), AnalyticsInput{Period: "yearly"})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if snapshot.Period != wallet.PeriodYear || service.requested != "yearly" {
		t.Fatalf("expected yearly load, got %s (%q)", snapshot.Period, service.requested)
	}

	service.err = errors.New("offline")
	if _, err := query.Query(context.Background(), AnalyticsInput{Period: "week"}); err == nil {
		t.Fatalf("expected provider error")
	}
}

func TestTransactionsQuery(t *testing.T) {
	list := wallet.NewTransactionList(wallet.DefaultTransactions())
	query := NewTransactionsQuery(list)

	view, err := query.Query(context.Background(), TransactionsInput{Query: "gojek"})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if rows := view.VisibleRows(); len(rows) != 1 || rows[0].ID != "tx-3" {
		t.Fatalf("expected only tx-3, got %+v", rows)
	}

	view, _ = query.Query(context.Background(), TransactionsInput{Query: "gojek", Filter: "income"})
	income, expense := view.Totals()
	if income != 8750000 || expense != 0 {
		t.Fatalf("expected income filter to win, got %d/%d", income, expense)
	}

	view, _ = query.Query(context.Background(), TransactionsInput{Filter: "ALL"})
	if len(view.VisibleRows()) != len(wallet.DefaultTransactions()) {
		t.Fatalf("expected all rows visible")
	}
}
