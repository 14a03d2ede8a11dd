package queries

import (
	"context"
	"strings"

	gocommand "github.com/goliatone/go-command"
	wallet "github.com/goliatone/go-wallet/components/wallet"
)

// TransactionsInput searches or filters the history. A type filter other
// than "all" wins over the search term.
type TransactionsInput struct {
	Query  string
	Filter string
}

type transactionService interface {
	Search(term string) wallet.TransactionView
	Filter(kind string) wallet.TransactionView
}

// TransactionsQuery resolves the visible history rows.
type TransactionsQuery struct {
	service transactionService
}

// NewTransactionsQuery builds the query.
func NewTransactionsQuery(service transactionService) *TransactionsQuery {
	return &TransactionsQuery{service: service}
}

var _ gocommand.Querier[TransactionsInput, wallet.TransactionView] = (*TransactionsQuery)(nil)

// Query applies the filter or search term.
func (q *TransactionsQuery) Query(_ context.Context, input TransactionsInput) (wallet.TransactionView, error) {
	filter := strings.ToLower(strings.TrimSpace(input.Filter))
	if filter != "" && filter != "all" {
		return q.service.Filter(filter), nil
	}
	return q.service.Search(input.Query), nil
}
