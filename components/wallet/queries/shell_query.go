package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	wallet "github.com/goliatone/go-wallet/components/wallet"
)

// ShellInput requests the page shell view model.
type ShellInput struct{}

type shellService interface {
	Shell(ctx context.Context) (wallet.Shell, error)
}

// ShellQuery resolves the current page shell.
type ShellQuery struct {
	service shellService
}

// NewShellQuery builds the query.
func NewShellQuery(service shellService) *ShellQuery {
	return &ShellQuery{service: service}
}

var _ gocommand.Querier[ShellInput, wallet.Shell] = (*ShellQuery)(nil)

// Query assembles the shell.
func (q *ShellQuery) Query(ctx context.Context, _ ShellInput) (wallet.Shell, error) {
	return q.service.Shell(ctx)
}
