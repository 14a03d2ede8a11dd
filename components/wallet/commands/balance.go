package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	wallet "github.com/goliatone/go-wallet/components/wallet"
)

type balanceService interface {
	Refresh(ctx context.Context) (wallet.Account, error)
	ToggleBalance(ctx context.Context) bool
}

// RefreshBalanceInput pulls the latest balance.
type RefreshBalanceInput struct{}

// RefreshBalanceCommand refreshes the balance card.
type RefreshBalanceCommand struct {
	service   balanceService
	telemetry Telemetry
}

// NewRefreshBalanceCommand creates the command.
func NewRefreshBalanceCommand(service balanceService, telemetry Telemetry) *RefreshBalanceCommand {
	return &RefreshBalanceCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[RefreshBalanceInput] = (*RefreshBalanceCommand)(nil)

// Execute refreshes the balance.
func (c *RefreshBalanceCommand) Execute(ctx context.Context, _ RefreshBalanceInput) error {
	if c.service == nil {
		return errors.New("refresh balance command requires service")
	}
	account, err := c.service.Refresh(ctx)
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "wallet.command.balance.refresh", map[string]any{"balance": account.Balance})
	return nil
}

// ToggleBalanceInput masks or reveals the balance.
type ToggleBalanceInput struct{}

// ToggleBalanceCommand flips balance masking.
type ToggleBalanceCommand struct {
	service   balanceService
	telemetry Telemetry
}

// NewToggleBalanceCommand creates the command.
func NewToggleBalanceCommand(service balanceService, telemetry Telemetry) *ToggleBalanceCommand {
	return &ToggleBalanceCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ToggleBalanceInput] = (*ToggleBalanceCommand)(nil)

// Execute toggles masking.
func (c *ToggleBalanceCommand) Execute(ctx context.Context, _ ToggleBalanceInput) error {
	if c.service == nil {
		return errors.New("toggle balance command requires service")
	}
	hidden := c.service.ToggleBalance(ctx)
	c.telemetry.Record(ctx, "wallet.command.balance.toggle", map[string]any{"hidden": hidden})
	return nil
}
