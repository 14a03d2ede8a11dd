package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	wallet "github.com/goliatone/go-wallet/components/wallet"
)

type periodService interface {
	SelectPeriod(ctx context.Context, raw string) (wallet.Snapshot, error)
}

// SelectPeriodInput names the analytics period (week, month, year or an alias).
type SelectPeriodInput struct {
	Period string `json:"period"`
}

// SelectPeriodCommand reloads analytics for a period.
type SelectPeriodCommand struct {
	service   periodService
	telemetry Telemetry
}

// NewSelectPeriodCommand creates the command.
func NewSelectPeriodCommand(service periodService, telemetry Telemetry) *SelectPeriodCommand {
	return &SelectPeriodCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SelectPeriodInput] = (*SelectPeriodCommand)(nil)

// Execute loads the period snapshot.
func (c *SelectPeriodCommand) Execute(ctx context.Context, msg SelectPeriodInput) error {
	if c.service == nil {
		return errors.New("select period command requires service")
	}
	snapshot, err := c.service.SelectPeriod(ctx, msg.Period)
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "wallet.command.period", map[string]any{
		"requested": msg.Period,
		"period":    string(snapshot.Period),
	})
	return nil
}
