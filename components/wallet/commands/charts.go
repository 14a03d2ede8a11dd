package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
)

type chartToggler interface {
	ToggleChart(ctx context.Context, id string) bool
}

// ToggleChartInput names the chart element to show or hide.
type ToggleChartInput struct {
	Chart string `json:"chart"`
}

// ToggleChartCommand flips a chart's visibility.
type ToggleChartCommand struct {
	service   chartToggler
	telemetry Telemetry
}

// NewToggleChartCommand creates the command.
func NewToggleChartCommand(service chartToggler, telemetry Telemetry) *ToggleChartCommand {
	return &ToggleChartCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ToggleChartInput] = (*ToggleChartCommand)(nil)

// Execute toggles the chart.
func (c *ToggleChartCommand) Execute(ctx context.Context, msg ToggleChartInput) error {
	if c.service == nil {
		return errors.New("toggle chart command requires service")
	}
	if msg.Chart == "" {
		return errors.New("toggle chart command requires chart id")
	}
	visible := c.service.ToggleChart(ctx, msg.Chart)
	c.telemetry.Record(ctx, "wallet.command.chart.toggle", map[string]any{"chart": msg.Chart, "visible": visible})
	return nil
}
