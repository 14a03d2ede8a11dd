package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	wallet "github.com/goliatone/go-wallet/components/wallet"
)

type themeService interface {
	Toggle(ctx context.Context) (wallet.Theme, error)
	Set(ctx context.Context, theme wallet.Theme) error
}

// ToggleThemeInput flips between dark and light.
type ToggleThemeInput struct{}

// ToggleThemeCommand flips the persisted theme.
type ToggleThemeCommand struct {
	service   themeService
	telemetry Telemetry
}

// NewToggleThemeCommand creates the command.
func NewToggleThemeCommand(service themeService, telemetry Telemetry) *ToggleThemeCommand {
	return &ToggleThemeCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ToggleThemeInput] = (*ToggleThemeCommand)(nil)

// Execute toggles the theme.
func (c *ToggleThemeCommand) Execute(ctx context.Context, _ ToggleThemeInput) error {
	if c.service == nil {
		return errors.New("toggle theme command requires service")
	}
	theme, err := c.service.Toggle(ctx)
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "wallet.command.theme.toggle", map[string]any{"theme": string(theme)})
	return nil
}

// SetThemeInput selects an explicit theme.
type SetThemeInput struct {
	Theme string `json:"theme"`
}

// SetThemeCommand stores an explicit theme.
type SetThemeCommand struct {
	service   themeService
	telemetry Telemetry
}

// NewSetThemeCommand creates the command.
func NewSetThemeCommand(service themeService, telemetry Telemetry) *SetThemeCommand {
	return &SetThemeCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SetThemeInput] = (*SetThemeCommand)(nil)

// Execute validates and stores the theme.
func (c *SetThemeCommand) Execute(ctx context.Context, msg SetThemeInput) error {
	if c.service == nil {
		return errors.New("set theme command requires service")
	}
	if err := c.service.Set(ctx, wallet.Theme(msg.Theme)); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "wallet.command.theme.set", map[string]any{"theme": msg.Theme})
	return nil
}
