package commands

import (
	"context"
	"errors"
	"fmt"

	gocommand "github.com/goliatone/go-command"
	wallet "github.com/goliatone/go-wallet/components/wallet"
)

// ErrUnknownPage is returned when navigation targets a page that does not exist.
var ErrUnknownPage = errors.New("commands: unknown page")

type navigator interface {
	Navigate(ctx context.Context, page wallet.PageID) bool
	Swipe(ctx context.Context, dx, dy float64) (wallet.PageID, bool)
}

// NavigateInput activates a page.
type NavigateInput struct {
	Page string `json:"page"`
}

// NavigateCommand switches the active page.
type NavigateCommand struct {
	service   navigator
	telemetry Telemetry
}

// NewNavigateCommand creates the command.
func NewNavigateCommand(service navigator, telemetry Telemetry) *NavigateCommand {
	return &NavigateCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[NavigateInput] = (*NavigateCommand)(nil)

// Execute shows the page. Unknown pages leave the current page active and
// return ErrUnknownPage.
func (c *NavigateCommand) Execute(ctx context.Context, msg NavigateInput) error {
	if c.service == nil {
		return errors.New("navigate command requires service")
	}
	if !c.service.Navigate(ctx, wallet.PageID(msg.Page)) {
		return fmt.Errorf("%w: %q", ErrUnknownPage, msg.Page)
	}
	c.telemetry.Record(ctx, "wallet.command.navigate", map[string]any{"page": msg.Page})
	return nil
}

// SwipeInput is a horizontal gesture in pixels.
type SwipeInput struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

// SwipeCommand forwards gestures to the page controller.
type SwipeCommand struct {
	service   navigator
	telemetry Telemetry
}

// NewSwipeCommand creates the command.
func NewSwipeCommand(service navigator, telemetry Telemetry) *SwipeCommand {
	return &SwipeCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SwipeInput] = (*SwipeCommand)(nil)

// Execute applies the gesture. Gestures below the threshold are not errors.
func (c *SwipeCommand) Execute(ctx context.Context, msg SwipeInput) error {
	if c.service == nil {
		return errors.New("swipe command requires service")
	}
	page, moved := c.service.Swipe(ctx, msg.DX, msg.DY)
	c.telemetry.Record(ctx, "wallet.command.swipe", map[string]any{
		"page":  string(page),
		"moved": moved,
	})
	return nil
}
