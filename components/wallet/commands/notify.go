package commands

import (
	"context"
	"errors"
	"strings"
	"time"

	gocommand "github.com/goliatone/go-command"
	wallet "github.com/goliatone/go-wallet/components/wallet"
)

type notifier interface {
	Show(ctx context.Context, message string, kind wallet.NotificationKind, ttl time.Duration) wallet.Notification
}

// ShowNotificationInput queues a toast. A nil TTL uses the kind's default.
type ShowNotificationInput struct {
	Message string         `json:"message"`
	Kind    string         `json:"kind"`
	TTL     *time.Duration `json:"ttl,omitempty"`
}

// ShowNotificationCommand queues a toast.
type ShowNotificationCommand struct {
	service   notifier
	telemetry Telemetry
}

// NewShowNotificationCommand creates the command.
func NewShowNotificationCommand(service notifier, telemetry Telemetry) *ShowNotificationCommand {
	return &ShowNotificationCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ShowNotificationInput] = (*ShowNotificationCommand)(nil)

// Execute shows the notification.
func (c *ShowNotificationCommand) Execute(ctx context.Context, msg ShowNotificationInput) error {
	if c.service == nil {
		return errors.New("notification command requires service")
	}
	if strings.TrimSpace(msg.Message) == "" {
		return errors.New("notification command requires message")
	}
	kind := wallet.NormalizeKind(wallet.NotificationKind(msg.Kind))
	ttl := wallet.DefaultTTL(kind)
	if msg.TTL != nil {
		ttl = *msg.TTL
	}
	note := c.service.Show(ctx, msg.Message, kind, ttl)
	c.telemetry.Record(ctx, "wallet.command.notify", map[string]any{
		"id":   note.ID,
		"kind": string(kind),
	})
	return nil
}
