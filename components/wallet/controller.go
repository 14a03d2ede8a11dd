package wallet

import (
	"context"
	"errors"
	"fmt"
	"io"
)

const defaultShellTemplate = "wallet.html"

var errMissingRenderer = errors.New("wallet: renderer not configured")

// ShellSource provides the view model rendered by the controller.
type ShellSource interface {
	Shell(ctx context.Context) (Shell, error)
}

// ControllerOptions configures a Controller.
type ControllerOptions struct {
	Service  ShellSource
	Renderer Renderer
	Template string
	Title    string
}

// Controller renders the page shell.
type Controller struct {
	opts ControllerOptions
}

// NewController wires the shell source and renderer.
func NewController(opts ControllerOptions) *Controller {
	if opts.Template == "" {
		opts.Template = defaultShellTemplate
	}
	if opts.Title == "" {
		opts.Title = "UKI Wallet"
	}
	return &Controller{opts: opts}
}

// Shell returns the current view model.
func (c *Controller) Shell(ctx context.Context) (Shell, error) {
	if c.opts.Service == nil {
		return Shell{}, nil
	}
	return c.opts.Service.Shell(ctx)
}

// RenderTemplate renders the shell template into out.
func (c *Controller) RenderTemplate(ctx context.Context, out io.Writer) error {
	if c.opts.Renderer == nil {
		return errMissingRenderer
	}
	shell, err := c.Shell(ctx)
	if err != nil {
		return err
	}
	payload := map[string]any{
		"title":  c.opts.Title,
		"wallet": shell,
	}
	if _, err := c.opts.Renderer.Render(c.opts.Template, payload, out); err != nil {
		return fmt.Errorf("wallet: render %s: %w", c.opts.Template, err)
	}
	return nil
}
