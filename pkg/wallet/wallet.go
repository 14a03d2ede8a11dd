package wallet

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	core "github.com/goliatone/go-wallet/components/wallet"
	"github.com/goliatone/go-wallet/pkg/config"
	"github.com/goliatone/go-wallet/pkg/prefstore"
)

// Service exposes the underlying components/wallet.Service type.
type Service = core.Service

// Options re-export for convenience.
type Options = core.Options

// NewService proxies to the internal constructor.
func NewService(ctx context.Context, opts Options) (*Service, error) {
	return core.NewService(ctx, opts)
}

// OptionsFromConfig maps a loaded configuration onto service options. The
// returned closer releases the theme store.
func OptionsFromConfig(cfg config.Config, logger zerolog.Logger) (Options, io.Closer, error) {
	store, closer, err := prefstore.Open(cfg.Theme)
	if err != nil {
		return Options{}, nil, fmt.Errorf("wallet: open theme store: %w", err)
	}
	period, _ := core.ParsePeriod(cfg.Wallet.Period)
	seed := cfg.Wallet.ActivitySeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	delay := cfg.Wallet.QRProcessDelay
	if delay == 0 {
		delay = -1
	}
	opts := Options{
		ThemeStore:      store,
		Activity:        core.NewSeededActivitySource(seed),
		ChartCache:      core.NewChartCache(cfg.Wallet.ChartCacheTTL),
		Telemetry:       core.NewLogTelemetry(logger),
		InitialPeriod:   period,
		InitialPage:     core.PageID(cfg.Wallet.Page),
		RefreshInterval: cfg.Wallet.RefreshInterval,
		QRProcessDelay:  delay,
		AssetsHost:      cfg.Server.AssetsHost,
	}
	return opts, closer, nil
}

// NewServiceFromConfig builds a service from cfg.
func NewServiceFromConfig(ctx context.Context, cfg config.Config, logger zerolog.Logger) (*Service, io.Closer, error) {
	opts, closer, err := OptionsFromConfig(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	svc, err := core.NewService(ctx, opts)
	if err != nil {
		closer.Close()
		return nil, nil, err
	}
	return svc, closer, nil
}
