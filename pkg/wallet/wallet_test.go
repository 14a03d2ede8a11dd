package wallet

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	core "github.com/goliatone/go-wallet/components/wallet"
	"github.com/goliatone/go-wallet/pkg/config"
)

func TestNewServiceFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Theme.Store = config.StoreYAML
	cfg.Theme.Path = filepath.Join(t.TempDir(), "theme.yaml")
	cfg.Wallet.Period = "yearly"
	cfg.Wallet.Page = "history"
	cfg.Wallet.ActivitySeed = 42

	ctx := context.Background()
	svc, closer, err := NewServiceFromConfig(ctx, cfg, zerolog.Nop())
	require.NoError(t, err)
	defer closer.Close()

	assert.Equal(t, core.PeriodYear, svc.Period())
	assert.Equal(t, core.PageHistory, svc.Pages().Current())

	_, err = svc.Theme().Toggle(ctx)
	require.NoError(t, err)

	restarted, closer2, err := NewServiceFromConfig(ctx, cfg, zerolog.Nop())
	require.NoError(t, err)
	defer closer2.Close()
	assert.Equal(t, core.ThemeLight, restarted.Theme().Current(), "theme persists across restarts")
}

func TestOptionsFromConfigRejectsUnknownStore(t *testing.T) {
	cfg := config.Default()
	cfg.Theme.Store = "redis"
	_, _, err := OptionsFromConfig(cfg, zerolog.Nop())
	assert.Error(t, err)
}

func TestOptionsFromConfigSkipsQRDelayWhenZero(t *testing.T) {
	cfg := config.Default()
	cfg.Wallet.QRProcessDelay = 0
	opts, closer, err := OptionsFromConfig(cfg, zerolog.Nop())
	require.NoError(t, err)
	defer closer.Close()
	assert.Negative(t, int64(opts.QRProcessDelay))
}
