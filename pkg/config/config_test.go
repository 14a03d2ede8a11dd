package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name       string
		file       string
		content    string
		wantErr    bool
		validateFn func(*testing.T, Config)
	}{
		{
			name: "yaml overrides defaults",
			file: "wallet.yaml",
			content: `
server:
  addr: ":9090"
log:
  level: debug
  format: json
theme:
  store: sqlite
  path: /tmp/wallet.db
wallet:
  period: weekly
  refresh_interval: 10s
`,
			validateFn: func(t *testing.T, cfg Config) {
				if cfg.Server.Addr != ":9090" {
					t.Errorf("expected addr :9090, got %s", cfg.Server.Addr)
				}
				if cfg.Log.Format != "json" || cfg.Log.Level != "debug" {
					t.Errorf("unexpected log config %+v", cfg.Log)
				}
				if cfg.Wallet.RefreshInterval != 10*time.Second {
					t.Errorf("expected 10s refresh, got %s", cfg.Wallet.RefreshInterval)
				}
				if cfg.Server.ScanTimeout != 15*time.Second {
					t.Errorf("expected default scan timeout, got %s", cfg.Server.ScanTimeout)
				}
			},
		},
		{
			name: "toml file",
			file: "wallet.toml",
			content: `
[theme]
store = "yaml"
path = "/tmp/theme.yaml"

[wallet]
period = "year"
qr_process_delay = "500ms"
`,
			validateFn: func(t *testing.T, cfg Config) {
				if cfg.Theme.Store != StoreYAML {
					t.Errorf("expected yaml store, got %s", cfg.Theme.Store)
				}
				if cfg.Wallet.QRProcessDelay != 500*time.Millisecond {
					t.Errorf("expected 500ms delay, got %s", cfg.Wallet.QRProcessDelay)
				}
			},
		},
		{
			name:    "unknown yaml field",
			file:    "wallet.yml",
			content: "server:\n  port: 80\n",
			wantErr: true,
		},
		{
			name:    "unknown toml field",
			file:    "wallet.toml",
			content: "[server]\nport = 80\n",
			wantErr: true,
		},
		{
			name:    "sqlite without path",
			file:    "wallet.yaml",
			content: "theme:\n  store: sqlite\n",
			wantErr: true,
		},
		{
			name:    "unsupported extension",
			file:    "wallet.json",
			content: "{}",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.content)
			cfg, err := Load(path)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got config %+v", cfg)
				}
				return
			}
			if err != nil {
				t.Fatalf("Load returned error: %v", err)
			}
			tt.validateFn(t, cfg)
		})
	}
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	t.Setenv("WALLET_ADDR", "")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Addr != ":8080" || cfg.Theme.Store != StoreMemory {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	env := map[string]string{
		"WALLET_ADDR":        "127.0.0.1:7000",
		"WALLET_LOG_LEVEL":   "warn",
		"WALLET_THEME_STORE": "yaml",
		"WALLET_THEME_PATH":  " /var/lib/wallet/theme.yaml ",
		"WALLET_PERIOD":      "   ",
	}
	ApplyEnv(&cfg, func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	})
	if cfg.Server.Addr != "127.0.0.1:7000" || cfg.Log.Level != "warn" {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
	if cfg.Theme.Path != "/var/lib/wallet/theme.yaml" {
		t.Fatalf("expected trimmed path, got %q", cfg.Theme.Path)
	}
	if cfg.Wallet.Period != "month" {
		t.Fatalf("blank values must not override, got %q", cfg.Wallet.Period)
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Log.Level = "loud"
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	cfg = Default()
	cfg.Wallet.Period = "decade"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected invalid period error")
	}
	cfg = Default()
	cfg.Theme.Store = "redis"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected invalid store error")
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LogConfig{Level: "warn", Format: "json"}, &buf)
	logger.Info().Msg("hidden")
	logger.Warn().Str("chart", "trend-chart").Msg("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info entry should be filtered: %s", out)
	}
	if !strings.Contains(out, `"chart":"trend-chart"`) || !strings.Contains(out, `"service":"go-wallet"`) {
		t.Fatalf("unexpected json output: %s", out)
	}
	if logger.GetLevel() != zerolog.WarnLevel {
		t.Fatalf("expected warn level, got %s", logger.GetLevel())
	}
}
