package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	wallet "github.com/goliatone/go-wallet/components/wallet"
)

// Theme store kinds.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
	StoreYAML   = "yaml"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config is the top-level walletctl configuration file.
type Config struct {
	Server ServerConfig `yaml:"server" toml:"server"`
	Log    LogConfig    `yaml:"log" toml:"log"`
	Theme  ThemeConfig  `yaml:"theme" toml:"theme"`
	Wallet WalletConfig `yaml:"wallet" toml:"wallet"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Addr        string        `yaml:"addr" toml:"addr"`
	BasePath    string        `yaml:"base_path" toml:"base_path"`
	AssetsHost  string        `yaml:"assets_host" toml:"assets_host"`
	ScanTimeout time.Duration `yaml:"scan_timeout" toml:"scan_timeout"`
}

// LogConfig selects the zerolog level and output format.
type LogConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// ThemeConfig selects where the theme preference is persisted.
type ThemeConfig struct {
	Store string `yaml:"store" toml:"store"`
	Path  string `yaml:"path" toml:"path"`
}

// WalletConfig holds the service defaults.
type WalletConfig struct {
	Period          string        `yaml:"period" toml:"period"`
	Page            string        `yaml:"page" toml:"page"`
	RefreshInterval time.Duration `yaml:"refresh_interval" toml:"refresh_interval"`
	QRProcessDelay  time.Duration `yaml:"qr_process_delay" toml:"qr_process_delay"`
	ChartCacheTTL   time.Duration `yaml:"chart_cache_ttl" toml:"chart_cache_ttl"`
	ActivitySeed    int64         `yaml:"activity_seed" toml:"activity_seed"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:        ":8080",
			ScanTimeout: 15 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Theme: ThemeConfig{
			Store: StoreMemory,
		},
		Wallet: WalletConfig{
			Period:          string(wallet.PeriodMonth),
			Page:            string(wallet.PageHome),
			RefreshInterval: wallet.DefaultRefreshInterval,
			QRProcessDelay:  2 * time.Second,
			ChartCacheTTL:   5 * time.Minute,
		},
	}
}

// Load reads path on top of the defaults, applies environment overrides and
// validates the result. An empty path loads only defaults and environment.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := decodeFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	ApplyEnv(&cfg, os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil {
			return fmt.Errorf("config: parse %s: %w", path, err)
		}
	case ".toml":
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return fmt.Errorf("config: parse %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return fmt.Errorf("config: parse %s: unknown field %q", path, undecoded[0].String())
		}
	default:
		return fmt.Errorf("config: unsupported file type %q", filepath.Ext(path))
	}
	return nil
}

// ApplyEnv overrides fields from WALLET_* variables found by lookup.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) {
	if cfg == nil || lookup == nil {
		return
	}
	overrides := map[string]*string{
		"WALLET_ADDR":        &cfg.Server.Addr,
		"WALLET_BASE_PATH":   &cfg.Server.BasePath,
		"WALLET_LOG_LEVEL":   &cfg.Log.Level,
		"WALLET_LOG_FORMAT":  &cfg.Log.Format,
		"WALLET_THEME_STORE": &cfg.Theme.Store,
		"WALLET_THEME_PATH":  &cfg.Theme.Path,
		"WALLET_PERIOD":      &cfg.Wallet.Period,
	}
	for key, field := range overrides {
		if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
			*field = strings.TrimSpace(value)
		}
	}
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Server.Addr) == "" {
		return fmt.Errorf("%w: server.addr is required", ErrInvalidConfig)
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.Log.Level)); err != nil {
		return fmt.Errorf("%w: log.level %q", ErrInvalidConfig, c.Log.Level)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("%w: log.format %q", ErrInvalidConfig, c.Log.Format)
	}
	switch c.Theme.Store {
	case StoreMemory:
	case StoreSQLite, StoreYAML:
		if strings.TrimSpace(c.Theme.Path) == "" {
			return fmt.Errorf("%w: theme.path is required for the %s store", ErrInvalidConfig, c.Theme.Store)
		}
	default:
		return fmt.Errorf("%w: theme.store %q", ErrInvalidConfig, c.Theme.Store)
	}
	if _, ok := wallet.ParsePeriod(c.Wallet.Period); !ok {
		return fmt.Errorf("%w: wallet.period %q", ErrInvalidConfig, c.Wallet.Period)
	}
	if c.Wallet.RefreshInterval < 0 || c.Wallet.ChartCacheTTL < 0 {
		return fmt.Errorf("%w: durations must not be negative", ErrInvalidConfig)
	}
	return nil
}
