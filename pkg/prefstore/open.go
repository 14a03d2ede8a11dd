package prefstore

import (
	"fmt"
	"io"

	wallet "github.com/goliatone/go-wallet/components/wallet"
	"github.com/goliatone/go-wallet/pkg/config"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Open builds the store selected by cfg. The closer releases any handle the
// store holds.
func Open(cfg config.ThemeConfig) (wallet.KeyValueStore, io.Closer, error) {
	switch cfg.Store {
	case "", config.StoreMemory:
		return wallet.NewInMemoryKeyValueStore(), nopCloser{}, nil
	case config.StoreSQLite:
		store, err := OpenSQLite(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil
	case config.StoreYAML:
		store, err := OpenYAMLFile(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return store, nopCloser{}, nil
	default:
		return nil, nil, fmt.Errorf("prefstore: unknown store %q", cfg.Store)
	}
}
