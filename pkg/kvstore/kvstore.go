// Package kvstore is the storefront's durable local key-value storage, the
// place session, cart and order state live between runs. Reads of a missing
// key report absence, not failure.
package kvstore

import (
	"context"
	"fmt"

	"github.com/nirajw/eshop-storefront/pkg/config"
	"github.com/nirajw/eshop-storefront/pkg/enums"
	"github.com/nirajw/eshop-storefront/pkg/logger"
)

// Store is the minimal surface every backend provides.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

// Closer is implemented by backends holding connections.
type Closer interface {
	Close() error
}

// New builds the store selected by configuration.
func New(ctx context.Context, cfg *config.Config, logg *logger.Logger) (Store, error) {
	switch cfg.Storage.Backend {
	case enums.StorageBackendSQLite:
		return NewSQLite(ctx, cfg.Storage.SQLite, logg)
	case enums.StorageBackendRedis:
		return NewRedis(ctx, cfg.Redis, logg)
	case enums.StorageBackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
