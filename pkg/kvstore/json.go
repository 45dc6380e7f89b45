package kvstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nirajw/eshop-storefront/pkg/logger"
)

// ReadJSON loads and unmarshals the value at key into dest. Absent keys,
// storage failures and corrupt payloads all leave dest untouched and return
// false; corruption and failures are logged, never surfaced to the caller.
func ReadJSON(ctx context.Context, logg *logger.Logger, store Store, key string, dest any) bool {
	raw, ok, err := store.Get(ctx, key)
	if err != nil {
		if logg != nil {
			logg.Error(ctx, fmt.Sprintf("reading %q from local storage", key), err)
		}
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		if logg != nil {
			logg.Warn(ctx, fmt.Sprintf("corrupt payload at %q, treating as empty", key))
		}
		return false
	}
	return true
}

// WriteJSON marshals v and stores it at key, last write wins.
func WriteJSON(ctx context.Context, store Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling %q: %w", key, err)
	}
	return store.Set(ctx, key, string(raw))
}
