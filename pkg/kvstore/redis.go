package kvstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/nirajw/eshop-storefront/pkg/config"
	"github.com/nirajw/eshop-storefront/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const keyNamespace = "eshop"

// RedisStore keeps entries in a shared redis instance, namespaced per app.
type RedisStore struct {
	raw *redis.Client
}

// NewRedis bootstraps a redis-backed store and verifies connectivity.
func NewRedis(ctx context.Context, cfg config.RedisConfig, logg *logger.Logger) (*RedisStore, error) {
	opts, err := optionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	raw := redis.NewClient(opts)
	if err := raw.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	if logg != nil {
		logg.Info(ctx, "redis local storage ready")
	}
	return &RedisStore{raw: raw}, nil
}

func optionsFromConfig(cfg config.RedisConfig) (*redis.Options, error) {
	if cfg.URL == "" && cfg.Address == "" {
		return nil, errors.New("redis url or address is required")
	}
	var opts *redis.Options
	if cfg.URL != "" {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis url: %w", err)
		}
		opts = parsed
	} else {
		opts = &redis.Options{
			Addr:     cfg.Address,
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	}
	if opts.PoolSize == 0 {
		opts.PoolSize = cfg.PoolSize
	}
	if opts.MinIdleConns == 0 {
		opts.MinIdleConns = cfg.MinIdleConns
	}
	if opts.DialTimeout == 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = cfg.ReadTimeout
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = cfg.WriteTimeout
	}
	return opts, nil
}

func namespaced(key string) string {
	return keyNamespace + ":" + key
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.raw.Get(ctx, namespaced(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading %q: %w", key, err)
	}
	return val, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := s.raw.Set(ctx, namespaced(key), value, 0).Err(); err != nil {
		return fmt.Errorf("writing %q: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	prefixed := make([]string, 0, len(keys))
	for _, key := range keys {
		prefixed = append(prefixed, namespaced(key))
	}
	if err := s.raw.Del(ctx, prefixed...).Err(); err != nil {
		return fmt.Errorf("deleting keys: %w", err)
	}
	return nil
}

// Close releases the redis connection pool.
func (s *RedisStore) Close() error {
	return s.raw.Close()
}
