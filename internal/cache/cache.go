// Package cache stores raw search responses by query key so repeated
// searches skip the backend.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/pdiddy/research-view/pkg/types"
)

// Cache holds raw responses for a limited time.
type Cache interface {
	// Get returns the value stored under key. ok is false on a miss or
	// when the entry has expired.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

const (
	defaultTTL             = 10 * time.Minute
	defaultCleanupInterval = time.Hour
)

// NewCache creates the configured cache backend: "none" (or empty),
// "bbolt" or "redis".
func NewCache(ctx context.Context, cfg types.CacheConfig) (Cache, error) {
	typ := strings.TrimSpace(strings.ToLower(cfg.Type))
	cfg = normalizeConfig(cfg)

	switch typ {
	case "", "none", "disabled":
		return noopCache{}, nil
	case "bbolt":
		if strings.TrimSpace(cfg.Path) == "" {
			return nil, fmt.Errorf("bbolt cache requires a path")
		}
		return openBolt(cfg.Path, cfg.TTL, cfg.CleanupInterval)
	case "redis":
		if strings.TrimSpace(cfg.RedisAddr) == "" {
			return nil, fmt.Errorf("redis cache requires an address")
		}
		return openRedis(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported cache type %q", typ)
	}
}

func normalizeConfig(cfg types.CacheConfig) types.CacheConfig {
	if cfg.TTL <= 0 {
		cfg.TTL = defaultTTL
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = defaultCleanupInterval
	}
	return cfg
}

// Key derives a fixed-length cache key from its parts.
func Key(parts ...string) string {
	h := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return "search:" + hex.EncodeToString(h[:])
}

type noopCache struct{}

func (noopCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (noopCache) Set(context.Context, string, []byte) error         { return nil }
func (noopCache) Close() error                                      { return nil }
