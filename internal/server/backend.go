// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/research-view/internal/cache"
	"github.com/pdiddy/research-view/internal/observability"
	"github.com/pdiddy/research-view/internal/search"
)

// cachedBackend serves raw responses from the cache and stores successful
// fetches. Cache failures are logged and fall through to the backend.
type cachedBackend struct {
	search.Backend
	cache   cache.Cache
	metrics *observability.Metrics
	logger  zerolog.Logger
}

func (b *cachedBackend) Fetch(ctx context.Context, q search.Query) ([]byte, error) {
	key := cache.Key(b.Backend.Name(), q.Values().Encode())

	raw, ok, err := b.cache.Get(ctx, key)
	switch {
	case err != nil:
		b.metrics.RecordCache("error")
		b.logger.Warn().Err(err).Msg("cache lookup failed")
	case ok:
		b.metrics.RecordCache("hit")
		return raw, nil
	default:
		b.metrics.RecordCache("miss")
	}

	start := time.Now()
	raw, err = b.Backend.Fetch(ctx, q)
	b.metrics.RecordSearch(b.Backend.Name(), time.Since(start).Seconds(), err)
	if err != nil {
		return nil, err
	}

	if err := b.cache.Set(ctx, key, raw); err != nil {
		b.logger.Warn().Err(err).Msg("cache store failed")
	}
	return raw, nil
}
