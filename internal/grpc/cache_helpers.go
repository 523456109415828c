package grpc

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/godilite/feedback-analyzer/internal/metrics"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

type FetchFunc[T any] func(ctx context.Context) (T, error)

const (
	defaultFetchTimeout = 15 * time.Second
	defaultSetTimeout   = 5 * time.Second
	maxTTLJitter        = 5 * time.Second
)

// addTTLJitter spreads expirations by up to ±5s.
func addTTLJitter(ttl time.Duration) time.Duration {
	if ttl <= 2*maxTTLJitter {
		return ttl
	}
	jitter := time.Duration(rand.Int63n(int64(2*maxTTLJitter))) - maxTTLJitter
	return ttl + jitter
}

func storeInBackground[T any](c Cacher, key string, ttl time.Duration, logger *zap.Logger, value T) {
	go func() {
		setCtx, cancel := context.WithTimeout(context.Background(), defaultSetTimeout)
		defer cancel()

		ttlWithJitter := addTTLJitter(ttl)
		if err := c.Set(setCtx, key, value, ttlWithJitter); err != nil {
			logger.Warn("failed to populate cache", zap.String("key", key), zap.Error(err))
			return
		}
		logger.Debug("cache populated", zap.String("key", key), zap.Duration("ttl", ttlWithJitter))
	}()
}

func fetchShared[T any](ctx context.Context, sf *singleflight.Group, key string, logger *zap.Logger, fn FetchFunc[T]) (T, bool, error) {
	var zero T

	v, err, shared := sf.Do(key, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(ctx, defaultFetchTimeout)
		defer cancel()
		return fn(fetchCtx)
	})
	if err != nil {
		return zero, shared, err
	}

	value, ok := v.(T)
	if !ok {
		logger.Error("singleflight type mismatch", zap.String("key", key))
		return zero, shared, fmt.Errorf("type mismatch for key %q", key)
	}
	return value, shared, nil
}

// FindAndCache implements read-through caching with singleflight. A nil
// cache degrades to a deduplicated direct fetch. Cache errors are treated as
// misses; fetch errors are never cached.
func FindAndCache[T any](
	ctx context.Context,
	c Cacher,
	sf *singleflight.Group,
	key string,
	ttl time.Duration,
	logger *zap.Logger,
	fn FetchFunc[T],
) (T, error) {
	var zero T
	if logger == nil {
		logger = zap.NewNop()
	}

	if c == nil {
		value, _, err := fetchShared(ctx, sf, key, logger, fn)
		return value, err
	}

	var cached T
	err := c.Get(ctx, key, &cached)
	switch {
	case err == nil:
		metrics.CacheLookups.WithLabelValues("hit").Inc()
		logger.Debug("cache hit", zap.String("key", key))
		return cached, nil

	case errors.Is(err, redis.Nil):
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		logger.Debug("cache miss", zap.String("key", key))

	default:
		metrics.CacheLookups.WithLabelValues("error").Inc()
		logger.Warn("cache get error (treating as miss)", zap.String("key", key), zap.Error(err))
	}

	value, shared, err := fetchShared(ctx, sf, key, logger, fn)
	if err != nil {
		logger.Debug("fetch failed", zap.String("key", key), zap.Error(err))
		return zero, err
	}

	if shared {
		logger.Debug("singleflight shared result", zap.String("key", key))
	} else {
		storeInBackground(c, key, ttl, logger, value)
	}

	return value, nil
}
