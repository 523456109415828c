package mocks

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TrackingCache is an in-process stand-in for the Redis cache. Values are
// stored as JSON so reads go through the same decoding as production.
type TrackingCache struct {
	mu       sync.Mutex
	getCalls int
	setCalls int
	data     map[string]CacheEntry
}

type CacheEntry struct {
	Value  []byte
	Expiry time.Time
}

func NewTrackingCache() *TrackingCache {
	return &TrackingCache{
		data: make(map[string]CacheEntry),
	}
}

func (c *TrackingCache) Get(ctx context.Context, key string, dest any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.getCalls++
	if entry, exists := c.data[key]; exists && time.Now().Before(entry.Expiry) {
		return json.Unmarshal(entry.Value, dest)
	}
	return redis.Nil
}

func (c *TrackingCache) Set(ctx context.Context, key string, value any, exp time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.setCalls++
	c.data[key] = CacheEntry{
		Value:  data,
		Expiry: time.Now().Add(exp),
	}
	return nil
}

// Invalidate drops every key starting with prefix.
func (c *TrackingCache) Invalidate(ctx context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.data {
		if strings.HasPrefix(key, prefix) {
			delete(c.data, key)
		}
	}
	return nil
}

func (c *TrackingCache) Calls() (gets, sets int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.getCalls, c.setCalls
}

func (c *TrackingCache) Close() error {
	return nil
}
