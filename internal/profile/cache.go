// internal/profile/cache.go
// Redis cache for own-profile snapshots. The client reads its own profile
// on nearly every screen, so we keep a short-lived copy out of the store.
// Cache failures are never fatal.

package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

const profileCacheTTL = 10 * time.Minute

// Cache caches decoded profiles in Redis. A nil client disables caching.
type Cache struct {
	client *redis.Client
}

// NewCache creates a profile cache. client may be nil.
func NewCache(client *redis.Client) *Cache {
	return &Cache{client: client}
}

func profileCacheKey(uid string) string {
	return fmt.Sprintf("profile:%s", uid)
}

// Get returns the cached profile, or nil on miss or error
func (c *Cache) Get(ctx context.Context, uid string) *Profile {
	if c.client == nil {
		return nil
	}

	data, err := c.client.Get(ctx, profileCacheKey(uid)).Bytes()
	if err != nil {
		return nil // miss or Redis down
	}

	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		log.Printf("Failed to decode cached profile %s: %v", uid, err)
		return nil
	}
	return &p
}

// Set stores a profile snapshot
func (c *Cache) Set(ctx context.Context, p *Profile) {
	if c.client == nil || p == nil {
		return
	}

	data, err := json.Marshal(p)
	if err != nil {
		log.Printf("Failed to encode profile %s for cache: %v", p.UID, err)
		return
	}

	if err := c.client.Set(ctx, profileCacheKey(p.UID), data, profileCacheTTL).Err(); err != nil {
		log.Printf("Failed to cache profile %s: %v", p.UID, err)
	}
}

// Invalidate drops the cached snapshot after a profile write
func (c *Cache) Invalidate(ctx context.Context, uid string) {
	if c.client == nil {
		return
	}

	if err := c.client.Del(ctx, profileCacheKey(uid)).Err(); err != nil {
		log.Printf("Failed to invalidate cached profile %s: %v", uid, err)
	}
}
