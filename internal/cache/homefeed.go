package cache

import (
	"context"
	"sync"
	"time"

	"quill/internal/middleware"

	"github.com/redis/go-redis/v9"
)

// homeFeedKey is the single Redis slot holding the rendered home feed.
const homeFeedKey = "page:home"

// HomeFeedCache is a single-slot, TTL-bound cache of the rendered home feed
// body. It is keyed by nothing but time: one slot for all viewers, caching
// only the default page. Mutations do not clear it; staleness up to the TTL
// is accepted behavior, so last-writer-wins is fine.
//
// When Redis is unavailable the cache degrades to a mutex-guarded in-process
// slot with the same TTL semantics.
type HomeFeedCache struct {
	client *redis.Client
	ttl    time.Duration

	mu      sync.RWMutex
	body    []byte
	expires time.Time
}

// NewHomeFeedCache creates the home feed cache. client may be nil.
func NewHomeFeedCache(client *redis.Client, ttl time.Duration) *HomeFeedCache {
	return &HomeFeedCache{client: client, ttl: ttl}
}

// Get returns the cached rendering, or (nil, false) on a miss.
func (h *HomeFeedCache) Get(ctx context.Context) ([]byte, bool) {
	if h.client != nil {
		b, err := h.client.Get(ctx, homeFeedKey).Bytes()
		if err != nil {
			middleware.CacheRequests.WithLabelValues("miss").Inc()
			return nil, false
		}
		middleware.CacheRequests.WithLabelValues("hit").Inc()
		return b, true
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.body == nil || time.Now().After(h.expires) {
		middleware.CacheRequests.WithLabelValues("miss").Inc()
		return nil, false
	}
	middleware.CacheRequests.WithLabelValues("hit").Inc()
	return h.body, true
}

// Put stores a rendering with the configured TTL (best-effort).
func (h *HomeFeedCache) Put(ctx context.Context, body []byte) {
	if h.client != nil {
		_ = h.client.Set(ctx, homeFeedKey, body, h.ttl).Err()
		return
	}

	h.mu.Lock()
	h.body = append([]byte(nil), body...)
	h.expires = time.Now().Add(h.ttl)
	h.mu.Unlock()
}

// Clear drops the slot. Used by administrative and test paths only; ordinary
// mutation handlers rely on TTL expiry.
func (h *HomeFeedCache) Clear(ctx context.Context) {
	if h.client != nil {
		_ = h.client.Del(ctx, homeFeedKey).Err()
		return
	}

	h.mu.Lock()
	h.body = nil
	h.expires = time.Time{}
	h.mu.Unlock()
}
