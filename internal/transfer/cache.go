package transfer

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/vantail/collectroom/internal/domain"
)

// CacheSchemaVersion is the current version of the cache schema.
// Increment when the cached shape changes to auto-invalidate old entries.
const CacheSchemaVersion = "1.0"

// cachedDetailsEntry wraps transfer details with version metadata
type cachedDetailsEntry struct {
	Version  string                  `json:"version"`
	Details  *domain.TransferDetails `json:"details"`
	CachedAt time.Time               `json:"cached_at"`
}

// detailsCache keeps recently resolved claim-token details so a claim page
// refresh does not hit the store again. Short TTL: a grant can be cancelled
// or claimed underneath us at any moment.
type detailsCache struct {
	lru *expirable.LRU[string, *cachedDetailsEntry]
}

func newDetailsCache(size int, ttl time.Duration) *detailsCache {
	return &detailsCache{
		lru: expirable.NewLRU[string, *cachedDetailsEntry](size, nil, ttl),
	}
}

func (c *detailsCache) Get(token string) (*domain.TransferDetails, bool) {
	entry, found := c.lru.Get(token)
	if !found {
		return nil, false
	}
	if entry.Version != CacheSchemaVersion {
		c.lru.Remove(token)
		return nil, false
	}
	return entry.Details, true
}

func (c *detailsCache) Set(token string, details *domain.TransferDetails) {
	c.lru.Add(token, &cachedDetailsEntry{
		Version:  CacheSchemaVersion,
		Details:  details,
		CachedAt: time.Now(),
	})
}

func (c *detailsCache) Invalidate(token string) {
	c.lru.Remove(token)
}
