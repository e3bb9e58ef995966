package utils

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

var globalCache *gocache.Cache

// InitGlobalCache initializes the process-wide cache used for hot lookups
// (meeting records, site settings). maxItems is advisory only.
func InitGlobalCache(maxItems int, defaultExpiration time.Duration) {
	_ = maxItems
	globalCache = gocache.New(defaultExpiration, 2*defaultExpiration)
}

// CacheGet fetches a cached value by key.
func CacheGet(key string) (interface{}, bool) {
	if globalCache == nil {
		return nil, false
	}
	return globalCache.Get(key)
}

// CacheSet stores a value with the default expiration.
func CacheSet(key string, value interface{}) {
	if globalCache == nil {
		return
	}
	globalCache.Set(key, value, gocache.DefaultExpiration)
}

// CacheDelete evicts a key.
func CacheDelete(key string) {
	if globalCache == nil {
		return
	}
	globalCache.Delete(key)
}
