package config

import "time"

// CacheConfig drives the versioned response cache over the public read
// endpoints. Entries are keyed by a version counter that every change
// event bumps, so a stale entry is never served after a mutation; TTL
// only bounds how long dead versions linger.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
	Prefix  string
}

// LoadCacheConfig reads the cache settings with defaults suited to the
// calendar read path.
func LoadCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled: getenv("CACHE_ENABLED", "true") == "true",
		TTL:     parseDur(getenv("CACHE_TTL", "5m")),
		Prefix:  getenv("CACHE_PREFIX", "cal"),
	}
}
