package config

import (
	"strings"
	"time"
)

// CatalogCacheConfig controls the Redis cache in front of the public trip
// catalog.  Seat maps are never cached; only search listings are.
type CatalogCacheConfig struct {
	Enabled      bool
	TTL          time.Duration
	Prefix       string
	MaxBodyBytes int
	Methods      map[string]bool
}

func LoadCatalogCacheConfig() CatalogCacheConfig {
	return CatalogCacheConfig{
		Enabled:      envBool("CACHE_ENABLED", true),
		TTL:          envDur("CACHE_TTL", 30*time.Second),
		Prefix:       envStr("CACHE_PREFIX", "catalog"),
		MaxBodyBytes: envInt("CACHE_MAX_BODY_BYTES", 1<<20),
		Methods:      parseMethods(envStr("CACHE_METHODS", "GET")),
	}
}

func parseMethods(s string) map[string]bool {
	m := map[string]bool{}
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(strings.ToUpper(p)); p != "" {
			m[p] = true
		}
	}
	return m
}
