package ai

import (
	"github.com/coocood/freecache"
	"github.com/rs/zerolog"

	"github.com/lovincyrus/darkcyber-vault/internal/config"
)

// Cache remembers successful summaries by content fingerprint.
type Cache interface {
	Get(key string) (string, bool)
	Set(key, value string)
}

type FreeCache struct {
	cache *freecache.Cache
	ttl   int
	log   zerolog.Logger
}

// NewCache returns a freecache-backed summary cache, or a no-op cache when
// caching is disabled.
func NewCache(conf *config.Config, log zerolog.Logger) Cache {
	if !conf.Cache.Enabled || conf.Cache.SizeMB <= 0 {
		log.Info().Msg("summary cache disabled")
		return NoCache{}
	}
	ttl := int(conf.Cache.TTL.Seconds())
	log.Info().Int("size_mb", conf.Cache.SizeMB).Int("ttl_s", ttl).Msg("summary cache initialized")
	return NewFreeCache(conf.Cache.SizeMB*1024*1024, ttl, log)
}

// NewFreeCache creates a cache of sizeBytes. ttlSeconds <= 0 means entries
// only leave by eviction.
func NewFreeCache(sizeBytes, ttlSeconds int, log zerolog.Logger) *FreeCache {
	if ttlSeconds < 0 {
		ttlSeconds = 0
	}
	return &FreeCache{cache: freecache.NewCache(sizeBytes), ttl: ttlSeconds, log: log}
}

func (c *FreeCache) Get(key string) (string, bool) {
	val, err := c.cache.Get([]byte(key))
	if err != nil {
		return "", false
	}
	return string(val), true
}

func (c *FreeCache) Set(key, value string) {
	if err := c.cache.Set([]byte(key), []byte(value), c.ttl); err != nil {
		c.log.Debug().Err(err).Int("bytes", len(value)).Msg("summary not cached")
	}
}

type NoCache struct{}

func (NoCache) Get(string) (string, bool) { return "", false }
func (NoCache) Set(string, string)        {}
