package service

import (
	"time"

	"github.com/maypok86/otter/v2"
	log "github.com/sirupsen/logrus"

	"github.com/mk-knight23/portfolio-backend/config"
	"github.com/mk-knight23/portfolio-backend/model"
)

// CacheEntry holds the last successful aggregate for a username together with
// its fetch timestamp. Entries are overwritten wholesale, never merged.
type CacheEntry struct {
	Data      model.AggregateResponse
	FetchedAt time.Time
}

// ResponseCache is the process-wide store of aggregate responses keyed by
// username, with a fixed time-to-live
type ResponseCache struct {
	cache *otter.Cache[string, CacheEntry]
	ttl   time.Duration
}

func NewResponseCache(cfg config.Config) *ResponseCache {
	ttl := time.Duration(cfg.Cache.TTLSeconds) * time.Second

	cache := otter.Must(&otter.Options[string, CacheEntry]{
		MaximumSize:      cfg.Cache.MaxEntries,
		ExpiryCalculator: otter.ExpiryWriting[string, CacheEntry](ttl),
	})

	return &ResponseCache{
		cache: cache,
		ttl:   ttl,
	}
}

// Get returns the cached aggregate for a username while its entry is younger
// than the TTL. Validity is re-evaluated against the entry timestamp on every
// read, the otter expiry only acts as a backstop.
func (c *ResponseCache) Get(username string) (model.AggregateResponse, bool) {
	entry, found := c.cache.GetIfPresent(username)

	if !found {
		return model.AggregateResponse{}, false
	}

	if time.Since(entry.FetchedAt) >= c.ttl {
		log.WithFields(log.Fields{
			"username":  username,
			"fetchedAt": entry.FetchedAt,
		}).Debug("cached entry expired")

		c.cache.Invalidate(username)
		return model.AggregateResponse{}, false
	}

	return entry.Data, true
}

// Set unconditionally overwrites the entry for a username and stamps the
// current time
func (c *ResponseCache) Set(username string, data model.AggregateResponse) {
	c.cache.Set(username, CacheEntry{
		Data:      data,
		FetchedAt: time.Now(),
	})
}
