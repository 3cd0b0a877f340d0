package extract

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

type extractor interface {
	Extract(body string) Fields
}

type inMemoryCache interface {
	SetDefault(k string, v any)
	Get(k string) (any, bool)
	ItemCount() int
}

// CachedExtractor memoizes extraction per body.
type CachedExtractor struct {
	Extractor       extractor
	ExpirationTime  time.Duration
	CleanupInterval time.Duration

	once  sync.Once
	cache inMemoryCache
}

func (c *CachedExtractor) init() {
	c.once.Do(func() {
		const (
			defaultExpirationTime  = 10 * time.Minute
			defaultCleanupInterval = 5 * time.Minute
		)

		expTime := defaultExpirationTime
		if c.ExpirationTime != 0 {
			expTime = c.ExpirationTime
		}

		cleanupInt := defaultCleanupInterval
		if c.CleanupInterval != 0 {
			cleanupInt = c.CleanupInterval
		}

		if c.Extractor == nil {
			c.Extractor = New()
		}

		c.cache = cache.New(expTime, cleanupInt)
	})
}

func (c *CachedExtractor) Extract(body string) Fields {
	c.init()

	if v, found := c.cache.Get(body); found {
		return v.(Fields)
	}

	f := c.Extractor.Extract(body)
	c.cache.SetDefault(body, f)

	return f
}

// Len is the number of distinct bodies currently cached.
func (c *CachedExtractor) Len() int {
	c.init()
	return c.cache.ItemCount()
}
