package media

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"civicwatch/internal/cache"
)

const dataURIKeyPrefix = "media:datauri:"

// Encoder renders data URIs and memoizes them in Redis by content hash.
type Encoder struct {
	cache *cache.Client
	ttl   time.Duration
}

// NewEncoder creates an encoder. A nil cache disables memoization.
func NewEncoder(c *cache.Client, ttl time.Duration) *Encoder {
	return &Encoder{cache: c, ttl: ttl}
}

// DataURI returns the data URI for data, consulting the cache first.
func (e *Encoder) DataURI(ctx context.Context, contentType string, data []byte) string {
	if len(data) == 0 {
		return ""
	}
	if e == nil || e.cache == nil {
		return DataURI(contentType, data)
	}

	sum := sha256.Sum256(data)
	key := dataURIKeyPrefix + contentType + ":" + hex.EncodeToString(sum[:])
	if cached, _ := e.cache.Get(ctx, key); cached != nil {
		return string(cached)
	}

	uri := DataURI(contentType, data)
	_ = e.cache.Set(ctx, key, []byte(uri), e.ttl)
	return uri
}
