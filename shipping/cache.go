package shipping

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"tokomaterial/logging"
)

// destinationCache holds the rate API's city catalog for 24h. One entry,
// owned by the engine instance, refreshed lazily on expiry. Concurrent
// refreshes collapse into one upstream call via singleflight; a racing
// populate is last-writer-wins, which is fine for read-only reference data.
type destinationCache struct {
	mu        sync.RWMutex
	byID      map[string]Destination
	expiresAt time.Time
	sfg       singleflight.Group
}

const destinationTTL = 24 * time.Hour

func (dc *destinationCache) lookup(ctx context.Context, client *RateClient, id string) (Destination, bool, error) {
	dc.mu.RLock()
	fresh := time.Now().Before(dc.expiresAt)
	dest, ok := dc.byID[id]
	stale := dc.byID != nil
	dc.mu.RUnlock()

	if fresh {
		return dest, ok, nil
	}

	_, err, _ := dc.sfg.Do("destinations", func() (any, error) {
		dests, err := client.Destinations(ctx)
		if err != nil {
			return nil, err
		}
		byID := make(map[string]Destination, len(dests))
		for _, d := range dests {
			byID[d.ID] = d
		}
		dc.mu.Lock()
		dc.byID = byID
		dc.expiresAt = time.Now().Add(destinationTTL)
		dc.mu.Unlock()
		return nil, nil
	})
	if err != nil {
		if stale {
			// A stale catalog beats no catalog; serve it and retry next call.
			return dest, ok, nil
		}
		return Destination{}, false, err
	}

	dc.mu.RLock()
	dest, ok = dc.byID[id]
	dc.mu.RUnlock()
	return dest, ok, nil
}

// QuoteCache absorbs repeated UI-driven quote requests (the same address
// retyped) behind a short redis TTL. Entries expire, they are never
// invalidated by hand. A nil client or redis outage is just a miss.
type QuoteCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewQuoteCache(rdb *redis.Client, ttl time.Duration) *QuoteCache {
	return &QuoteCache{rdb: rdb, ttl: ttl}
}

func quoteKey(originID, destinationID string, weightKg float64) string {
	return fmt.Sprintf("quote:%s:%s:%d", originID, destinationID, int64(weightKg*1000))
}

func (c *QuoteCache) Get(ctx context.Context, originID, destinationID string, weightKg float64) (*Quote, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, quoteKey(originID, destinationID, weightKg)).Bytes()
	if err != nil {
		if err != redis.Nil {
			logging.New("shipping").Warn("quote cache get failed", "err", err)
		}
		return nil, false
	}
	var q Quote
	if err := json.Unmarshal(raw, &q); err != nil {
		return nil, false
	}
	return &q, true
}

func (c *QuoteCache) Set(ctx context.Context, originID, destinationID string, weightKg float64, q *Quote) {
	if c == nil || c.rdb == nil {
		return
	}
	raw, err := json.Marshal(q)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, quoteKey(originID, destinationID, weightKg), raw, c.ttl).Err(); err != nil {
		logging.New("shipping").Warn("quote cache set failed", "err", err)
	}
}
