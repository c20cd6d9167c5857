package boatdata

import (
	"context"
	"fmt"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/telnet2/go-practice/go-boatbus/pkg/types"
)

// Cached wraps a Service with an LRU of single-boat lookups. The map, detail
// tabs and tiles all fetch the selected boat, so one selection usually means
// several GetBoat calls for the same ID.
type Cached struct {
	Service

	boats  *lru.Cache[string, types.Boat]
	hits   atomic.Uint64
	misses atomic.Uint64
}

// CacheStats contains cache counters.
type CacheStats struct {
	Hits   uint64 `json:"hits"`
	Misses uint64 `json:"misses"`
	Size   int    `json:"size"`
}

// NewCached wraps svc with a cache holding up to size boats.
func NewCached(svc Service, size int) (*Cached, error) {
	boats, err := lru.New[string, types.Boat](size)
	if err != nil {
		return nil, fmt.Errorf("create boat cache: %w", err)
	}
	return &Cached{Service: svc, boats: boats}, nil
}

// GetBoat returns the cached boat or loads it. Callers get their own copy.
func (c *Cached) GetBoat(ctx context.Context, id string) (*types.Boat, error) {
	if b, ok := c.boats.Get(id); ok {
		c.hits.Add(1)
		return &b, nil
	}
	c.misses.Add(1)

	b, err := c.Service.GetBoat(ctx, id)
	if err != nil {
		return nil, err
	}
	c.boats.Add(id, *b)
	return b, nil
}

// UpdateBoatList updates through the wrapped service and refreshes the
// cached entries of the updated boats.
func (c *Cached) UpdateBoatList(ctx context.Context, updates []BoatUpdate) ([]types.Boat, error) {
	for _, u := range updates {
		c.boats.Remove(u.ID)
	}
	updated, err := c.Service.UpdateBoatList(ctx, updates)
	if err != nil {
		return nil, err
	}
	for _, b := range updated {
		c.boats.Add(b.ID, b)
	}
	return updated, nil
}

// Purge drops every cached boat.
func (c *Cached) Purge() {
	c.boats.Purge()
}

// Stats returns the cache counters.
func (c *Cached) Stats() CacheStats {
	return CacheStats{
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
		Size:   c.boats.Len(),
	}
}

var _ Service = (*Cached)(nil)
