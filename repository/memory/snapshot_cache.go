package memory

import (
	"context"
	"sync"

	"github.com/fastygo/commerce/repository"
)

type snapshotCache struct {
	mu    sync.RWMutex
	items map[string]repository.ProductSnapshot
}

// NewProductSnapshotCache returns an unbounded in-process cache.
func NewProductSnapshotCache() repository.ProductSnapshotCache {
	return &snapshotCache{items: make(map[string]repository.ProductSnapshot)}
}

func (c *snapshotCache) Get(ctx context.Context, id string) (*repository.ProductSnapshot, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	snap, ok := c.items[id]
	if !ok {
		return nil, nil
	}
	return &snap, nil
}

func (c *snapshotCache) Save(ctx context.Context, snapshot repository.ProductSnapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[snapshot.ID] = snapshot
	return nil
}

func (c *snapshotCache) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, id)
	return nil
}
