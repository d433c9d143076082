package modelstore

import (
	"context"

	"github.com/agentbid/auction/auctiontypes"
	lru "github.com/hashicorp/golang-lru"
)

// Cached keeps recently read or written blobs in memory in front of a
// slower store. Absent keys are not cached.
type Cached struct {
	store auctiontypes.ModelStore
	cache *lru.Cache
}

var _ auctiontypes.ModelStore = &Cached{}

func NewCached(store auctiontypes.ModelStore, size int) (*Cached, error) {
	cache, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &Cached{store: store, cache: cache}, nil
}

func (c *Cached) Load(ctx context.Context, key string) ([]byte, bool, error) {
	if blob, ok := c.cache.Get(key); ok {
		return clone(blob.([]byte)), true, nil
	}

	blob, found, err := c.store.Load(ctx, key)
	if err != nil || !found {
		return nil, found, err
	}

	c.cache.Add(key, clone(blob))
	return blob, true, nil
}

func (c *Cached) Save(ctx context.Context, key string, blob []byte) error {
	if err := c.store.Save(ctx, key, blob); err != nil {
		c.cache.Remove(key)
		return err
	}
	c.cache.Add(key, clone(blob))
	return nil
}

func clone(blob []byte) []byte {
	return append([]byte(nil), blob...)
}
