package cache

import (
	"context"
	"time"

	"buywise/internal/model"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
)

// SnapshotStore is the persistent layer behind the in-memory cache.
type SnapshotStore interface {
	SnapshotUpsert(ctx context.Context, s model.ProductSnapshot) error
	SnapshotFind(ctx context.Context, productID string) (model.ProductSnapshot, error)
}

type logger interface {
	Debugf(format string, v ...any)
	Errorf(format string, v ...any)
}

// SnapshotCache keeps recently shown products available for callback lookups.
// Reads go LRU first, then the store. Writes hit the LRU synchronously and
// persist in the background; losing a snapshot only degrades a button label,
// so last-writer-wins is fine.
type SnapshotCache struct {
	lru    *lru.Cache[string, model.Product]
	store  SnapshotStore
	logger logger
}

func NewSnapshotCache(size int, store SnapshotStore, logger logger) (*SnapshotCache, error) {
	l, err := lru.New[string, model.Product](size)
	if err != nil {
		return nil, errors.Wrapf(err, "error creating snapshot LRU with size %d", size)
	}
	return &SnapshotCache{lru: l, store: store, logger: logger}, nil
}

func (sc *SnapshotCache) Put(p model.Product) {
	if p.ProductID == "" {
		return
	}
	sc.lru.Add(p.ProductID, p)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := sc.store.SnapshotUpsert(ctx, model.ProductSnapshot{ProductID: p.ProductID, Product: p}); err != nil {
			sc.logger.Errorf("SnapshotCache.Put: Error persisting snapshot, ProductID: %s, err: %v", p.ProductID, err)
		}
	}()
}

// Get falls back to a placeholder so callback handlers always have
// something presentable to work with.
func (sc *SnapshotCache) Get(ctx context.Context, productID string) model.Product {
	if p, ok := sc.lru.Get(productID); ok {
		return p
	}
	s, err := sc.store.SnapshotFind(ctx, productID)
	if err == nil {
		sc.lru.Add(productID, s.Product)
		return s.Product
	}
	sc.logger.Debugf("SnapshotCache.Get: Snapshot miss, ProductID: %s, err: %v", productID, err)
	return model.Product{ProductID: productID, Title: "this product"}
}
