package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"buywise/internal/model"

	"github.com/pkg/errors"
)

type testLogger struct{}

func (testLogger) Debugf(format string, v ...any) {}
func (testLogger) Errorf(format string, v ...any) {}

type fakeStore struct {
	mu        sync.Mutex
	snapshots map[string]model.ProductSnapshot
}

func newFakeStore() *fakeStore {
	return &fakeStore{snapshots: map[string]model.ProductSnapshot{}}
}

func (f *fakeStore) SnapshotUpsert(ctx context.Context, s model.ProductSnapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snapshots[s.ProductID] = s
	return nil
}

func (f *fakeStore) SnapshotFind(ctx context.Context, productID string) (model.ProductSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.snapshots[productID]
	if !ok {
		return model.ProductSnapshot{}, errors.New("not found")
	}
	return s, nil
}

func TestSnapshotCachePutGet(t *testing.T) {
	store := newFakeStore()
	sc, err := NewSnapshotCache(8, store, testLogger{})
	if err != nil {
		t.Fatalf("NewSnapshotCache() error: %v", err)
	}

	p := model.Product{ProductID: "123", Title: "USB Hub", Price: 15.99}
	sc.Put(p)

	got := sc.Get(context.Background(), "123")
	if got.Title != "USB Hub" || got.Price != 15.99 {
		t.Errorf("Get() = %+v, want cached product", got)
	}

	// The background persist should land in the store eventually.
	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, err := store.SnapshotFind(context.Background(), "123"); err == nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("snapshot was never persisted to the store")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestSnapshotCacheStoreFallback(t *testing.T) {
	store := newFakeStore()
	store.snapshots["42"] = model.ProductSnapshot{
		ProductID: "42",
		Product:   model.Product{ProductID: "42", Title: "Lamp", Price: 8},
	}
	sc, err := NewSnapshotCache(8, store, testLogger{})
	if err != nil {
		t.Fatalf("NewSnapshotCache() error: %v", err)
	}

	got := sc.Get(context.Background(), "42")
	if got.Title != "Lamp" {
		t.Errorf("Get() = %+v, want product from store", got)
	}
}

func TestSnapshotCachePlaceholder(t *testing.T) {
	sc, err := NewSnapshotCache(8, newFakeStore(), testLogger{})
	if err != nil {
		t.Fatalf("NewSnapshotCache() error: %v", err)
	}
	got := sc.Get(context.Background(), "missing")
	if got.ProductID != "missing" || got.Title != "this product" {
		t.Errorf("Get() = %+v, want placeholder", got)
	}
}

func TestSnapshotCacheIgnoresEmptyID(t *testing.T) {
	store := newFakeStore()
	sc, err := NewSnapshotCache(8, store, testLogger{})
	if err != nil {
		t.Fatalf("NewSnapshotCache() error: %v", err)
	}
	sc.Put(model.Product{Title: "no id"})
	time.Sleep(50 * time.Millisecond)
	store.mu.Lock()
	defer store.mu.Unlock()
	if len(store.snapshots) != 0 {
		t.Errorf("store has %d snapshots, want 0", len(store.snapshots))
	}
}
