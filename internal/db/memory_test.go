package db

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	testStoreContract(t, func(t *testing.T) PostStore {
		return NewMemoryStore()
	})
}

func TestMemoryStoreConcurrentInserts(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Insert(ctx, "t", "c")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	posts, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, posts, 50)

	ids := make(map[string]struct{}, len(posts))
	for _, p := range posts {
		ids[p.ID] = struct{}{}
	}
	assert.Len(t, ids, 50, "ids must be unique")
}

func TestMemoryStoreGetReturnsCopy(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	created, err := store.Insert(ctx, "Title", "Content")
	require.NoError(t, err)

	got, err := store.Get(ctx, created.ID)
	require.NoError(t, err)
	got.Title = "mutated"

	again, err := store.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Title", again.Title)
}

func TestConnectMemory(t *testing.T) {
	store, err := Connect(context.Background(), Options{Backend: BackendMemory})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, store)
}

func TestConnectUnknownBackend(t *testing.T) {
	_, err := Connect(context.Background(), Options{Backend: "redis"})
	assert.ErrorContains(t, err, "unknown backend")
}

func TestConnectPostgresRequiresURL(t *testing.T) {
	_, err := Connect(context.Background(), Options{Backend: BackendPostgres})
	assert.ErrorContains(t, err, "database url is required")
}
