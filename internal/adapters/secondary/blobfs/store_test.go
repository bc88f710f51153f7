package blobfs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"automl-platform-service/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	assert.NoError(t, err)
	return store
}

func TestStore_PutGetDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	key := "dataset/alice/ds_alice_20260820T120000_abcd1234.csv"
	assert.NoError(t, store.Put(ctx, key, []byte("a,b\n1,2\n")))

	data, err := store.Get(ctx, key)
	assert.NoError(t, err)
	assert.Equal(t, []byte("a,b\n1,2\n"), data)

	size, err := store.Stat(ctx, key)
	assert.NoError(t, err)
	assert.Equal(t, int64(8), size)

	assert.NoError(t, store.Delete(ctx, key))
	_, err = store.Get(ctx, key)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, key), domain.ErrNotFound)
}

func TestStore_PutOverwrites(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	assert.NoError(t, store.Put(ctx, "model/alice/m.pkl", []byte("v1")))
	assert.NoError(t, store.Put(ctx, "model/alice/m.pkl", []byte("v2")))

	data, err := store.Get(ctx, "model/alice/m.pkl")
	assert.NoError(t, err)
	assert.Equal(t, []byte("v2"), data)
}

func TestStore_List(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	assert.NoError(t, store.Put(ctx, "dataset/alice/a.csv", []byte("x")))
	assert.NoError(t, store.Put(ctx, "dataset/alice/b.csv", []byte("x")))
	assert.NoError(t, store.Put(ctx, "dataset/bob/c.csv", []byte("x")))
	assert.NoError(t, store.Put(ctx, "model/alice/m.pkl", []byte("x")))

	keys, err := store.List(ctx, "dataset/alice/")
	assert.NoError(t, err)
	assert.ElementsMatch(t, []string{"dataset/alice/a.csv", "dataset/alice/b.csv"}, keys)

	keys, err = store.List(ctx, "dataset/")
	assert.NoError(t, err)
	assert.Len(t, keys, 3)

	keys, err = store.List(ctx, "report/")
	assert.NoError(t, err)
	assert.Empty(t, keys)
}

func TestStore_RejectsTraversalKeys(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	assert.ErrorIs(t, store.Put(ctx, "../escape", []byte("x")), domain.ErrValidation)
	assert.ErrorIs(t, store.Put(ctx, "/absolute", []byte("x")), domain.ErrValidation)
	_, err := store.Get(ctx, "a/../../b")
	assert.ErrorIs(t, err, domain.ErrValidation)
}
