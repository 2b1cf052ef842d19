package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaughan-dsouza/postboard/internal/models"
)

// testStoreContract exercises the behaviour every PostStore backend must share.
// newStore must return an empty store.
func testStoreContract(t *testing.T, newStore func(t *testing.T) PostStore) {
	ctx := context.Background()

	t.Run("insert assigns id and creation time", func(t *testing.T) {
		store := newStore(t)

		before := time.Now().UTC().Add(-time.Second)
		post, err := store.Insert(ctx, "Hello", "world")
		require.NoError(t, err)

		assert.Regexp(t, models.PostIDPattern, post.ID)
		assert.Len(t, post.ID, 24)
		assert.Equal(t, "Hello", post.Title)
		assert.Equal(t, "world", post.Content)
		assert.WithinDuration(t, time.Now().UTC(), post.Created, 5*time.Second)
		assert.True(t, post.Created.After(before))
	})

	t.Run("get round trips inserted post", func(t *testing.T) {
		store := newStore(t)

		created, err := store.Insert(ctx, "Round", "trip")
		require.NoError(t, err)

		got, err := store.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, created.Title, got.Title)
		assert.Equal(t, created.Content, got.Content)
		assert.True(t, created.Created.Equal(got.Created), "created %s != %s", created.Created, got.Created)
	})

	t.Run("get reports missing and malformed ids", func(t *testing.T) {
		store := newStore(t)

		_, err := store.Get(ctx, "0123456789abcdef01234567")
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = store.Get(ctx, "not-an-id")
		assert.ErrorIs(t, err, ErrInvalidID)
	})

	t.Run("list filters by case-insensitive substring", func(t *testing.T) {
		store := newStore(t)

		first, err := store.Insert(ctx, "Hello World", "a")
		require.NoError(t, err)
		_, err = store.Insert(ctx, "Goodbye", "b")
		require.NoError(t, err)

		all, err := store.List(ctx, "")
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "Hello World", all[0].Title)
		assert.Equal(t, "Goodbye", all[1].Title)

		filtered, err := store.List(ctx, "hello")
		require.NoError(t, err)
		require.Len(t, filtered, 1)
		assert.Equal(t, first.ID, filtered[0].ID)

		none, err := store.List(ctx, "nothing")
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("list treats filter literally", func(t *testing.T) {
		store := newStore(t)

		_, err := store.Insert(ctx, "a.b", "x")
		require.NoError(t, err)
		_, err = store.Insert(ctx, "axb", "y")
		require.NoError(t, err)

		got, err := store.List(ctx, ".")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "a.b", got[0].Title)
	})

	t.Run("update changes title and content only", func(t *testing.T) {
		store := newStore(t)

		created, err := store.Insert(ctx, "Old", "old content")
		require.NoError(t, err)

		updated, err := store.Update(ctx, created.ID, "New", "new content")
		require.NoError(t, err)
		assert.Equal(t, created.ID, updated.ID)
		assert.Equal(t, "New", updated.Title)
		assert.Equal(t, "new content", updated.Content)
		assert.True(t, created.Created.Equal(updated.Created))

		got, err := store.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "New", got.Title)
	})

	t.Run("update reports missing and malformed ids", func(t *testing.T) {
		store := newStore(t)

		_, err := store.Update(ctx, "0123456789abcdef01234567", "t", "c")
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = store.Update(ctx, "zz", "t", "c")
		assert.ErrorIs(t, err, ErrInvalidID)
	})

	t.Run("delete removes post", func(t *testing.T) {
		store := newStore(t)

		created, err := store.Insert(ctx, "Gone", "soon")
		require.NoError(t, err)

		require.NoError(t, store.Delete(ctx, created.ID))

		_, err = store.Get(ctx, created.ID)
		assert.ErrorIs(t, err, ErrNotFound)

		assert.ErrorIs(t, store.Delete(ctx, created.ID), ErrNotFound)
		assert.ErrorIs(t, store.Delete(ctx, "bad"), ErrInvalidID)
	})

	t.Run("ping", func(t *testing.T) {
		store := newStore(t)
		assert.NoError(t, store.Ping(ctx))
	})
}
