package blobstore

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storeTestSuite exercises the BlobStore contract shared by all backends.
func storeTestSuite(t *testing.T, store BlobStore) {
	ctx := context.Background()

	t.Run("OpenMissing", func(t *testing.T) {
		_, err := store.Open(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("PutOpenReadAt", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "runs/a.snap", []byte("hello world")))

		b, err := store.Open(ctx, "runs/a.snap")
		require.NoError(t, err)
		defer b.Close()

		assert.EqualValues(t, 11, b.Size())

		p := make([]byte, 5)
		n, err := b.ReadAt(ctx, p, 6)
		require.NoError(t, err)
		assert.Equal(t, 5, n)
		assert.Equal(t, "world", string(p))
	})

	t.Run("ReadAtPastEnd", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "short", []byte("abc")))

		b, err := store.Open(ctx, "short")
		require.NoError(t, err)
		defer b.Close()

		p := make([]byte, 8)
		n, err := b.ReadAt(ctx, p, 1)
		assert.Equal(t, 2, n)
		assert.ErrorIs(t, err, io.EOF)
	})

	t.Run("ReadRangeClipped", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "ranged", []byte("0123456789")))

		b, err := store.Open(ctx, "ranged")
		require.NoError(t, err)
		defer b.Close()

		rc, err := b.ReadRange(ctx, 7, 100)
		require.NoError(t, err)
		defer rc.Close()

		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, "789", string(data))
	})

	t.Run("CreateCommitsOnClose", func(t *testing.T) {
		w, err := store.Create(ctx, "streamed")
		require.NoError(t, err)
		_, err = w.Write([]byte("part1-"))
		require.NoError(t, err)
		_, err = w.Write([]byte("part2"))
		require.NoError(t, err)
		require.NoError(t, w.Close())

		data, err := ReadAll(ctx, store, "streamed")
		require.NoError(t, err)
		assert.Equal(t, "part1-part2", string(data))
	})

	t.Run("ListByPrefix", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "vdf/img-0.png", []byte("x")))
		require.NoError(t, store.Put(ctx, "vdf/img-1.png", []byte("y")))

		names, err := store.List(ctx, "vdf/")
		require.NoError(t, err)
		assert.Equal(t, []string{"vdf/img-0.png", "vdf/img-1.png"}, names)
	})

	t.Run("DeleteIdempotent", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, "gone", []byte("x")))
		require.NoError(t, store.Delete(ctx, "gone"))
		require.NoError(t, store.Delete(ctx, "gone"))

		_, err := store.Open(ctx, "gone")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestMemoryStore(t *testing.T) {
	storeTestSuite(t, NewMemoryStore())
}

func TestLocalStore(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	storeTestSuite(t, store)
}

func TestMemoryStoreIsolation(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	src := []byte("original")
	require.NoError(t, store.Put(ctx, "iso", src))
	src[0] = 'X'

	data, err := ReadAll(ctx, store, "iso")
	require.NoError(t, err)
	assert.Equal(t, "original", string(data))
}
