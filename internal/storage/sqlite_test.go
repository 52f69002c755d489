package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veclab/sqlitevec/pkg/sqlitevec"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	store, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestCreateCollection(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	coll, err := store.CreateCollection(ctx, "docs", 384, sqlitevec.EncodingFloat32)
	require.NoError(t, err)
	assert.NotZero(t, coll.ID)
	assert.Equal(t, "docs", coll.Name)
	assert.Equal(t, 384, coll.Dimensions)
	assert.Equal(t, sqlitevec.EncodingFloat32, coll.Encoding)
	assert.Equal(t, 1536, coll.ByteSize())

	_, err = store.CreateCollection(ctx, "docs", 384, sqlitevec.EncodingFloat32)
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestCreateCollectionValidation(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	_, err := store.CreateCollection(ctx, "bad name;", 4, sqlitevec.EncodingFloat32)
	assert.ErrorIs(t, err, ErrInvalidName)

	_, err = store.CreateCollection(ctx, "docs", 0, sqlitevec.EncodingFloat32)
	assert.Error(t, err)

	_, err = store.CreateCollection(ctx, "docs", -1, sqlitevec.EncodingFloat32)
	assert.Error(t, err)
}

func TestGetCollectionNotFound(t *testing.T) {
	store := newTestStorage(t)

	_, err := store.GetCollection(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListCollections(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	_, err := store.CreateCollection(ctx, "beta", 8, sqlitevec.EncodingInt8)
	require.NoError(t, err)
	_, err = store.CreateCollection(ctx, "alpha", 16, sqlitevec.EncodingBit)
	require.NoError(t, err)

	collections, err := store.ListCollections(ctx)
	require.NoError(t, err)
	require.Len(t, collections, 2)
	assert.Equal(t, "alpha", collections[0].Name)
	assert.Equal(t, "beta", collections[1].Name)
}

func TestInsertAndGetVector(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	coll, err := store.CreateCollection(ctx, "docs", 3, sqlitevec.EncodingFloat32)
	require.NoError(t, err)

	blob := sqlitevec.SerializeFloat32([]float32{1, 2, 3})
	id, err := store.InsertVector(ctx, "docs", "doc-1", blob)
	require.NoError(t, err)
	assert.NotZero(t, id)

	vec, err := store.GetVector(ctx, "docs", "doc-1")
	require.NoError(t, err)
	assert.Equal(t, id, vec.ID)
	assert.Equal(t, coll.ID, vec.CollectionID)
	assert.Equal(t, blob, vec.Blob)
}

func TestInsertVectorSizeMismatch(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		dims     int
		enc      sqlitevec.Encoding
		blobSize int
	}{
		{"float32_short", 4, sqlitevec.EncodingFloat32, 12},
		{"int8_long", 4, sqlitevec.EncodingInt8, 5},
		{"bit_partial_byte", 10, sqlitevec.EncodingBit, 1}, // 10 bits need 2 bytes
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.CreateCollection(ctx, tt.name, tt.dims, tt.enc)
			require.NoError(t, err)

			_, err = store.InsertVector(ctx, tt.name, "v", make([]byte, tt.blobSize))
			assert.ErrorIs(t, err, ErrSizeMismatch)
		})
	}
}

func TestInsertVectorDuplicateKeyRollsBack(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	_, err := store.CreateCollection(ctx, "docs", 2, sqlitevec.EncodingInt8)
	require.NoError(t, err)

	blob := sqlitevec.SerializeInt8([]int8{1, 2})
	_, err = store.InsertVector(ctx, "docs", "v1", blob)
	require.NoError(t, err)

	// The failed insert runs inside a transaction; nothing of it survives.
	_, err = store.InsertVector(ctx, "docs", "v1", sqlitevec.SerializeInt8([]int8{3, 4}))
	require.Error(t, err)

	stats, err := store.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Vectors)

	vec, err := store.GetVector(ctx, "docs", "v1")
	require.NoError(t, err)
	assert.Equal(t, blob, vec.Blob)
}

func TestDeleteVector(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	_, err := store.CreateCollection(ctx, "docs", 2, sqlitevec.EncodingInt8)
	require.NoError(t, err)

	_, err = store.InsertVector(ctx, "docs", "v1", sqlitevec.SerializeInt8([]int8{1, -1}))
	require.NoError(t, err)

	require.NoError(t, store.DeleteVector(ctx, "docs", "v1"))

	_, err = store.GetVector(ctx, "docs", "v1")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, store.DeleteVector(ctx, "docs", "v1"), ErrNotFound)
}

func TestDeleteCollection(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	_, err := store.CreateCollection(ctx, "docs", 2, sqlitevec.EncodingInt8)
	require.NoError(t, err)
	_, err = store.InsertVector(ctx, "docs", "v1", sqlitevec.SerializeInt8([]int8{1, 2}))
	require.NoError(t, err)

	require.NoError(t, store.DeleteCollection(ctx, "docs"))

	_, err = store.GetCollection(ctx, "docs")
	assert.ErrorIs(t, err, ErrNotFound)

	// Vectors cascade with the collection
	stats, err := store.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Vectors)
}

func TestGetStats(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	_, err := store.CreateCollection(ctx, "docs", 2, sqlitevec.EncodingFloat32)
	require.NoError(t, err)
	_, err = store.InsertVector(ctx, "docs", "v1", sqlitevec.SerializeFloat32([]float32{1, 2}))
	require.NoError(t, err)

	stats, err := store.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Collections)
	assert.Equal(t, 1, stats.Vectors)
	assert.Equal(t, VectorExtensionAvailable, stats.ExtensionLoaded)
	assert.Greater(t, stats.DatabaseSizeMB, 0.0)
}
