package inmemory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	value, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, value)

	require.NoError(t, store.Put(ctx, "key-store", []byte("records")))
	value, err = store.Get(ctx, "key-store")
	require.NoError(t, err)
	assert.Equal(t, []byte("records"), value)

	require.NoError(t, store.Delete(ctx, "key-store"))
	value, err = store.Get(ctx, "key-store")
	require.NoError(t, err)
	assert.Nil(t, value)

	// deleting twice is fine
	require.NoError(t, store.Delete(ctx, "key-store"))
	require.NoError(t, store.Close())
}

func TestStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	original := []byte{0x01, 0x02}
	require.NoError(t, store.Put(ctx, "key", original))
	original[0] = 0xff

	value, err := store.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x02}, value)

	value[1] = 0xff
	again, err := store.Get(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x02}, again)
}
