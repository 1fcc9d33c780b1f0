package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*RevocationStore, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRevocationStoreWithClient(client), mr
}

func TestRevokeThenIsRevoked(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	assert.False(t, store.IsRevoked(ctx, "tok-1"))

	require.NoError(t, store.Revoke(ctx, "tok-1", time.Hour))

	assert.True(t, store.IsRevoked(ctx, "tok-1"))
	assert.False(t, store.IsRevoked(ctx, "tok-2"))
}

func TestRevocationExpiresWithTTL(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Revoke(ctx, "tok-1", time.Minute))
	assert.True(t, store.IsRevoked(ctx, "tok-1"))

	mr.FastForward(2 * time.Minute)

	assert.False(t, store.IsRevoked(ctx, "tok-1"))
}

func TestRevokeNonPositiveTTLStoresNothing(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Revoke(ctx, "tok-1", 0))
	require.NoError(t, store.Revoke(ctx, "tok-2", -time.Minute))

	assert.False(t, store.IsRevoked(ctx, "tok-1"))
	assert.False(t, store.IsRevoked(ctx, "tok-2"))
	assert.Empty(t, mr.Keys())
}

func TestNilClientDisablesRevocation(t *testing.T) {
	store := NewRevocationStoreWithClient(nil)
	ctx := context.Background()

	assert.False(t, store.Enabled())
	require.NoError(t, store.Revoke(ctx, "tok-1", time.Hour))
	assert.False(t, store.IsRevoked(ctx, "tok-1"))
}

func TestIsRevokedFailsOpenWhenRedisDown(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Revoke(ctx, "tok-1", time.Hour))

	mr.Close()

	assert.False(t, store.IsRevoked(ctx, "tok-1"))
}
