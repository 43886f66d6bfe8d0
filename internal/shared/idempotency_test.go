package shared

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*IdempotencyStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewIdempotencyStore(client, time.Hour), mr
}

func TestCheckAndInsertRejectsReplay(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CheckAndInsert(ctx, "abc", "waiver"))
	require.ErrorIs(t, store.CheckAndInsert(ctx, "abc", "waiver"), ErrIdempotencyConflict)
	require.NoError(t, store.CheckAndInsert(ctx, "abc", "roaming"))
}

func TestCheckAndInsertExpires(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CheckAndInsert(ctx, "k1", "waiver"))
	mr.FastForward(2 * time.Hour)
	require.NoError(t, store.CheckAndInsert(ctx, "k1", "waiver"))
}

func TestDeleteReleasesKey(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CheckAndInsert(ctx, "k2", "waiver"))
	require.NoError(t, store.Delete(ctx, "k2", "waiver"))
	require.NoError(t, store.CheckAndInsert(ctx, "k2", "waiver"))
}

func TestCheckAndInsertValidatesInput(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.Error(t, store.CheckAndInsert(ctx, "", "waiver"))
	require.Error(t, store.CheckAndInsert(ctx, "k", ""))

	var nilStore *IdempotencyStore
	require.Error(t, nilStore.CheckAndInsert(ctx, "k", "waiver"))
}
