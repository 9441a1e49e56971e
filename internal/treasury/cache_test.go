package treasury

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*SnapshotCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSnapshotCache(client, time.Minute), mr
}

func TestSnapshotCacheRoundTrip(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	got, err := cache.Get(ctx)
	require.NoError(t, err)
	require.Nil(t, got)

	bankID := int64(10)
	report := &Report{
		Entries: []Position{
			{Label: "Cash", Balance: 1800, PaymentMethodID: 1},
			{Label: "Card - X", Balance: 0, PaymentMethodID: 2, BankID: &bankID},
		},
		GeneratedAt: time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, cache.Set(ctx, report))

	got, err = cache.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.Entries, 2)
	require.Equal(t, int64(1800), got.Entries[0].Balance)
	require.NotNil(t, got.Entries[1].BankID)
	require.Equal(t, int64(10), *got.Entries[1].BankID)
	require.True(t, report.GeneratedAt.Equal(got.GeneratedAt))
}

func TestSnapshotCacheInvalidate(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, &Report{GeneratedAt: time.Now().UTC()}))
	require.NoError(t, cache.Invalidate(ctx))

	got, err := cache.Get(ctx)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestSnapshotCacheExpires(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, &Report{GeneratedAt: time.Now().UTC()}))
	mr.FastForward(2 * time.Minute)

	got, err := cache.Get(ctx)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestSnapshotCacheNilSafe(t *testing.T) {
	var cache *SnapshotCache
	ctx := context.Background()

	got, err := cache.Get(ctx)
	require.NoError(t, err)
	require.Nil(t, got)
	require.NoError(t, cache.Set(ctx, &Report{}))
	require.NoError(t, cache.Invalidate(ctx))
}
