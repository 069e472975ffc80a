package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/menube/pkg/adapters/redis"
	"github.com/aretw0/menube/pkg/domain"
	"github.com/aretw0/menube/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiniredis(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err, "Failed to start miniredis")
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := newMiniredis(t)
	ports.RunPathStoreContract(t, redis.NewStore(client))
}

func TestRedisStore_TTL(t *testing.T) {
	mr, client := newMiniredis(t)
	store := redis.NewStore(client, redis.WithTTL(time.Minute), redis.WithPrefix("test:"))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "short", domain.NewSnapshot(domain.Path{0, 1})))
	assert.True(t, mr.Exists("test:short"))
	assert.Equal(t, time.Minute, mr.TTL("test:short"))

	mr.FastForward(2 * time.Minute)
	_, err := store.Load(ctx, "short")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestRedisStore_ListPrunesExpired(t *testing.T) {
	mr, client := newMiniredis(t)
	store := redis.NewStore(client)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "alive", domain.NewSnapshot(domain.RootPath())))
	// An index entry whose score is already in the past.
	_, err := mr.ZAdd("menube:session:index", 1, "stale")
	require.NoError(t, err)

	sessions, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alive"}, sessions)
}
