package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/exitintent/pkg/adapters/redis"
	"github.com/aretw0/exitintent/pkg/domain"
	"github.com/aretw0/exitintent/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	return mr, client
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := setup(t)

	store := redis.NewFromClient(client)
	ports.RunSessionStoreContract(t, store.Session("contract"))
}

func TestRedisStore_SessionsAreIsolated(t *testing.T) {
	_, client := setup(t)
	ctx := context.Background()
	store := redis.NewFromClient(client)

	require.NoError(t, store.Session("a").Set(ctx, domain.SessionMarkerKey, domain.SessionMarkerValue))

	_, err := store.Session("b").Get(ctx, domain.SessionMarkerKey)
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)

	got, err := store.Session("a").Get(ctx, domain.SessionMarkerKey)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionMarkerValue, got)
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, client := setup(t)
	ctx := context.Background()

	store := redis.NewFromClient(client, redis.WithTTL(1*time.Second))
	sess := store.Session("session-ttl")

	require.NoError(t, sess.Set(ctx, domain.SessionMarkerKey, domain.SessionMarkerValue))
	_, err := sess.Get(ctx, domain.SessionMarkerKey)
	require.NoError(t, err)

	// Fast Forward time in miniredis (for Key Expiration)
	mr.FastForward(2 * time.Second)

	_, err = sess.Get(ctx, domain.SessionMarkerKey)
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, client := setup(t)
	ctx := context.Background()

	store := redis.NewFromClient(client, redis.WithPrefix("custom:app:"))
	require.NoError(t, store.Session("my-session").Set(ctx, domain.SessionMarkerKey, domain.SessionMarkerValue))

	assert.True(t, mr.Exists("custom:app:my-session"), "Expected key with custom prefix to exist")
	assert.Equal(t, domain.SessionMarkerValue, mr.HGet("custom:app:my-session", domain.SessionMarkerKey))
}

func TestRedisStore_EndSession(t *testing.T) {
	mr, client := setup(t)
	ctx := context.Background()
	store := redis.NewFromClient(client)

	require.NoError(t, store.Session("s1").Set(ctx, domain.SessionMarkerKey, domain.SessionMarkerValue))
	require.NoError(t, store.EndSession(ctx, "s1"))

	assert.False(t, mr.Exists("exitintent:session:s1"))
	_, err := store.Session("s1").Get(ctx, domain.SessionMarkerKey)
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)
}

func TestRedisStore_Unreachable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	store := redis.NewFromClient(client)
	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err = store.Session("x").Get(ctx, domain.SessionMarkerKey)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrKeyNotFound)
}
