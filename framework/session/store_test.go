package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storeContract runs the same push/pull checks against any Store.
func storeContract(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("pull missing", func(t *testing.T) {
		got, err := store.Pull(ctx, "nobody", "error")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("push then pull clears", func(t *testing.T) {
		require.NoError(t, store.Push(ctx, "s1", "error", []byte(`"a"`)))
		require.NoError(t, store.Push(ctx, "s1", "error", []byte(`"b"`)))

		got, err := store.Pull(ctx, "s1", "error")
		require.NoError(t, err)
		assert.Equal(t, [][]byte{[]byte(`"a"`), []byte(`"b"`)}, got)

		got, err = store.Pull(ctx, "s1", "error")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("sessions and keys are isolated", func(t *testing.T) {
		require.NoError(t, store.Push(ctx, "s1", "form_data", []byte(`{}`)))
		require.NoError(t, store.Push(ctx, "s2", "form_data", []byte(`{"x":1}`)))

		got, err := store.Pull(ctx, "s1", "error")
		require.NoError(t, err)
		assert.Empty(t, got)

		got, err = store.Pull(ctx, "s2", "form_data")
		require.NoError(t, err)
		assert.Equal(t, [][]byte{[]byte(`{"x":1}`)}, got)

		got, err = store.Pull(ctx, "s1", "form_data")
		require.NoError(t, err)
		assert.Equal(t, [][]byte{[]byte(`{}`)}, got)
	})
}

// ── MemoryStore ──────────────────────────────────────────────────────────────

func TestMemoryStore_Contract(t *testing.T) {
	storeContract(t, NewMemoryStore(time.Hour))
}

func TestMemoryStore_Expiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore(10 * time.Minute)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Push(ctx, "old", "error", []byte(`"x"`)))
	now = now.Add(5 * time.Minute)
	require.NoError(t, store.Push(ctx, "fresh", "error", []byte(`"y"`)))

	now = now.Add(6 * time.Minute)
	got, err := store.Pull(ctx, "old", "error")
	require.NoError(t, err)
	assert.Empty(t, got, "expired flashes must not be returned")

	assert.Equal(t, 0, store.Sweep())
	now = now.Add(10 * time.Minute)
	assert.Equal(t, 1, store.Sweep())
	assert.Equal(t, 0, store.Len())
}

func TestMemoryStore_CopiesValues(t *testing.T) {
	store := NewMemoryStore(0)
	buf := []byte(`"orig"`)
	require.NoError(t, store.Push(context.Background(), "s", "k", buf))
	buf[1] = 'X'

	got, err := store.Pull(context.Background(), "s", "k")
	require.NoError(t, err)
	assert.Equal(t, `"orig"`, string(got[0]))
}

// ── RedisStore ───────────────────────────────────────────────────────────────

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := newTestRedis(t)
	storeContract(t, NewRedisStore(client, "", time.Hour))
}

func TestRedisStore_KeyLayoutAndTTL(t *testing.T) {
	mr, client := newTestRedis(t)
	store := NewRedisStore(client, "app:flash:", 30*time.Minute)

	require.NoError(t, store.Push(context.Background(), "abc", "error", []byte(`"msg"`)))

	assert.True(t, mr.Exists("app:flash:abc:error"))
	assert.Equal(t, 30*time.Minute, mr.TTL("app:flash:abc:error"))

	mr.FastForward(31 * time.Minute)
	got, err := store.Pull(context.Background(), "abc", "error")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRedisStore_Unavailable(t *testing.T) {
	mr, client := newTestRedis(t)
	store := NewRedisStore(client, "", time.Minute)
	require.NoError(t, store.Ping(context.Background()))
	mr.Close()

	err := store.Push(context.Background(), "s", "error", []byte(`"x"`))
	assert.Error(t, err)
	_, err = store.Pull(context.Background(), "s", "error")
	assert.Error(t, err)
}
