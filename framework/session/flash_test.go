package session_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-formcheck/framework/http/validation"
	"github.com/km-arc/go-formcheck/framework/session"
)

var _ validation.Flasher = (*session.Flash)(nil)

func TestFlash_PopFirstClearsList(t *testing.T) {
	ctx := context.Background()
	flash := session.NewFlash(session.NewMemoryStore(time.Hour), "sid")

	require.NoError(t, flash.Add(ctx, "error", "first"))
	require.NoError(t, flash.Add(ctx, "error", "second"))

	v, ok, err := flash.PopFirst(ctx, "error")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "first", v)

	_, ok, err = flash.PopFirst(ctx, "error")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFlash_Strings(t *testing.T) {
	ctx := context.Background()
	flash := session.NewFlash(session.NewMemoryStore(0), "sid")
	require.NoError(t, flash.Add(ctx, "error", "a"))
	require.NoError(t, flash.Add(ctx, "error", 42))
	require.NoError(t, flash.Add(ctx, "error", "b"))

	msgs, err := flash.Strings(ctx, "error")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, msgs)
}

func TestFlash_UnencodableValue(t *testing.T) {
	flash := session.NewFlash(session.NewMemoryStore(0), "sid")
	err := flash.Add(context.Background(), "form_data", map[string]any{"ch": make(chan int)})
	assert.Error(t, err)
}

// A full validation round trip through a real Redis protocol: run, redirect,
// redisplay. Integers must survive as integers.
func TestFlash_ValidationRoundTripOverRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	store := session.NewRedisStore(client, "", time.Hour)

	rules := validation.NewRuleSet().
		Field("name", "required|max_length=5", "Name required", "Name too long").
		Field("qty", "integer|great_than=0", "Whole numbers only", "At least one").
		MustBuild()
	params := validation.Params{"name": "Maximilian", "qty": 3, "tags": []any{"a", "b"}}

	res, err := validation.New().Run(ctx, session.NewFlash(store, "visitor"), params, rules)
	require.NoError(t, err)
	assert.Equal(t, validation.ErrorMap{"name_max_length=5": "Name too long"}, res.Errors)

	// next request, same session
	flash := session.NewFlash(store, "visitor")

	old, ok, err := validation.FormData(ctx, flash)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Maximilian", old["name"])
	assert.Equal(t, json.Number("3"), old["qty"])
	assert.Equal(t, []any{"a", "b"}, old["tags"])

	msg, ok, err := validation.LastError(ctx, flash)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Name too long", msg)

	// the redisplayed data still validates the same way
	again, err := validation.New().Run(ctx, nil, old, rules)
	require.NoError(t, err)
	assert.Equal(t, res.Errors, again.Errors)
}

func TestFromContext(t *testing.T) {
	_, ok := session.FromContext(context.Background())
	assert.False(t, ok)

	flash := session.NewFlash(session.NewMemoryStore(0), "sid")
	got, ok := session.FromContext(session.WithFlash(context.Background(), flash))
	assert.True(t, ok)
	assert.Equal(t, "sid", got.ID())
}
