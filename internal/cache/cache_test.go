package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xzhHas/contentflow/types"
)

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{"memory", "none", "redis"}, Backends())

	c, err := New("memory", Options{})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, c)

	_, err = New("django", Options{})
	assert.True(t, errors.Is(err, types.ErrConfiguration))

	_, err = New("redis", Options{})
	assert.True(t, errors.Is(err, types.ErrConfiguration))
}

func TestRegisterTwicePanics(t *testing.T) {
	assert.Panics(t, func() {
		Register("memory", func(Options) (Cache, error) { return Nop{}, nil })
	})
}

func TestKey(t *testing.T) {
	assert.Equal(t, "p2p_content_item_42", Key("p2p", types.ContentItem, "42"))
	assert.Equal(t, "collection_hp", Key("", types.Collection, "hp"))
}

func TestMemoryInstancesAreIndependent(t *testing.T) {
	ctx := context.Background()
	a, b := NewMemory(), NewMemory()
	require.NoError(t, a.Set(ctx, types.ContentItem, "abc", map[string]any{"title": "A"}))

	_, ok, err := b.Get(ctx, types.ContentItem, "abc")
	require.NoError(t, err)
	assert.False(t, ok)

	rec, ok, err := a.Get(ctx, types.ContentItem, "abc")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "A", rec["title"])

	rec["title"] = "mutated"
	again, _, _ := a.Get(ctx, types.ContentItem, "abc")
	assert.Equal(t, "A", again["title"])

	assert.Equal(t, Stats{Gets: 2, Hits: 2}, a.Stats()[types.ContentItem])
	assert.Equal(t, Stats{Gets: 1}, b.Stats()[types.ContentItem])
}

func TestMemoryDelete(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.Set(ctx, types.Collection, "1", map[string]any{"code": "hp"}))
	require.NoError(t, m.Set(ctx, types.Collection, "hp", map[string]any{"code": "hp"}))
	require.NoError(t, m.Delete(ctx, types.Collection, "1", "hp", "missing"))

	_, ok, _ := m.Get(ctx, types.Collection, "1")
	assert.False(t, ok)
	_, ok, _ = m.Get(ctx, types.Collection, "hp")
	assert.False(t, ok)
}

func TestRedisCache(t *testing.T) {
	ctx := context.Background()
	c, mock := redismock.NewClientMock()
	r := NewRedis(c, "p2p")

	mock.ExpectSet("p2p_content_item_abc", `{"title":"A"}`, 0).SetVal("OK")
	require.NoError(t, r.Set(ctx, types.ContentItem, "abc", map[string]any{"title": "A"}))

	mock.ExpectGet("p2p_content_item_abc").SetVal(`{"title":"A"}`)
	rec, ok, err := r.Get(ctx, types.ContentItem, "abc")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "A", rec["title"])

	mock.ExpectGet("p2p_content_item_zzz").RedisNil()
	_, ok, err = r.Get(ctx, types.ContentItem, "zzz")
	require.NoError(t, err)
	assert.False(t, ok)

	mock.ExpectDel("p2p_collection_1", "p2p_collection_hp").SetVal(2)
	require.NoError(t, r.Delete(ctx, types.Collection, "1", "hp"))

	require.NoError(t, mock.ExpectationsWereMet())
	assert.Equal(t, Stats{Gets: 2, Hits: 1}, r.Stats()[types.ContentItem])
}

func TestNop(t *testing.T) {
	ctx := context.Background()
	var c Cache = Nop{}
	require.NoError(t, c.Set(ctx, types.ContentItem, "a", map[string]any{"x": 1}))
	_, ok, err := c.Get(ctx, types.ContentItem, "a")
	require.NoError(t, err)
	assert.False(t, ok)
}
