package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"github.com/xzhHas/contentflow/types"
)

func init() {
	Register("redis", func(o Options) (Cache, error) {
		if o.Redis == nil {
			return nil, fmt.Errorf("%w: redis backend needs a client", types.ErrConfiguration)
		}
		return NewRedis(o.Redis, o.Prefix), nil
	})
}

// Redis 以 JSON 形式将记录存于 Key(prefix, kind, key)
type Redis struct {
	client redis.Cmdable
	prefix string

	mu    sync.Mutex
	stats map[types.EntityKind]Stats
}

func NewRedis(client redis.Cmdable, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix, stats: map[types.EntityKind]Stats{}}
}

func (r *Redis) Get(ctx context.Context, kind types.EntityKind, key string) (map[string]any, bool, error) {
	b, err := r.client.Get(ctx, Key(r.prefix, kind, key)).Bytes()
	hit := err == nil
	r.mu.Lock()
	st := r.stats[kind]
	st.Gets++
	if hit {
		st.Hits++
	}
	r.stats[kind] = st
	r.mu.Unlock()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var rec map[string]any
	if err := json.Unmarshal(b, &rec); err != nil {
		return nil, false, err
	}
	return rec, true, nil
}

func (r *Redis) Set(ctx context.Context, kind types.EntityKind, key string, record map[string]any) error {
	b, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, Key(r.prefix, kind, key), string(b), 0).Err()
}

func (r *Redis) Delete(ctx context.Context, kind types.EntityKind, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, 0, len(keys))
	for _, k := range keys {
		full = append(full, Key(r.prefix, kind, k))
	}
	return r.client.Del(ctx, full...).Err()
}

func (r *Redis) Stats() map[types.EntityKind]Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[types.EntityKind]Stats, len(r.stats))
	for k, v := range r.stats {
		out[k] = v
	}
	return out
}

// Close 仅在客户端由自己创建时关闭它
func (r *Redis) Close() error {
	if c, ok := r.client.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
