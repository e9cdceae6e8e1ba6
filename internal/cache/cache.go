package cache

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/xzhHas/contentflow/types"
)

// Cache 存放已抓取的内容记录；监听器只通过它做失效
type Cache interface {
	Get(ctx context.Context, kind types.EntityKind, key string) (map[string]any, bool, error)
	Set(ctx context.Context, kind types.EntityKind, key string, record map[string]any) error
	Delete(ctx context.Context, kind types.EntityKind, keys ...string) error
	Stats() map[types.EntityKind]Stats
}

type Stats struct {
	Gets uint64
	Hits uint64
}

// Options 传给每个后端构造函数，各后端按需读取
type Options struct {
	Prefix string
	Redis  redis.Cmdable
}

type Constructor func(Options) (Cache, error)

var (
	mu       sync.RWMutex
	backends = map[string]Constructor{}
)

// Register 以 name 注册后端，供 New 使用
func Register(name string, c Constructor) {
	mu.Lock()
	defer mu.Unlock()
	if _, dup := backends[name]; dup {
		panic("cache: Register called twice for backend " + name)
	}
	backends[name] = c
}

func New(name string, opts Options) (Cache, error) {
	mu.RLock()
	c, ok := backends[name]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: unknown cache backend %q (available: %s)", types.ErrConfiguration, name, strings.Join(Backends(), ", "))
	}
	return c(opts)
}

func Backends() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(backends))
	for n := range backends {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Key 构造 "<prefix>_<kind>_<id|slug>"
func Key(prefix string, kind types.EntityKind, key string) string {
	if prefix == "" {
		return string(kind) + "_" + key
	}
	return prefix + "_" + string(kind) + "_" + key
}
