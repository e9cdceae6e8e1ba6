package cache

import (
	"context"

	"github.com/xzhHas/contentflow/types"
)

func init() {
	Register("none", func(Options) (Cache, error) { return Nop{}, nil })
}

// Nop 不缓存任何内容，用于开发环境
type Nop struct{}

func (Nop) Get(context.Context, types.EntityKind, string) (map[string]any, bool, error) {
	return nil, false, nil
}

func (Nop) Set(context.Context, types.EntityKind, string, map[string]any) error { return nil }

func (Nop) Delete(context.Context, types.EntityKind, ...string) error { return nil }

func (Nop) Stats() map[types.EntityKind]Stats { return nil }
