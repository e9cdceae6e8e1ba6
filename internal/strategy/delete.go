package strategy

import (
	"context"

	"github.com/xzhHas/contentflow/internal/cache"
	"github.com/xzhHas/contentflow/types"
)

// DeleteStrategy 删除被通知实体的全部缓存副本，读取方在下次未命中时重新抓取
type DeleteStrategy struct {
	Cache cache.Cache
}

func (d *DeleteStrategy) OnUpdate(ctx context.Context, n types.Notification) error {
	return d.invalidate(ctx, n)
}

func (d *DeleteStrategy) OnDelete(ctx context.Context, n types.Notification) error {
	return d.invalidate(ctx, n)
}

func (d *DeleteStrategy) invalidate(ctx context.Context, n types.Notification) error {
	if d.Cache == nil {
		return nil
	}
	keys := n.Keys()
	if len(keys) == 0 {
		return nil
	}
	return d.Cache.Delete(ctx, n.Kind, keys...)
}
