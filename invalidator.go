package contentflow

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/xzhHas/contentflow/internal/cache"
	"github.com/xzhHas/contentflow/internal/strategy"
	"go.uber.org/zap"
)

// Invalidator 是现成的 Handler：收到更新/删除通知时删除缓存中对应的
// id 与 slug 两个条目（cache-aside），业务读取时再重建
type Invalidator struct {
	cache     Cache
	strategy  *strategy.DeleteStrategy
	logger    *zap.Logger
	eventsCh  chan Notification
	callbacks []func(Notification)
}

func NewInvalidator(c Cache, logger *zap.Logger) *Invalidator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Invalidator{
		cache:    c,
		strategy: &strategy.DeleteStrategy{Cache: c},
		logger:   logger,
		eventsCh: make(chan Notification, 1024),
	}
}

// NewCache 按名称（"memory"、"redis"、"none"）构造缓存后端，rc 只被 redis 后端使用
func NewCache(cfg Config, rc redis.Cmdable) (Cache, error) {
	cfg.SetDefault()
	if cfg.Cache.Backend == "redis" && rc == nil {
		rc = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	return cache.New(cfg.Cache.Backend, cache.Options{Prefix: cfg.Cache.Prefix, Redis: rc})
}

func CacheBackends() []string { return cache.Backends() }

func (i *Invalidator) Cache() Cache { return i.cache }

// Subscribe 注册回调；在缓存删除成功后按注册顺序同步调用
func (i *Invalidator) Subscribe(cb func(Notification)) { i.callbacks = append(i.callbacks, cb) }

// Events 返回已处理通知的缓冲通道；通道满时丢弃，不阻塞消费
func (i *Invalidator) Events() <-chan Notification { return i.eventsCh }

func (i *Invalidator) OnUpdate(ctx context.Context, n Notification) error {
	if err := i.strategy.OnUpdate(ctx, n); err != nil {
		return fmt.Errorf("invalidate %s %v: %w", n.Kind, n.Keys(), err)
	}
	i.emit(n)
	return nil
}

func (i *Invalidator) OnDelete(ctx context.Context, n Notification) error {
	if err := i.strategy.OnDelete(ctx, n); err != nil {
		return fmt.Errorf("invalidate %s %v: %w", n.Kind, n.Keys(), err)
	}
	i.emit(n)
	return nil
}

func (i *Invalidator) emit(n Notification) {
	i.logger.Info("cache invalidated",
		zap.String("kind", string(n.Kind)),
		zap.Stringer("action", n.Action),
		zap.Strings("keys", n.Keys()),
	)
	for _, cb := range i.callbacks {
		cb(n)
	}
	select {
	case i.eventsCh <- n:
	default:
	}
}
