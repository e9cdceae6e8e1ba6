package types

import (
	"context"
	"strconv"
	"time"
)

// Action 通知动作："U" 表示新增/更新，"D" 表示删除
type Action string

const (
	Update Action = "U"
	Delete Action = "D"
)

func (a Action) String() string {
	switch a {
	case Update:
		return "update"
	case Delete:
		return "delete"
	}
	return string(a)
}

// EntityKind 内容实体类型；由投递消息的队列决定，而不是消息体
type EntityKind string

const (
	ContentItem EntityKind = "content_item"
	Collection  EntityKind = "collection"
)

// EntityKinds 为监听器需要声明队列的全部实体类型，顺序固定
var EntityKinds = []EntityKind{ContentItem, Collection}

func (k EntityKind) Valid() bool {
	return k == ContentItem || k == Collection
}

// Plural 用于构造队列名，如 content_items / collections
func (k EntityKind) Plural() string {
	return string(k) + "s"
}

// Notification 为解码后的变更通知，解码完成后不再修改
// - Action：U/D
// - Kind：实体类型（由队列推断）
// - ID/Slug：至少存在一个；ID 为 nil 表示消息中没有 id
// - Payload：完整的原始消息字段，未知字段原样保留
type Notification struct {
	Action  Action
	Kind    EntityKind
	ID      *int64
	Slug    string
	Payload map[string]any
}

// Keys 返回可用于定位缓存条目的标识（id 与 slug）
func (n Notification) Keys() []string {
	keys := make([]string, 0, 2)
	if n.ID != nil {
		keys = append(keys, strconv.FormatInt(*n.ID, 10))
	}
	if n.Slug != "" {
		keys = append(keys, n.Slug)
	}
	return keys
}

// Handler 为调用方提供的通知处理器
// 返回错误会中止当前会话，且该消息不会被确认
type Handler interface {
	OnUpdate(ctx context.Context, n Notification) error
	OnDelete(ctx context.Context, n Notification) error
}

// HandlerFunc 将单个函数适配为 Handler，更新和删除都交给同一个函数
type HandlerFunc func(ctx context.Context, n Notification) error

func (f HandlerFunc) OnUpdate(ctx context.Context, n Notification) error { return f(ctx, n) }
func (f HandlerFunc) OnDelete(ctx context.Context, n Notification) error { return f(ctx, n) }

// Dispatch 根据通知动作调用对应的处理方法
func Dispatch(ctx context.Context, h Handler, n Notification) error {
	if n.Action == Delete {
		return h.OnDelete(ctx, n)
	}
	return h.OnUpdate(ctx, n)
}

// Duration 支持在 TOML 中以 "10s" 形式书写时长
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// BrokerConfig 描述消息服务器连接
// - URL：amqp 地址；为空时依次从环境变量、配置文件中解析
// - ConnectionName：在管理界面中展示的连接名
// - Prefetch：未确认消息上限，默认 1（一次只处理一条）
type BrokerConfig struct {
	URL            string   `toml:"url"`
	ConnectionName string   `toml:"connection_name"`
	Heartbeat      Duration `toml:"heartbeat"`
	DialTimeout    Duration `toml:"dial_timeout"`
	Prefetch       int      `toml:"prefetch"`
}

// ListenerConfig 描述监听器
// - Name：监听器名称，同名监听器不能同时运行
// - Scope：可选的产品/站点代码，用于过滤路由键
// - RequeueOnFailure：处理失败时被拒绝的消息是否重新入队
type ListenerConfig struct {
	Name             string `toml:"name"`
	Scope            string `toml:"scope"`
	RequeueOnFailure *bool  `toml:"requeue_on_failure"`
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// CacheConfig 选择缓存后端（memory / redis / none）及 key 前缀
type CacheConfig struct {
	Backend string `toml:"backend"`
	Prefix  string `toml:"prefix"`
}

// LogConfig 日志配置；File 非空时写入滚动日志文件
type LogConfig struct {
	Level       string `toml:"level"`
	File        string `toml:"file"`
	MaxSizeMB   int    `toml:"max_size_mb"`
	MaxBackups  int    `toml:"max_backups"`
	MaxAgeDays  int    `toml:"max_age_days"`
	Development bool   `toml:"development"`
}

type MetricsConfig struct {
	Addr string `toml:"addr"`
}

// Config 为整个监听进程的配置
type Config struct {
	Broker   BrokerConfig   `toml:"broker"`
	Listener ListenerConfig `toml:"listener"`
	Redis    RedisConfig    `toml:"redis"`
	Cache    CacheConfig    `toml:"cache"`
	Log      LogConfig      `toml:"log"`
	Metrics  MetricsConfig  `toml:"metrics"`
}

func (c *Config) SetDefault() {
	if c.Broker.Heartbeat.Duration == 0 {
		c.Broker.Heartbeat.Duration = 10 * time.Second
	}
	if c.Broker.DialTimeout.Duration == 0 {
		c.Broker.DialTimeout.Duration = 30 * time.Second
	}
	if c.Broker.Prefetch <= 0 {
		c.Broker.Prefetch = 1
	}
	if c.Listener.RequeueOnFailure == nil {
		requeue := true
		c.Listener.RequeueOnFailure = &requeue
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = "localhost:6379"
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = "memory"
	}
	if c.Cache.Prefix == "" {
		c.Cache.Prefix = "p2p"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.MaxSizeMB <= 0 {
		c.Log.MaxSizeMB = 100
	}
}
