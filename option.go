package contentflow

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/xzhHas/contentflow/internal/metrics"
	"github.com/xzhHas/contentflow/internal/mq"
	"go.uber.org/zap"
)

type Option func(*options)

type options struct {
	brokerURL      string
	settingsPath   string
	scope          string
	connectionName string
	heartbeat      time.Duration
	dialTimeout    time.Duration
	prefetch       int
	requeue        bool
	logger         *zap.Logger
	metrics        *metrics.Metrics
	dialer         mq.Dialer
	onState        func(State)
}

func defaultOptions() options {
	return options{
		heartbeat:   10 * time.Second,
		dialTimeout: 30 * time.Second,
		prefetch:    1,
		requeue:     true,
		logger:      zap.NewNop(),
		dialer:      mq.Dial,
	}
}

// WithBrokerURL 显式指定服务器地址，不再查找环境变量和配置文件
func WithBrokerURL(url string) Option {
	return func(o *options) { o.brokerURL = url }
}

// WithSettings 指定未给出地址时读取的 TOML 配置文件
func WithSettings(path string) Option {
	return func(o *options) { o.settingsPath = path }
}

// WithScope 将绑定限定到某个产品代码
func WithScope(scope string) Option {
	return func(o *options) { o.scope = scope }
}

// WithConfig 应用 cfg 的 broker 与 listener 配置，但不使用 Broker.URL；
// 地址依次取自 WithBrokerURL、$P2P_AMQP_URL、配置文件
func WithConfig(cfg Config) Option {
	return func(o *options) {
		cfg.SetDefault()
		if cfg.Listener.Scope != "" {
			o.scope = cfg.Listener.Scope
		}
		if cfg.Broker.ConnectionName != "" {
			o.connectionName = cfg.Broker.ConnectionName
		}
		o.heartbeat = cfg.Broker.Heartbeat.Duration
		o.dialTimeout = cfg.Broker.DialTimeout.Duration
		o.prefetch = cfg.Broker.Prefetch
		o.requeue = *cfg.Listener.RequeueOnFailure
	}
}

func WithPrefetch(n int) Option {
	return func(o *options) { o.prefetch = n }
}

// WithRequeue 会话中止时，解码或处理失败的消息重新入队（true）还是丢弃（false）
func WithRequeue(requeue bool) Option {
	return func(o *options) { o.requeue = requeue }
}

func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics 在 reg 上注册消费循环指标；多个会话可共用同一个 reg
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *options) { o.metrics = metrics.New(reg) }
}

func WithDialer(d Dialer) Option {
	return func(o *options) { o.dialer = d }
}

// WithStateHook 每次会话状态变化时调用 fn
func WithStateHook(fn func(State)) Option {
	return func(o *options) { o.onState = fn }
}
