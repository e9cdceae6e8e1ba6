package mq

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/xzhHas/contentflow/internal/event"
	"github.com/xzhHas/contentflow/internal/metrics"
	"github.com/xzhHas/contentflow/types"
	"go.uber.org/zap"
)

type ConsumerOptions struct {
	// Tag 为每个队列订阅的 consumer tag 前缀
	Tag string
	// Prefetch 为整个通道的 QoS；1 表示两个队列合计只有一条未确认消息
	Prefetch int
	// Requeue 被拒绝的消息是否重新入队
	Requeue bool
	Logger  *zap.Logger
	Metrics *metrics.Metrics
}

// Stats 消费循环进度快照
type Stats struct {
	Handled      uint64
	CurrentQueue string
}

// Consumer 在已声明的队列上运行阻塞消费循环
type Consumer struct {
	ch       Channel
	bindings []Binding
	handler  types.Handler
	opts     ConsumerOptions
	logger   *zap.Logger

	mu    sync.Mutex
	stats Stats
}

func NewConsumer(ch Channel, bindings []Binding, handler types.Handler, opts ConsumerOptions) *Consumer {
	if opts.Prefetch <= 0 {
		opts.Prefetch = 1
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Consumer{ch: ch, bindings: bindings, handler: handler, opts: opts, logger: logger}
}

func (c *Consumer) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// Run 订阅所有已绑定队列，逐条处理消息，直到 ctx 结束或某条消息处理失败。
// 不声明任何交换机或队列
func (c *Consumer) Run(ctx context.Context) error {
	if len(c.bindings) == 0 {
		return fmt.Errorf("%w: no queues to consume", types.ErrConfiguration)
	}
	if err := c.ch.Qos(c.opts.Prefetch, 0, true); err != nil {
		return fmt.Errorf("%w: qos: %v", types.ErrTopology, err)
	}

	cases := make([]reflect.SelectCase, 0, len(c.bindings)+1)
	cases = append(cases, reflect.SelectCase{Dir: reflect.SelectRecv, Chan: reflect.ValueOf(ctx.Done())})
	for _, b := range c.bindings {
		deliveries, err := c.ch.Consume(
			b.Queue,
			c.consumerTag(b),
			false, // autoAck
			false, // exclusive
			false, // noLocal
			false, // noWait
			nil,
		)
		if err != nil {
			return fmt.Errorf("%w: consume %s: %v", types.ErrTopology, b.Queue, err)
		}
		cases = append(cases, reflect.SelectCase{Dir: reflect.SelectRecv, Chan: reflect.ValueOf(deliveries)})
	}

	for {
		chosen, v, ok := reflect.Select(cases)
		if chosen == 0 {
			return ctx.Err()
		}
		b := c.bindings[chosen-1]
		if !ok {
			return fmt.Errorf("%w: delivery stream for %s ended", types.ErrConnectionClosed, b.Queue)
		}
		if err := c.handle(ctx, b, v.Interface().(amqp.Delivery)); err != nil {
			return err
		}
	}
}

// dispatch 调用处理器；处理器 panic 视为处理失败
func (c *Consumer) dispatch(ctx context.Context, n types.Notification) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return types.Dispatch(ctx, c.handler, n)
}

func (c *Consumer) consumerTag(b Binding) string {
	if c.opts.Tag == "" {
		return ""
	}
	return c.opts.Tag + "." + string(b.Kind)
}

func (c *Consumer) handle(ctx context.Context, b Binding, d amqp.Delivery) error {
	kind := string(b.Kind)
	c.mu.Lock()
	c.stats.CurrentQueue = b.Queue
	c.mu.Unlock()
	c.opts.Metrics.ObserveReceived(kind)

	n, err := event.Decode(d.Body)
	if err != nil {
		c.reject(b, d, "decode", err)
		return fmt.Errorf("%s: %w", b.Queue, err)
	}
	n.Kind = b.Kind
	c.logger.Debug("notification received",
		zap.String("queue", b.Queue),
		zap.String("kind", kind),
		zap.Stringer("action", n.Action),
		zap.Strings("keys", n.Keys()),
	)

	start := time.Now()
	err = c.dispatch(ctx, n)
	c.opts.Metrics.ObserveHandler(kind, start)
	if err != nil {
		c.reject(b, d, "handler", err)
		return types.HandlerError(err)
	}

	if err := d.Ack(false); err != nil {
		c.opts.Metrics.ObserveFailed(kind, "ack")
		return fmt.Errorf("%w: ack on %s: %v", types.ErrConnectionClosed, b.Queue, err)
	}
	c.opts.Metrics.ObserveAcked(kind)
	c.mu.Lock()
	c.stats.Handled++
	c.mu.Unlock()
	return nil
}

// reject 将失败的消息交还服务器，按 opts.Requeue 重新入队或丢弃
func (c *Consumer) reject(b Binding, d amqp.Delivery, reason string, cause error) {
	c.opts.Metrics.ObserveFailed(string(b.Kind), reason)
	c.logger.Error("notification failed",
		zap.String("queue", b.Queue),
		zap.String("reason", reason),
		zap.Bool("requeue", c.opts.Requeue),
		zap.Error(cause),
	)
	if err := d.Reject(c.opts.Requeue); err != nil {
		c.logger.Warn("reject failed", zap.String("queue", b.Queue), zap.Error(err))
	}
}
