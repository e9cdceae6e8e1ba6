package contentflow

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/google/uuid"
	"github.com/xzhHas/contentflow/internal/config"
	"github.com/xzhHas/contentflow/internal/mq"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// State 会话状态；Interrupted/Failed 之后只能进入 Disconnected
type State int

const (
	Created State = iota
	Connected
	TopologyDeclared
	Consuming
	Interrupted
	Failed
	Disconnected
)

var stateNames = [...]string{"created", "connected", "topology_declared", "consuming", "interrupted", "failed", "disconnected"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", int(s))
}

var ErrSessionUsed = errors.New("contentflow: session already ran")

// Session 持有一个连接、一组队列绑定和一个处理器，只能运行一次
type Session struct {
	name    string
	handler Handler
	url     string
	opts    options
	logger  *zap.Logger

	mu       sync.Mutex
	state    State
	ran      bool
	bindings []Binding
	consumer *mq.Consumer
}

// NewSession 解析服务器地址并准备会话；找不到地址时在任何网络操作之前返回 ErrConfiguration
func NewSession(name string, h Handler, opts ...Option) (*Session, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: listener name is required", ErrConfiguration)
	}
	if h == nil {
		return nil, fmt.Errorf("%w: handler is required", ErrConfiguration)
	}
	url, err := config.ResolveBrokerURL(o.brokerURL, o.settingsPath)
	if err != nil {
		return nil, err
	}
	if o.connectionName == "" {
		o.connectionName = "contentflow:" + name
	}
	return &Session{
		name:    name,
		handler: h,
		url:     url,
		opts:    o,
		logger:  o.logger.With(zap.String("listener", name)),
	}, nil
}

// Listen 运行会话直到 ctx 取消或发生致命错误；取消属于正常关闭，返回 nil
func Listen(ctx context.Context, name string, h Handler, opts ...Option) error {
	s, err := NewSession(name, h, opts...)
	if err != nil {
		return err
	}
	return s.Run(ctx)
}

// StartListening 在收到 SIGINT/SIGTERM 时停止的 Listen
func StartListening(name string, h Handler, opts ...Option) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return Listen(ctx, name, h, opts...)
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Bindings() []Binding {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Binding(nil), s.bindings...)
}

func (s *Session) Stats() Stats {
	s.mu.Lock()
	c := s.consumer
	s.mu.Unlock()
	if c == nil {
		return Stats{}
	}
	return c.Stats()
}

func (s *Session) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
	s.logger.Info("session state", zap.Stringer("state", st))
	if s.opts.onState != nil {
		s.opts.onState(st)
	}
}

// Run 连接服务器、声明队列并阻塞在消费循环中。
// 拨号成功后，无论正常返回、出错、中断还是 panic，连接都只释放一次
func (s *Session) Run(ctx context.Context) (err error) {
	s.mu.Lock()
	if s.ran {
		s.mu.Unlock()
		return ErrSessionUsed
	}
	s.ran = true
	s.mu.Unlock()

	conn, err := s.opts.dialer(s.url, mq.DialOptions{
		ConnectionName: s.opts.connectionName,
		Heartbeat:      s.opts.heartbeat,
		Timeout:        s.opts.dialTimeout,
	})
	if err != nil {
		s.setState(Failed)
		s.setState(Disconnected)
		return fmt.Errorf("contentflow: dial broker: %w", err)
	}
	s.setState(Connected)

	var ch mq.Channel
	defer func() {
		if p := recover(); p != nil {
			s.setState(Failed)
			s.release(ch, conn)
			s.setState(Disconnected)
			panic(p)
		}
		interrupted := err != nil && ctx.Err() != nil && errors.Is(err, ctx.Err())
		if interrupted {
			s.setState(Interrupted)
		} else if err != nil {
			s.setState(Failed)
		}
		s.release(ch, conn)
		s.setState(Disconnected)
		if interrupted {
			err = nil
			return
		}
		if err != nil {
			s.logger.Error("session aborted", zap.Error(err))
		}
	}()

	ch, err = conn.Channel()
	if err != nil {
		ch = nil
		return fmt.Errorf("%w: open channel: %v", ErrTopology, err)
	}
	bindings, err := mq.Declare(ch, s.name, s.opts.scope, s.logger)
	if err != nil {
		return err
	}
	consumer := mq.NewConsumer(ch, bindings, s.handler, mq.ConsumerOptions{
		Tag:      s.name + "-" + uuid.NewString(),
		Prefetch: s.opts.prefetch,
		Requeue:  s.opts.requeue,
		Logger:   s.logger,
		Metrics:  s.opts.metrics,
	})
	s.mu.Lock()
	s.bindings = bindings
	s.consumer = consumer
	s.mu.Unlock()
	s.setState(TopologyDeclared)

	s.setState(Consuming)
	return consumer.Run(ctx)
}

func (s *Session) release(ch mq.Channel, conn mq.Connection) {
	if err := release(ch, conn); err != nil {
		s.logger.Warn("release connection", zap.Error(err))
	}
}

func release(ch mq.Channel, conn mq.Connection) error {
	var err error
	if ch != nil {
		err = multierr.Append(err, ch.Close())
	}
	return multierr.Append(err, conn.Close())
}
