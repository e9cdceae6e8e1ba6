package mq

import (
	"context"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Exchange 内容平台发布更新的主题交换机，归发布方所有，本包只做被动引用
const (
	Exchange     = "updated_content"
	ExchangeType = "topic"
)

// Channel 监听器用到的 *amqp.Channel 子集；不含 ExchangeDeclare
type Channel interface {
	ExchangeDeclarePassive(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error
	Qos(prefetchCount, prefetchSize int, global bool) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type Connection interface {
	Channel() (Channel, error)
	Close() error
}

// Dialer 建立服务器连接
type Dialer func(url string, opts DialOptions) (Connection, error)

type DialOptions struct {
	ConnectionName string
	Heartbeat      time.Duration
	Timeout        time.Duration
}

type connection struct {
	conn *amqp.Connection
}

func (c *connection) Channel() (Channel, error) {
	ch, err := c.conn.Channel()
	if err != nil {
		return nil, err
	}
	return ch, nil
}

func (c *connection) Close() error {
	return c.conn.Close()
}

// Dial 默认 Dialer，基于 amqp091
func Dial(url string, opts DialOptions) (Connection, error) {
	cfg := amqp.Config{
		Heartbeat: opts.Heartbeat,
		Properties: amqp.Table{
			"connection_name": opts.ConnectionName,
		},
	}
	if opts.Timeout > 0 {
		cfg.Dial = amqp.DefaultDial(opts.Timeout)
	}
	conn, err := amqp.DialConfig(url, cfg)
	if err != nil {
		return nil, err
	}
	return &connection{conn: conn}, nil
}
