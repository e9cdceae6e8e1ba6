package mq

import (
	"fmt"

	"github.com/xzhHas/contentflow/types"
	"go.uber.org/zap"
)

// Binding 一个已声明的监听队列
type Binding struct {
	Queue      string
	Exchange   string
	RoutingKey string
	Kind       types.EntityKind
	AutoDelete bool
}

// Declare 被动引用共享交换机，再为每种实体类型声明并绑定一个自动删除队列。
// 服务器的任何拒绝都返回 ErrTopology
func Declare(ch Channel, listener, scope string, logger *zap.Logger) ([]Binding, error) {
	if listener == "" {
		return nil, fmt.Errorf("%w: listener name is required", types.ErrConfiguration)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	bindings := make([]Binding, 0, len(types.EntityKinds))
	for _, kind := range types.EntityKinds {
		key, err := BindingKey(kind, scope)
		if err != nil {
			return nil, err
		}
		bindings = append(bindings, Binding{
			Queue:      QueueName(listener, kind),
			Exchange:   Exchange,
			RoutingKey: key,
			Kind:       kind,
			AutoDelete: true,
		})
	}

	if err := ch.ExchangeDeclarePassive(
		Exchange,
		ExchangeType,
		true,  // durable
		false, // autoDelete
		false, // internal
		false, // noWait
		nil,
	); err != nil {
		return nil, fmt.Errorf("%w: exchange %s: %v", types.ErrTopology, Exchange, err)
	}

	for _, b := range bindings {
		if _, err := ch.QueueDeclare(
			b.Queue,
			false, // durable
			b.AutoDelete,
			false, // exclusive
			false, // noWait
			nil,
		); err != nil {
			return nil, fmt.Errorf("%w: declare queue %s: %v", types.ErrTopology, b.Queue, err)
		}
		if err := ch.QueueBind(b.Queue, b.RoutingKey, b.Exchange, false, nil); err != nil {
			return nil, fmt.Errorf("%w: bind queue %s to %s: %v", types.ErrTopology, b.Queue, b.RoutingKey, err)
		}
		logger.Info("queue bound",
			zap.String("queue", b.Queue),
			zap.String("exchange", b.Exchange),
			zap.String("routing_key", b.RoutingKey),
		)
	}
	return bindings, nil
}
