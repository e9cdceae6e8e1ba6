package mq

import (
	"context"
	"fmt"
	"maps"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/xzhHas/contentflow/types"
)

// Publisher 向共享交换机发送通知，用于联调监听器；同样不声明交换机
type Publisher struct {
	ch    Channel
	scope string
}

func NewPublisher(ch Channel, scope string) *Publisher {
	return &Publisher{ch: ch, scope: scope}
}

func (p *Publisher) Publish(ctx context.Context, n types.Notification) error {
	key, err := PublishKey(n.Kind, p.scope)
	if err != nil {
		return err
	}
	if n.ID == nil && n.Slug == "" {
		return fmt.Errorf("%w: notification has neither id nor slug", types.ErrDecode)
	}
	body := make(map[string]any, len(n.Payload)+3)
	maps.Copy(body, n.Payload)
	body["action"] = string(n.Action)
	if n.ID != nil {
		body["id"] = *n.ID
	}
	if n.Slug != "" {
		body["slug"] = n.Slug
	}
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	return p.ch.PublishWithContext(ctx, Exchange, key, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        b,
	})
}
