package mq

import (
	"fmt"

	"github.com/xzhHas/contentflow/types"
)

// BindingKey 返回监听器绑定的主题模式，如
// "update.content_item.#" 或 "update.collection.trb.#"
func BindingKey(kind types.EntityKind, scope string) (string, error) {
	if !kind.Valid() {
		return "", fmt.Errorf("%w: unknown entity kind %q", types.ErrConfiguration, kind)
	}
	if scope != "" {
		return fmt.Sprintf("update.%s.%s.#", kind, scope), nil
	}
	return fmt.Sprintf("update.%s.#", kind), nil
}

// PublishKey 返回发布通知时的具体路由键，
// 能被 BindingKey(kind, scope) 及不带 scope 的绑定匹配
func PublishKey(kind types.EntityKind, scope string) (string, error) {
	if !kind.Valid() {
		return "", fmt.Errorf("%w: unknown entity kind %q", types.ErrConfiguration, kind)
	}
	if scope != "" {
		return fmt.Sprintf("update.%s.%s", kind, scope), nil
	}
	return fmt.Sprintf("update.%s", kind), nil
}

func QueueName(listener string, kind types.EntityKind) string {
	return listener + "_" + kind.Plural()
}
