// Package contentflow 订阅内容平台的 updated_content 主题交换机，
// 在内容条目（content item）或集合（collection）变更/删除时调用处理器。
//
// 交换机由发布方所有，这里只被动引用，只声明并绑定自己的两个自动删除队列：
//
//	<name>_content_items  <- update.content_item[.<scope>].#
//	<name>_collections    <- update.collection[.<scope>].#
//
// 每个会话只运行一次；断线后的重启由外部进程管理负责。
package contentflow

import (
	"github.com/xzhHas/contentflow/internal/cache"
	"github.com/xzhHas/contentflow/internal/mq"
	"github.com/xzhHas/contentflow/types"
)

type Config = types.Config
type Notification = types.Notification
type Handler = types.Handler
type HandlerFunc = types.HandlerFunc
type Action = types.Action
type EntityKind = types.EntityKind

type Binding = mq.Binding
type Stats = mq.Stats
type Dialer = mq.Dialer
type DialOptions = mq.DialOptions
type Connection = mq.Connection
type Channel = mq.Channel

type Cache = cache.Cache

const (
	Update = types.Update
	Delete = types.Delete

	ContentItem = types.ContentItem
	Collection  = types.Collection

	// Exchange 为只读引用的主题交换机名
	Exchange = mq.Exchange
)

var (
	ErrConfiguration    = types.ErrConfiguration
	ErrTopology         = types.ErrTopology
	ErrDecode           = types.ErrDecode
	ErrHandler          = types.ErrHandler
	ErrConnectionClosed = types.ErrConnectionClosed
)

// BindingKey 返回监听器绑定使用的路由键模式
func BindingKey(kind EntityKind, scope string) (string, error) {
	return mq.BindingKey(kind, scope)
}
