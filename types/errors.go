package types

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration 无法解析到消息服务器地址等配置问题；在连接之前返回
	ErrConfiguration = errors.New("contentflow: configuration error")
	// ErrTopology 队列声明/绑定或交换机被动引用被服务器拒绝
	ErrTopology = errors.New("contentflow: topology error")
	// ErrDecode 消息体不是合法的通知
	ErrDecode = errors.New("contentflow: decode error")
	// ErrHandler 调用方处理器返回错误
	ErrHandler = errors.New("contentflow: handler error")
	// ErrConnectionClosed 服务器关闭了连接或通道，会话结束
	ErrConnectionClosed = errors.New("contentflow: connection closed")
)

// HandlerError 包装处理器返回的错误，errors.Is 同时匹配 ErrHandler 和原始错误
func HandlerError(err error) error {
	return fmt.Errorf("%w: %w", ErrHandler, err)
}
