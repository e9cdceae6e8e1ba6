package event

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/xzhHas/contentflow/types"
)

// Decode 将消息体解析为 Notification；Kind 留空，由消费者按投递队列填写。
// 消息体必须恰好是一个 JSON 对象，其后只允许空白
func Decode(body []byte) (types.Notification, error) {
	if !json.Valid(body) {
		return types.Notification{}, fmt.Errorf("%w: malformed JSON or trailing data", types.ErrDecode)
	}
	var payload map[string]any
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil {
		return types.Notification{}, fmt.Errorf("%w: %v", types.ErrDecode, err)
	}
	if payload == nil {
		return types.Notification{}, fmt.Errorf("%w: body is not a JSON object", types.ErrDecode)
	}

	n := types.Notification{Payload: payload}
	switch v := payload["action"]; v {
	case string(types.Update):
		n.Action = types.Update
	case string(types.Delete):
		n.Action = types.Delete
	default:
		return types.Notification{}, fmt.Errorf("%w: unknown action %v", types.ErrDecode, v)
	}

	if raw, ok := payload["id"]; ok && raw != nil {
		id, err := toInt(raw)
		if err != nil {
			return types.Notification{}, fmt.Errorf("%w: id: %v", types.ErrDecode, err)
		}
		n.ID = &id
	}
	if raw, ok := payload["slug"]; ok && raw != nil {
		s, ok := raw.(string)
		if !ok {
			return types.Notification{}, fmt.Errorf("%w: slug must be a string, got %T", types.ErrDecode, raw)
		}
		n.Slug = s
	}
	if n.ID == nil && n.Slug == "" {
		return types.Notification{}, fmt.Errorf("%w: payload has neither id nor slug", types.ErrDecode)
	}
	return n, nil
}

func toInt(v any) (int64, error) {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i, nil
		}
		f, err := t.Float64()
		if err != nil {
			return 0, err
		}
		return floatToInt(f)
	case string:
		return strconv.ParseInt(strings.TrimSpace(t), 10, 64)
	case float64:
		return floatToInt(t)
	}
	return 0, fmt.Errorf("unsupported type %T", v)
}

// floatToInt 的上界为开区间：float64(math.MaxInt64) 即 2^63，已超出 int64
func floatToInt(f float64) (int64, error) {
	if f != math.Trunc(f) || f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, fmt.Errorf("%v is not an integer", f)
	}
	return int64(f), nil
}
