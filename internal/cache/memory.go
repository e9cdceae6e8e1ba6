package cache

import (
	"context"
	"sync"

	"github.com/goccy/go-json"
	"github.com/xzhHas/contentflow/types"
)

func init() {
	Register("memory", func(Options) (Cache, error) { return NewMemory(), nil })
}

// Memory 进程内缓存，每个实例独占自己的 map 和计数器
type Memory struct {
	mu      sync.Mutex
	records map[types.EntityKind]map[string][]byte
	stats   map[types.EntityKind]Stats
}

func NewMemory() *Memory {
	return &Memory{
		records: map[types.EntityKind]map[string][]byte{},
		stats:   map[types.EntityKind]Stats{},
	}
}

// Get 返回存储记录的副本
func (m *Memory) Get(_ context.Context, kind types.EntityKind, key string) (map[string]any, bool, error) {
	m.mu.Lock()
	st := m.stats[kind]
	st.Gets++
	b, ok := m.records[kind][key]
	if ok {
		st.Hits++
	}
	m.stats[kind] = st
	m.mu.Unlock()
	if !ok {
		return nil, false, nil
	}
	var rec map[string]any
	if err := json.Unmarshal(b, &rec); err != nil {
		return nil, false, err
	}
	return rec, true, nil
}

func (m *Memory) Set(_ context.Context, kind types.EntityKind, key string, record map[string]any) error {
	b, err := json.Marshal(record)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.records[kind] == nil {
		m.records[kind] = map[string][]byte{}
	}
	m.records[kind][key] = b
	return nil
}

func (m *Memory) Delete(_ context.Context, kind types.EntityKind, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.records[kind], k)
	}
	return nil
}

func (m *Memory) Stats() map[types.EntityKind]Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[types.EntityKind]Stats, len(m.stats))
	for k, v := range m.stats {
		out[k] = v
	}
	return out
}
