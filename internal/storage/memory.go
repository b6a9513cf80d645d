package storage

import "sync"

// MemoryKV is an in-memory KV used by tests and ephemeral runs.
type MemoryKV struct {
	mu   sync.Mutex
	docs map[string][]byte
}

func NewMemory() *MemoryKV {
	return &MemoryKV{docs: make(map[string][]byte)}
}

func (m *MemoryKV) Load(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.docs[key]
	if !ok {
		return nil, false
	}
	cp := make([]byte, len(v))
	copy(cp, v)
	return cp, true
}

func (m *MemoryKV) Save(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]byte, len(value))
	copy(cp, value)
	m.docs[key] = cp
	return nil
}
