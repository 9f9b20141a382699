package cache

import "sync"

// memo 是进程内的读穿缓存：键 → 已解码信封。没有容量上限，也不会自动淘汰，
// 只在 Delete、列举或 Reset 时移除。
type memo struct {
	mu      sync.RWMutex
	entries map[string]Envelope
}

func newMemo() *memo {
	return &memo{entries: make(map[string]Envelope)}
}

func (m *memo) lookup(key string) (Envelope, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	env, ok := m.entries[key]
	return env, ok
}

func (m *memo) store(key string, env Envelope) {
	m.mu.Lock()
	m.entries[key] = env
	m.mu.Unlock()
}

func (m *memo) remove(key string) {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
}

func (m *memo) clear() {
	m.mu.Lock()
	m.entries = make(map[string]Envelope)
	m.mu.Unlock()
}

func (m *memo) len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
