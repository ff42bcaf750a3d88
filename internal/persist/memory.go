package persist

import (
	"context"
	"sync"
)

// Memory is a Storage kept in process memory. It backs tests and the
// "memory" backend.
type Memory struct {
	mu      sync.Mutex
	data    map[string][]byte
	writes  map[string]int
	saveErr error
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte), writes: make(map[string]int)}
}

func (m *Memory) Load(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), b...), nil
}

func (m *Memory) Save(_ context.Context, key string, blob []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.data[key] = append([]byte(nil), blob...)
	m.writes[key]++
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *Memory) Close() error { return nil }

// FailSaves makes every following Save return err; nil restores normal behavior.
func (m *Memory) FailSaves(err error) {
	m.mu.Lock()
	m.saveErr = err
	m.mu.Unlock()
}

// Writes reports how many successful saves key has received.
func (m *Memory) Writes(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes[key]
}

// Put seeds a raw blob, bypassing write accounting.
func (m *Memory) Put(key string, blob []byte) {
	m.mu.Lock()
	m.data[key] = append([]byte(nil), blob...)
	m.mu.Unlock()
}
