package store

import (
	"context"
	"sync"
)

// MemoryMedium is an in-process Medium. Values are copied on the way in and
// out so callers cannot mutate stored state.
type MemoryMedium struct {
	mu     sync.RWMutex
	values map[string][]byte
	opts   Options
	closed bool
}

// NewMemoryMedium returns an empty in-memory medium.
func NewMemoryMedium(opts Options) *MemoryMedium {
	return &MemoryMedium{
		values: make(map[string][]byte),
		opts:   opts,
	}
}

func (m *MemoryMedium) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, false, ErrClosed
	}
	v, ok := m.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *MemoryMedium) Set(ctx context.Context, key string, value []byte) error {
	if err := checkQuota(m.opts, key, value); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	m.values[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryMedium) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	delete(m.values, key)
	return nil
}

func (m *MemoryMedium) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
