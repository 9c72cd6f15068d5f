package store

import (
	"context"
	"sync"
)

// Memory is an in-process Adapter. Stores sharing one Memory see each
// other's writes through Watch.
type Memory struct {
	mu   sync.RWMutex
	data map[string]string
	subs map[chan struct{}]struct{}

	// FailGet and FailSet, when set, are returned by Get and Set.
	FailGet error
	FailSet error
}

// NewMemory returns an empty Memory adapter.
func NewMemory() *Memory {
	return &Memory{
		data: make(map[string]string),
		subs: make(map[chan struct{}]struct{}),
	}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.FailGet != nil {
		return "", false, m.FailGet
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSet != nil {
		return m.FailSet
	}
	m.data[key] = value
	for ch := range m.subs {
		select {
		case ch <- struct{}{}:
		default: // a signal is already pending
		}
	}
	return nil
}

// Watch signals after every Set until ctx is done.
func (m *Memory) Watch(ctx context.Context) (<-chan struct{}, error) {
	ch := make(chan struct{}, 1)
	m.mu.Lock()
	m.subs[ch] = struct{}{}
	m.mu.Unlock()

	go func() {
		<-ctx.Done()
		m.mu.Lock()
		delete(m.subs, ch)
		close(ch)
		m.mu.Unlock()
	}()
	return ch, nil
}
