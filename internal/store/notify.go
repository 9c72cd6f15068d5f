package store

import (
	"context"
	"sync"
)

// EventKind classifies an Event.
type EventKind int

const (
	EventLoaded   EventKind = iota // Initialize finished
	EventReloaded                  // Reload finished
	EventMutated                   // a mutation was applied in this Store
)

// Event is published to subscribers after the in-memory state changed.
type Event struct {
	Kind EventKind
	Op   string
	ID   string
}

type hub struct {
	mu   sync.Mutex
	next int
	subs map[int]chan Event
}

func (h *hub) subscribe() (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs == nil {
		h.subs = make(map[int]chan Event)
	}
	id := h.next
	h.next++
	ch := make(chan Event, 16)
	h.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			close(ch)
			h.mu.Unlock()
		})
	}
}

// publish never blocks; a subscriber that fell behind misses events.
func (h *hub) publish(e Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

// Subscribe returns a channel of state-change events and a func that
// unsubscribes and closes it.
func (s *Store) Subscribe() (<-chan Event, func()) {
	return s.hub.subscribe()
}

// Follow reloads the Store whenever a Watchable adapter reports a write,
// until ctx is done. It reports false when the adapter cannot be watched.
func (s *Store) Follow(ctx context.Context) (bool, error) {
	w, ok := s.adapter.(Watchable)
	if !ok {
		return false, nil
	}
	changes, err := w.Watch(ctx)
	if err != nil {
		return false, err
	}
	go func() {
		for range changes {
			if err := s.Reload(ctx); err != nil {
				s.log.WithError(err).Warn("reload after external change")
			}
		}
	}()
	return true, nil
}
