package store

import (
	"context"
	"sort"
	"sync"
)

// Memory is a Persistence that keeps slots in process memory. It backs tests
// and throwaway sessions.
type Memory struct {
	mu       sync.Mutex
	slots    map[string][]byte
	watchers []chan Event
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{slots: make(map[string][]byte)}
}

func (m *Memory) Read(slot string) ([]byte, error) {
	if err := checkSlot(slot); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.slots[slot]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (m *Memory) Write(slot string, data []byte) error {
	if err := checkSlot(slot); err != nil {
		return err
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	m.mu.Lock()
	m.slots[slot] = cp
	m.notify(Event{Type: EventSlotChanged, Slot: slot})
	m.mu.Unlock()
	return nil
}

func (m *Memory) Erase(slot string) error {
	if err := checkSlot(slot); err != nil {
		return err
	}
	m.mu.Lock()
	if _, ok := m.slots[slot]; ok {
		delete(m.slots, slot)
		m.notify(Event{Type: EventSlotChanged, Slot: slot})
	}
	m.mu.Unlock()
	return nil
}

func (m *Memory) Slots(_ context.Context) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.slots))
	for k := range m.slots {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (m *Memory) Watch(ctx context.Context) (<-chan Event, error) {
	ch := make(chan Event, 64)
	m.mu.Lock()
	m.watchers = append(m.watchers, ch)
	m.mu.Unlock()

	go func() {
		<-ctx.Done()
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, w := range m.watchers {
			if w == ch {
				m.watchers = append(m.watchers[:i], m.watchers[i+1:]...)
				break
			}
		}
		close(ch)
	}()
	return ch, nil
}

// notify must be called with m.mu held.
func (m *Memory) notify(ev Event) {
	for _, w := range m.watchers {
		select {
		case w <- ev:
		default:
		}
	}
}
