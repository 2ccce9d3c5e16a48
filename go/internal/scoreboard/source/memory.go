package source

import (
	"context"
	"sync"
)

// MemorySource is an in-process store entry. It stands in for the admin panel's
// store in tests and fixtures.
type MemorySource struct {
	key string

	mu      sync.RWMutex
	value   []byte
	present bool
	changes []chan struct{}
}

// NewMemorySource creates an empty in-memory entry
func NewMemorySource(key string) *MemorySource {
	return &MemorySource{key: key}
}

// Set stores a value, replacing the previous one
func (s *MemorySource) Set(value []byte) {
	s.mu.Lock()
	s.value = append([]byte(nil), value...)
	s.present = true
	s.mu.Unlock()
	s.notify()
}

// Delete removes the entry
func (s *MemorySource) Delete() {
	s.mu.Lock()
	s.value = nil
	s.present = false
	s.mu.Unlock()
	s.notify()
}

// Read implements Source
func (s *MemorySource) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.present {
		return nil, ErrNotFound
	}
	return append([]byte(nil), s.value...), nil
}

// Name implements Source
func (s *MemorySource) Name() string {
	return "memory:" + s.key
}

// Changes implements Notifier. Signals are coalesced; a slow reader sees one pending signal.
func (s *MemorySource) Changes(ctx context.Context) (<-chan struct{}, error) {
	ch := make(chan struct{}, 1)

	s.mu.Lock()
	s.changes = append(s.changes, ch)
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, c := range s.changes {
			if c == ch {
				s.changes = append(s.changes[:i], s.changes[i+1:]...)
				break
			}
		}
		close(ch)
	}()

	return ch, nil
}

func (s *MemorySource) notify() {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ch := range s.changes {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
