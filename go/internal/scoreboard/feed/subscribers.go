package feed

import (
	"context"
	"sync"
)

// subscribers fans values out to subscription channels with latest-value semantics:
// each channel buffers one value, and a newer value replaces an unread one.
type subscribers[T any] struct {
	mu   sync.Mutex
	subs map[chan T]struct{}
}

func newSubscribers[T any]() *subscribers[T] {
	return &subscribers[T]{
		subs: make(map[chan T]struct{}),
	}
}

// add registers a subscription scoped to ctx. If initial is non-nil it is
// delivered first. The channel is closed once ctx is done.
func (s *subscribers[T]) add(ctx context.Context, initial func() (T, bool)) <-chan T {
	ch := make(chan T, 1)

	s.mu.Lock()
	if initial != nil {
		if v, ok := initial(); ok {
			ch <- v
		}
	}
	s.subs[ch] = struct{}{}
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.subs, ch)
		close(ch)
		s.mu.Unlock()
	}()

	return ch
}

// publish delivers v to every subscriber without blocking
func (s *subscribers[T]) publish(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for ch := range s.subs {
		select {
		case ch <- v:
			continue
		default:
		}
		// drop the stale value; only publish sends, and it holds the lock
		select {
		case <-ch:
		default:
		}
		ch <- v
	}
}

func (s *subscribers[T]) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}
