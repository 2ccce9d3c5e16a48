package feed

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Ticker is the display clock. It samples the clock once per interval and
// publishes the sampled time to subscribers.
type Ticker struct {
	clock    clockwork.Clock
	interval time.Duration

	mu  sync.RWMutex
	now time.Time

	subs *subscribers[time.Time]
}

// NewTicker creates a ticker reading clock every interval
func NewTicker(clock clockwork.Clock, interval time.Duration) *Ticker {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if interval <= 0 {
		interval = DefaultConfig().ClockInterval
	}
	return &Ticker{
		clock:    clock,
		interval: interval,
		now:      clock.Now(),
		subs:     newSubscribers[time.Time](),
	}
}

// Run publishes a tick every interval until ctx is done
func (t *Ticker) Run(ctx context.Context) {
	ticker := t.clock.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.Chan():
			t.mu.Lock()
			t.now = now
			t.mu.Unlock()
			t.subs.publish(now)
		}
	}
}

// Now returns the time of the latest tick
func (t *Ticker) Now() time.Time {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.now
}

// Subscribe returns a channel receiving each tick, starting with the current time.
// The channel is closed when ctx is done.
func (t *Ticker) Subscribe(ctx context.Context) <-chan time.Time {
	return t.subs.add(ctx, func() (time.Time, bool) {
		return t.Now(), true
	})
}

// Subscribers returns the number of active subscriptions
func (t *Ticker) Subscribers() int {
	return t.subs.count()
}
