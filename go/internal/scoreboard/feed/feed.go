package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/scorecast/go/internal/models"
	"github.com/mcdev12/scorecast/go/internal/scoreboard/source"
)

// Origin says where a snapshot's document came from
type Origin string

const (
	// OriginStore means the document was read from the source
	OriginStore Origin = "store"
	// OriginDemo means the source had no entry (or nothing valid yet) and the demo document is shown
	OriginDemo Origin = "demo"
)

// Snapshot is one loaded version of the match document. Snapshots are immutable once published.
type Snapshot struct {
	Match    *models.MatchState `json:"match"`
	Origin   Origin             `json:"origin"`
	Revision uint64             `json:"revision"`
	LoadedAt time.Time          `json:"loaded_at"`
}

// Config holds loader and clock timing
type Config struct {
	PollInterval  time.Duration `yaml:"poll_interval" split_words:"true"`
	ClockInterval time.Duration `yaml:"clock_interval" split_words:"true"`
}

// DefaultConfig returns the display's standard timing: a 2s poll and a 1s clock
func DefaultConfig() Config {
	return Config{
		PollInterval:  2 * time.Second,
		ClockInterval: time.Second,
	}
}

// Stats reports loader activity
type Stats struct {
	Loads         uint64    `json:"loads"`
	Updates       uint64    `json:"updates"`
	ParseFailures uint64    `json:"parse_failures"`
	ReadFailures  uint64    `json:"read_failures"`
	LastLoadAt    time.Time `json:"last_load_at"`
	LastError     string    `json:"last_error,omitempty"`
	Subscribers   int       `json:"subscribers"`
}

// Option configures a Feed
type Option func(*Feed)

// WithClock sets the clock driving the poll ticker
func WithClock(clock clockwork.Clock) Option {
	return func(f *Feed) {
		f.clock = clock
	}
}

// Feed is the match-state loader. It polls the source on a fixed interval and
// on change signals, and publishes a new Snapshot whenever the stored document changes.
type Feed struct {
	source   source.Source
	clock    clockwork.Clock
	interval time.Duration

	loadMu sync.Mutex // serializes load cycles

	mu       sync.RWMutex
	current  *Snapshot
	raw      []byte
	lastBad  []byte
	revision uint64
	stats    Stats

	subs *subscribers[*Snapshot]
}

// New creates a feed over src
func New(src source.Source, cfg Config, opts ...Option) *Feed {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultConfig().PollInterval
	}

	f := &Feed{
		source:   src,
		clock:    clockwork.NewRealClock(),
		interval: cfg.PollInterval,
		subs:     newSubscribers[*Snapshot](),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Run loads immediately and then on every poll tick or change signal until ctx is done.
// Load failures are logged and never stop the loop.
func (f *Feed) Run(ctx context.Context) error {
	ticker := f.clock.NewTicker(f.interval)
	defer ticker.Stop()

	var changes <-chan struct{}
	if n, ok := f.source.(source.Notifier); ok {
		ch, err := n.Changes(ctx)
		if err != nil {
			log.Warn().
				Err(err).
				Str("source", f.source.Name()).
				Msg("change notifications unavailable, polling only")
		} else {
			changes = ch
		}
	}

	log.Info().
		Str("source", f.source.Name()).
		Dur("poll_interval", f.interval).
		Bool("notifications", changes != nil).
		Msg("match feed started")

	_ = f.Reload(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("source", f.source.Name()).Msg("match feed stopped")
			return nil
		case <-ticker.Chan():
			_ = f.Reload(ctx)
		case _, ok := <-changes:
			if !ok {
				changes = nil
				continue
			}
			_ = f.Reload(ctx)
		}
	}
}

// Reload performs one load cycle. An absent entry yields the demo document.
// A malformed entry or a read failure keeps the previous snapshot and returns the error;
// if nothing was loaded yet the demo document is published in its place.
func (f *Feed) Reload(ctx context.Context) error {
	f.loadMu.Lock()
	defer f.loadMu.Unlock()

	data, err := f.source.Read(ctx)
	origin := OriginStore
	switch {
	case errors.Is(err, source.ErrNotFound):
		origin = OriginDemo
		data = nil
	case err != nil:
		f.fail(&f.stats.ReadFailures, err)
		log.Error().
			Err(err).
			Str("source", f.source.Name()).
			Msg("failed to read match state, keeping previous")
		f.ensureFallback()
		return fmt.Errorf("read %s: %w", f.source.Name(), err)
	}

	f.mu.Lock()
	f.stats.Loads++
	f.stats.LastLoadAt = f.clock.Now()
	if f.current != nil && f.current.Origin == origin && bytes.Equal(f.raw, data) {
		f.stats.LastError = ""
		f.lastBad = nil
		f.mu.Unlock()
		return nil
	}
	f.mu.Unlock()

	match := models.DemoMatch()
	if origin == OriginStore {
		match, err = models.DecodeMatchState(data)
		if err != nil {
			f.rejectMalformed(data, err)
			f.ensureFallback()
			return err
		}
	}

	f.accept(match, origin, data)
	return nil
}

// Current returns the latest snapshot, or nil before the first load
func (f *Feed) Current() *Snapshot {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.current
}

// Subscribe returns a channel receiving each new snapshot, starting with the current one.
// The channel holds only the newest unread snapshot and is closed when ctx is done.
func (f *Feed) Subscribe(ctx context.Context) <-chan *Snapshot {
	return f.subs.add(ctx, func() (*Snapshot, bool) {
		current := f.Current()
		return current, current != nil
	})
}

// Stats returns a copy of the loader counters
func (f *Feed) Stats() Stats {
	f.mu.RLock()
	stats := f.stats
	f.mu.RUnlock()
	stats.Subscribers = f.subs.count()
	return stats
}

// Source returns the feed's source
func (f *Feed) Source() source.Source {
	return f.source
}

func (f *Feed) accept(match *models.MatchState, origin Origin, raw []byte) {
	f.mu.Lock()
	previous := f.current
	f.revision++
	snap := &Snapshot{
		Match:    match,
		Origin:   origin,
		Revision: f.revision,
		LoadedAt: f.clock.Now(),
	}
	f.current = snap
	f.raw = raw
	f.lastBad = nil
	f.stats.Updates++
	f.stats.LastError = ""
	f.mu.Unlock()

	log.Info().
		Str("source", f.source.Name()).
		Str("origin", string(origin)).
		Uint64("revision", snap.Revision).
		Str("title", match.MatchTitle).
		Msg("match state updated")

	if match.StrikeConflict() {
		log.Warn().
			Str("source", f.source.Name()).
			Uint64("revision", snap.Revision).
			Int("on_strike", match.OnStrikeCount()).
			Msg("more than one batsman flagged on strike, displaying as received")
	}

	if e := log.Debug(); e.Enabled() && previous != nil {
		e.Str("diff", matchDiff(previous.Match, match)).
			Uint64("revision", snap.Revision).
			Msg("match state diff")
	}

	f.subs.publish(snap)
}

func (f *Feed) rejectMalformed(data []byte, err error) {
	f.fail(&f.stats.ParseFailures, err)

	f.mu.Lock()
	repeated := bytes.Equal(f.lastBad, data)
	f.lastBad = data
	f.mu.Unlock()

	// the same bad value is seen every poll until the writer fixes it
	e := log.Warn()
	if repeated {
		e = log.Debug()
	}
	e.Err(err).
		Str("source", f.source.Name()).
		Int("bytes", len(data)).
		Msg("stored match state is malformed, keeping previous")
}

// ensureFallback publishes the demo document if nothing has been shown yet
func (f *Feed) ensureFallback() {
	f.mu.RLock()
	empty := f.current == nil
	f.mu.RUnlock()
	if empty {
		f.accept(models.DemoMatch(), OriginDemo, nil)
	}
}

func (f *Feed) fail(counter *uint64, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	*counter++
	f.stats.LastLoadAt = f.clock.Now()
	f.stats.LastError = err.Error()
}

// matchDiff renders a unified diff between two documents' indented JSON
func matchDiff(a, b *models.MatchState) string {
	before, _ := json.MarshalIndent(a, "", "  ")
	after, _ := json.MarshalIndent(b, "", "  ")

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(before)),
		B:        difflib.SplitLines(string(after)),
		FromFile: "previous",
		ToFile:   "current",
		Context:  1,
	})
	if err != nil {
		return err.Error()
	}
	return diff
}
