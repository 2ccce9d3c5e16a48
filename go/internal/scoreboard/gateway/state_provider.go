package gateway

import (
	"time"

	"github.com/mcdev12/scorecast/go/internal/scoreboard/feed"
)

// StateProvider supplies the current match snapshot and clock value
type StateProvider interface {
	MatchSnapshot() *feed.Snapshot
	ClockTime() time.Time
}

// FeedStateProvider implements StateProvider over a running feed and ticker
type FeedStateProvider struct {
	feed   *feed.Feed
	ticker *feed.Ticker
}

// NewFeedStateProvider creates a new feed state provider
func NewFeedStateProvider(f *feed.Feed, t *feed.Ticker) *FeedStateProvider {
	return &FeedStateProvider{
		feed:   f,
		ticker: t,
	}
}

// MatchSnapshot returns the feed's latest snapshot, or nil before the first load
func (p *FeedStateProvider) MatchSnapshot() *feed.Snapshot {
	return p.feed.Current()
}

// ClockTime returns the ticker's latest tick
func (p *FeedStateProvider) ClockTime() time.Time {
	return p.ticker.Now()
}
