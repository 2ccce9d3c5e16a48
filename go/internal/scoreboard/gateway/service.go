package gateway

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/scorecast/go/internal/scoreboard/feed"
	"github.com/mcdev12/scorecast/go/internal/scoreboard/view"
)

// Service is the scoreboard gateway. It pushes match updates and clock ticks to
// connected displays and serves the page, state and RPC routes.
type Service struct {
	feed     *feed.Feed
	ticker   *feed.Ticker
	renderer *view.Renderer
	clock    clockwork.Clock
	config   Config

	connectionManager *ConnectionManager
	wsHandler         *WebSocketHandler
	stateHandler      *StateHandler
	rpcHandler        *RPCHandler
	scheduler         gocron.Scheduler
}

// Config holds configuration for the gateway service
type Config struct {
	ConnectionConfig ConnectionConfig `yaml:"websocket" envconfig:"WS"`
	StatsInterval    time.Duration    `yaml:"stats_interval" split_words:"true"`
}

// DefaultConfig returns default configuration for the gateway
func DefaultConfig() Config {
	return Config{
		ConnectionConfig: DefaultConnectionConfig(),
		StatsInterval:    time.Minute,
	}
}

// Option configures a Service
type Option func(*Service)

// WithClock sets the clock used for event timestamps and the stats job
func WithClock(clock clockwork.Clock) Option {
	return func(s *Service) {
		s.clock = clock
	}
}

// NewService creates a new gateway service
func NewService(config Config, f *feed.Feed, t *feed.Ticker, renderer *view.Renderer, opts ...Option) (*Service, error) {
	if config.StatsInterval <= 0 {
		config.StatsInterval = DefaultConfig().StatsInterval
	}

	s := &Service{
		feed:     f,
		ticker:   t,
		renderer: renderer,
		clock:    clockwork.NewRealClock(),
		config:   config,
	}
	for _, opt := range opts {
		opt(s)
	}

	provider := NewFeedStateProvider(f, t)
	s.connectionManager = NewConnectionManager(config.ConnectionConfig)
	s.wsHandler = NewWebSocketHandler(s.connectionManager, s.syncConnection)
	s.stateHandler = NewStateHandler(provider, renderer)
	s.rpcHandler = NewRPCHandler(provider)

	scheduler, err := gocron.NewScheduler(
		gocron.WithClock(s.clock),
		gocron.WithLocation(renderer.Location()),
		gocron.WithStopTimeout(5*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}
	s.scheduler = scheduler

	return s, nil
}

// Start runs the gateway until ctx is done
func (s *Service) Start(ctx context.Context) error {
	log.Info().Msg("starting scoreboard gateway service")

	if _, err := s.scheduler.NewJob(
		gocron.DurationJob(s.config.StatsInterval),
		gocron.NewTask(s.reportStats),
		gocron.WithName("stats-report"),
	); err != nil {
		return fmt.Errorf("failed to create stats job: %w", err)
	}
	s.scheduler.Start()

	go s.connectionManager.Start(ctx)
	go s.forwardMatches(ctx)
	go s.forwardClock(ctx)

	<-ctx.Done()

	log.Info().Msg("scoreboard gateway service shutting down")
	return s.Stop()
}

// Stop shuts down the stats job. Connections close when the Start context ends.
func (s *Service) Stop() error {
	if err := s.scheduler.Shutdown(); err != nil {
		log.Error().Err(err).Msg("failed to stop scheduler")
	}

	log.Info().Msg("scoreboard gateway service stopped")
	return nil
}

// RegisterRoutes registers the page, state, WebSocket and RPC routes
func (s *Service) RegisterRoutes(mux *http.ServeMux) error {
	s.wsHandler.RegisterRoutes(mux)
	s.stateHandler.RegisterStateRoutes(mux)
	if err := s.rpcHandler.RegisterRoutes(mux); err != nil {
		return fmt.Errorf("failed to register rpc routes: %w", err)
	}
	log.Info().Msg("scoreboard gateway routes registered")
	return nil
}

// GetStats returns statistics about the gateway service
func (s *Service) GetStats() map[string]interface{} {
	conns := s.connectionManager.GetConnectionStats()
	feedStats := s.feed.Stats()

	stats := map[string]interface{}{
		"service":           "scoreboard_gateway",
		"status":            "running",
		"total_connections": conns.TotalConnections,
		"broadcasts":        conns.Broadcasts,
		"dropped":           conns.Dropped,
		"feed":              feedStats,
		"clock_subscribers": s.ticker.Subscribers(),
	}
	if snap := s.feed.Current(); snap != nil {
		stats["revision"] = snap.Revision
		stats["origin"] = snap.Origin
	}
	return stats
}

func (s *Service) forwardMatches(ctx context.Context) {
	for snap := range s.feed.Subscribe(ctx) {
		event, err := s.matchEvent(snap)
		if err != nil {
			log.Error().Err(err).Uint64("revision", snap.Revision).Msg("failed to build match event")
			continue
		}
		s.connectionManager.Broadcast(event)
	}
}

func (s *Service) forwardClock(ctx context.Context) {
	for now := range s.ticker.Subscribe(ctx) {
		event, err := s.clockEvent(now)
		if err != nil {
			log.Error().Err(err).Msg("failed to build clock event")
			continue
		}
		s.connectionManager.Broadcast(event)
	}
}

// syncConnection sends the current board and clock to a new display
func (s *Service) syncConnection(conn *Connection) {
	if snap := s.feed.Current(); snap != nil {
		event, err := s.matchEvent(snap)
		if err != nil {
			log.Error().Err(err).Str("connection_id", conn.ID).Msg("failed to build sync event")
		} else if !s.connectionManager.SendTo(conn, event) {
			log.Warn().Str("connection_id", conn.ID).Msg("failed to queue match sync")
		}
	}

	event, err := s.clockEvent(s.ticker.Now())
	if err != nil {
		log.Error().Err(err).Str("connection_id", conn.ID).Msg("failed to build clock sync event")
		return
	}
	s.connectionManager.SendTo(conn, event)
}

func (s *Service) matchEvent(snap *feed.Snapshot) (*ScoreboardEvent, error) {
	html, err := s.renderer.BoardHTML(snap.Match)
	if err != nil {
		return nil, fmt.Errorf("failed to render board: %w", err)
	}

	return NewEvent(EventTypeMatchUpdated, MatchUpdatedPayload{
		Revision: snap.Revision,
		Origin:   string(snap.Origin),
		Title:    snap.Match.MatchTitle,
		HTML:     html,
		Match:    snap.Match,
	}, s.clock.Now())
}

func (s *Service) clockEvent(now time.Time) (*ScoreboardEvent, error) {
	return NewEvent(EventTypeClockTick, ClockTickPayload{
		Clock: s.renderer.FormatClock(now),
		Time:  now,
	}, s.clock.Now())
}

func (s *Service) reportStats() {
	conns := s.connectionManager.GetConnectionStats()
	feedStats := s.feed.Stats()

	log.Info().
		Int("connections", conns.TotalConnections).
		Uint64("broadcasts", conns.Broadcasts).
		Uint64("dropped", conns.Dropped).
		Uint64("loads", feedStats.Loads).
		Uint64("updates", feedStats.Updates).
		Uint64("parse_failures", feedStats.ParseFailures).
		Uint64("read_failures", feedStats.ReadFailures).
		Str("source", s.feed.Source().Name()).
		Msg("scoreboard stats")
}
