package main

import (
	"context"
	"fmt"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/scorecast/go/internal/scoreboard/feed"
	"github.com/mcdev12/scorecast/go/internal/scoreboard/gateway"
	"github.com/mcdev12/scorecast/go/internal/scoreboard/source"
	"github.com/mcdev12/scorecast/go/internal/scoreboard/view"
)

type Services struct {
	Source   source.Source
	Feed     *feed.Feed
	Ticker   *feed.Ticker
	Renderer *view.Renderer
	Gateway  *gateway.Service
}

func setupServices(ctx context.Context, config *Config) (*Services, error) {
	// Source → Feed/Ticker → Renderer → Gateway
	loc, err := config.location()
	if err != nil {
		return nil, err
	}

	src, err := source.New(ctx, config.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s source: %w", config.Source.Kind, err)
	}

	clock := clockwork.NewRealClock()
	matchFeed := feed.New(src, config.Feed, feed.WithClock(clock))
	ticker := feed.NewTicker(clock, config.Feed.ClockInterval)

	renderer, err := view.NewRenderer(loc)
	if err != nil {
		closeSource(src)
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	gatewayService, err := gateway.NewService(config.Gateway, matchFeed, ticker, renderer, gateway.WithClock(clock))
	if err != nil {
		closeSource(src)
		return nil, fmt.Errorf("failed to create gateway service: %w", err)
	}

	return &Services{
		Source:   src,
		Feed:     matchFeed,
		Ticker:   ticker,
		Renderer: renderer,
		Gateway:  gatewayService,
	}, nil
}

// Run starts the feed, clock and gateway and blocks until ctx is done
func (s *Services) Run(ctx context.Context) {
	go func() {
		if err := s.Feed.Run(ctx); err != nil {
			log.Error().Err(err).Msg("match feed failed")
		}
	}()
	go s.Ticker.Run(ctx)

	if err := s.Gateway.Start(ctx); err != nil {
		log.Error().Err(err).Msg("gateway service failed")
	}
}

func (s *Services) Close() {
	closeSource(s.Source)
}

func closeSource(src source.Source) {
	if c, ok := src.(source.Closer); ok {
		if err := c.Close(); err != nil {
			log.Error().Err(err).Str("source", src.Name()).Msg("failed to close source")
		}
	}
}
