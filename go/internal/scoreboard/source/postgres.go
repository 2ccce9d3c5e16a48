package source

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
	"github.com/sqlc-dev/pqtype"
)

// DefaultNotifyChannel is the channel the scoreboard_kv trigger notifies on
const DefaultNotifyChannel = "scoreboard_kv_changed"

// Schema creates the scoreboard_kv table and its change trigger
//
//go:embed schema.sql
var Schema string

// PostgresConfig holds configuration for PostgresSource
type PostgresConfig struct {
	DSN           string
	Key           string
	NotifyChannel string
	PingInterval  time.Duration
}

// PostgresSource reads the match document from the scoreboard_kv table
type PostgresSource struct {
	db  *sql.DB
	cfg PostgresConfig
}

// NewPostgresSource opens the database and verifies the connection
func NewPostgresSource(ctx context.Context, cfg PostgresConfig) (*PostgresSource, error) {
	if cfg.NotifyChannel == "" {
		cfg.NotifyChannel = DefaultNotifyChannel
	}
	if cfg.PingInterval == 0 {
		cfg.PingInterval = 90 * time.Second
	}

	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info().
		Str("key", cfg.Key).
		Str("channel", cfg.NotifyChannel).
		Msg("using postgres source")

	return &PostgresSource{
		db:  db,
		cfg: cfg,
	}, nil
}

// Read implements Source
func (s *PostgresSource) Read(ctx context.Context) ([]byte, error) {
	var value pqtype.NullRawMessage
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM scoreboard_kv WHERE key = $1`, s.cfg.Key,
	).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query scoreboard_kv: %w", err)
	}
	if !value.Valid {
		return nil, ErrNotFound
	}
	return value.RawMessage, nil
}

// Name implements Source
func (s *PostgresSource) Name() string {
	return "postgres:" + s.cfg.Key
}

// Changes implements Notifier with LISTEN on the trigger's channel.
// A nil notification means the listener reconnected; it is forwarded so the
// feed reloads anything missed while disconnected.
func (s *PostgresSource) Changes(ctx context.Context) (<-chan struct{}, error) {
	l := pq.NewListener(
		s.cfg.DSN,
		10*time.Second,
		time.Minute,
		func(ev pq.ListenerEventType, err error) {
			if err != nil {
				log.Error().Err(err).Msg("listener event")
			}
		},
	)
	if err := l.Listen(s.cfg.NotifyChannel); err != nil {
		l.Close()
		return nil, fmt.Errorf("failed to listen to channel: %w", err)
	}

	log.Info().
		Str("channel", s.cfg.NotifyChannel).
		Msg("listening for notifications")

	out := make(chan struct{}, 1)
	go func() {
		defer close(out)
		defer l.Close()

		pingTicker := time.NewTicker(s.cfg.PingInterval)
		defer pingTicker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case note, ok := <-l.Notify:
				if !ok {
					return
				}
				if note != nil && note.Extra != s.cfg.Key {
					continue
				}
				select {
				case out <- struct{}{}:
				default:
				}
			case <-pingTicker.C:
				if err := l.Ping(); err != nil {
					log.Error().Err(err).Msg("failed to ping listener")
				}
			}
		}
	}()

	return out, nil
}

// Close implements Closer
func (s *PostgresSource) Close() error {
	return s.db.Close()
}
