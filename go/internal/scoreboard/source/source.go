package source

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/scorecast/go/internal/dbconfig"
)

// DefaultKey is the store entry the admin panel writes the match document to
const DefaultKey = "cricketMatchData"

// ErrNotFound is returned when the store has no entry for the key
var ErrNotFound = errors.New("entry not found")

// Source reads the raw match document from a key-value store.
// Implementations hold no write authority; the admin panel owns the entry.
type Source interface {
	// Read returns the stored value, or ErrNotFound if the entry is absent.
	Read(ctx context.Context) ([]byte, error)
	// Name identifies the backend in logs.
	Name() string
}

// Notifier is implemented by sources that can push change signals.
// The returned channel is closed when ctx is done or the watch ends.
type Notifier interface {
	Changes(ctx context.Context) (<-chan struct{}, error)
}

// Closer is implemented by sources holding connections
type Closer interface {
	Close() error
}

// Kind selects a source backend
type Kind string

const (
	KindMemory   Kind = "memory"
	KindFile     Kind = "file"
	KindRedis    Kind = "redis"
	KindNATS     Kind = "nats"
	KindPostgres Kind = "postgres"
)

// Config holds settings for every backend; only the selected Kind's fields are used.
// Environment overrides are read with the caller's prefix (SOURCE_KEY, SOURCE_DIR, ...).
// The service URLs also fall back to the conventional REDIS_URL and NATS_URL.
type Config struct {
	Kind Kind   `yaml:"kind" split_words:"true"`
	Key  string `yaml:"key" split_words:"true"`

	// file
	Dir string `yaml:"dir" split_words:"true"`

	// redis
	RedisURL      string `yaml:"redis_url" envconfig:"REDIS_URL"`
	RedisPassword string `yaml:"redis_password" split_words:"true"`
	RedisDB       int    `yaml:"redis_db" split_words:"true"`

	// nats
	NATSURL       string        `yaml:"nats_url" envconfig:"NATS_URL"`
	NATSBucket    string        `yaml:"nats_bucket" split_words:"true"`
	ReconnectWait time.Duration `yaml:"reconnect_wait" split_words:"true"`

	// postgres
	Database      dbconfig.Config `yaml:"database" ignored:"true"`
	NotifyChannel string          `yaml:"notify_channel" split_words:"true"`
}

// DefaultConfig returns a file-backed configuration reading ./data/cricketMatchData.json
func DefaultConfig() Config {
	return Config{
		Kind:          KindFile,
		Key:           DefaultKey,
		Dir:           "./data",
		RedisURL:      "localhost:6379",
		NATSURL:       "nats://localhost:4222",
		NATSBucket:    "scoreboard",
		ReconnectWait: 2 * time.Second,
		Database:      dbconfig.NewConfigFromEnv(),
		NotifyChannel: DefaultNotifyChannel,
	}
}

// New builds the source selected by cfg.Kind
func New(ctx context.Context, cfg Config) (Source, error) {
	if cfg.Key == "" {
		cfg.Key = DefaultKey
	}

	switch cfg.Kind {
	case KindMemory:
		return NewMemorySource(cfg.Key), nil
	case KindFile, "":
		return NewFileSource(cfg.Dir, cfg.Key), nil
	case KindRedis:
		return NewRedisSource(ctx, RedisConfig{
			Addr:     cfg.RedisURL,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Key:      cfg.Key,
		})
	case KindNATS:
		return NewNATSSource(ctx, NATSConfig{
			URL:           cfg.NATSURL,
			Bucket:        cfg.NATSBucket,
			Key:           cfg.Key,
			MaxReconnects: -1,
			ReconnectWait: cfg.ReconnectWait,
		})
	case KindPostgres:
		log.Debug().Str("database", cfg.Database.Address()).Msg("connecting to postgres source")
		return NewPostgresSource(ctx, PostgresConfig{
			DSN:           cfg.Database.DSN(),
			Key:           cfg.Key,
			NotifyChannel: cfg.NotifyChannel,
		})
	default:
		return nil, fmt.Errorf("unknown source kind %q", cfg.Kind)
	}
}
