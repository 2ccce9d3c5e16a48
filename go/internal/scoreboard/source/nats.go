package source

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog/log"
)

// NATSConfig holds configuration for the JetStream key-value source
type NATSConfig struct {
	URL           string
	Bucket        string
	Key           string
	MaxReconnects int
	ReconnectWait time.Duration
}

// NATSSource reads the match document from a JetStream KeyValue bucket
// and watches the key for pushes from the admin panel.
type NATSSource struct {
	nc  *nats.Conn
	kv  jetstream.KeyValue
	cfg NATSConfig
}

// NewNATSSource connects to NATS and binds to the bucket, creating it if missing
func NewNATSSource(ctx context.Context, cfg NATSConfig) (*NATSSource, error) {
	opts := []nats.Option{
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Error().Err(err).Msg("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			log.Error().Err(err).Msg("NATS error")
		}),
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("create JetStream context: %w", err)
	}

	kv, err := js.KeyValue(ctx, cfg.Bucket)
	if errors.Is(err, jetstream.ErrBucketNotFound) {
		kv, err = js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
			Bucket:      cfg.Bucket,
			Description: "Scoreboard match state",
			History:     1,
		})
		if err == nil {
			log.Info().Str("bucket", cfg.Bucket).Msg("created key-value bucket")
		}
	}
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("bind key-value bucket %s: %w", cfg.Bucket, err)
	}

	log.Info().
		Str("url", cfg.URL).
		Str("bucket", cfg.Bucket).
		Str("key", cfg.Key).
		Msg("using JetStream key-value source")

	return &NATSSource{
		nc:  nc,
		kv:  kv,
		cfg: cfg,
	}, nil
}

// Read implements Source
func (s *NATSSource) Read(ctx context.Context) ([]byte, error) {
	entry, err := s.kv.Get(ctx, s.cfg.Key)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("kv get %s: %w", s.cfg.Key, err)
	}
	return entry.Value(), nil
}

// Name implements Source
func (s *NATSSource) Name() string {
	return "nats:" + s.cfg.Bucket + "/" + s.cfg.Key
}

// Changes implements Notifier using a KV watch on the key
func (s *NATSSource) Changes(ctx context.Context) (<-chan struct{}, error) {
	watcher, err := s.kv.Watch(ctx, s.cfg.Key, jetstream.UpdatesOnly())
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", s.cfg.Key, err)
	}

	out := make(chan struct{}, 1)
	go func() {
		defer close(out)
		defer watcher.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case entry, ok := <-watcher.Updates():
				if !ok {
					return
				}
				if entry == nil {
					continue
				}
				log.Debug().
					Str("key", entry.Key()).
					Uint64("revision", entry.Revision()).
					Str("operation", entry.Operation().String()).
					Msg("key-value update")
				select {
				case out <- struct{}{}:
				default:
				}
			}
		}
	}()

	return out, nil
}

// Write puts value under the key. Used by the seed tool.
func (s *NATSSource) Write(ctx context.Context, value []byte) error {
	_, err := s.kv.Put(ctx, s.cfg.Key, value)
	return err
}

// Close implements Closer
func (s *NATSSource) Close() error {
	s.nc.Close()
	return nil
}
