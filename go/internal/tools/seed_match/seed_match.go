package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kelseyhightower/envconfig"

	"github.com/mcdev12/scorecast/go/internal/models"
	"github.com/mcdev12/scorecast/go/internal/scoreboard/source"
)

func main() {
	path := flag.String("file", "", "match document to store (default: the demonstration match)")
	flag.Parse()

	// 1) Load the match document
	data, err := readDocument(*path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read document: %v\n", err)
		os.Exit(1)
	}

	// 2) Resolve the target store from SOURCE_* variables
	cfg := source.DefaultConfig()
	if err := envconfig.Process("SOURCE", &cfg); err != nil {
		fmt.Fprintf(os.Stderr, "read environment: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// 3) Store it
	if err := seed(ctx, cfg, data); err != nil {
		fmt.Fprintf(os.Stderr, "seed %s: %v\n", cfg.Kind, err)
		os.Exit(1)
	}

	// 4) Print summary
	fmt.Printf("Match seed complete: %d bytes written to %s key %q\n", len(data), cfg.Kind, cfg.Key)
}

// readDocument loads the document at path, or the demonstration match if path is empty.
// The document must decode as a match; it is stored compacted.
func readDocument(path string) ([]byte, error) {
	if path == "" {
		return json.Marshal(models.DemoMatch())
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if _, err := models.DecodeMatchState(raw); err != nil {
		return nil, err
	}

	var out bytes.Buffer
	if err := json.Compact(&out, raw); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func seed(ctx context.Context, cfg source.Config, data []byte) error {
	if cfg.Key == "" {
		cfg.Key = source.DefaultKey
	}

	switch cfg.Kind {
	case source.KindFile, "":
		return source.NewFileSource(cfg.Dir, cfg.Key).Write(data)

	case source.KindRedis:
		s, err := source.NewRedisSource(ctx, source.RedisConfig{
			Addr:     cfg.RedisURL,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Key:      cfg.Key,
		})
		if err != nil {
			return err
		}
		defer s.Close()
		return s.Write(ctx, data)

	case source.KindNATS:
		s, err := source.NewNATSSource(ctx, source.NATSConfig{
			URL:           cfg.NATSURL,
			Bucket:        cfg.NATSBucket,
			Key:           cfg.Key,
			MaxReconnects: 1,
			ReconnectWait: cfg.ReconnectWait,
		})
		if err != nil {
			return err
		}
		defer s.Close()
		return s.Write(ctx, data)

	case source.KindPostgres:
		if err := seedPostgres(ctx, cfg.Database.DSN(), cfg.Key, data); err != nil {
			return fmt.Errorf("%s: %w", cfg.Database.Address(), err)
		}
		return nil

	default:
		return fmt.Errorf("cannot seed source kind %q", cfg.Kind)
	}
}

// seedPostgres applies the schema and upserts the entry; the table trigger notifies listeners
func seedPostgres(ctx context.Context, dsn, key string, data []byte) error {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer pool.Close()

	if _, err := pool.Exec(ctx, source.Schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}

	cmdTag, err := pool.Exec(ctx, `
        INSERT INTO scoreboard_kv (key, value, updated_at)
        VALUES ($1, $2::jsonb, now())
        ON CONFLICT (key) DO UPDATE
          SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
    `, key, string(data))
	if err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	if cmdTag.RowsAffected() != 1 {
		return fmt.Errorf("upsert %s: %d rows affected", key, cmdTag.RowsAffected())
	}
	return nil
}
