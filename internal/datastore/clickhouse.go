package datastore

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/rs/zerolog/log"

	"github.com/marcussviniciusa/speedfunnelsv7-sub000/internal/config"
)

// DB wraps the ClickHouse connection backing both boundary roles: the
// aggregated-data fetch and the widget/preset config storage.
type DB struct {
	conn driver.Conn
}

func New(cfg config.DatabaseConfig) (*DB, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		Compression: &clickhouse.Compression{Method: clickhouse.CompressionLZ4},
		DialTimeout: 10 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("open clickhouse connection: %w", err)
	}

	db := &DB{conn: conn}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := conn.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping clickhouse: %w", err)
	}
	if err := db.initSchema(ctx); err != nil {
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	log.Info().Str("host", cfg.Host).Str("database", cfg.Database).Msg("Connected to ClickHouse")
	return db, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) initSchema(ctx context.Context) error {
	schemas := []string{
		`CREATE TABLE IF NOT EXISTS meta_ads_daily (
			date Date,
			account_id String,
			account_name String,
			spend Float64,
			impressions Float64,
			clicks Float64,
			reach Float64
		) ENGINE = MergeTree()
		PARTITION BY toYYYYMM(date)
		ORDER BY (date, account_id)`,

		`CREATE TABLE IF NOT EXISTS ga_daily (
			date Date,
			account_id String,
			account_name String,
			sessions Float64,
			users Float64,
			pageviews Float64,
			bounce_rate Float64,
			session_duration Float64
		) ENGINE = MergeTree()
		PARTITION BY toYYYYMM(date)
		ORDER BY (date, account_id)`,

		`CREATE TABLE IF NOT EXISTS dashboard_configs (
			key String,
			payload String,
			updated_at DateTime DEFAULT now()
		) ENGINE = ReplacingMergeTree(updated_at)
		ORDER BY key`,
	}

	for _, ddl := range schemas {
		if err := db.conn.Exec(ctx, ddl); err != nil {
			return err
		}
	}
	return nil
}
