package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"coverage-bot/internal/config"
)

const (
	statsCacheKey = "estimate_stats"
	statsCacheTTL = 10 * time.Minute
)

var ErrEstimateNotFound = errors.New("estimate not found")

// Cache holds the statistics between /stats calls. It is optional.
type Cache interface {
	SaveJSON(ctx context.Context, key string, v any, ttl time.Duration) error
	LoadJSON(ctx context.Context, key string, v any) error
	Del(ctx context.Context, key string) error
}

type PostgresStorage struct {
	db     *sqlx.DB
	cache  Cache
	logger *zap.Logger
}

func NewPostgresStorage(ctx context.Context, cfg config.Database, cache Cache, logger *zap.Logger) (*PostgresStorage, error) {
	const operation = "storage.NewPostgresStorage"

	var db *sqlx.DB

	retryPolicy := backoff.NewExponentialBackOff()
	retryPolicy.MaxElapsedTime = 2 * time.Minute
	retryPolicy.MaxInterval = 15 * time.Second

	logger.Info("Connecting to PostgreSQL...", zap.String("host", cfg.Host))

	err := backoff.RetryNotify(
		func() error {
			conn, err := sqlx.ConnectContext(ctx, "postgres", cfg.DSN())
			if err != nil {
				return fmt.Errorf("connect: %w", err)
			}
			db = conn
			return nil
		},
		backoff.WithContext(retryPolicy, ctx),
		func(err error, duration time.Duration) {
			logger.Warn("PostgreSQL connection failed, retrying...",
				zap.Error(err),
				zap.Duration("next_attempt_in", duration))
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to connect after retries: %w", operation, err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	logger.Info("Successfully connected to PostgreSQL")
	return NewWithDB(db, cache, logger), nil
}

// NewWithDB wraps an open connection. cache may be nil.
func NewWithDB(db *sqlx.DB, cache Cache, logger *zap.Logger) *PostgresStorage {
	return &PostgresStorage{db: db, cache: cache, logger: logger}
}

// DB exposes the pool for migrations.
func (s *PostgresStorage) DB() *sqlx.DB {
	return s.db
}

func (s *PostgresStorage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PostgresStorage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *PostgresStorage) SaveEstimate(ctx context.Context, e Estimate) error {
	const query = `
        INSERT INTO estimates (
            id, chat_id, catalog_revision, product_id, title, kind,
            net_area, target_area, reserve, pack_count, pack_label,
            surfaces, openings, details, created_at
        ) VALUES (
            :id, :chat_id, :catalog_revision, :product_id, :title, :kind,
            :net_area, :target_area, :reserve, :pack_count, :pack_label,
            :surfaces, :openings, :details, :created_at
        )
    `
	if _, err := s.db.NamedExecContext(ctx, query, e); err != nil {
		return fmt.Errorf("failed to save estimate: %w", err)
	}

	s.invalidateStats(ctx)
	return nil
}

func (s *PostgresStorage) UpdateEstimateCost(ctx context.Context, id string, totalCost float64, pricedAt time.Time) error {
	const query = `UPDATE estimates SET total_cost = $1, priced_at = $2 WHERE id = $3`

	res, err := s.db.ExecContext(ctx, query, totalCost, pricedAt, id)
	if err != nil {
		return fmt.Errorf("failed to update estimate cost: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update estimate cost: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrEstimateNotFound, id)
	}

	s.invalidateStats(ctx)
	return nil
}

func (s *PostgresStorage) ListEstimates(ctx context.Context) ([]Estimate, error) {
	const query = `SELECT * FROM estimates ORDER BY created_at DESC`

	var estimates []Estimate
	if err := s.db.SelectContext(ctx, &estimates, query); err != nil {
		return nil, fmt.Errorf("failed to fetch estimates: %w", err)
	}
	return estimates, nil
}

func (s *PostgresStorage) GetStatistics(ctx context.Context) (*Statistics, error) {
	if s.cache != nil {
		var cached Statistics
		if err := s.cache.LoadJSON(ctx, statsCacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	stats := &Statistics{ByProduct: make(map[string]int)}
	err := s.db.GetContext(ctx, stats, `
        SELECT
            COUNT(*) AS total,
            COUNT(*) FILTER (WHERE created_at >= CURRENT_DATE) AS today,
            COUNT(total_cost) AS priced,
            COALESCE(SUM(total_cost), 0) AS revenue
        FROM estimates
    `)
	if err != nil {
		return nil, fmt.Errorf("failed to get totals: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
        SELECT product_id, COUNT(*)
        FROM estimates
        GROUP BY product_id
    `)
	if err != nil {
		return nil, fmt.Errorf("failed to get product counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var product string
		var count int
		if err := rows.Scan(&product, &count); err != nil {
			return nil, fmt.Errorf("failed to scan product count: %w", err)
		}
		stats.ByProduct[product] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read product counts: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SaveJSON(ctx, statsCacheKey, stats, statsCacheTTL); err != nil {
			s.logger.Warn("Failed to cache statistics", zap.Error(err))
		}
	}
	return stats, nil
}

func (s *PostgresStorage) invalidateStats(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, statsCacheKey); err != nil {
		s.logger.Warn("Failed to invalidate statistics cache", zap.Error(err))
	}
}
