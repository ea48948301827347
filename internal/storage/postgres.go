package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"woodcost/internal/catalog"
	"woodcost/internal/config"
	"woodcost/pkg/redis"
)

// PostgresStorage is the catalog store backing the engine. Active catalog
// lists are cached in Redis so repeated index rebuilds do not hammer the
// database; cache keys are dropped whenever the catalogs change.
type PostgresStorage struct {
	db       *sqlx.DB
	redis    *redis.Client
	cacheTTL time.Duration
	logger   *zap.Logger
}

const (
	cacheKeyMaterials   = "catalog:materials"
	cacheKeyEdgeBanding = "catalog:edge_banding"
	cacheKeyCNCOps      = "catalog:cnc_operations"
	cacheKeyFittings    = "catalog:fittings"
	cacheKeyPricing     = "catalog:pricing_config"
)

var cacheKeys = []string{
	cacheKeyMaterials, cacheKeyEdgeBanding, cacheKeyCNCOps, cacheKeyFittings, cacheKeyPricing,
}

func NewPostgresStorage(ctx context.Context, cfg *config.Config, redisClient *redis.Client, logger *zap.Logger) (*PostgresStorage, error) {
	const operation = "storage.NewPostgresStorage"

	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBName,
	)

	var db *sqlx.DB
	var err error

	retryPolicy := backoff.NewExponentialBackOff()
	retryPolicy.MaxElapsedTime = 2 * time.Minute
	retryPolicy.MaxInterval = 15 * time.Second

	logger.Info("Connecting to PostgreSQL...")

	err = backoff.RetryNotify(
		func() error {
			db, err = sqlx.ConnectContext(ctx, "postgres", connStr)
			if err != nil {
				return fmt.Errorf("connect: %w", err)
			}

			if err = db.PingContext(ctx); err != nil {
				return fmt.Errorf("ping: %w", err)
			}
			return nil
		},
		retryPolicy,
		func(err error, duration time.Duration) {
			logger.Warn("PostgreSQL connection failed, retrying...",
				zap.Error(err),
				zap.Duration("next_attempt_in", duration))
		},
	)

	if err != nil {
		return nil, fmt.Errorf("%s: failed to connect after retries: %w", operation, err)
	}

	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	db.SetConnMaxLifetime(cfg.DBConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.DBConnMaxIdleTime)

	logger.Info("Successfully connected to PostgreSQL")
	return &PostgresStorage{
		db:       db,
		redis:    redisClient,
		cacheTTL: cfg.CatalogCacheTTL,
		logger:   logger,
	}, nil
}

// materialRow carries the pq array column that catalog.Material keeps as a
// plain slice.
type materialRow struct {
	Code        string         `db:"code"`
	Description string         `db:"description"`
	Unit        string         `db:"unit"`
	UnitPrice   float64        `db:"unit_price"`
	Category    string         `db:"category"`
	Aliases     pq.StringArray `db:"aliases"`
	Active      bool           `db:"is_active"`
}

func (s *PostgresStorage) ListActiveMaterials(ctx context.Context) ([]catalog.Material, error) {
	var materials []catalog.Material
	if s.fromCache(ctx, cacheKeyMaterials, &materials) {
		return materials, nil
	}

	const query = `
        SELECT code, description, unit, unit_price, category, aliases, is_active
        FROM materials
        WHERE is_active = TRUE
        ORDER BY description
    `

	var rows []materialRow
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list materials: %w", err)
	}

	materials = make([]catalog.Material, 0, len(rows))
	for _, r := range rows {
		materials = append(materials, catalog.Material{
			Code:        r.Code,
			Description: r.Description,
			Unit:        r.Unit,
			UnitPrice:   r.UnitPrice,
			Category:    r.Category,
			Aliases:     r.Aliases,
			Active:      r.Active,
		})
	}

	s.toCache(ctx, cacheKeyMaterials, materials)
	return materials, nil
}

func (s *PostgresStorage) ListActiveEdgeBanding(ctx context.Context) ([]catalog.EdgeBanding, error) {
	var entries []catalog.EdgeBanding
	if s.fromCache(ctx, cacheKeyEdgeBanding, &entries) {
		return entries, nil
	}

	const query = `
        SELECT code, description, unit, unit_price, is_active
        FROM edge_banding
        WHERE is_active = TRUE
        ORDER BY description
    `

	if err := s.db.SelectContext(ctx, &entries, query); err != nil {
		return nil, fmt.Errorf("failed to list edge banding: %w", err)
	}

	s.toCache(ctx, cacheKeyEdgeBanding, entries)
	return entries, nil
}

func (s *PostgresStorage) ListActiveCNCOperations(ctx context.Context) ([]catalog.CNCOperation, error) {
	var entries []catalog.CNCOperation
	if s.fromCache(ctx, cacheKeyCNCOps, &entries) {
		return entries, nil
	}

	const query = `
        SELECT code, description, unit, unit_price, is_active
        FROM cnc_operations
        WHERE is_active = TRUE
        ORDER BY description
    `

	if err := s.db.SelectContext(ctx, &entries, query); err != nil {
		return nil, fmt.Errorf("failed to list cnc operations: %w", err)
	}

	s.toCache(ctx, cacheKeyCNCOps, entries)
	return entries, nil
}

func (s *PostgresStorage) ListActiveFittings(ctx context.Context) ([]catalog.Fitting, error) {
	var entries []catalog.Fitting
	if s.fromCache(ctx, cacheKeyFittings, &entries) {
		return entries, nil
	}

	const query = `
        SELECT code, name, unit, unit_price, qty_per_fitting, is_active
        FROM fittings
        WHERE is_active = TRUE
        ORDER BY name
    `

	if err := s.db.SelectContext(ctx, &entries, query); err != nil {
		return nil, fmt.Errorf("failed to list fittings: %w", err)
	}

	s.toCache(ctx, cacheKeyFittings, entries)
	return entries, nil
}

func (s *PostgresStorage) GetActivePricingConfig(ctx context.Context) (*catalog.PricingConfig, error) {
	var cfg catalog.PricingConfig
	if s.fromCache(ctx, cacheKeyPricing, &cfg) {
		return &cfg, nil
	}

	const query = `
        SELECT name, overhead1, overhead2, overhead3, overhead4, contingency, profit_margin, is_active
        FROM pricing_configs
        WHERE is_active = TRUE
        ORDER BY created_at DESC
        LIMIT 1
    `

	err := s.db.GetContext(ctx, &cfg, query)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, catalog.ErrNoActiveConfig
		}
		return nil, fmt.Errorf("failed to get pricing config: %w", err)
	}

	s.toCache(ctx, cacheKeyPricing, cfg)
	return &cfg, nil
}

// InvalidateCache drops every cached catalog list. Called when the catalogs
// or the pricing configuration were edited out-of-band.
func (s *PostgresStorage) InvalidateCache(ctx context.Context) error {
	if err := s.redis.Del(ctx, cacheKeys...); err != nil {
		return fmt.Errorf("failed to invalidate catalog cache: %w", err)
	}
	return nil
}

func (s *PostgresStorage) fromCache(ctx context.Context, key string, dest any) bool {
	cached, err := s.redis.Get(ctx, key)
	if err != nil {
		return false
	}
	if err := json.Unmarshal(cached, dest); err != nil {
		s.logger.Warn("dropping undecodable catalog cache entry", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (s *PostgresStorage) toCache(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, key, data, s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache catalog list", zap.String("key", key), zap.Error(err))
	}
}

func (s *PostgresStorage) DB() *sql.DB {
	return s.db.DB
}

func (s *PostgresStorage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
