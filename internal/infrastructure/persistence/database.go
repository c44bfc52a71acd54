package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Esyonel/vural-enerji-sub001/internal/infrastructure/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// connectTimeout bounds the initial ping against the catalog database
const connectTimeout = 10 * time.Second

// Database is the catalog's Postgres connection. DB is shared by every
// repository; the pool behind it also serves health checks and pool metrics.
type Database struct {
	DB  *gorm.DB
	sql *sql.DB
}

// Option customizes Open
type Option func(*gorm.Config)

// WithGormLogger routes GORM's query log through l
func WithGormLogger(l logger.Interface) Option {
	return func(c *gorm.Config) { c.Logger = l }
}

// Open connects to Postgres, sizes the pool from cfg and pings once.
// GORM is silent unless WithGormLogger is given.
func Open(ctx context.Context, cfg *config.DatabaseConfig, opts ...Option) (*Database, error) {
	gormCfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		// repositories open their own transactions for multi-row writes
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
		DisableAutomaticPing:   true,
	}
	for _, opt := range opts {
		opt(gormCfg)
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog database: %w", err)
	}
	d, err := wrap(db)
	if err != nil {
		return nil, err
	}
	configurePool(d.sql, cfg)

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := d.PingContext(pingCtx); err != nil {
		_ = d.sql.Close()
		return nil, err
	}
	return d, nil
}

func wrap(db *gorm.DB) (*Database, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access connection pool: %w", err)
	}
	return &Database{DB: db, sql: sqlDB}, nil
}

func configurePool(sqlDB *sql.DB, cfg *config.DatabaseConfig) {
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Minute)
}

// SQL returns the connection pool, e.g. for pool metrics
func (d *Database) SQL() *sql.DB {
	return d.sql
}

// PingContext reports whether the database answers. It satisfies the
// readiness check's Pinger.
func (d *Database) PingContext(ctx context.Context) error {
	if err := d.sql.PingContext(ctx); err != nil {
		return fmt.Errorf("catalog database unreachable: %w", err)
	}
	return nil
}

// Close releases every pooled connection
func (d *Database) Close() error {
	return d.sql.Close()
}
