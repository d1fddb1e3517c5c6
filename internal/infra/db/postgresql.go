// Package db opens and supervises the relational store.
package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/groupledger/backend/config"
	"github.com/groupledger/backend/internal/integration/persistence/model"
)

const (
	connectTimeout = 5 * time.Second
	healthTimeout  = 2 * time.Second
)

// Database owns a GORM connection pool.
type Database struct {
	db *gorm.DB
}

// NewDatabase wraps a connection opened elsewhere, such as an in-memory
// SQLite database in tests.
func NewDatabase(db *gorm.DB) *Database {
	return &Database{db: db}
}

// NewPostgresConnection opens the pool described by cfg and fails unless the
// server answers within connectTimeout. Slow queries are logged through slog.
func NewPostgresConnection(cfg *config.DatabaseConfig) (*Database, error) {
	conn, err := gorm.Open(postgres.Open(cfg.URL), &gorm.Config{
		Logger:         queryLogger(cfg.SlowQueryThreshold),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	database := NewDatabase(conn)
	if err := database.ping(connectTimeout); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	slog.Info("Database connection established",
		"max_open_conns", cfg.MaxOpenConns,
		"max_idle_conns", cfg.MaxIdleConns,
		"slow_query_threshold", cfg.SlowQueryThreshold,
	)
	return database, nil
}

func queryLogger(slowThreshold time.Duration) logger.Interface {
	if slowThreshold <= 0 {
		return logger.Default.LogMode(logger.Silent)
	}
	return logger.New(slog.NewLogLogger(slog.Default().Handler(), slog.LevelWarn), logger.Config{
		SlowThreshold:             slowThreshold,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}

func (d *Database) DB() *gorm.DB {
	return d.db
}

func (d *Database) ping(timeout time.Duration) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return sqlDB.PingContext(ctx)
}

// HealthCheck reports whether the database answers a ping.
func (d *Database) HealthCheck() bool {
	if err := d.ping(healthTimeout); err != nil {
		slog.Error("Database health check failed", "error", err)
		return false
	}
	return true
}

func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB for closing: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}
	slog.Info("Database connection closed")
	return nil
}

// Migrate creates or updates the table of every persisted model.
func (d *Database) Migrate() error {
	if err := d.db.AutoMigrate(model.All()...); err != nil {
		return fmt.Errorf("failed to run auto-migration: %w", err)
	}
	return nil
}
