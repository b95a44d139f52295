package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/XSAM/otelsql"
	_ "github.com/lib/pq"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"

	"github.com/devotedslingers/devotedslingers/internal/telemetry"
)

// DB wraps the pooled database handle. It is constructed once on startup and
// passed to the stores that need it; nothing in this package keeps global
// state.
type DB struct {
	*sql.DB
}

// NewConnection opens a pooled connection using a libpq connection URL.
func NewConnection(databaseURL string) (*DB, error) {
	ctx := telemetry.WithCorrelationID(context.Background(), telemetry.NewCorrelationID())
	logger := telemetry.LogFromContext(ctx).WithFields(map[string]interface{}{
		"operation": "database_connection",
	})

	logger.Info("Establishing database connection")

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		logger.WithError(err).Error("Failed to open database connection")
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	configurePool(db)

	if err := db.Ping(); err != nil {
		logger.WithError(err).Error("Failed to ping database")
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Database connection established")
	return &DB{db}, nil
}

// NewInstrumentedConnection opens a pooled connection with OpenTelemetry
// instrumentation on every query.
func NewInstrumentedConnection(databaseURL string) (*DB, error) {
	ctx := telemetry.WithCorrelationID(context.Background(), telemetry.NewCorrelationID())
	logger := telemetry.LogFromContext(ctx).WithFields(map[string]interface{}{
		"operation":       "database_connection",
		"instrumentation": "opentelemetry",
	})

	logger.Info("Establishing instrumented database connection")

	db, err := otelsql.Open("postgres", databaseURL,
		otelsql.WithAttributes(
			semconv.DBSystemPostgreSQL,
		),
	)
	if err != nil {
		logger.WithError(err).Error("Failed to open instrumented database connection")
		return nil, fmt.Errorf("failed to open instrumented database: %w", err)
	}

	configurePool(db)

	if err := db.Ping(); err != nil {
		logger.WithError(err).Error("Failed to ping database")
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := otelsql.RegisterDBStatsMetrics(db,
		otelsql.WithAttributes(
			semconv.DBSystemPostgreSQL,
		),
	); err != nil {
		logger.WithError(err).Warn("Failed to register database stats")
	}

	logger.Info("Instrumented database connection established")
	return &DB{db}, nil
}

func configurePool(db *sql.DB) {
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(1 * time.Minute)
}

func (db *DB) Close() error {
	return db.DB.Close()
}

// Health pings the database.
func (db *DB) Health(ctx context.Context) error {
	return db.PingContext(ctx)
}

// WithTransaction runs fn inside a transaction, rolling back on error or
// panic.
func (db *DB) WithTransaction(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	err = fn(tx)
	return err
}
