package database

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"publisher-backoffice/pkg/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DBConfig holds PostgreSQL connection and pool settings.
type DBConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	DBName   string
	SSLMode  string

	// Pool
	MaxConns          int32
	MinConns          int32
	MaxConnLifetime   time.Duration
	MaxConnIdleTime   time.Duration
	HealthCheckPeriod time.Duration

	// Connect retries use exponential backoff starting at RetryDelay.
	MaxRetries     int
	RetryDelay     time.Duration
	ConnectTimeout time.Duration

	// TxTimeout bounds every transaction run through InTx.
	TxTimeout time.Duration

	AutoMigrate bool
}

// DSN returns a postgres:// URL usable by both pgx and lib/pq.
func (c *DBConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.Username, c.Password),
		Host:   c.Host + ":" + strconv.Itoa(c.Port),
		Path:   "/" + c.DBName,
	}

	q := url.Values{}
	if c.SSLMode != "" {
		q.Set("sslmode", c.SSLMode)
	}
	u.RawQuery = q.Encode()

	return u.String()
}

// PostgresDB is the storage connection handed to every repository.
type PostgresDB struct {
	Pool   *pgxpool.Pool
	Config *DBConfig
}

func NewPostgresDB(config *DBConfig) *PostgresDB {
	return &PostgresDB{Config: config}
}

// configurePool parses the DSN and applies the pool limits.
func (db *PostgresDB) configurePool() (*pgxpool.Config, error) {
	config, err := pgxpool.ParseConfig(db.Config.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	config.MaxConns = db.Config.MaxConns
	config.MinConns = db.Config.MinConns
	config.MaxConnLifetime = db.Config.MaxConnLifetime
	config.MaxConnIdleTime = db.Config.MaxConnIdleTime
	config.HealthCheckPeriod = db.Config.HealthCheckPeriod
	config.ConnConfig.ConnectTimeout = db.Config.ConnectTimeout

	return config, nil
}

// connectWithRetry opens the pool, doubling the delay after each failed
// attempt: RetryDelay, 2*RetryDelay, 4*RetryDelay...
func (db *PostgresDB) connectWithRetry(ctx context.Context, config *pgxpool.Config) (*pgxpool.Pool, error) {
	var lastErr error

	attempts := db.Config.MaxRetries
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 1; attempt <= attempts; attempt++ {
		// Each attempt gets its own connect timeout
		connectCtx, cancel := context.WithTimeout(ctx, db.Config.ConnectTimeout)
		pool, err := pgxpool.NewWithConfig(connectCtx, config)
		if err == nil {
			// The pool connects lazily; ping to verify the server answers
			err = pool.Ping(connectCtx)
			if err != nil {
				pool.Close()
			}
		}
		cancel()

		if err == nil {
			logger.Info("database connected", map[string]interface{}{"attempt": attempt})
			return pool, nil
		}
		lastErr = err

		logger.Warn("database connection attempt failed", map[string]interface{}{
			"attempt": attempt,
			"max":     attempts,
			"error":   err.Error(),
		})

		// Back off before the next attempt unless the caller gives up
		if attempt < attempts {
			delay := db.Config.RetryDelay * time.Duration(1<<uint(attempt-1))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, fmt.Errorf("connection cancelled: %w", ctx.Err())
			}
		}
	}

	return nil, fmt.Errorf("failed to connect after %d attempts: %w", attempts, lastErr)
}

// Connect opens the pool, retrying with exponential backoff.
func (db *PostgresDB) Connect(ctx context.Context) error {
	// 1. Pool settings
	config, err := db.configurePool()
	if err != nil {
		return fmt.Errorf("pool configuration failed: %w", err)
	}

	// 2. Connect and verify
	pool, err := db.connectWithRetry(ctx, config)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}

	db.Pool = pool
	return nil
}

func (db *PostgresDB) HealthCheck(ctx context.Context) error {
	if db.Pool == nil {
		return fmt.Errorf("database pool is not initialized")
	}

	healthCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.Pool.Ping(healthCtx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	return nil
}
