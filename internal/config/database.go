package config

import (
	"fmt"
	"strconv"
	"time"

	"publisher-backoffice/internal/infrastructure/database"
)

// LoadDatabaseConfig reads the DB_* variables into a DBConfig.
func LoadDatabaseConfig() (*database.DBConfig, error) {
	port, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	maxConns, err := strconv.Atoi(getEnv("DB_MAX_CONNECTIONS", "25"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNECTIONS: %w", err)
	}

	minConns, err := strconv.Atoi(getEnv("DB_MIN_CONNECTIONS", "2"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNECTIONS: %w", err)
	}

	maxRetries, err := strconv.Atoi(getEnv("DB_MAX_RETRIES", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_RETRIES: %w", err)
	}

	cfg := &database.DBConfig{
		Host:        getEnv("DB_HOST", "localhost"),
		Port:        port,
		Username:    getEnv("DB_USER", "editora"),
		Password:    getEnv("DB_PASSWORD", ""),
		DBName:      getEnv("DB_NAME", "editora"),
		SSLMode:     getEnv("DB_SSLMODE", "disable"),
		MaxConns:    int32(maxConns),
		MinConns:    int32(minConns),
		MaxRetries:  maxRetries,
		AutoMigrate: getEnvBool("DB_AUTO_MIGRATE", false),
	}

	durations := []struct {
		key  string
		def  string
		dest *time.Duration
	}{
		{"DB_MAX_CONN_LIFETIME", "30m", &cfg.MaxConnLifetime},
		{"DB_MAX_CONN_IDLE_TIME", "5m", &cfg.MaxConnIdleTime},
		{"DB_HEALTH_CHECK_PERIOD", "1m", &cfg.HealthCheckPeriod},
		{"DB_RETRY_DELAY", "1s", &cfg.RetryDelay},
		{"DB_CONNECT_TIMEOUT", "10s", &cfg.ConnectTimeout},
		{"DB_TX_TIMEOUT", "30s", &cfg.TxTimeout},
	}
	for _, d := range durations {
		v, err := time.ParseDuration(getEnv(d.key, d.def))
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", d.key, err)
		}
		*d.dest = v
	}

	if cfg.TxTimeout <= 0 {
		return nil, fmt.Errorf("DB_TX_TIMEOUT must be positive")
	}

	return cfg, nil
}
