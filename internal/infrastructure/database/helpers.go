package database

import (
	"context"
	"fmt"

	txdb "publisher-backoffice/pkg/database"
	"publisher-backoffice/pkg/logger"

	pgx "github.com/jackc/pgx/v5"
)

// Close releases every pooled connection. Safe to call more than once.
func (db *PostgresDB) Close() error {
	// Nothing to release when Connect never succeeded or Close already ran
	if db.Pool == nil {
		return nil
	}

	// Close waits for acquired connections to be released
	db.Pool.Close()
	db.Pool = nil

	logger.Info("database pool closed", nil)
	return nil
}

// PoolStats is the subset of pgxpool statistics exposed by the health endpoint.
type PoolStats struct {
	TotalConns    int32 `json:"total_conns"`
	IdleConns     int32 `json:"idle_conns"`
	AcquiredConns int32 `json:"acquired_conns"`
	MaxConns      int32 `json:"max_conns"`
}

func (db *PostgresDB) Stats() (*PoolStats, error) {
	if db.Pool == nil {
		return nil, fmt.Errorf("database pool is not initialized")
	}

	// Snapshot; the counters keep moving after this call
	raw := db.Pool.Stat()
	return &PoolStats{
		TotalConns:    raw.TotalConns(),
		IdleConns:     raw.IdleConns(),
		AcquiredConns: raw.AcquiredConns(),
		MaxConns:      raw.MaxConns(),
	}, nil
}

// InTx runs fn in a read-committed transaction bounded by Config.TxTimeout.
// fn receives the transaction context and must run every statement on it.
// A transaction cut by the deadline fails with an error wrapping
// txdb.ErrTxTimeout.
func (db *PostgresDB) InTx(ctx context.Context, fn txdb.TxFunc) error {
	return txdb.WithTransaction(ctx, db.Pool, txdb.TxOptions{
		Timeout:  db.Config.TxTimeout,
		IsoLevel: pgx.ReadCommitted,
	}, fn)
}
