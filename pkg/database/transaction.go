package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// DefaultTxTimeout bounds a transaction when TxOptions.Timeout is zero.
const DefaultTxTimeout = 30 * time.Second

// rollbackTimeout bounds the rollback issued after a failure.
const rollbackTimeout = 5 * time.Second

// ErrTxTimeout is returned when a transaction outlives its timeout. The
// transaction has been rolled back.
var ErrTxTimeout = errors.New("transaction timed out")

// Beginner starts transactions. *pgxpool.Pool and *pgx.Conn implement it.
type Beginner interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// TxFunc is executed inside a transaction. Every statement must run on ctx,
// which carries the transaction deadline.
type TxFunc func(ctx context.Context, tx pgx.Tx) error

type TxOptions struct {
	Timeout  time.Duration
	IsoLevel pgx.TxIsoLevel
}

// WithTransaction runs fn in a transaction bounded by opts.Timeout.
// It rolls back when fn returns an error or panics, and commits otherwise.
//
// Flow:
//  1. Derive the transaction context with its deadline
//  2. Begin on that context
//  3. Run fn with the same context, so lock waits and slow statements are
//     cancelled by the deadline
//  4. Commit, or roll back on error or panic
//  5. Report ErrTxTimeout when the deadline was the cause
func WithTransaction(ctx context.Context, db Beginner, opts TxOptions, fn TxFunc) (err error) {
	// ========================================
	// STEP 1: transaction deadline
	// ========================================
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTxTimeout
	}

	txCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// ========================================
	// STEP 2: begin
	// ========================================
	tx, err := db.BeginTx(txCtx, pgx.TxOptions{IsoLevel: opts.IsoLevel})
	if err != nil {
		return timeoutOr(txCtx, fmt.Errorf("failed to begin transaction: %w", err))
	}

	// ========================================
	// STEP 4b: rollback on error or panic
	// ========================================
	defer func() {
		if p := recover(); p != nil {
			rollback(tx)
			panic(p)
		}
		if err != nil {
			rollback(tx)
		}
	}()

	// ========================================
	// STEP 3: run the statements on txCtx
	// ========================================
	if err = fn(txCtx, tx); err != nil {
		return timeoutOr(txCtx, err)
	}

	// ========================================
	// STEP 4a: commit
	// ========================================
	if err = tx.Commit(txCtx); err != nil {
		return timeoutOr(txCtx, fmt.Errorf("failed to commit transaction: %w", err))
	}

	return nil
}

// rollback uses a fresh context: the transaction context may already be done.
func rollback(tx pgx.Tx) {
	ctx, cancel := context.WithTimeout(context.Background(), rollbackTimeout)
	defer cancel()
	_ = tx.Rollback(ctx)
}

// STEP 5: a failure after the deadline passed is reported as a timeout.
func timeoutOr(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTxTimeout, err)
	}
	return err
}
