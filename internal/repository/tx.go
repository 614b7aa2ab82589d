package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/timetable-api/internal/models"
)

// TxRunner serializes timetable writes per scope. Every mutation of a scope's
// sessions or version pointer runs inside one of these transactions, so
// concurrent saves and rollbacks on the same scope are sequenced rather than
// interleaved.
type TxRunner struct {
	db *sqlx.DB
}

// NewTxRunner builds the runner.
func NewTxRunner(db *sqlx.DB) *TxRunner {
	return &TxRunner{db: db}
}

// WithScopeTx runs fn inside a transaction holding a Postgres advisory lock
// keyed on the scope. The lock is released on commit or rollback.
func (t *TxRunner) WithScopeTx(ctx context.Context, scope models.Scope, fn func(tx *sqlx.Tx) error) error {
	tx, err := t.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin scope transaction: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, scope.String()); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("acquire scope lock for %s: %w", scope, err)
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit scope transaction: %w", err)
	}
	return nil
}
