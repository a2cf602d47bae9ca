package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
)

// RunInTx runs fn inside a transaction and commits it. If fn or the commit
// fails, the transaction is rolled back, the failure is logged and the error
// is returned. There is no retry.
func RunInTx(ctx context.Context, db *sql.DB, op string, fn func(q *Queries) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		slog.ErrorContext(ctx, "failed to start transaction", "op", op, "error", err)
		return fmt.Errorf("starting transaction: %w", err)
	}

	if err := fn(New(db).WithTx(tx)); err != nil {
		rollback(ctx, tx, op, err)
		return err
	}

	if err := tx.Commit(); err != nil {
		rollback(ctx, tx, op, err)
		return fmt.Errorf("committing %s: %w", op, err)
	}
	return nil
}

func rollback(ctx context.Context, tx *sql.Tx, op string, cause error) {
	level := slog.LevelError
	// Expected outcomes (constraint hits, missing rows) are not server faults.
	if errors.Is(cause, ErrDuplicateTitle) || errors.Is(cause, ErrDuplicateEmail) || IsNotFound(cause) {
		level = slog.LevelWarn
	}
	slog.Log(ctx, level, "transaction rolled back", "op", op, "error", cause)

	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		slog.ErrorContext(ctx, "rollback failed", "op", op, "error", err)
	}
}
