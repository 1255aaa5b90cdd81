package gateway

import (
	"context"
	"time"
)

// QueryEvent contains information about an executed statement.
type QueryEvent struct {
	// SQL is the executed query text
	SQL string
	// Args are the bound parameters, unmasked
	Args []any
	// Duration covers statement preparation and execution
	Duration time.Duration
	// RowsAffected is the rows changed by a write or returned by a read
	RowsAffected int64
	// Error is nil on success
	Error error
	// Operation is SELECT, INSERT, UPDATE, DELETE, REPLACE or UNKNOWN
	Operation string
	// Database is the configured database name or alias
	Database string
}

// QueryHook is a callback function invoked after each execution.
//
// Example:
//
//	db, _ := sqlstmt.Open(cfg,
//	    sqlstmt.WithQueryHook(func(ctx context.Context, e sqlstmt.QueryEvent) {
//	        metrics.Observe(e.Operation, e.Duration)
//	    }))
type QueryHook func(ctx context.Context, event QueryEvent)

// invokeHooks calls every registered hook.
func (db *DB) invokeHooks(ctx context.Context, event QueryEvent) {
	for _, hook := range db.hooks {
		hook(ctx, event)
	}
}
