package gateway

import (
	"time"

	"github.com/coregx/sqlstmt/internal/logger"
	"github.com/coregx/sqlstmt/internal/security"
	"github.com/coregx/sqlstmt/internal/tracer"
)

// Option is a functional option for configuring DB.
type Option func(*DB)

// WithLogger sets the logger every execution is reported to.
func WithLogger(l logger.Logger) Option {
	return func(db *DB) {
		if l != nil {
			db.logger = l
		}
	}
}

// WithTracer wraps every execution in a span.
func WithTracer(t tracer.Tracer) Option {
	return func(db *DB) {
		if t != nil {
			db.tracer = t
		}
	}
}

// WithStmtCacheCapacity sets the prepared statement cache capacity.
func WithStmtCacheCapacity(capacity int) Option {
	return func(db *DB) {
		db.cacheCapacity = capacity
	}
}

// WithValidator checks rendered SQL and string parameters before execution.
func WithValidator(v *security.Validator) Option {
	return func(db *DB) {
		db.validator = v
	}
}

// WithStrictStatements makes Statement and ExecStatement reject statements
// that fail (*core.Statement).Validate, such as an INSERT whose value count
// differs from its column count.
func WithStrictStatements() Option {
	return func(db *DB) {
		db.strict = true
	}
}

// WithQueryHook adds a callback invoked after every execution. Hooks run in
// the order they were added.
func WithQueryHook(hook QueryHook) Option {
	return func(db *DB) {
		if hook != nil {
			db.hooks = append(db.hooks, hook)
		}
	}
}

// WithHealthCheck pings the database every interval while connected.
func WithHealthCheck(interval time.Duration) Option {
	return func(db *DB) {
		db.healthInterval = interval
	}
}

// WithMaxOpenConns sets the maximum number of open connections.
// In-memory SQLite databases always use a single connection.
func WithMaxOpenConns(n int) Option {
	return func(db *DB) {
		db.maxOpen = n
	}
}

// WithMaxIdleConns sets the maximum number of idle connections.
func WithMaxIdleConns(n int) Option {
	return func(db *DB) {
		db.maxIdle = n
	}
}

// WithSlowQueryThreshold logs a warning for every execution that takes at
// least d. Zero disables the warning.
func WithSlowQueryThreshold(d time.Duration) Option {
	return func(db *DB) {
		db.slowThreshold = d
	}
}
