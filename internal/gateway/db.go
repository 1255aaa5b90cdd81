// Package gateway executes rendered statements against MySQL or SQLite.
//
// A DB connects lazily on first use, prepares each distinct query once and
// keeps it in an LRU cache, and reports every execution to the configured
// logger, tracer and query hooks.
package gateway

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/coregx/sqlstmt/internal/cache"
	"github.com/coregx/sqlstmt/internal/config"
	"github.com/coregx/sqlstmt/internal/dialects"
	"github.com/coregx/sqlstmt/internal/logger"
	"github.com/coregx/sqlstmt/internal/security"
	"github.com/coregx/sqlstmt/internal/tracer"
)

// State is the connection state of a DB.
type State int

// Connection states.
const (
	StateClosed State = iota
	StateConnecting
	StateConnected
	StateError
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateError:
		return "error"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// CacheStats reports prepared statement cache usage.
type CacheStats = cache.Stats

// DB is a lazily connected database handle.
type DB struct {
	cfg     config.Config
	dialect dialects.Dialect
	name    string

	mu     sync.RWMutex
	sqlDB  *sql.DB
	state  State
	closed bool
	health *healthChecker

	stmtCache *cache.StmtCache
	logger    logger.Logger
	sanitizer *logger.Sanitizer
	tracer    tracer.Tracer
	validator *security.Validator
	strict    bool
	hooks     []QueryHook

	cacheCapacity  int
	healthInterval time.Duration
	slowThreshold  time.Duration
	maxOpen        int
	maxIdle        int
}

// Open validates cfg and returns a DB in StateClosed. No connection is made
// until the first execution or an explicit Refresh.
func Open(cfg config.Config, opts ...Option) (*DB, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	dialect, _ := dialects.GetDialect(cfg.Driver)

	db := &DB{
		cfg:       cfg,
		dialect:   dialect,
		name:      cfg.Name(),
		logger:    &logger.NoopLogger{},
		sanitizer: logger.NewSanitizer(nil),
		tracer:    &tracer.NoopTracer{},
	}

	for _, opt := range opts {
		opt(db)
	}

	db.stmtCache = cache.NewStmtCacheWithCapacity(db.cacheCapacity)
	return db, nil
}

// State returns the current connection state.
func (db *DB) State() State {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.state
}

// Healthy reports whether the DB is connected and, when health checks are
// enabled, whether the most recent ping succeeded.
func (db *DB) Healthy() bool {
	db.mu.RLock()
	defer db.mu.RUnlock()
	if db.state != StateConnected {
		return false
	}
	return db.health == nil || db.health.isHealthy()
}

// LastHealthCheck returns the time of the most recent ping, or the zero time
// when health checks are disabled or have not run.
func (db *DB) LastHealthCheck() time.Time {
	db.mu.RLock()
	defer db.mu.RUnlock()
	if db.health == nil {
		return time.Time{}
	}
	return db.health.lastCheck()
}

// CacheStats returns prepared statement cache statistics.
func (db *DB) CacheStats() CacheStats {
	return db.stmtCache.Stats()
}

// conn returns the live handle, connecting first if needed.
func (db *DB) conn(ctx context.Context) (*sql.DB, error) {
	db.mu.RLock()
	if db.state == StateConnected {
		sqlDB := db.sqlDB
		db.mu.RUnlock()
		return sqlDB, nil
	}
	db.mu.RUnlock()

	db.mu.Lock()
	defer db.mu.Unlock()
	if err := db.connectLocked(ctx); err != nil {
		return nil, err
	}
	return db.sqlDB, nil
}

// connectLocked opens and pings the handle. Must be called with lock held.
func (db *DB) connectLocked(ctx context.Context) error {
	if db.closed {
		return ErrClosed
	}
	if db.state == StateConnected {
		return nil
	}

	if db.state == StateError && db.sqlDB != nil {
		if err := db.disconnectLocked(); err != nil {
			db.logger.Warn("closing broken connection failed", "database", db.name, "error", err)
		}
	}

	db.state = StateConnecting
	sqlDB, err := db.open(ctx)
	if err != nil {
		db.state = StateError
		db.logger.Error("database connection failed",
			"database", db.name,
			"driver", db.cfg.Driver,
			"error", err,
		)
		return WrapError(err, "connect to "+db.name)
	}

	db.sqlDB = sqlDB
	db.state = StateConnected
	if db.healthInterval > 0 {
		db.health = newHealthChecker(sqlDB, db.logger, db.healthInterval)
		db.health.start()
	}

	if db.cfg.Debug {
		db.logger.Info("connected to database", "database", db.name, "driver", db.cfg.Driver)
	} else {
		db.logger.Debug("connected to database", "database", db.name, "driver", db.cfg.Driver)
	}
	return nil
}

func (db *DB) open(ctx context.Context) (*sql.DB, error) {
	params := db.cfg.ConnParams()
	if !db.cfg.InMemory() && params.Path != "" {
		if err := os.MkdirAll(filepath.Dir(params.Path), 0o755); err != nil {
			return nil, err
		}
	}

	sqlDB, err := sql.Open(db.dialect.DriverName(), db.dialect.DSN(params))
	if err != nil {
		return nil, err
	}

	if db.cfg.InMemory() {
		// Every new connection would see its own empty database.
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(0)
	} else {
		if db.maxOpen > 0 {
			sqlDB.SetMaxOpenConns(db.maxOpen)
		}
		if db.maxIdle > 0 {
			sqlDB.SetMaxIdleConns(db.maxIdle)
		}
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return sqlDB, nil
}

// markBroken moves a connected handle to StateError after a connection-level
// failure so that the next operation reconnects. Failures on a handle that has
// already been replaced are ignored.
func (db *DB) markBroken(sqlDB *sql.DB, cause error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.closed || db.sqlDB != sqlDB || db.state != StateConnected {
		return
	}
	db.state = StateError
	db.logger.Error("database connection lost",
		"database", db.name,
		"driver", db.cfg.Driver,
		"error", cause,
	)
}

// disconnectLocked stops health checks, drops cached statements and closes
// the handle. Must be called with lock held.
func (db *DB) disconnectLocked() error {
	if db.health != nil {
		db.health.shutdown()
		db.health = nil
	}
	db.stmtCache.Clear()

	var err error
	if db.sqlDB != nil {
		err = db.sqlDB.Close()
		db.sqlDB = nil
	}
	db.state = StateClosed
	return err
}

// Refresh closes the current connection, if any, and connects again. An
// in-memory SQLite database starts empty after a refresh.
func (db *DB) Refresh(ctx context.Context) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.closed {
		return ErrClosed
	}
	if err := db.disconnectLocked(); err != nil {
		db.logger.Warn("closing connection during refresh failed", "database", db.name, "error", err)
	}
	return db.connectLocked(ctx)
}

// Close releases all database resources. Later calls return ErrClosed from
// every operation; Close itself is idempotent.
func (db *DB) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.closed {
		return nil
	}
	db.closed = true
	wasOpen := db.sqlDB != nil

	err := db.disconnectLocked()
	if wasOpen {
		db.logger.Debug("connection closed", "database", db.name)
	}
	return err
}
