// Package sqlstmt provides a fluent builder for parameterized MySQL-style SQL
// statements. A Statement accumulates SELECT, INSERT, UPDATE, DELETE or REPLACE
// clauses and renders them into query text with positional "?" placeholders and
// a parameter slice in matching order. Execution is delegated to a callback, or
// to the bundled gateway for MySQL and SQLite.
package sqlstmt

import (
	"context"

	"github.com/coregx/sqlstmt/internal/config"
	"github.com/coregx/sqlstmt/internal/core"
	"github.com/coregx/sqlstmt/internal/gateway"
	"github.com/coregx/sqlstmt/internal/logger"
	"github.com/coregx/sqlstmt/internal/security"
	"github.com/coregx/sqlstmt/internal/tracer"
)

type (
	// Statement accumulates the clauses of one SQL statement.
	Statement = core.Statement
	// Result is a rendered statement.
	Result = core.Result
	// Operation is the SQL form a Statement renders.
	Operation = core.Operation
	// Direction is an ORDER BY direction.
	Direction = core.Direction
	// JoinType is the keyword placed before JOIN.
	JoinType = core.JoinType
	// ExecFunc executes a rendered statement.
	ExecFunc = core.ExecFunc
	// ValueCountError reports mismatched INSERT/REPLACE values.
	ValueCountError = core.ValueCountError

	// DB is a lazily connected database handle that executes statements.
	DB = gateway.DB
	// Option configures a DB.
	Option = gateway.Option
	// Row is one result row keyed by column name.
	Row = gateway.Row
	// ExecResult summarizes a write statement.
	ExecResult = gateway.ExecResult
	// State is the connection state of a DB.
	State = gateway.State
	// QueryEvent describes one execution for query hooks.
	QueryEvent = gateway.QueryEvent
	// QueryHook is called after every execution.
	QueryHook = gateway.QueryHook
	// CacheStats reports prepared statement cache usage.
	CacheStats = gateway.CacheStats
	// QueryPlan summarizes an EXPLAIN result.
	QueryPlan = gateway.QueryPlan

	// Logger receives one record per execution.
	Logger = logger.Logger
	// Tracer starts a span per execution.
	Tracer = tracer.Tracer
	// Validator checks rendered SQL before execution.
	Validator = security.Validator

	// Config holds connection settings.
	Config = config.Config
)

// Operations, directions and join types.
const (
	OpNone    = core.OpNone
	OpSelect  = core.OpSelect
	OpInsert  = core.OpInsert
	OpUpdate  = core.OpUpdate
	OpDelete  = core.OpDelete
	OpReplace = core.OpReplace

	Asc  = core.Asc
	Desc = core.Desc

	InnerJoin = core.InnerJoin
	LeftJoin  = core.LeftJoin
	RightJoin = core.RightJoin
	FullJoin  = core.FullJoin
	CrossJoin = core.CrossJoin

	StateClosed     = gateway.StateClosed
	StateConnecting = gateway.StateConnecting
	StateConnected  = gateway.StateConnected
	StateError      = gateway.StateError
)

// Errors.
var (
	ErrUnsupportedOperation = core.ErrUnsupportedOperation
	ErrNegativeLimit        = core.ErrNegativeLimit
	ErrNegativeOffset       = core.ErrNegativeOffset
	ErrValueCountMismatch   = core.ErrValueCountMismatch
	ErrClosed               = gateway.ErrClosed
	ErrUnsupportedDriver    = config.ErrUnsupportedDriver
	ErrDangerousQuery       = security.ErrDangerousQuery
	ErrSuspiciousParam      = security.ErrSuspiciousParam
)

// Re-export constructors and options.
var (
	New = core.New

	Open                   = gateway.Open
	WithLogger             = gateway.WithLogger
	WithTracer             = gateway.WithTracer
	WithStmtCacheCapacity  = gateway.WithStmtCacheCapacity
	WithValidator          = gateway.WithValidator
	WithStrictStatements   = gateway.WithStrictStatements
	WithQueryHook          = gateway.WithQueryHook
	WithHealthCheck        = gateway.WithHealthCheck
	WithMaxOpenConns       = gateway.WithMaxOpenConns
	WithMaxIdleConns       = gateway.WithMaxIdleConns
	WithSlowQueryThreshold = gateway.WithSlowQueryThreshold
	LoadConfig             = config.Load

	NewSlogLogger        = logger.NewSlogAdapter
	NewDailyFileHandler  = logger.NewDailyFileHandler
	NewOtelTracer        = tracer.NewOtelTracer
	NewValidator         = security.NewValidator
	WithStrictValidation = security.WithStrict
)

// RunAs renders s and passes it to exec, returning exec's typed result unchanged.
func RunAs[T any](ctx context.Context, s *Statement, exec func(context.Context, string, []any) (T, error)) (T, error) {
	return core.RunAs(ctx, s, exec)
}
