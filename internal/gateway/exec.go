package gateway

import (
	"context"
	"database/sql"
	"time"

	"github.com/coregx/sqlstmt/internal/core"
	"github.com/coregx/sqlstmt/internal/tracer"
)

// Row is one result row keyed by column name. Byte slices returned by the
// driver are converted to strings.
type Row = map[string]any

// ExecResult summarizes a write statement.
type ExecResult struct {
	RowsAffected int64
	LastInsertID int64
}

// Query runs a statement that returns rows. Its signature matches the
// executor taken by (*core.Statement).RunAs, so a DB can run statements
// directly:
//
//	rows, err := sqlstmt.RunAs(ctx, stmt, db.Query)
func (db *DB) Query(ctx context.Context, query string, params []any) ([]Row, error) {
	var rows []Row
	err := db.execute(ctx, "sqlstmt.query", query, params, func(ctx context.Context, stmt *sql.Stmt) (int64, error) {
		result, err := stmt.QueryContext(ctx, params...)
		if err != nil {
			return 0, err
		}
		rows, err = scanRows(result)
		return int64(len(rows)), err
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Exec runs a statement that does not return rows.
func (db *DB) Exec(ctx context.Context, query string, params []any) (ExecResult, error) {
	var res ExecResult
	err := db.execute(ctx, "sqlstmt.exec", query, params, func(ctx context.Context, stmt *sql.Stmt) (int64, error) {
		result, err := stmt.ExecContext(ctx, params...)
		if err != nil {
			return 0, err
		}
		// Drivers that cannot report these leave them at zero.
		res.RowsAffected, _ = result.RowsAffected()
		res.LastInsertID, _ = result.LastInsertId()
		return res.RowsAffected, nil
	})
	return res, err
}

// Statement renders stmt and runs it with Query.
func (db *DB) Statement(ctx context.Context, stmt *core.Statement) ([]Row, error) {
	if err := db.checkStatement(stmt); err != nil {
		return nil, err
	}
	return core.RunAs(ctx, stmt, db.Query)
}

// ExecStatement renders stmt and runs it with Exec.
func (db *DB) ExecStatement(ctx context.Context, stmt *core.Statement) (ExecResult, error) {
	if err := db.checkStatement(stmt); err != nil {
		return ExecResult{}, err
	}
	return core.RunAs(ctx, stmt, db.Exec)
}

func (db *DB) checkStatement(stmt *core.Statement) error {
	if !db.strict {
		return nil
	}
	return stmt.Validate()
}

// execute validates, prepares (through the statement cache) and runs one
// statement, then reports it. Driver errors are returned unwrapped.
func (db *DB) execute(ctx context.Context, spanName, query string, params []any,
	run func(context.Context, *sql.Stmt) (int64, error)) error {
	if db.validator != nil {
		if err := db.validator.Validate(query, params); err != nil {
			db.logger.Warn("statement rejected",
				"sql", query,
				"params", db.maskedParams(query, params),
				"database", db.name,
				"error", err,
			)
			return err
		}
	}

	sqlDB, err := db.conn(ctx)
	if err != nil {
		return err
	}

	ctx, span := db.tracer.StartSpan(ctx, spanName)
	defer span.End()

	start := time.Now()
	var rows int64
	stmt, release, err := db.stmtCache.GetOrPrepare(ctx, query, sqlDB.PrepareContext)
	if err == nil {
		rows, err = run(ctx, stmt)
		release()
	}
	elapsed := time.Since(start)
	if err != nil && isConnectionError(err) {
		db.markBroken(sqlDB, err)
	}

	operation := tracer.DetectOperation(query)
	db.logExecution(query, params, rows, elapsed, err)
	tracer.AddQueryAttributes(span, &tracer.QueryMetadata{
		SQL:          query,
		Args:         params,
		Duration:     elapsed,
		RowsAffected: rows,
		Error:        err,
		Database:     db.cfg.Driver,
		Operation:    operation,
		Table:        tracer.DetectTable(query),
	})
	db.invokeHooks(ctx, QueryEvent{
		SQL:          query,
		Args:         params,
		Duration:     elapsed,
		RowsAffected: rows,
		Error:        err,
		Operation:    operation,
		Database:     db.name,
	})
	return err
}

func (db *DB) maskedParams(query string, params []any) string {
	return db.sanitizer.FormatParams(db.sanitizer.MaskParams(query, params))
}

// logExecution logs one execution with masked parameters.
func (db *DB) logExecution(query string, params []any, rows int64, elapsed time.Duration, err error) {
	if err != nil {
		db.logger.Error("statement failed",
			"sql", query,
			"params", db.maskedParams(query, params),
			"duration_ms", elapsed.Milliseconds(),
			"database", db.name,
			"error", err,
		)
		return
	}

	db.logger.Info("statement executed",
		"sql", query,
		"params", db.maskedParams(query, params),
		"duration_ms", elapsed.Milliseconds(),
		"rows", rows,
		"database", db.name,
	)

	if db.slowThreshold > 0 && elapsed >= db.slowThreshold {
		db.logger.Warn("slow statement",
			"sql", query,
			"duration_ms", elapsed.Milliseconds(),
			"threshold_ms", db.slowThreshold.Milliseconds(),
			"database", db.name,
		)
	}
}

// scanRows reads and closes rows.
func scanRows(rows *sql.Rows) ([]Row, error) {
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	out := []Row{}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		row := make(Row, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
