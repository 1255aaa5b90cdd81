package gateway

import (
	"context"

	"github.com/coregx/sqlstmt/internal/analyzer"
	"github.com/coregx/sqlstmt/internal/core"
	"github.com/coregx/sqlstmt/internal/tracer"
)

// QueryPlan summarizes an EXPLAIN result.
type QueryPlan = analyzer.QueryPlan

// Explain renders stmt and returns the server's plan for it without
// executing it. Query hooks are not invoked.
func (db *DB) Explain(ctx context.Context, stmt *core.Statement) (*QueryPlan, error) {
	query, params, err := stmt.Destruct()
	if err != nil {
		return nil, err
	}
	if db.validator != nil {
		if err := db.validator.Validate(query, params); err != nil {
			return nil, err
		}
	}

	sqlDB, err := db.conn(ctx)
	if err != nil {
		return nil, err
	}
	a, err := analyzer.New(sqlDB, db.dialect.DriverName())
	if err != nil {
		return nil, err
	}

	ctx, span := db.tracer.StartSpan(ctx, "sqlstmt.explain")
	defer span.End()

	plan, err := a.Explain(ctx, query, params)
	tracer.AddQueryAttributes(span, &tracer.QueryMetadata{
		SQL:       query,
		Args:      params,
		Error:     err,
		Database:  db.cfg.Driver,
		Operation: tracer.DetectOperation(query),
		Table:     tracer.DetectTable(query),
	})
	if err != nil {
		db.logger.Error("explain failed", "sql", query, "database", db.name, "error", err)
		return nil, err
	}

	db.logger.Debug("explain",
		"sql", query,
		"uses_index", plan.UsesIndex,
		"index", plan.IndexName,
		"full_scan", plan.FullScan,
		"database", db.name,
	)
	return plan, nil
}
