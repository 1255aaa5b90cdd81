// Package analyzer reads query plans with EXPLAIN and reduces them to a
// QueryPlan shared by MySQL and SQLite.
package analyzer

import (
	"context"
	"database/sql"
	"fmt"
)

// QueryPlan is a driver-independent summary of an execution plan.
type QueryPlan struct {
	Cost          float64 // Estimated cost in driver units, 0 when not reported
	EstimatedRows int64   // Rows the planner expects to examine, 0 when not reported

	UsesIndex bool   // true if any step reads through an index
	IndexName string // First index used, empty if none
	FullScan  bool   // true if any step scans a whole table

	RawOutput string // EXPLAIN output as returned by the server
	Database  string // "mysql" or "sqlite"
}

// Analyzer explains queries for one driver.
type Analyzer interface {
	// Explain returns the plan for query without executing it.
	Explain(ctx context.Context, query string, params []any) (*QueryPlan, error)
}

// New returns the analyzer for driverName.
func New(db *sql.DB, driverName string) (Analyzer, error) {
	switch driverName {
	case "mysql":
		return NewMySQLAnalyzer(db), nil
	case "sqlite", "sqlite3":
		return NewSQLiteAnalyzer(db), nil
	default:
		return nil, fmt.Errorf("no query analyzer for driver %q", driverName)
	}
}
