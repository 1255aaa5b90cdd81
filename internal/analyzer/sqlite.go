package analyzer

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
)

// SQLiteAnalyzer implements query analysis for SQLite databases.
type SQLiteAnalyzer struct {
	db *sql.DB
}

// NewSQLiteAnalyzer creates a new SQLite query analyzer.
func NewSQLiteAnalyzer(db *sql.DB) *SQLiteAnalyzer {
	return &SQLiteAnalyzer{db: db}
}

// Explain runs EXPLAIN QUERY PLAN. SQLite reports neither cost nor row
// estimates, so only index usage and scans are filled in.
func (sa *SQLiteAnalyzer) Explain(ctx context.Context, query string, params []any) (*QueryPlan, error) {
	rows, err := sa.db.QueryContext(ctx, "EXPLAIN QUERY PLAN "+query, params...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute EXPLAIN QUERY PLAN: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var lines []string
	for rows.Next() {
		// id, parent, notused, detail
		var id, parent, notused int
		var detail string
		if err := rows.Scan(&id, &parent, &notused, &detail); err != nil {
			return nil, fmt.Errorf("failed to scan EXPLAIN output: %w", err)
		}
		lines = append(lines, detail)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading EXPLAIN output: %w", err)
	}

	plan := parseSQLiteExplain(lines)
	plan.RawOutput = strings.Join(lines, "\n")
	return plan, nil
}

var sqliteIndexRe = regexp.MustCompile(`(?i)USING (?:COVERING )?INDEX (\S+)`)

// parseSQLiteExplain reads detail lines such as:
//   - "SCAN users" (full table scan)
//   - "SEARCH users USING INDEX email_idx (email=?)"
//   - "SEARCH users USING INTEGER PRIMARY KEY (rowid=?)"
func parseSQLiteExplain(lines []string) *QueryPlan {
	plan := &QueryPlan{Database: "sqlite"}

	for _, line := range lines {
		upper := strings.ToUpper(strings.TrimSpace(line))
		name := ""

		switch {
		case sqliteIndexRe.MatchString(line):
			name = sqliteIndexRe.FindStringSubmatch(line)[1]
		case strings.Contains(upper, "USING INTEGER PRIMARY KEY"):
			name = "PRIMARY KEY"
		case strings.Contains(upper, "USING AUTOMATIC"):
			name = "AUTOMATIC INDEX"
		case strings.HasPrefix(upper, "SCAN "):
			plan.FullScan = true
			continue
		default:
			continue
		}

		plan.UsesIndex = true
		if plan.IndexName == "" {
			plan.IndexName = name
		}
	}

	return plan
}
