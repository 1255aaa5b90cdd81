package analyzer

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
)

// MySQLAnalyzer implements query analysis for MySQL databases.
type MySQLAnalyzer struct {
	db *sql.DB
}

// NewMySQLAnalyzer creates a new MySQL query analyzer.
func NewMySQLAnalyzer(db *sql.DB) *MySQLAnalyzer {
	return &MySQLAnalyzer{db: db}
}

// Explain runs EXPLAIN FORMAT=JSON and summarizes the result.
func (ma *MySQLAnalyzer) Explain(ctx context.Context, query string, params []any) (*QueryPlan, error) {
	var raw string
	if err := ma.db.QueryRowContext(ctx, "EXPLAIN FORMAT=JSON "+query, params...).Scan(&raw); err != nil {
		return nil, fmt.Errorf("failed to execute EXPLAIN: %w", err)
	}

	plan, err := parseMySQLExplain(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse EXPLAIN output: %w", err)
	}
	plan.RawOutput = raw
	return plan, nil
}

type mysqlExplainRoot struct {
	QueryBlock mysqlQueryBlock `json:"query_block"`
}

// mysqlQueryBlock is a query_block or one of the operation nodes nested in
// it. All of them can hold a table, a nested loop or further operations.
type mysqlQueryBlock struct {
	CostInfo   mysqlCostInfo      `json:"cost_info"`
	Table      *mysqlTableAccess  `json:"table"`
	NestedLoop []mysqlNestedTable `json:"nested_loop"`
	Grouping   *mysqlQueryBlock   `json:"grouping_operation"`
	Ordering   *mysqlQueryBlock   `json:"ordering_operation"`
	Duplicates *mysqlQueryBlock   `json:"duplicates_removal"`
}

type mysqlNestedTable struct {
	Table *mysqlTableAccess `json:"table"`
}

type mysqlTableAccess struct {
	TableName           string `json:"table_name"`
	AccessType          string `json:"access_type"` // ALL, index, range, ref, eq_ref, const, system
	Key                 string `json:"key"`
	RowsExaminedPerScan int64  `json:"rows_examined_per_scan"`
}

type mysqlCostInfo struct {
	QueryCost string `json:"query_cost"`
}

func parseMySQLExplain(raw string) (*QueryPlan, error) {
	var root mysqlExplainRoot
	if err := json.Unmarshal([]byte(raw), &root); err != nil {
		return nil, err
	}

	plan := &QueryPlan{Database: "mysql"}
	if root.QueryBlock.CostInfo.QueryCost != "" {
		cost, err := strconv.ParseFloat(root.QueryBlock.CostInfo.QueryCost, 64)
		if err == nil {
			plan.Cost = cost
		}
	}

	collectMySQLBlock(&root.QueryBlock, plan)
	return plan, nil
}

func collectMySQLBlock(block *mysqlQueryBlock, plan *QueryPlan) {
	if block == nil {
		return
	}
	collectMySQLTable(block.Table, plan)
	for _, nested := range block.NestedLoop {
		collectMySQLTable(nested.Table, plan)
	}
	collectMySQLBlock(block.Grouping, plan)
	collectMySQLBlock(block.Ordering, plan)
	collectMySQLBlock(block.Duplicates, plan)
}

func collectMySQLTable(table *mysqlTableAccess, plan *QueryPlan) {
	if table == nil {
		return
	}
	if table.Key != "" {
		plan.UsesIndex = true
		if plan.IndexName == "" {
			plan.IndexName = table.Key
		}
	}
	if table.AccessType == "ALL" {
		plan.FullScan = true
	}
	plan.EstimatedRows += table.RowsExaminedPerScan
}
