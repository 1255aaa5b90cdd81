// Package core provides the statement builder: a fluent clause accumulator and
// the renderer that turns it into SQL text with positional "?" parameters.
package core

// Statement accumulates the clauses of a single SQL statement.
//
// Every setter records one piece of state and returns the receiver so calls can
// be chained. Nothing is validated until Build, and clauses that do not apply to
// the active operation are ignored at render time:
//
//	res, err := core.New().
//	    Select("id", "name").
//	    From("users").
//	    Where("status", "active").
//	    Sort("created_at", core.Desc).
//	    Limit(20).
//	    Build()
//
// A Statement is meant to be built and rendered by a single goroutine.
type Statement struct {
	operation Operation

	fields []string
	table  string
	values []any

	wheres    orderedValues
	setValues orderedValues
	having    orderedValues

	orderBy  string
	orderDir Direction

	stringExpr  map[string]string
	dateExpr    map[string]string
	numericExpr map[string]string

	groupBy  []string
	limit    *int
	offset   *int
	joins    []join
	distinct bool
}

// New returns an empty Statement. It renders nothing until an operation
// selector (Select, SelectAll, Insert, Update, Delete, Replace) is called.
func New() *Statement {
	return &Statement{
		orderDir:    Asc,
		stringExpr:  make(map[string]string),
		dateExpr:    make(map[string]string),
		numericExpr: make(map[string]string),
	}
}

// Operation returns the operation the Statement will render.
func (s *Statement) Operation() Operation {
	return s.operation
}

// Select sets the operation to SELECT and replaces the selected columns.
func (s *Statement) Select(columns ...string) *Statement {
	s.operation = OpSelect
	s.fields = append([]string(nil), columns...)
	return s
}

// SelectAll sets the operation to SELECT with a single "*" column.
func (s *Statement) SelectAll() *Statement {
	s.operation = OpSelect
	s.fields = []string{"*"}
	return s
}

// From sets the table to select or delete from.
func (s *Statement) From(table string) *Statement {
	s.table = table
	return s
}

// Where adds an equality filter. Filters are joined with AND in the order the
// columns were first added; setting a column again replaces its value.
func (s *Statement) Where(column string, value any) *Statement {
	s.wheres.set(column, value)
	return s
}

// Insert sets the operation to INSERT and replaces the target columns.
func (s *Statement) Insert(columns ...string) *Statement {
	s.operation = OpInsert
	s.fields = append([]string(nil), columns...)
	return s
}

// Into sets the table to insert into.
func (s *Statement) Into(table string) *Statement {
	s.table = table
	return s
}

// Values sets the values for INSERT or REPLACE, matched to the columns by position.
func (s *Statement) Values(values ...any) *Statement {
	s.values = append([]any(nil), values...)
	return s
}

// Update sets the operation to UPDATE on the given table.
func (s *Statement) Update(table string) *Statement {
	s.operation = OpUpdate
	s.table = table
	return s
}

// Set adds a column assignment for UPDATE.
func (s *Statement) Set(column string, value any) *Statement {
	s.setValues.set(column, value)
	return s
}

// Delete sets the operation to DELETE. Use From to name the table.
func (s *Statement) Delete() *Statement {
	s.operation = OpDelete
	return s
}

// Replace sets the operation to REPLACE and replaces the target columns.
func (s *Statement) Replace(columns ...string) *Statement {
	s.operation = OpReplace
	s.fields = append([]string(nil), columns...)
	return s
}

// In sets the table to replace into.
func (s *Statement) In(table string) *Statement {
	s.table = table
	return s
}

// With sets the values for REPLACE. It is an alias of Values.
func (s *Statement) With(values ...any) *Statement {
	return s.Values(values...)
}

// Sort sets a single ORDER BY column. The direction defaults to Asc.
func (s *Statement) Sort(column string, direction ...Direction) *Statement {
	s.orderBy = column
	s.orderDir = Asc
	if len(direction) > 0 {
		s.orderDir = direction[0]
	}
	return s
}

// GroupBy replaces the GROUP BY columns.
func (s *Statement) GroupBy(columns ...string) *Statement {
	s.groupBy = append([]string(nil), columns...)
	return s
}

// Having adds an equality HAVING filter, with the same ordering rules as Where.
func (s *Statement) Having(column string, value any) *Statement {
	s.having.set(column, value)
	return s
}

// Limit sets the maximum number of rows. Negative values fail at Build.
func (s *Statement) Limit(n int) *Statement {
	s.limit = &n
	return s
}

// Offset sets the number of rows to skip. Negative values fail at Build.
func (s *Statement) Offset(n int) *Statement {
	s.offset = &n
	return s
}

// Join appends a JOIN clause. The condition is written verbatim.
//
//	Join(core.LeftJoin, "orders o", "o.user_id = u.id")
func (s *Statement) Join(kind JoinType, table, on string) *Statement {
	s.joins = append(s.joins, join{kind: kind, table: table, on: on})
	return s
}

// Distinct turns the SELECT into SELECT DISTINCT.
func (s *Statement) Distinct() *Statement {
	s.distinct = true
	return s
}
