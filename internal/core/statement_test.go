package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestStatement_Chaining tests that every setter returns the receiver
func TestStatement_Chaining(t *testing.T) {
	s := New()

	setters := []func() *Statement{
		func() *Statement { return s.Select("a") },
		func() *Statement { return s.SelectAll() },
		func() *Statement { return s.From("t") },
		func() *Statement { return s.Where("a", 1) },
		func() *Statement { return s.Insert("a") },
		func() *Statement { return s.Into("t") },
		func() *Statement { return s.Values(1) },
		func() *Statement { return s.Update("t") },
		func() *Statement { return s.Set("a", 1) },
		func() *Statement { return s.Delete() },
		func() *Statement { return s.Replace("a") },
		func() *Statement { return s.In("t") },
		func() *Statement { return s.With(1) },
		func() *Statement { return s.Sort("a") },
		func() *Statement { return s.GroupBy("a") },
		func() *Statement { return s.Having("a", 1) },
		func() *Statement { return s.Limit(1) },
		func() *Statement { return s.Offset(1) },
		func() *Statement { return s.Join(InnerJoin, "u", "u.id = t.id") },
		func() *Statement { return s.Distinct() },
		func() *Statement { return s.Upper("a") },
		func() *Statement { return s.Now() },
		func() *Statement { return s.Sqrt("a") },
		func() *Statement { return s.Count("a") },
	}

	for i, set := range setters {
		assert.Same(t, s, set(), "setter %d should return the receiver", i)
	}
}

// TestStatement_LastOperationWins tests that operation selectors overwrite each other
func TestStatement_LastOperationWins(t *testing.T) {
	s := New().Select("a", "b").From("t").Where("id", 3)
	assert.Equal(t, OpSelect, s.Operation())

	s.Delete()
	assert.Equal(t, OpDelete, s.Operation())

	// Fields from Select are kept but ignored by DELETE
	assert.Equal(t, []string{"a", "b"}, s.fields)

	query, params, err := s.Destruct()
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM t WHERE id = ?", query)
	assert.Equal(t, []any{3}, params)
}

// TestStatement_SelectReplacesFields tests that Select replaces earlier columns
func TestStatement_SelectReplacesFields(t *testing.T) {
	s := New().Insert("x", "y").Select("a")
	assert.Equal(t, []string{"a"}, s.fields)

	s.SelectAll()
	assert.Equal(t, []string{"*"}, s.fields)
}

// TestStatement_SelectCopiesColumns tests that aggregates never write into the caller's slice
func TestStatement_SelectCopiesColumns(t *testing.T) {
	cols := make([]string, 1, 4)
	cols[0] = "user_id"

	New().Select(cols...).Count("id")

	assert.Equal(t, []string{"user_id"}, cols)
	assert.Equal(t, "", cols[:2][1])
}

// TestStatement_WhereOverwriteKeepsPosition tests ordered mapping semantics
func TestStatement_WhereOverwriteKeepsPosition(t *testing.T) {
	s := New().Select("*").From("t").
		Where("a", 1).
		Where("b", 2).
		Where("a", 10)

	res, err := s.Build()
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM t WHERE a = ? AND b = ?", res.Query)
	assert.Equal(t, []any{10, 2}, res.Params)
}

// TestStatement_SetOverwriteKeepsPosition tests ordered UPDATE assignments
func TestStatement_SetOverwriteKeepsPosition(t *testing.T) {
	res, err := New().Update("t").
		Set("a", 1).
		Set("b", 2).
		Set("a", 3).
		Build()

	require.NoError(t, err)
	assert.Equal(t, "UPDATE t SET a = ?, b = ?", res.Query)
	assert.Equal(t, []any{3, 2}, res.Params)
}

// TestStatement_TableAliases tests that From, Into and In set the same table
func TestStatement_TableAliases(t *testing.T) {
	assert.Equal(t, "users", New().From("users").table)
	assert.Equal(t, "users", New().Into("users").table)
	assert.Equal(t, "users", New().In("users").table)

	s := New().From("a").Into("b").In("c")
	assert.Equal(t, "c", s.table)
}

// TestStatement_WithIsValues tests that With and Values set the same values
func TestStatement_WithIsValues(t *testing.T) {
	s := New().Values(1, 2)
	assert.Equal(t, []any{1, 2}, s.values)

	s.With("x")
	assert.Equal(t, []any{"x"}, s.values)
}

// TestStatement_Sort tests the default and explicit directions
func TestStatement_Sort(t *testing.T) {
	s := New().Sort("name")
	assert.Equal(t, "name", s.orderBy)
	assert.Equal(t, Asc, s.orderDir)

	s.Sort("age", Desc)
	assert.Equal(t, "age", s.orderBy)
	assert.Equal(t, Desc, s.orderDir)

	// A later Sort without direction resets to ASC
	s.Sort("id")
	assert.Equal(t, Asc, s.orderDir)
}

// TestStatement_GroupByReplaces tests that GroupBy replaces rather than appends
func TestStatement_GroupByReplaces(t *testing.T) {
	s := New().GroupBy("a", "b").GroupBy("c")
	assert.Equal(t, []string{"c"}, s.groupBy)
}

// TestStatement_CopiesVariadicSlices tests that later caller writes do not leak into the statement
func TestStatement_CopiesVariadicSlices(t *testing.T) {
	values := []any{1, "alice"}
	groups := []string{"status", "role"}

	s := New().Insert("id", "name").Into("users").Values(values...)
	g := New().Select("status").Count("id").From("users").GroupBy(groups...)

	values[0] = 99
	groups[0] = "password"

	res, err := s.Build()
	require.NoError(t, err)
	assert.Equal(t, []any{1, "alice"}, res.Params)
	assert.Equal(t, []string{"status", "role"}, g.groupBy)
}

// TestStatement_ZeroValue tests that a zero Statement can be used without New
func TestStatement_ZeroValue(t *testing.T) {
	var s Statement

	res, err := s.Upper("name").Select("name").From("t").Sort("name").Build()
	require.NoError(t, err)
	assert.Equal(t, "SELECT UPPER(name) FROM t ORDER BY name ASC", res.Query)
}

func TestOperation_String(t *testing.T) {
	tests := map[Operation]string{
		OpNone:        "UNKNOWN",
		OpSelect:      "SELECT",
		OpInsert:      "INSERT",
		OpUpdate:      "UPDATE",
		OpDelete:      "DELETE",
		OpReplace:     "REPLACE",
		Operation(42): "UNKNOWN",
	}
	for op, want := range tests {
		assert.Equal(t, want, op.String())
	}
}
