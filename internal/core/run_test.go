package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ctxKey struct{}

func TestRun_PassesRenderedStatement(t *testing.T) {
	ctx := context.WithValue(context.Background(), ctxKey{}, "req-1")

	var gotQuery string
	var gotParams []any
	var gotCtx context.Context

	out, err := New().Update("t").Set("a", 5).Where("id", 3).
		Run(ctx, func(ctx context.Context, query string, params []any) (any, error) {
			gotCtx, gotQuery, gotParams = ctx, query, params
			return int64(1), nil
		})

	require.NoError(t, err)
	assert.Equal(t, int64(1), out)
	assert.Equal(t, "UPDATE t SET a = ? WHERE id = ?", gotQuery)
	assert.Equal(t, []any{5, 3}, gotParams)
	assert.Equal(t, "req-1", gotCtx.Value(ctxKey{}))
}

// TestRun_PropagatesError tests that executor errors are returned unwrapped
func TestRun_PropagatesError(t *testing.T) {
	driverErr := errors.New("duplicate entry")

	out, err := New().Insert("id").Into("t").Values(1).
		Run(context.Background(), func(context.Context, string, []any) (any, error) {
			return "partial", driverErr
		})

	assert.Same(t, driverErr, err)
	assert.Equal(t, "partial", out)
}

// TestRun_RenderErrorSkipsExecutor tests that a failing render never reaches the executor
func TestRun_RenderErrorSkipsExecutor(t *testing.T) {
	called := false

	out, err := New().From("t").Run(context.Background(), func(context.Context, string, []any) (any, error) {
		called = true
		return nil, nil
	})

	assert.ErrorIs(t, err, ErrUnsupportedOperation)
	assert.Nil(t, out)
	assert.False(t, called)
}

func TestRunAs_Typed(t *testing.T) {
	type row struct{ ID int }

	exec := func(_ context.Context, query string, params []any) ([]row, error) {
		assert.Equal(t, "SELECT id FROM t WHERE owner = ? LIMIT 2", query)
		assert.Equal(t, []any{"ann"}, params)
		return []row{{ID: 1}, {ID: 2}}, nil
	}

	rows, err := RunAs(context.Background(), New().Select("id").From("t").Where("owner", "ann").Limit(2), exec)
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	rows, err = RunAs(context.Background(), New().SelectAll().From("t").Limit(-1), exec)
	assert.ErrorIs(t, err, ErrNegativeLimit)
	assert.Nil(t, rows)
}
