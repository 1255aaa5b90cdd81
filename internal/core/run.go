package core

import "context"

// ExecFunc executes a rendered statement. It is supplied by the caller and is
// the only place a Statement touches a database.
type ExecFunc func(ctx context.Context, query string, params []any) (any, error)

// Run renders the Statement and passes the result to exec. The value and error
// returned by exec are returned unchanged. If rendering fails, exec is not called.
func (s *Statement) Run(ctx context.Context, exec ExecFunc) (any, error) {
	return RunAs[any](ctx, s, exec)
}

// RunAs is Run for executors with a concrete result type, such as a gateway's
// Query method:
//
//	rows, err := core.RunAs(ctx, stmt, db.Query)
func RunAs[T any](ctx context.Context, s *Statement, exec func(context.Context, string, []any) (T, error)) (T, error) {
	res, err := s.Build()
	if err != nil {
		var zero T
		return zero, err
	}
	return exec(ctx, res.Query, res.Params)
}
