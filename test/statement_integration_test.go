//go:build integration
// +build integration

package test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coregx/sqlstmt"
)

func setups(t *testing.T) map[string]func(*testing.T) *DatabaseSetup {
	t.Helper()
	return map[string]func(*testing.T) *DatabaseSetup{
		"sqlite": SetupSQLiteTestDB,
		"mysql":  SetupMySQLTestDB,
	}
}

func TestStatements_CRUD(t *testing.T) {
	for name, setup := range setups(t) {
		t.Run(name, func(t *testing.T) {
			ds := setup(t)
			defer ds.Close()
			CreateUsersTable(t, ds.DB, ds.Dialect)
			ctx := context.Background()

			for i, n := range []string{"alice", "bob", "carol"} {
				_, err := ds.DB.ExecStatement(ctx, sqlstmt.New().
					Insert("id", "name", "score").
					Into("users").
					Values(i+1, n, (i+1)*10))
				require.NoError(t, err)
			}

			res, err := ds.DB.ExecStatement(ctx, sqlstmt.New().
				Update("users").
				Set("score", 99).
				Where("name", "bob"))
			require.NoError(t, err)
			assert.Equal(t, int64(1), res.RowsAffected)

			rows, err := ds.DB.Statement(ctx, sqlstmt.New().
				Select("id", "name", "score").
				From("users").
				Sort("score", sqlstmt.Desc).
				Limit(2))
			require.NoError(t, err)
			require.Len(t, rows, 2)
			assert.Equal(t, "bob", rows[0]["name"])
			assert.Equal(t, int64(99), rows[0]["score"])
			assert.Equal(t, "carol", rows[1]["name"])

			res, err = ds.DB.ExecStatement(ctx, sqlstmt.New().Delete().From("users").Where("id", 1))
			require.NoError(t, err)
			assert.Equal(t, int64(1), res.RowsAffected)

			rows, err = sqlstmt.RunAs(ctx, sqlstmt.New().Select("id").From("users").Sort("id"), ds.DB.Query)
			require.NoError(t, err)
			require.Len(t, rows, 2)
			assert.Equal(t, int64(2), rows[0]["id"])
		})
	}
}

func TestStatements_Replace(t *testing.T) {
	for name, setup := range setups(t) {
		t.Run(name, func(t *testing.T) {
			ds := setup(t)
			defer ds.Close()
			CreateUsersTable(t, ds.DB, ds.Dialect)
			ctx := context.Background()

			_, err := ds.DB.ExecStatement(ctx, sqlstmt.New().
				Insert("id", "name", "email").Into("users").Values(1, "alice", "a@example.com"))
			require.NoError(t, err)

			_, err = ds.DB.ExecStatement(ctx, sqlstmt.New().
				Replace("id", "name").In("users").With(1, "alicia"))
			require.NoError(t, err)

			rows, err := ds.DB.Statement(ctx, sqlstmt.New().SelectAll().From("users").Where("id", 1))
			require.NoError(t, err)
			require.Len(t, rows, 1)
			assert.Equal(t, "alicia", rows[0]["name"])
			assert.Nil(t, rows[0]["email"])
		})
	}
}

func TestStatements_GroupByHaving(t *testing.T) {
	for name, setup := range setups(t) {
		t.Run(name, func(t *testing.T) {
			ds := setup(t)
			defer ds.Close()
			CreateUsersTable(t, ds.DB, ds.Dialect)
			ctx := context.Background()

			for i, score := range []int{10, 10, 10, 20} {
				_, err := ds.DB.ExecStatement(ctx, sqlstmt.New().
					Insert("id", "name", "score").Into("users").Values(i+1, "u", score))
				require.NoError(t, err)
			}

			rows, err := ds.DB.Statement(ctx, sqlstmt.New().
				Select("score").
				Count("id").
				From("users").
				GroupBy("score").
				Having("score", 10))
			require.NoError(t, err)
			require.Len(t, rows, 1)
			assert.Equal(t, int64(3), rows[0]["COUNT(id)"])
		})
	}
}

func TestStatements_MySQLFunctions(t *testing.T) {
	ds := SetupMySQLTestDB(t)
	defer ds.Close()
	CreateUsersTable(t, ds.DB, ds.Dialect)
	ctx := context.Background()

	_, err := ds.DB.ExecStatement(ctx, sqlstmt.New().
		Insert("id", "name", "score").Into("users").Values(1, "alice", 7))
	require.NoError(t, err)

	rows, err := ds.DB.Statement(ctx, sqlstmt.New().
		Upper("name").
		Concat("id", "'-'", "name").
		Select("name", "id").
		From("users"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "ALICE", rows[0]["UPPER(name)"])
	assert.Equal(t, "1-alice", rows[0]["CONCAT(id, '-', name)"])

	rows, err = ds.DB.Statement(ctx, sqlstmt.New().Curdate().Select("curdate").From("dual"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Contains(t, rows[0], "CURDATE()")
}

func TestStatements_StrictRejectsMismatch(t *testing.T) {
	db, err := sqlstmt.Open(sqlstmt.Config{Driver: "sqlite"}, sqlstmt.WithStrictStatements())
	require.NoError(t, err)
	defer db.Close()

	_, err = db.ExecStatement(context.Background(), sqlstmt.New().
		Insert("id", "name").Into("users").Values(1))
	assert.ErrorIs(t, err, sqlstmt.ErrValueCountMismatch)
	assert.Equal(t, sqlstmt.StateClosed, db.State())
}
