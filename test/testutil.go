//go:build integration
// +build integration

// Package test holds end-to-end tests that run built statements against real
// MySQL and SQLite servers.
package test

import (
	"context"
	"net"
	"os"
	"strconv"
	"testing"
	"time"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mysql"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/coregx/sqlstmt"
)

// DatabaseSetup encapsulates database connection and cleanup.
type DatabaseSetup struct {
	DB        *sqlstmt.DB
	Container testcontainers.Container
	Dialect   string
}

// Close cleans up database resources.
func (ds *DatabaseSetup) Close() {
	if ds.DB != nil {
		ds.DB.Close() //nolint:errcheck
	}
	if ds.Container != nil {
		ds.Container.Terminate(context.Background()) //nolint:errcheck
	}
}

// SetupMySQLTestDB creates a MySQL test database.
// Uses testcontainers if available, falls back to MYSQL_TEST_DSN.
func SetupMySQLTestDB(t *testing.T) *DatabaseSetup {
	ctx := context.Background()

	// Check for manual DSN first (allows testing without Docker)
	if dsn := os.Getenv("MYSQL_TEST_DSN"); dsn != "" {
		cfg, err := configFromDSN(dsn)
		require.NoError(t, err)
		db, err := sqlstmt.Open(cfg)
		require.NoError(t, err)
		return &DatabaseSetup{DB: db, Dialect: "mysql"}
	}

	mysqlContainer, err := mysql.Run(
		ctx,
		"mysql:8.0",
		mysql.WithDatabase("testdb"),
		mysql.WithUsername("user"),
		mysql.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("port: 3306  MySQL Community Server").
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Skip("Docker not available for MySQL integration tests: " + err.Error())
	}

	host, err := mysqlContainer.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlContainer.MappedPort(ctx, "3306/tcp")
	require.NoError(t, err)

	db, err := sqlstmt.Open(sqlstmt.Config{
		Driver:   "mysql",
		Host:     host,
		Port:     port.Int(),
		User:     "user",
		Password: "password",
		Database: "testdb",
		Alias:    "integration",
	})
	require.NoError(t, err)

	return &DatabaseSetup{
		DB:        db,
		Container: mysqlContainer,
		Dialect:   "mysql",
	}
}

// SetupSQLiteTestDB creates an in-memory SQLite database.
// Always works, no external dependencies.
func SetupSQLiteTestDB(t *testing.T) *DatabaseSetup {
	db, err := sqlstmt.Open(sqlstmt.Config{Driver: "sqlite", Memory: true})
	require.NoError(t, err)

	return &DatabaseSetup{
		DB:      db,
		Dialect: "sqlite",
	}
}

// configFromDSN converts a go-sql-driver DSN into connection settings.
func configFromDSN(dsn string) (sqlstmt.Config, error) {
	parsed, err := gomysql.ParseDSN(dsn)
	if err != nil {
		return sqlstmt.Config{}, err
	}

	cfg := sqlstmt.Config{
		Driver:   "mysql",
		Host:     parsed.Addr,
		User:     parsed.User,
		Password: parsed.Passwd,
		Database: parsed.DBName,
	}
	if host, port, err := net.SplitHostPort(parsed.Addr); err == nil {
		cfg.Host = host
		cfg.Port, err = strconv.Atoi(port)
		if err != nil {
			return sqlstmt.Config{}, err
		}
	}
	return cfg, nil
}

// CreateUsersTable creates the users table used by the statement tests.
func CreateUsersTable(t *testing.T, db *sqlstmt.DB, dialect string) {
	var createSQL string

	switch dialect {
	case "mysql":
		createSQL = `
			CREATE TABLE IF NOT EXISTS users (
				id INT PRIMARY KEY,
				name VARCHAR(100) NOT NULL,
				email VARCHAR(255),
				score INT DEFAULT 0,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			)
		`
	case "sqlite":
		createSQL = `
			CREATE TABLE IF NOT EXISTS users (
				id INTEGER PRIMARY KEY,
				name TEXT NOT NULL,
				email TEXT,
				score INTEGER DEFAULT 0,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			)
		`
	}

	ctx := context.Background()
	_, err := db.Exec(ctx, "DROP TABLE IF EXISTS users", nil)
	require.NoError(t, err)
	_, err = db.Exec(ctx, createSQL, nil)
	require.NoError(t, err)
}
