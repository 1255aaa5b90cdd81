//go:build cgo

package gateway

import (
	// cgo SQLite driver registered as "sqlite3".
	_ "github.com/mattn/go-sqlite3"
)
