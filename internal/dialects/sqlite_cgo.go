//go:build cgo

package dialects

func init() {
	// github.com/mattn/go-sqlite3 registers itself as "sqlite3" and needs cgo.
	RegisterDialect("sqlite3", &SQLiteDialect{driver: "sqlite3"})
}
