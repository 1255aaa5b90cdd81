package dialects

// MemoryDSN opens a private in-memory database.
const MemoryDSN = ":memory:"

// SQLiteDialect implements SQLite for a given driver registration.
// SQLite accepts REPLACE INTO and "?" placeholders like MySQL.
type SQLiteDialect struct {
	driver string
}

// DriverName returns the driver the dialect was registered for.
func (d *SQLiteDialect) DriverName() string {
	return d.driver
}

// Placeholder returns SQLite placeholder format ("?").
func (d *SQLiteDialect) Placeholder() string {
	return "?"
}

// DSN returns the database file path, or MemoryDSN when Memory is set or no
// path is configured.
func (d *SQLiteDialect) DSN(p ConnParams) string {
	if p.Memory || p.Path == "" {
		return MemoryDSN
	}
	return p.Path
}

func init() {
	// modernc.org/sqlite registers itself as "sqlite".
	RegisterDialect("sqlite", &SQLiteDialect{driver: "sqlite"})
}
