// Package dialects provides the placeholder-compatible SQL backends statements
// can be executed against. Every registered dialect binds parameters with "?".
package dialects

import (
	"sort"
	"sync"
)

// Dialect defines driver-specific connection behavior.
type Dialect interface {
	// DriverName is the database/sql driver the dialect opens connections with.
	DriverName() string
	// Placeholder returns the positional parameter token.
	Placeholder() string
	// DSN builds a data source name for the driver.
	DSN(ConnParams) string
}

// ConnParams carries the connection settings a dialect needs to build a DSN.
// Network fields are used by server dialects, Path and Memory by file dialects.
type ConnParams struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	Path     string
	Memory   bool
}

var (
	mu       sync.RWMutex
	dialects = make(map[string]Dialect)
)

// RegisterDialect registers a database dialect by driver name.
func RegisterDialect(name string, d Dialect) {
	mu.Lock()
	defer mu.Unlock()
	dialects[name] = d
}

// GetDialect retrieves a registered dialect by driver name.
func GetDialect(name string) (Dialect, bool) {
	mu.RLock()
	defer mu.RUnlock()
	d, ok := dialects[name]
	return d, ok
}

// Names returns the registered driver names in sorted order.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(dialects))
	for name := range dialects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
