package gateway

import (
	// Pure-Go SQLite driver registered as "sqlite".
	_ "modernc.org/sqlite"
)
