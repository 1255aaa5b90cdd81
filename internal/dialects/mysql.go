package dialects

import (
	"net"
	"strconv"

	"github.com/go-sql-driver/mysql"
)

// DefaultMySQLPort is used when ConnParams.Port is zero.
const DefaultMySQLPort = 3306

// MySQLDialect implements the MySQL dialect.
type MySQLDialect struct{}

// DriverName returns "mysql".
func (d *MySQLDialect) DriverName() string {
	return "mysql"
}

// Placeholder returns MySQL placeholder format (always "?").
func (d *MySQLDialect) Placeholder() string {
	return "?"
}

// DSN formats a go-sql-driver DSN over TCP. Time columns are parsed into time.Time.
func (d *MySQLDialect) DSN(p ConnParams) string {
	port := p.Port
	if port == 0 {
		port = DefaultMySQLPort
	}

	cfg := mysql.NewConfig()
	cfg.User = p.User
	cfg.Passwd = p.Password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(p.Host, strconv.Itoa(port))
	cfg.DBName = p.Database
	cfg.ParseTime = true
	return cfg.FormatDSN()
}

// MySQL is the dialect whose placeholder the statement renderer emits.
var MySQL Dialect = &MySQLDialect{}

func init() {
	RegisterDialect("mysql", MySQL)
}
