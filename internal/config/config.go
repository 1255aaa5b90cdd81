// Package config loads connection settings from an optional JSON file
// overlaid by DB_* environment variables.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/coregx/sqlstmt/internal/dialects"
	"github.com/coregx/sqlstmt/internal/logger"
)

// DefaultFile is the file Load reads when no path is given.
const DefaultFile = "config.json"

var (
	// ErrUnsupportedDriver is returned for a driver with no registered dialect.
	ErrUnsupportedDriver = errors.New("unsupported driver")
	// ErrMissingDatabase is returned when a MySQL config names no database.
	ErrMissingDatabase = errors.New("database name is required")
	// ErrMissingHost is returned when a MySQL config names no host.
	ErrMissingHost = errors.New("host is required")
)

// Config holds connection settings.
type Config struct {
	Driver   string `json:"driver"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	Database string `json:"database"`

	// Path is the SQLite file. Empty or Memory selects an in-memory database.
	Path   string `json:"path"`
	Memory bool   `json:"memory"`

	// Alias names the database in log lines. Defaults to Database or Path.
	Alias string `json:"alias"`
	Debug bool   `json:"debug"`
}

// Load reads path (DefaultFile when empty) and applies the environment on
// top. A missing file is logged as a warning and the environment alone is
// used. A nil log writes through slog's default logger.
func Load(path string, log logger.Logger) (Config, error) {
	if path == "" {
		path = DefaultFile
	}
	if log == nil {
		log = logger.NewSlogAdapter(nil)
	}

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Warn("no configuration file found, using environment", "path", path)
	case err != nil:
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from DB_DRIVER, DB_HOST, DB_PORT, DB_USER,
// DB_PASSWORD, DB_NAME, DB_PATH, DB_ALIAS and DB_DEBUG when they are set
// and non-empty.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"DB_DRIVER":   &c.Driver,
		"DB_HOST":     &c.Host,
		"DB_USER":     &c.User,
		"DB_PASSWORD": &c.Password,
		"DB_NAME":     &c.Database,
		"DB_PATH":     &c.Path,
		"DB_ALIAS":    &c.Alias,
	}
	for key, field := range strs {
		if v, ok := lookup(key); ok && v != "" {
			*field = v
		}
	}

	if v, ok := lookup("DB_PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("DB_PORT: %w", err)
		}
		c.Port = port
	}
	if v, ok := lookup("DB_DEBUG"); ok && v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("DB_DEBUG: %w", err)
		}
		c.Debug = debug
	}
	return nil
}

// Validate checks that the driver is registered and that MySQL settings name
// a host and a database.
func (c Config) Validate() error {
	if _, ok := dialects.GetDialect(c.Driver); !ok {
		return fmt.Errorf("%w: %q (supported: %s)", ErrUnsupportedDriver, c.Driver,
			strings.Join(dialects.Names(), ", "))
	}
	if c.Driver == "mysql" {
		if c.Host == "" {
			return ErrMissingHost
		}
		if c.Database == "" {
			return ErrMissingDatabase
		}
	}
	return nil
}

// ConnParams converts the config to dialect connection parameters.
func (c Config) ConnParams() dialects.ConnParams {
	return dialects.ConnParams{
		Host:     c.Host,
		Port:     c.Port,
		User:     c.User,
		Password: c.Password,
		Database: c.Database,
		Path:     c.Path,
		Memory:   c.Memory,
	}
}

// Name returns the label used for this database in log lines.
func (c Config) Name() string {
	name, _ := lo.Coalesce(c.Alias, c.Database, c.Path, c.Driver)
	return name
}

// InMemory reports whether the config selects an in-memory SQLite database.
func (c Config) InMemory() bool {
	return c.Driver != "mysql" && (c.Memory || c.Path == "")
}
