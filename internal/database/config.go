package database

import (
	"fmt"
	"time"
)

// Config selects the loot table store and how to reach it. It is embedded
// directly in the tool configuration file, so it carries its own tags.
type Config struct {
	// Driver is "sqlite" or "postgres".
	Driver     string         `yaml:"driver" toml:"driver" env:"LOOT_DB_DRIVER"`
	SQLitePath string         `yaml:"sqlite_path" toml:"sqlite_path" env:"LOOT_DB_PATH"`
	Postgres   PostgresConfig `yaml:"postgres" toml:"postgres"`
}

// PostgresConfig holds the PostgreSQL connection and pool settings.
type PostgresConfig struct {
	Host     string `yaml:"host" toml:"host" env:"LOOT_PG_HOST"`
	Port     int    `yaml:"port" toml:"port" env:"LOOT_PG_PORT"`
	User     string `yaml:"user" toml:"user" env:"LOOT_PG_USER"`
	Password string `yaml:"password" toml:"password" env:"LOOT_PG_PASSWORD"`
	Database string `yaml:"database" toml:"database" env:"LOOT_PG_DATABASE"`
	SSLMode  string `yaml:"sslmode" toml:"sslmode" env:"LOOT_PG_SSLMODE"`

	MaxOpenConns    int           `yaml:"max_open_conns" toml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns" toml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" toml:"conn_max_lifetime"`
}

// DefaultConfig stores loot tables in the SQLite file at sqlitePath and keeps
// the postgres defaults ready for a driver switch.
func DefaultConfig(sqlitePath string) Config {
	return Config{
		Driver:     string(DialectSQLite),
		SQLitePath: sqlitePath,
		Postgres:   DefaultPostgresConfig(),
	}
}

// DefaultPostgresConfig points at a local server with a small pool.
func DefaultPostgresConfig() PostgresConfig {
	return PostgresConfig{
		Host:            "localhost",
		Port:            5432,
		SSLMode:         "disable",
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
	}
}

// Validate rejects drivers the store cannot open.
func (c Config) Validate() error {
	switch DialectType(c.Driver) {
	case DialectSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("database.sqlite_path is required for sqlite")
		}
	case DialectPostgres:
	default:
		return fmt.Errorf("database.driver must be sqlite or postgres, got %q", c.Driver)
	}
	return nil
}

// DSN renders the lib/pq connection string.
func (c PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}
