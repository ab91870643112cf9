package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Config holds the ledgerd configuration.
type Config struct {
	Addr       string
	Driver     string
	DSN        string
	EntityName string
}

// Load reads configuration from the environment, with defaults suitable
// for a local single-binary deployment (embedded SQLite file).
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("database.driver", DriverSQLite)
	v.SetDefault("database.dsn", "ledgerbook.db")
	v.SetDefault("ledger.entity_name", "")

	v.BindEnv("server.addr", "LEDGER_ADDR")
	v.BindEnv("database.driver", "LEDGER_DB_DRIVER")
	v.BindEnv("database.dsn", "LEDGER_DB_DSN")
	v.BindEnv("ledger.entity_name", "LEDGER_ENTITY_NAME")

	cfg := &Config{
		Addr:       v.GetString("server.addr"),
		Driver:     v.GetString("database.driver"),
		DSN:        v.GetString("database.dsn"),
		EntityName: v.GetString("ledger.entity_name"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	switch c.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unsupported database driver %q", c.Driver)
	}
	if c.DSN == "" {
		return errors.New("database dsn must not be empty")
	}
	if c.Addr == "" {
		return errors.New("listen address must not be empty")
	}
	return nil
}
