package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Storage struct {
	Driver     string `yaml:"driver"`
	SQLitePath string `yaml:"sqlite_path"`
}

type Config struct {
	Mode            string    `yaml:"mode"`
	Addr            string    `yaml:"addr"`
	BasePath        string    `yaml:"base_path"`
	ShutdownTimeout Duration  `yaml:"shutdown_timeout"`
	DatabaseURL     string    `yaml:"database_url"`
	Storage         Storage   `yaml:"storage"`
	Postgres        Database  `yaml:"postgres"`
	WebSocket       WebSocket `yaml:"websocket"`
}

func Default() Config {
	return Config{
		Mode:            "production",
		Addr:            ":8080",
		ShutdownTimeout: Duration{15 * time.Second},
		Storage: Storage{
			Driver:     DriverSQLite,
			SQLitePath: "minesweeper.db",
		},
		Postgres: Database{
			Port:    5432,
			SSLMode: "disable",
		},
		WebSocket: WebSocket{
			ReadLimit: 64 << 10,
		},
	}
}

// Load reads the YAML file at path (if path is not empty) over [Default] and
// then applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("unable to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("unable to parse config %s: %w", path, err)
		}
	}
	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) loadEnv() error {
	if Development() {
		c.Mode = "development"
	}
	if port := Port(); port != "" {
		if !strings.Contains(port, ":") {
			port = ":" + port
		}
		c.Addr = port
	}
	if basePath := BasePath(); basePath != "" {
		c.BasePath = basePath
	}
	if timeout, ok := os.LookupEnv("SHUTDOWN_TIMEOUT"); ok {
		if err := c.ShutdownTimeout.parse(timeout); err != nil {
			return fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
		}
	}
	if driver, ok := os.LookupEnv("STORAGE_DRIVER"); ok {
		c.Storage.Driver = driver
	}
	if path, ok := os.LookupEnv("SQLITE_PATH"); ok {
		c.Storage.SQLitePath = path
	}
	if dbURL, ok := os.LookupEnv("DATABASE_URL"); ok {
		c.DatabaseURL = dbURL
	}
	return c.Postgres.loadEnv()
}

func (c Config) Validate() error {
	switch c.Storage.Driver {
	case DriverPostgres:
	case DriverSQLite:
		if c.Storage.SQLitePath == "" {
			return fmt.Errorf("sqlite storage requires sqlite_path")
		}
	default:
		return fmt.Errorf(
			"unknown storage driver %q (must be %s or %s)",
			c.Storage.Driver, DriverPostgres, DriverSQLite,
		)
	}
	if c.ShutdownTimeout.Duration <= 0 {
		return fmt.Errorf("shutdown_timeout must be positive")
	}
	return nil
}

func (c Config) Development() bool {
	return c.Mode != "production"
}

// Fields lists the loggable settings; secrets are left out.
func (c Config) Fields() []any {
	return []any{
		slog.String("mode", c.Mode),
		slog.String("addr", c.Addr),
		slog.String("base_path", c.BasePath),
		slog.String("shutdown_timeout", c.ShutdownTimeout.String()),
		slog.String("storage_driver", c.Storage.Driver),
		slog.String("sqlite_path", c.Storage.SQLitePath),
		slog.String("pg_host", c.Postgres.Host),
		slog.Int("pg_port", int(c.Postgres.Port)),
		slog.String("pg_user", c.Postgres.Username),
		slog.String("pg_db_name", c.Postgres.DBName),
		slog.Bool("database_url_set", c.DatabaseURL != ""),
	}
}

// Development reports whether DEVELOPMENT is set to anything but "0".
func Development() bool {
	development, ok := os.LookupEnv("DEVELOPMENT")
	if !ok {
		return false
	}
	return development != "0"
}

func BasePath() string {
	return os.Getenv("APP_BASE_PATH")
}

func Port() string {
	return os.Getenv("APP_PORT")
}
