package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Database struct {
	Username     string `yaml:"user"`
	Password     string `yaml:"password"`
	PasswordFile string `yaml:"password_file"`
	Host         string `yaml:"host"`
	Port         uint16 `yaml:"port"`
	DBName       string `yaml:"db_name"`
	SSLMode      string `yaml:"sslmode"`
}

func loadPassword(passwordFile string) (string, error) {
	data, err := os.ReadFile(passwordFile)
	if err != nil {
		return "", fmt.Errorf("unable to read from password file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// loadEnv overrides fields with the POSTGRES_* variables that are set.
func (c *Database) loadEnv() error {
	if username, ok := os.LookupEnv("POSTGRES_USER"); ok {
		c.Username = username
	}
	if passwordFile, ok := os.LookupEnv("POSTGRES_PASSWORD_FILE"); ok {
		c.PasswordFile = passwordFile
	}
	if password, ok := os.LookupEnv("POSTGRES_PASSWORD"); ok {
		c.Password = password
		c.PasswordFile = ""
	}
	if c.Password == "" && c.PasswordFile != "" {
		password, err := loadPassword(c.PasswordFile)
		if err != nil {
			return fmt.Errorf("unable to load password: %w", err)
		}
		c.Password = password
	}
	if host, ok := os.LookupEnv("POSTGRES_HOST"); ok {
		c.Host = host
	}
	if portStr, ok := os.LookupEnv("POSTGRES_PORT"); ok {
		port, err := strconv.ParseUint(portStr, 10, 16)
		if err != nil {
			return fmt.Errorf("unable to convert port to int: %w", err)
		}
		c.Port = uint16(port)
	}
	if dbName, ok := os.LookupEnv("POSTGRES_DB"); ok {
		c.DBName = dbName
	}
	if sslMode, ok := os.LookupEnv("POSTGRES_SSLMODE"); ok {
		c.SSLMode = sslMode
	}
	return nil
}

func (c Database) URL() string {
	return fmt.Sprintf(
		"postgresql://%s:%s@%s:%d/%s?sslmode=%s",
		c.Username,
		url.QueryEscape(c.Password),
		c.Host,
		c.Port,
		c.DBName,
		c.SSLMode,
	)
}

func (c Database) DSN() string {
	return fmt.Sprintf(
		"user=%s password=%s host=%s port=%d dbname=%s sslmode=%s",
		c.Username, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

var errNoDatabase = fmt.Errorf("neither database_url nor postgres host is configured")

func (c Config) DbURL() (string, error) {
	if c.DatabaseURL != "" {
		return c.DatabaseURL, nil
	}
	if c.Postgres.Host == "" {
		return "", errNoDatabase
	}
	return c.Postgres.URL(), nil
}

func (c Config) NewPgxpoolConfig() (*pgxpool.Config, error) {
	if c.DatabaseURL != "" {
		return pgxpool.ParseConfig(c.DatabaseURL)
	}
	if c.Postgres.Host == "" {
		return nil, errNoDatabase
	}
	return pgxpool.ParseConfig(c.Postgres.DSN())
}
