package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Supported storage drivers
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port string `yaml:"port" env:"SERVER_PORT"`
		Mode string `yaml:"mode" env:"SERVER_MODE"`
	} `yaml:"server"`

	Database struct {
		Driver           string `yaml:"driver" env:"DB_DRIVER"`
		Host             string `yaml:"host" env:"DB_HOST"`
		Port             string `yaml:"port" env:"DB_PORT"`
		User             string `yaml:"user" env:"DB_USER"`
		Password         string `yaml:"password" env:"DB_PASSWORD"`
		DBName           string `yaml:"dbname" env:"DB_NAME"`
		SSLMode          string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns     int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns     int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime  string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
		MigrationsDir    string `yaml:"migrations_dir" env:"DB_MIGRATIONS_DIR"`
		StatementTimeout string `yaml:"statement_timeout" env:"DB_STATEMENT_TIMEOUT"`
		LockTimeout      string `yaml:"lock_timeout" env:"DB_LOCK_TIMEOUT"`
	} `yaml:"database"`

	JWT struct {
		Secret                string `yaml:"secret" env:"JWT_SECRET"`
		AccessTokenExpiration string `yaml:"access_token_expiration" env:"JWT_ACCESS_TOKEN_EXPIRATION"`
		Issuer                string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`

	Analytics struct {
		RiskWindowDays              int  `yaml:"risk_window_days" env:"ANALYTICS_RISK_WINDOW_DAYS"`
		FlagStudentsWithoutAccounts bool `yaml:"flag_students_without_accounts" env:"ANALYTICS_FLAG_STUDENTS_WITHOUT_ACCOUNTS"`
		LeaderboardLimit            int  `yaml:"leaderboard_limit" env:"ANALYTICS_LEADERBOARD_LIMIT"`
	} `yaml:"analytics"`

	Seed struct {
		Enabled       bool            `yaml:"enabled" env:"SEED_ENABLED"`
		AdminEmail    string          `yaml:"admin_email" env:"SEED_ADMIN_EMAIL"`
		AdminPassword string          `yaml:"admin_password" env:"SEED_ADMIN_PASSWORD"`
		AdminName     string          `yaml:"admin_name" env:"SEED_ADMIN_NAME"`
		Departments   SeedDepartments `yaml:"departments" env:"SEED_DEPARTMENTS"`
	} `yaml:"seed"`
}

// SeedDepartment is a department created at startup when missing.
type SeedDepartment struct {
	Name string `yaml:"name"`
	Code string `yaml:"code"`
}

// SeedDepartments is read from the environment as "CODE=Name" pairs separated
// by semicolons, e.g. "CSE=Computer Science;ECE=Electronics".
type SeedDepartments []SeedDepartment

// DecodeEnv replaces the list with the departments encoded in value.
func (d *SeedDepartments) DecodeEnv(value string) error {
	out := SeedDepartments{}
	for _, pair := range strings.Split(value, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		code, name, ok := strings.Cut(pair, "=")
		code, name = strings.TrimSpace(code), strings.TrimSpace(name)
		if !ok || code == "" || name == "" {
			return fmt.Errorf("invalid department %q, want CODE=Name", pair)
		}
		out = append(out, SeedDepartment{Name: name, Code: code})
	}
	*d = out
	return nil
}

// LoadConfig loads configuration from a file, an optional .env file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// .env only fills variables that are not already set in the process
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	if err := processStructFields(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"

	config.Database.Driver = DriverPostgres
	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "codetrack"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 5
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"
	config.Database.MigrationsDir = "migrations"
	config.Database.StatementTimeout = "15s"
	config.Database.LockTimeout = "5s"

	config.JWT.AccessTokenExpiration = "24h"
	config.JWT.Issuer = "codetrack"

	config.Logging.Level = "info"
	config.Logging.Format = "json"

	config.Analytics.RiskWindowDays = 30
	config.Analytics.LeaderboardLimit = 10

	config.Seed.Enabled = true
	config.Seed.AdminName = "Administrator"
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	switch config.Database.Driver {
	case DriverPostgres:
		if config.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if _, err := time.ParseDuration(config.Database.ConnMaxLifetime); err != nil {
			return fmt.Errorf("invalid connection max lifetime: %w", err)
		}
		if _, err := config.StatementTimeout(); err != nil {
			return err
		}
		if _, err := config.LockTimeout(); err != nil {
			return err
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unsupported database driver %q", config.Database.Driver)
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	if _, err := time.ParseDuration(config.JWT.AccessTokenExpiration); err != nil {
		return fmt.Errorf("invalid JWT access token expiration format: %w", err)
	}

	if config.Analytics.RiskWindowDays <= 0 {
		return fmt.Errorf("analytics risk window must be positive, got %d", config.Analytics.RiskWindowDays)
	}

	if config.Analytics.LeaderboardLimit <= 0 {
		return fmt.Errorf("analytics leaderboard limit must be positive, got %d", config.Analytics.LeaderboardLimit)
	}

	return nil
}

// AccessTokenTTL returns the parsed access token lifetime. Only valid after LoadConfig.
func (c *Config) AccessTokenTTL() time.Duration {
	d, _ := time.ParseDuration(c.JWT.AccessTokenExpiration)
	return d
}

// RiskWindow returns the inactivity window used by at-risk evaluation.
func (c *Config) RiskWindow() time.Duration {
	return time.Duration(c.Analytics.RiskWindowDays) * 24 * time.Hour
}

// PrettyLogs reports whether logs should use the console writer.
func (c *Config) PrettyLogs() bool {
	return strings.EqualFold(c.Logging.Format, "text")
}

// StatementTimeout returns the per-statement limit for pooled connections.
func (c *Config) StatementTimeout() (time.Duration, error) {
	return parseTimeout("statement timeout", c.Database.StatementTimeout)
}

// LockTimeout returns how long a statement may wait for a row lock.
func (c *Config) LockTimeout() (time.Duration, error) {
	return parseTimeout("lock timeout", c.Database.LockTimeout)
}

func parseTimeout(name, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s: must not be negative, got %s", name, value)
	}
	return d, nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}
