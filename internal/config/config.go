// Package config handles configuration for the loginkeeper client,
// including defaults, JSON overlay, environment and command-line flags.
package config

import (
	"fmt"
	"time"
)

// Supported account storage drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverGORM     = "gorm"
	DriverMemory   = "memory"
)

// Supported password hashing algorithms.
const (
	HashSHA256   = "sha256"
	HashArgon2id = "argon2id"
	HashBcrypt   = "bcrypt"
)

// Config holds runtime settings for the loginkeeper client.
//
// Fields:
//   - DatabaseDriver / DatabaseDSN: account store backend and its DSN.
//   - StatePath / StateKeyFile: local SQLite state for remembered sessions and its AES key file.
//   - SecretKey / RememberFor: HMAC secret and lifetime of remember tokens.
//   - HashAlgorithm and the Argon2/Bcrypt knobs: how new password hashes are produced.
//   - MinPasswordLength: strength threshold used by registration checks.
//   - GenericAuthErrors: report one message for unknown user and wrong password.
//   - LoginRate / LoginBurst: per-username sign-in throttle, disabled when LoginRate <= 0.
//   - ConnectRetries / ConnectTimeout: bounded retries when opening the database.
//   - LogLevel / LogFormat: slog handler settings.
type Config struct {
	DatabaseDriver    string
	DatabaseDSN       string
	StatePath         string
	StateKeyFile      string
	SecretKey         string
	RememberFor       time.Duration
	HashAlgorithm     string
	Argon2Time        uint32
	Argon2MemoryKiB   uint32
	Argon2Threads     uint8
	BcryptCost        int
	MinPasswordLength int
	GenericAuthErrors bool
	LoginRate         float64
	LoginBurst        int
	ConnectRetries    int
	ConnectTimeout    time.Duration
	LogLevel          string
	LogFormat         string
}

// LoadDefaults populates Config with development defaults.
// NOTE: SecretKey must be overridden outside of local use.
func (c *Config) LoadDefaults() {
	c.DatabaseDriver = DriverSQLite
	c.DatabaseDSN = "loginkeeper.db"
	c.StatePath = "loginkeeper-state.db"
	c.StateKeyFile = "loginkeeper.key"
	c.SecretKey = "secretKey"
	c.RememberFor = 7 * 24 * time.Hour
	c.HashAlgorithm = HashSHA256
	c.Argon2Time = 1
	c.Argon2MemoryKiB = 64 * 1024
	c.Argon2Threads = 4
	c.BcryptCost = 10
	c.MinPasswordLength = 6
	c.GenericAuthErrors = false
	c.LoginRate = 0.5
	c.LoginBurst = 5
	c.ConnectRetries = 3
	c.ConnectTimeout = 5 * time.Second
	c.LogLevel = "info"
	c.LogFormat = "text"
}

// Validate reports settings that cannot be acted upon.
func (c *Config) Validate() error {
	switch c.DatabaseDriver {
	case DriverPostgres, DriverSQLite, DriverGORM, DriverMemory:
	default:
		return fmt.Errorf("unknown database driver %q", c.DatabaseDriver)
	}

	switch c.HashAlgorithm {
	case HashSHA256, HashArgon2id, HashBcrypt:
	default:
		return fmt.Errorf("unknown hash algorithm %q", c.HashAlgorithm)
	}

	if c.MinPasswordLength < 1 {
		return fmt.Errorf("min password length must be positive, got %d", c.MinPasswordLength)
	}

	if c.DatabaseDriver != DriverMemory && c.DatabaseDSN == "" {
		return fmt.Errorf("database DSN is required for driver %q", c.DatabaseDriver)
	}

	return nil
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment (including an optional .env
// file) and finally command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
