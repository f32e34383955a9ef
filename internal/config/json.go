package config

import (
	"encoding/json"
	"os"

	"github.com/metalex84/loginkeeper/internal/flagx"
	"github.com/metalex84/loginkeeper/internal/timex"
)

// JsonConfig mirrors Config for JSON unmarshalling. Durations use
// timex.Duration so both "30m" and integer nanoseconds are accepted.
type JsonConfig struct {
	DatabaseDriver    string         `json:"database_driver"`
	DatabaseDSN       string         `json:"database_dsn"`
	StatePath         string         `json:"state_path"`
	StateKeyFile      string         `json:"state_key_file"`
	SecretKey         string         `json:"secret_key"`
	RememberFor       timex.Duration `json:"remember_for"`
	HashAlgorithm     string         `json:"hash_algorithm"`
	Argon2Time        uint32         `json:"argon2_time"`
	Argon2MemoryKiB   uint32         `json:"argon2_memory_kib"`
	Argon2Threads     uint8          `json:"argon2_threads"`
	BcryptCost        int            `json:"bcrypt_cost"`
	MinPasswordLength int            `json:"min_password_length"`
	GenericAuthErrors bool           `json:"generic_auth_errors"`
	LoginRate         float64        `json:"login_rate"`
	LoginBurst        int            `json:"login_burst"`
	ConnectRetries    int            `json:"connect_retries"`
	ConnectTimeout    timex.Duration `json:"connect_timeout"`
	LogLevel          string         `json:"log_level"`
	LogFormat         string         `json:"log_format"`
}

func toJson(c *Config) *JsonConfig {
	return &JsonConfig{
		DatabaseDriver:    c.DatabaseDriver,
		DatabaseDSN:       c.DatabaseDSN,
		StatePath:         c.StatePath,
		StateKeyFile:      c.StateKeyFile,
		SecretKey:         c.SecretKey,
		RememberFor:       timex.Duration{Duration: c.RememberFor},
		HashAlgorithm:     c.HashAlgorithm,
		Argon2Time:        c.Argon2Time,
		Argon2MemoryKiB:   c.Argon2MemoryKiB,
		Argon2Threads:     c.Argon2Threads,
		BcryptCost:        c.BcryptCost,
		MinPasswordLength: c.MinPasswordLength,
		GenericAuthErrors: c.GenericAuthErrors,
		LoginRate:         c.LoginRate,
		LoginBurst:        c.LoginBurst,
		ConnectRetries:    c.ConnectRetries,
		ConnectTimeout:    timex.Duration{Duration: c.ConnectTimeout},
		LogLevel:          c.LogLevel,
		LogFormat:         c.LogFormat,
	}
}

// parseJson overlays values from the JSON file named by -c or -config.
// Keys absent from the file keep their current values. An unreadable or
// malformed file panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigFileFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := toJson(config)
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	config.DatabaseDriver = c.DatabaseDriver
	config.DatabaseDSN = c.DatabaseDSN
	config.StatePath = c.StatePath
	config.StateKeyFile = c.StateKeyFile
	config.SecretKey = c.SecretKey
	config.RememberFor = c.RememberFor.Duration
	config.HashAlgorithm = c.HashAlgorithm
	config.Argon2Time = c.Argon2Time
	config.Argon2MemoryKiB = c.Argon2MemoryKiB
	config.Argon2Threads = c.Argon2Threads
	config.BcryptCost = c.BcryptCost
	config.MinPasswordLength = c.MinPasswordLength
	config.GenericAuthErrors = c.GenericAuthErrors
	config.LoginRate = c.LoginRate
	config.LoginBurst = c.LoginBurst
	config.ConnectRetries = c.ConnectRetries
	config.ConnectTimeout = c.ConnectTimeout.Duration
	config.LogLevel = c.LogLevel
	config.LogFormat = c.LogFormat
}
