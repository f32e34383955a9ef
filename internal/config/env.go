package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/metalex84/loginkeeper/internal/flagx"
)

const defaultEnvFile = ".env"

// Environment variables recognised by parseEnv.
const (
	EnvDatabaseDriver    = "LOGINKEEPER_DATABASE_DRIVER"
	EnvDatabaseDSN       = "LOGINKEEPER_DATABASE_DSN"
	EnvStatePath         = "LOGINKEEPER_STATE_PATH"
	EnvStateKeyFile      = "LOGINKEEPER_STATE_KEY_FILE"
	EnvSecretKey         = "LOGINKEEPER_SECRET_KEY"
	EnvRememberFor       = "LOGINKEEPER_REMEMBER_FOR"
	EnvHashAlgorithm     = "LOGINKEEPER_HASH_ALGORITHM"
	EnvMinPasswordLength = "LOGINKEEPER_MIN_PASSWORD_LENGTH"
	EnvGenericAuthErrors = "LOGINKEEPER_GENERIC_AUTH_ERRORS"
	EnvLoginRate         = "LOGINKEEPER_LOGIN_RATE"
	EnvLoginBurst        = "LOGINKEEPER_LOGIN_BURST"
	EnvLogLevel          = "LOGINKEEPER_LOG_LEVEL"
	EnvLogFormat         = "LOGINKEEPER_LOG_FORMAT"
)

// loadEnvFile loads the dotenv file named by -env, or ./.env when the flag is
// absent. Variables already present in the process environment win. A missing
// default file is ignored; a missing explicit file panics.
func loadEnvFile() {
	path := flagx.EnvFileFlags()
	explicit := path != ""
	if !explicit {
		path = defaultEnvFile
	}

	if err := godotenv.Load(path); err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return
		}
		panic(err)
	}
}

// parseEnv overlays values from LOGINKEEPER_* environment variables.
// Malformed numeric, boolean or duration values panic.
func parseEnv(config *Config) {
	loadEnvFile()

	lookupString(EnvDatabaseDriver, &config.DatabaseDriver)
	lookupString(EnvDatabaseDSN, &config.DatabaseDSN)
	lookupString(EnvStatePath, &config.StatePath)
	lookupString(EnvStateKeyFile, &config.StateKeyFile)
	lookupString(EnvSecretKey, &config.SecretKey)
	lookupString(EnvHashAlgorithm, &config.HashAlgorithm)
	lookupString(EnvLogLevel, &config.LogLevel)
	lookupString(EnvLogFormat, &config.LogFormat)

	if v, ok := os.LookupEnv(EnvRememberFor); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(err)
		}
		config.RememberFor = d
	}

	if v, ok := os.LookupEnv(EnvMinPasswordLength); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			panic(err)
		}
		config.MinPasswordLength = n
	}

	if v, ok := os.LookupEnv(EnvGenericAuthErrors); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			panic(err)
		}
		config.GenericAuthErrors = b
	}

	if v, ok := os.LookupEnv(EnvLoginRate); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			panic(err)
		}
		config.LoginRate = f
	}

	if v, ok := os.LookupEnv(EnvLoginBurst); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			panic(err)
		}
		config.LoginBurst = n
	}
}

func lookupString(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}
