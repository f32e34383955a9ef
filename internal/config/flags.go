package config

import (
	"flag"
	"os"
	"time"

	"github.com/metalex84/loginkeeper/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-e string   account store driver (postgres, sqlite, gorm, memory)
//	-d string   account store DSN
//	-p string   local state database path
//	-k string   local state key file
//	-s string   remember token HMAC secret
//	-t int      remember token lifetime, minutes
//	-h string   password hash algorithm (sha256, argon2id, bcrypt)
//	-m int      minimum password length
//	-g bool     generic credential error messages
//	-r float    sign-in attempts per second per username (<= 0 disables)
//	-b int      sign-in burst per username
//	-l string   log level (debug, info, warn, error)
//	-f string   log format (text, json)
//
// Only these flags are kept from os.Args (see flagx.FilterArgs), so -c,
// -config and -env can coexist on the same command line.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{
		"-e", "-d", "-p", "-k", "-s", "-t", "-h", "-m", "-g", "-r", "-b", "-l", "-f",
	})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.DatabaseDriver, "e", config.DatabaseDriver, "account store driver")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "account store DSN")
	fs.StringVar(&config.StatePath, "p", config.StatePath, "local state database path")
	fs.StringVar(&config.StateKeyFile, "k", config.StateKeyFile, "local state key file")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "remember token secret key")

	rememberFor := fs.Int("t", int(config.RememberFor.Minutes()), "remember token lifetime (in minutes)")

	fs.StringVar(&config.HashAlgorithm, "h", config.HashAlgorithm, "password hash algorithm")
	fs.IntVar(&config.MinPasswordLength, "m", config.MinPasswordLength, "minimum password length")
	fs.BoolVar(&config.GenericAuthErrors, "g", config.GenericAuthErrors, "generic credential error messages")
	fs.Float64Var(&config.LoginRate, "r", config.LoginRate, "sign-in attempts per second per username")
	fs.IntVar(&config.LoginBurst, "b", config.LoginBurst, "sign-in burst per username")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.LogFormat, "f", config.LogFormat, "log format")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.RememberFor = time.Duration(*rememberFor) * time.Minute
}
