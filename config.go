package roster

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
)

const (
	DatabasePathEnv = "ROSTER_DB_PATH"
	LocaleEnv       = "ROSTER_LOCALE"
	LogLevelEnv     = "ROSTER_LOG_LEVEL"
)

type Config struct {
	DatabasePath string
	// Locale is a BCP 47 tag. Empty means use the process locale.
	Locale   string
	LogLevel log.Level
}

// LoadConfig reads .env (prod) or .env.dev into the environment and builds a Config from it.
// Variables already set in the environment win over the dotenv file.
func LoadConfig(isProd bool) (Config, error) {
	LoadEnv(isProd)

	config := Config{
		DatabasePath: os.Getenv(DatabasePathEnv),
		Locale:       os.Getenv(LocaleEnv),
		LogLevel:     log.InfoLevel,
	}

	if config.DatabasePath == "" {
		config.DatabasePath = "roster.db"
	}

	if lvl := os.Getenv(LogLevelEnv); lvl != "" {
		parsed, err := log.ParseLevel(lvl)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s %q: %w", LogLevelEnv, lvl, err)
		}
		config.LogLevel = parsed
	}

	return config, nil
}
