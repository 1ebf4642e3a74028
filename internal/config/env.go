package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// DatabaseURLEnv overrides databaseURL from the config file
const DatabaseURLEnv = "ORGANIZER_DATABASE_URL"

// loadDotEnv reads .env.<env> (or .env without an env) from the current
// directory into the process environment. Variables that are already set
// win. A missing file is not an error.
func loadDotEnv(env string) error {
	name := ".env"
	if env = strings.TrimSpace(env); env != "" {
		name = ".env." + env
	}

	if _, err := os.Stat(name); errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	if err := godotenv.Load(name); err != nil {
		return fmt.Errorf("failed to load %s: %w", name, err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if url := strings.TrimSpace(os.Getenv(DatabaseURLEnv)); url != "" {
		cfg.DatabaseURL = url
	}
}
