// Package config resolves runtime settings from the environment, with an
// optional .env file for local development.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables read by Load.
const (
	EnvDB           = "PRIMECART_DB"
	EnvLogLevel     = "PRIMECART_LOG_LEVEL"
	EnvAdvisorKey   = "PRIMECART_ADVISOR_KEY"
	EnvAdvisorModel = "PRIMECART_ADVISOR_MODEL"
	EnvAdvisorURL   = "PRIMECART_ADVISOR_URL"
	EnvStrict       = "PRIMECART_STRICT"

	// EnvAPIKey is the generic key name accepted when EnvAdvisorKey is unset.
	EnvAPIKey = "API_KEY"
)

// DefaultDBPath is used when EnvDB is unset.
const DefaultDBPath = "primecart.db"

// Config holds the resolved settings.
type Config struct {
	DBPath       string
	LogLevel     slog.Level
	AdvisorKey   string
	AdvisorModel string // empty selects the advisor's default model
	AdvisorURL   string
	Strict       bool
}

// Load reads envFile if it exists, then resolves every setting. Variables
// already set in the process environment win over the file. An empty
// envFile skips the file.
func Load(envFile string) (Config, error) {
	fileVars := map[string]string{}
	if envFile != "" {
		vars, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			fileVars = vars
		case errors.Is(err, fs.ErrNotExist):
			// No file: environment only.
		default:
			return Config{}, fmt.Errorf("read %s: %w", envFile, err)
		}
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := fileVars[key]
		return v, ok
	}
	return resolve(lookup)
}

func resolve(lookup func(string) (string, bool)) (Config, error) {
	cfg := Config{
		DBPath:   DefaultDBPath,
		LogLevel: slog.LevelInfo,
	}

	if v, ok := lookup(EnvDB); ok && v != "" {
		cfg.DBPath = v
	}

	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvLogLevel, err)
		}
	}

	if v, ok := lookup(EnvAdvisorKey); ok && v != "" {
		cfg.AdvisorKey = v
	} else if v, ok := lookup(EnvAPIKey); ok {
		cfg.AdvisorKey = v
	}
	if v, ok := lookup(EnvAdvisorModel); ok {
		cfg.AdvisorModel = v
	}
	if v, ok := lookup(EnvAdvisorURL); ok {
		cfg.AdvisorURL = v
	}

	if v, ok := lookup(EnvStrict); ok && v != "" {
		strict, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvStrict, err)
		}
		cfg.Strict = strict
	}

	return cfg, nil
}
