package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	EnvDatabaseURL = "ERDSKETCH_DB_URL"
	EnvAddr        = "ERDSKETCH_ADDR"
	EnvDebug       = "ERDSKETCH_DEBUG"
	EnvSchema      = "ERDSKETCH_SCHEMA"

	DefaultAddr = ":8080"
)

// Config holds settings that may come from the environment or a .env file.
// Command line flags override these values.
type Config struct {
	DatabaseURL string
	SchemaName  string
	Addr        string
	Debug       bool
}

// Load reads envFile when it exists, then the process environment. Variables
// already set in the environment win over the file. A missing envFile is not
// an error; an empty envFile skips the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	cfg := &Config{
		DatabaseURL: os.Getenv(EnvDatabaseURL),
		SchemaName:  os.Getenv(EnvSchema),
		Addr:        os.Getenv(EnvAddr),
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}

	if v := os.Getenv(EnvDebug); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid %s value %q: %w", EnvDebug, v, err)
		}
		cfg.Debug = debug
	}

	return cfg, nil
}
