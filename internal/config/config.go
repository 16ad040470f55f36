package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	EnvClientID     = "HELPSCOUT_CLIENT_ID"
	EnvClientSecret = "HELPSCOUT_CLIENT_SECRET"
	EnvBaseURL      = "HELPSCOUT_BASE_URL"
	EnvDebug        = "HELPSCOUT_DEBUG"
	EnvStorageDir   = "HELPSCOUT_STORAGE_DIR"
)

// Config holds the settings read from the environment and .env files.
type Config struct {
	ClientID     string
	ClientSecret string
	BaseURL      string
	StorageDir   string
	Debug        bool
}

// HasCredentials reports whether both halves of the client credentials are set.
func (c *Config) HasCredentials() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// Load reads configuration from the process environment, falling back to the
// given .env files. Process variables win over file values; files that do not
// exist are skipped.
func Load(envFiles ...string) (*Config, error) {
	fileEnv, err := readEnvFiles(envFiles)
	if err != nil {
		return nil, err
	}

	lookup := func(key string) string {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
		return strings.TrimSpace(fileEnv[key])
	}

	cfg := &Config{
		ClientID:     lookup(EnvClientID),
		ClientSecret: lookup(EnvClientSecret),
		BaseURL:      lookup(EnvBaseURL),
		StorageDir:   lookup(EnvStorageDir),
	}

	if raw := lookup(EnvDebug); raw != "" {
		debug, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s value %q: %w", EnvDebug, raw, err)
		}
		cfg.Debug = debug
	}

	return cfg, nil
}

func readEnvFiles(files []string) (map[string]string, error) {
	merged := map[string]string{}

	for _, file := range files {
		if _, err := os.Stat(file); errors.Is(err, os.ErrNotExist) {
			continue
		}

		values, err := godotenv.Read(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}

		// earlier files take precedence
		for k, v := range values {
			if _, ok := merged[k]; !ok {
				merged[k] = v
			}
		}
	}

	return merged, nil
}
