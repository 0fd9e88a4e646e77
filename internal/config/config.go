// Package config resolves fastmac settings from the environment and an
// optional .env file in the working directory.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/lamchakchan/fastmac/internal/logging"
)

// Environment variable names.
const (
	EnvCatalogURL   = "FASTMAC_CATALOG_URL"
	EnvCatalogFile  = "FASTMAC_CATALOG_FILE"
	EnvCacheDir     = "FASTMAC_CACHE_DIR"
	EnvCacheTTL     = "FASTMAC_CACHE_TTL"
	EnvFetchRetries = "FASTMAC_FETCH_RETRIES"
	EnvLogLevel     = "FASTMAC_LOG_LEVEL"
	EnvLogFile      = "FASTMAC_LOG_FILE"
)

// DefaultCatalogURL serves the public tool catalog.
const DefaultCatalogURL = "https://fastmac.dev/api"

const (
	defaultCacheTTL     = 5 * time.Minute
	defaultFetchRetries = 3
)

// Config holds resolved settings.
type Config struct {
	CatalogURL   string
	CatalogFile  string // takes precedence over CatalogURL when set
	CacheDir     string // empty disables the document cache
	CacheTTL     time.Duration
	FetchRetries int
	LogLevel     logging.LogLevel
	LogFile      string
}

// CachePath returns the SQLite cache location, or "" when caching is off.
func (c *Config) CachePath() string {
	if c.CacheDir == "" {
		return ""
	}
	return filepath.Join(c.CacheDir, "catalog.db")
}

// Load reads .env from the working directory (if present) and then the
// process environment. Variables already set in the environment win over
// .env entries.
func Load() (*Config, error) {
	return LoadFile(".env")
}

// LoadFile is like Load but reads the given dotenv file.
func LoadFile(dotenv string) (*Config, error) {
	if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reading %s: %w", dotenv, err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		CatalogURL:   DefaultCatalogURL,
		CacheTTL:     defaultCacheTTL,
		FetchRetries: defaultFetchRetries,
		LogLevel:     logging.LevelWarn,
	}

	if v := strings.TrimSpace(os.Getenv(EnvCatalogURL)); v != "" {
		cfg.CatalogURL = strings.TrimRight(v, "/")
	}
	cfg.CatalogFile = strings.TrimSpace(os.Getenv(EnvCatalogFile))

	if v, ok := os.LookupEnv(EnvCacheDir); ok {
		cfg.CacheDir = strings.TrimSpace(v)
	} else if dir, err := os.UserCacheDir(); err == nil {
		cfg.CacheDir = filepath.Join(dir, "fastmac")
	}

	if v := strings.TrimSpace(os.Getenv(EnvCacheTTL)); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil || ttl < 0 {
			return nil, fmt.Errorf("%s: invalid duration %q", EnvCacheTTL, v)
		}
		cfg.CacheTTL = ttl
	}

	if v := strings.TrimSpace(os.Getenv(EnvFetchRetries)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("%s: must be a positive integer, got %q", EnvFetchRetries, v)
		}
		cfg.FetchRetries = n
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		lvl, err := logging.ParseLevel(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvLogLevel, err)
		}
		cfg.LogLevel = lvl
	}
	cfg.LogFile = strings.TrimSpace(os.Getenv(EnvLogFile))

	return cfg, nil
}
