// Package config resolves feedreel settings from the environment.
//
// An optional .env file is loaded first; variables already set in the
// process environment win over the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrMissingAPIKey is returned by RequireAPIKey when no catalog credential is set.
var ErrMissingAPIKey = errors.New("missing catalog credential: set PEXELS_API_KEY")

// Store backends understood by kvstore.Open.
const (
	StoreFile   = "file"
	StoreBadger = "badger"
	StoreSQLite = "sqlite"
	StoreMemory = "memory"
)

// Config is the resolved runtime configuration.
type Config struct {
	APIKey  string        `env:"PEXELS_API_KEY"`
	APIURL  string        `env:"FEEDREEL_API_URL" envDefault:"https://api.pexels.com"`
	DataDir string        `env:"FEEDREEL_DATA_DIR"`
	Store   string        `env:"FEEDREEL_STORE" envDefault:"file"`
	Timeout time.Duration `env:"FEEDREEL_TIMEOUT" envDefault:"30s"`

	VideoQuery string `env:"FEEDREEL_VIDEO_QUERY" envDefault:"nature"`
	VideoCount int    `env:"FEEDREEL_VIDEO_COUNT" envDefault:"5"`
	ImageCount int    `env:"FEEDREEL_IMAGE_COUNT" envDefault:"9"`
	BatchSize  int    `env:"FEEDREEL_BATCH_SIZE" envDefault:"3"`

	SeedMin int64 `env:"FEEDREEL_SEED_MIN" envDefault:"20"`
	SeedMax int64 `env:"FEEDREEL_SEED_MAX" envDefault:"5000"`

	VisibilityThreshold float64 `env:"FEEDREEL_VISIBILITY_THRESHOLD" envDefault:"0.5"`

	LogLevel  string `env:"FEEDREEL_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"FEEDREEL_LOG_FORMAT" envDefault:"console"`
}

// Load reads .env files (if present) and parses the environment.
func Load(dotenvFiles ...string) (*Config, error) {
	if len(dotenvFiles) == 0 {
		dotenvFiles = []string{".env"}
	}
	for _, f := range dotenvFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.DataDir == "" {
		cfg.DataDir = defaultDataDir()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that numeric settings are usable.
func (c *Config) Validate() error {
	switch c.Store {
	case StoreFile, StoreBadger, StoreSQLite, StoreMemory:
	default:
		return fmt.Errorf("invalid FEEDREEL_STORE %q: must be file, badger, sqlite or memory", c.Store)
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("invalid FEEDREEL_BATCH_SIZE %d: must be at least 1", c.BatchSize)
	}
	if c.VideoCount < 0 || c.ImageCount < 0 {
		return fmt.Errorf("invalid media counts: videos=%d images=%d", c.VideoCount, c.ImageCount)
	}
	if c.SeedMin < 0 || c.SeedMax < c.SeedMin {
		return fmt.Errorf("invalid seed range [%d, %d]", c.SeedMin, c.SeedMax)
	}
	if c.VisibilityThreshold <= 0 || c.VisibilityThreshold > 1 {
		return fmt.Errorf("invalid FEEDREEL_VISIBILITY_THRESHOLD %v: must be in (0, 1]", c.VisibilityThreshold)
	}
	return nil
}

// RequireAPIKey fails when commands that reach the catalog run without a credential.
func (c *Config) RequireAPIKey() error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}

func defaultDataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "feedreel")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "feedreel")
}
