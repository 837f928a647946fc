// Package config merges resona's settings from YAML, .env and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/tanmay/resona/internal/store"
)

// DefaultReviewID routes to the review surface when entered as a
// participant ID. Matching is case-insensitive at the entry surface.
const DefaultReviewID = "ADMIN123"

// Config is the application configuration after all sources are
// merged. Precedence, lowest to highest: YAML file, .env, environment,
// command-line flags (applied by the CLI).
type Config struct {
	ReviewID   string `yaml:"review_id"`
	DBPath     string `yaml:"db_path"`
	Provider   string `yaml:"provider"`
	Model      string `yaml:"model"`
	Curriculum string `yaml:"curriculum"`
}

// DefaultConfigPath returns the YAML config location, honoring
// XDG_CONFIG_HOME.
func DefaultConfigPath() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "resona", "config.yaml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", "resona", "config.yaml"), nil
}

// Load reads the config from its default location. A missing YAML file
// or .env is fine; both are optional.
func Load() (*Config, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the config from an explicit YAML path, then applies
// .env and environment overrides.
func LoadFrom(path string) (*Config, error) {
	// godotenv never overrides variables that are already set, so the
	// real environment keeps precedence over .env.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := readYAML(path, cfg); err != nil {
		return nil, err
	}
	applyEnv(cfg)

	if cfg.ReviewID == "" {
		cfg.ReviewID = DefaultReviewID
	}
	if cfg.DBPath == "" {
		dbPath, err := store.DefaultDBPath()
		if err != nil {
			return nil, err
		}
		cfg.DBPath = dbPath
	}
	return cfg, nil
}

func readYAML(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("RESONA_REVIEW_ID"); v != "" {
		cfg.ReviewID = v
	}
	if v := os.Getenv("RESONA_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("RESONA_PROVIDER"); v != "" {
		cfg.Provider = v
	}
	if v := os.Getenv("RESONA_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("RESONA_CURRICULUM"); v != "" {
		cfg.Curriculum = v
	}
}

// ApplyLLMDefaults exports the YAML provider/model defaults into the
// RESONA_* namespace when the environment doesn't already set them, so
// llm.DiscoverConfig sees a single consistent source.
func (c *Config) ApplyLLMDefaults() {
	if c.Provider != "" && os.Getenv("RESONA_LLM_PROVIDER") == "" {
		os.Setenv("RESONA_LLM_PROVIDER", c.Provider)
	}
	provider := os.Getenv("RESONA_LLM_PROVIDER")
	if c.Model == "" || provider == "" {
		return
	}
	key := "RESONA_" + strings.ToUpper(provider) + "_MODEL"
	if os.Getenv(key) == "" {
		os.Setenv(key, c.Model)
	}
}

// IsReviewID reports whether the entered participant identifier routes
// to the review surface.
func (c *Config) IsReviewID(participantID string) bool {
	return strings.EqualFold(strings.TrimSpace(participantID), c.ReviewID)
}
