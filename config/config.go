// Package config manages orcidator settings stored in ~/.orcidator.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const fileName = "config.yaml"

// Config holds user settings. Every field is optional.
type Config struct {
	// Dictionaries is the directory holding the lookup tables
	Dictionaries string `yaml:"dictionaries,omitempty"`

	// UserAgent is sent to ORCID and Wikidata
	UserAgent string `yaml:"user_agent,omitempty"`

	// Format is the default output format
	Format string `yaml:"format,omitempty"`

	Resolution      Resolution      `yaml:"resolution,omitempty"`
	ORCID           ORCID           `yaml:"orcid,omitempty"`
	Wikidata        Wikidata        `yaml:"wikidata,omitempty"`
	QuickStatements QuickStatements `yaml:"quickstatements,omitempty"`
}

// Resolution controls what happens to labels missing from the lookup tables.
type Resolution struct {
	NonInteractive    bool `yaml:"non_interactive,omitempty"`
	AcceptSuggestions bool `yaml:"accept_suggestions,omitempty"`
	Strict            bool `yaml:"strict,omitempty"`
}

type ORCID struct {
	BaseURL  string `yaml:"base_url,omitempty"`
	MaxTries uint   `yaml:"max_tries,omitempty"`
}

type Wikidata struct {
	Endpoint       string        `yaml:"endpoint,omitempty"`
	SearchEndpoint string        `yaml:"search_endpoint,omitempty"`
	QueryInterval  time.Duration `yaml:"query_interval,omitempty"`
}

type QuickStatements struct {
	BaseURL   string `yaml:"base_url,omitempty"`
	Username  string `yaml:"username,omitempty"`
	Token     string `yaml:"token,omitempty"`
	BatchName string `yaml:"batch_name,omitempty"`
}

// configDirOverride holds a user-specified configuration directory.
// When empty, the default $HOME/.orcidator is used.
var configDirOverride string

// SetConfigDir overrides the default configuration directory.
func SetConfigDir(dir string) {
	configDirOverride = dir
}

// ConfigDir returns the orcidator configuration directory.
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".orcidator"), nil
}

// Path returns the config file path.
func Path() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// Default returns the settings used when nothing is configured.
func Default() (*Config, error) {
	dir, err := ConfigDir()
	if err != nil {
		return nil, err
	}
	return &Config{
		Dictionaries: filepath.Join(dir, "dictionaries"),
		Format:       "qs",
		ORCID:        ORCID{MaxTries: 3},
		Wikidata:     Wikidata{QueryInterval: time.Second},
	}, nil
}

// Load reads config.yaml over the defaults, then applies .env files and
// environment overrides. A missing config file is not an error.
func Load() (*Config, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}

	path, err := Path()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		slog.Debug("no config file, using defaults", "path", path)
	case err != nil:
		return nil, fmt.Errorf("reading config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	loadDotEnv(filepath.Dir(path))
	cfg.applyEnv()
	return cfg, nil
}

// Save writes the config file, creating the directory if needed.
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// loadDotEnv loads ./.env and <config dir>/.env. Variables already set win.
func loadDotEnv(configDir string) {
	for _, f := range []string{".env", filepath.Join(configDir, ".env")} {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			slog.Warn("could not load env file", "path", f, "err", err)
		}
	}
}

func (c *Config) applyEnv() {
	c.Dictionaries = getEnv("ORCIDATOR_DICTIONARIES", c.Dictionaries)
	c.UserAgent = getEnv("ORCIDATOR_USER_AGENT", c.UserAgent)
	c.QuickStatements.Username = getEnv("QUICKSTATEMENTS_USERNAME", c.QuickStatements.Username)
	c.QuickStatements.Token = getEnv("QUICKSTATEMENTS_TOKEN", c.QuickStatements.Token)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
