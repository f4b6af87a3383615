package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Makepad-fr/wordsync/internal/model"
)

// DefaultFileName is looked up in the working directory when no --config
// flag is given.
const DefaultFileName = ".wordsync.yaml"

// Config holds wordsync settings.
type Config struct {
	// Work item store location; empty means workitems.json in the working dir.
	DataFile string `yaml:"data_file"`

	LogLevel string `yaml:"log_level"` // debug, info, warn, error
	Theme    string `yaml:"theme"`     // classic, neon, mono

	// Extra reference names serialized after System.Id and System.WorkItemType.
	Fields []string `yaml:"fields"`

	// Work item type created by `import` for each outline level. Levels
	// from the file are merged into the defaults, so a partial map only
	// overrides the levels it names.
	Types map[int]string `yaml:"types"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Theme:    "classic",
		Fields:   []string{model.FieldTitle, model.FieldState},
		Types: map[int]string{
			1: "Epic",
			2: "Feature",
			3: "User Story",
			4: "Task",
		},
	}
}

// Load reads path over the defaults and applies environment overrides.
// A missing file is only an error when required is true.
func Load(path string, required bool) (*Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !required:
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := strings.TrimSpace(os.Getenv("WORDSYNC_DATA")); v != "" {
		c.DataFile = v
	}
	if v := strings.TrimSpace(os.Getenv("WORDSYNC_LOG_LEVEL")); v != "" {
		c.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv("WORDSYNC_THEME")); v != "" {
		c.Theme = v
	}
}

// TypeFor returns the work item type for an outline level, falling back to
// the type of the deepest configured level above it, then "Task".
func (c *Config) TypeFor(level int) string {
	best := -1
	for l := range c.Types {
		if l <= level && l > best {
			best = l
		}
	}
	if best >= 0 {
		return c.Types[best]
	}
	return "Task"
}
