// Package config handles layered YAML configuration with environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all addressbook configuration.
type Config struct {
	Storage   Storage   `yaml:"storage"`
	Birthdays Birthdays `yaml:"birthdays"`
	Display   Display   `yaml:"display"`
	Log       Log       `yaml:"log"`
}

// Storage holds persistence settings.
type Storage struct {
	Path string `yaml:"path"`
}

// Birthdays holds upcoming-birthday settings.
type Birthdays struct {
	WindowDays int `yaml:"window_days"`
}

// Display holds console output settings.
type Display struct {
	Plain  bool   `yaml:"plain"`  // Force the line-oriented session even on a TTY
	Prompt string `yaml:"prompt"` // Text shown before each command
}

// Log holds logger settings.
type Log struct {
	Level string `yaml:"level"` // "debug" | "info" | "warn" | "error"
	File  string `yaml:"file"`  // Empty writes to stderr
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Storage: Storage{
			Path: "addressbook.json",
		},
		Birthdays: Birthdays{
			WindowDays: 7,
		},
		Display: Display{
			Prompt: "Enter a command: ",
		},
		Log: Log{
			Level: "warn",
		},
	}
}

// LoadLayered loads config from multiple paths with increasing priority.
// Later paths override earlier ones. Missing, empty and comment-only files
// are skipped; invalid YAML or unknown fields are an error.
func LoadLayered(paths ...string) (*Config, error) {
	cfg := DefaultConfig()

	for _, path := range paths {
		layer, err := loadLayer(path)
		if err != nil {
			return nil, err
		}
		if layer == nil {
			continue
		}
		cfg.merge(layer)
	}

	return &cfg, nil
}

// Validate checks that config values are usable.
func (c *Config) Validate() error {
	if c.Storage.Path == "" {
		return errors.New("config: storage.path cannot be empty")
	}
	if c.Birthdays.WindowDays < 1 {
		return fmt.Errorf("config: birthdays.window_days must be at least 1, got %d", c.Birthdays.WindowDays)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return fmt.Errorf("config: log.level must be one of debug, info, warn, error, got %q", c.Log.Level)
	}
	return nil
}

// ApplyEnv applies environment variable overrides to the config.
// Supported variables: ADDRESSBOOK_FILE, ADDRESSBOOK_WINDOW_DAYS, ADDRESSBOOK_LOG_LEVEL.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("ADDRESSBOOK_FILE"); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv("ADDRESSBOOK_WINDOW_DAYS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: invalid ADDRESSBOOK_WINDOW_DAYS %q: %w", v, err)
		}
		c.Birthdays.WindowDays = n
	}
	if v := os.Getenv("ADDRESSBOOK_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	return nil
}

// rawConfig mirrors Config but uses pointers to distinguish set vs unset fields.
type rawConfig struct {
	Storage   *rawStorage   `yaml:"storage"`
	Birthdays *rawBirthdays `yaml:"birthdays"`
	Display   *rawDisplay   `yaml:"display"`
	Log       *rawLog       `yaml:"log"`
}

type rawStorage struct {
	Path *string `yaml:"path"`
}

type rawBirthdays struct {
	WindowDays *int `yaml:"window_days"`
}

type rawDisplay struct {
	Plain  *bool   `yaml:"plain"`
	Prompt *string `yaml:"prompt"`
}

type rawLog struct {
	Level *string `yaml:"level"`
	File  *string `yaml:"file"`
}

// loadLayer reads a single config file into a rawConfig for selective merging.
// Returns nil if the file does not exist. Rejects unknown fields.
func loadLayer(path string) (*rawConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if len(data) == 0 {
		return nil, nil
	}

	var raw rawConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return &raw, nil
}

// merge applies non-nil fields from a rawConfig layer onto this Config.
func (c *Config) merge(layer *rawConfig) {
	if layer.Storage != nil && layer.Storage.Path != nil {
		c.Storage.Path = *layer.Storage.Path
	}
	if layer.Birthdays != nil && layer.Birthdays.WindowDays != nil {
		c.Birthdays.WindowDays = *layer.Birthdays.WindowDays
	}
	if layer.Display != nil {
		if layer.Display.Plain != nil {
			c.Display.Plain = *layer.Display.Plain
		}
		if layer.Display.Prompt != nil {
			c.Display.Prompt = *layer.Display.Prompt
		}
	}
	if layer.Log != nil {
		if layer.Log.Level != nil {
			c.Log.Level = *layer.Log.Level
		}
		if layer.Log.File != nil {
			c.Log.File = *layer.Log.File
		}
	}
}
