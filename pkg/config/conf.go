package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultModelPath = "churn_model.txt"

	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Config represents app config object.
type Config struct {
	ModelPath        string `yaml:"model"`
	Format           string `yaml:"format"`
	LogLevel         string `yaml:"log_level"`
	StrictCategories bool   `yaml:"strict_categories"`
}

// Default returns the config used when no file is provided.
func Default() *Config {
	return &Config{
		ModelPath: DefaultModelPath,
		Format:    FormatText,
		LogLevel:  "info",
	}
}

// Load reads the config file at path on top of the defaults.
// An empty path returns the defaults.
func Load(path string) (*Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening config file %s: %w", path, err)
	}
	defer f.Close()

	b, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	d := yaml.NewDecoder(bytes.NewReader(b))
	d.KnownFields(true)
	if err := d.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("error unmarshalling config file %s: %w", path, err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return c, nil
}

// Validate checks the config values.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config required")
	}
	if c.ModelPath == "" {
		return errors.New("model path required")
	}
	return ValidateFormat(c.Format)
}

// ValidateFormat checks that f is a supported output format.
func ValidateFormat(f string) error {
	switch f {
	case FormatText, FormatJSON, FormatYAML:
		return nil
	default:
		return fmt.Errorf("unsupported output format %q (want %s, %s or %s)", f, FormatText, FormatJSON, FormatYAML)
	}
}
