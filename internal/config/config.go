// Package config loads project settings from the .pagemark.yml file at the
// project root.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Filename is the name of the project configuration file.
const Filename = ".pagemark.yml"

// DefaultImageMaxBytes caps the size of images converted to data URLs.
const DefaultImageMaxBytes = 5 << 20

// Config holds project settings.
type Config struct {
	// ImageMaxBytes is the largest image, in bytes, that may be inserted.
	ImageMaxBytes int64 `yaml:"imageMaxBytes"`
	// LogLevel is one of debug, info, warn or error.
	LogLevel string `yaml:"logLevel"`
}

// Default returns the settings used when no configuration file exists.
func Default() Config {
	return Config{ImageMaxBytes: DefaultImageMaxBytes, LogLevel: "warn"}
}

// Parse decodes configuration YAML. Keys left out keep their defaults;
// unknown keys are an error.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parse %s: %w", Filename, err)
	}
	if cfg.ImageMaxBytes <= 0 {
		return Config{}, fmt.Errorf("parse %s: imageMaxBytes must be positive", Filename)
	}
	if _, err := ParseLevel(cfg.LogLevel); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", Filename, err)
	}
	return cfg, nil
}

// ReadFileFunc reads a named file, reporting fs.ErrNotExist when it is absent.
type ReadFileFunc func(name string) ([]byte, error)

// Load reads the configuration file in dir through read, or os.ReadFile when
// read is nil. A missing file yields defaults.
func Load(dir string, read ReadFileFunc) (Config, error) {
	if read == nil {
		read = os.ReadFile
	}
	data, err := read(filepath.Join(dir, Filename))
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read %s: %w", Filename, err)
	}
	return Parse(data)
}

// Level returns the configured log level.
func (c Config) Level() slog.Level {
	l, _ := ParseLevel(c.LogLevel)
	return l
}

// ParseLevel maps a level name to its slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning", "":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}

// Template is written by "pgm init".
const Template = `# pagemark project settings
imageMaxBytes: 5242880
logLevel: warn
`
