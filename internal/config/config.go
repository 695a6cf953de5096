// Package config holds the settings of the tzinfo command.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ngrash/go-tzinfo/zoneinfo"
)

// EnvZoneinfo names the environment variable holding an additional
// zoneinfo directory that is searched first. A relative directory is
// resolved against the working directory.
const EnvZoneinfo = "ZONEINFO"

// Config is the content of a YAML configuration file.
type Config struct {
	// SearchPaths are the candidate zoneinfo directories, in order.
	SearchPaths []string `yaml:"search_paths"`
	// CacheSize is the number of parsed zones kept in memory.
	CacheSize int `yaml:"cache_size"`
	// Workers bounds the number of zones loaded concurrently.
	Workers int `yaml:"workers"`
	// LogLevel is a zap level name such as "info" or "debug".
	LogLevel string `yaml:"log_level"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		SearchPaths: append([]string(nil), zoneinfo.DefaultSearchPaths...),
		CacheSize:   zoneinfo.DefaultCacheSize,
		Workers:     8,
		LogLevel:    "info",
	}
}

// Load reads the YAML file at path on top of the defaults. An empty path
// yields the defaults. In both cases the ZONEINFO environment variable,
// if set, is prepended to the search paths.
func Load(path string) (Config, error) {
	c := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}
	if dir := os.Getenv(EnvZoneinfo); dir != "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvZoneinfo, err)
		}
		c.SearchPaths = append([]string{abs}, c.SearchPaths...)
	}
	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return c, nil
}

// Validate reports all invalid settings.
func (c Config) Validate() error {
	var errs []error
	if len(c.SearchPaths) == 0 {
		errs = append(errs, errors.New("search_paths: must not be empty"))
	}
	for _, p := range c.SearchPaths {
		if !filepath.IsAbs(p) {
			errs = append(errs, fmt.Errorf("search_paths: %q is not absolute", p))
		}
	}
	if c.CacheSize <= 0 {
		errs = append(errs, fmt.Errorf("cache_size: must be positive, got %d", c.CacheSize))
	}
	if c.Workers <= 0 {
		errs = append(errs, fmt.Errorf("workers: must be positive, got %d", c.Workers))
	}
	return errors.Join(errs...)
}
