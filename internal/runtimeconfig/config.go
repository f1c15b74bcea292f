// Package runtimeconfig aggregates the knobs exposed by the staticpress
// runtime. Fields intentionally use simple types so host applications can
// unmarshal them from YAML files or environment-driven tooling.
package runtimeconfig

import (
	"fmt"
	"os"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// Config aggregates the runtime configuration for the publishing platform.
type Config struct {
	Content ContentConfig `yaml:"content"`
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
	Images  ImagesConfig  `yaml:"images"`
	Watch   WatchConfig   `yaml:"watch"`
}

// ContentConfig locates the on-disk corpus.
type ContentConfig struct {
	// Root is the content directory scanned by the loader.
	Root string `yaml:"root"`
	// Pattern limits article files to those matching the glob (default "*.md").
	Pattern string `yaml:"pattern"`
	// GroupsDir names the reserved group descriptor directory (default "groups").
	GroupsDir string `yaml:"groups_dir"`
	// Bootstrap seeds an empty root with the sample corpus on first run.
	Bootstrap bool `yaml:"bootstrap"`
}

// ServerConfig controls the read API listener.
type ServerConfig struct {
	Addr     string `yaml:"addr"`
	BasePath string `yaml:"base_path"`
}

// LoggingConfig selects the go-logger output.
type LoggingConfig struct {
	Level     string `yaml:"level"`
	Format    string `yaml:"format"`
	AddSource bool   `yaml:"add_source"`
}

// ImagesConfig controls the optional image optimizer.
type ImagesConfig struct {
	Enabled bool `yaml:"enabled"`
	// PublicDir is the directory images are served from; defaults to the
	// content root when empty.
	PublicDir string `yaml:"public_dir"`
	CacheDir  string `yaml:"cache_dir"`
	Width     int    `yaml:"width"`
	Quality   int    `yaml:"quality"`
	Format    string `yaml:"format"`
}

// WatchConfig controls the optional content watcher.
type WatchConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Debounce time.Duration `yaml:"debounce"`
}

// DefaultConfig returns the runtime defaults: serve ./content on :8080 with
// JSON logging at info level, bootstrap enabled, images and watch disabled.
func DefaultConfig() Config {
	return Config{
		Content: ContentConfig{
			Root:      "content",
			Pattern:   "*.md",
			GroupsDir: "groups",
			Bootstrap: true,
		},
		Server: ServerConfig{
			Addr:     ":8080",
			BasePath: "/api",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Images: ImagesConfig{
			CacheDir: "optimized-images",
			Width:    1200,
			Quality:  80,
		},
		Watch: WatchConfig{
			Debounce: 500 * time.Millisecond,
		},
	}
}

// Validate checks cross-field consistency before the runtime starts.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Content),
		validation.Field(&c.Server),
		validation.Field(&c.Logging),
		validation.Field(&c.Images),
	)
}

// Validate implements validation.Validatable.
func (c ContentConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Root, validation.Required),
		validation.Field(&c.Pattern, validation.Required),
		validation.Field(&c.GroupsDir, validation.Required),
	)
}

// Validate implements validation.Validatable.
func (c ServerConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Addr, validation.Required),
	)
}

// Validate implements validation.Validatable.
func (c LoggingConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Level, validation.In("trace", "debug", "info", "warn", "warning", "error", "fatal")),
		validation.Field(&c.Format, validation.In("json", "console", "pretty")),
	)
}

// Validate implements validation.Validatable.
func (c ImagesConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	return validation.ValidateStruct(&c,
		validation.Field(&c.Width, validation.Min(0)),
		validation.Field(&c.Quality, validation.Min(0), validation.Max(100)),
		validation.Field(&c.Format, validation.In("", "jpeg", "jpg", "png", "gif")),
	)
}

// FromFile decodes a YAML config file over the defaults, so partial files
// only override the keys they mention.
func FromFile(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: validate %s: %w", path, err)
	}
	return cfg, nil
}
