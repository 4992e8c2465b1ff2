// Package config loads the optional mlopsdiagrams.toml project file.
//
// Settings are layered: package defaults from [pipeline], then the TOML
// file, then command-line flags. This package only handles the middle
// layer; the CLI applies flags on top of the returned [Config].
//
// A minimal file:
//
//	out_dir = "docs/source"
//	format  = "svg"
//	icons   = "assets/icons"
//
//	[cache]
//	redis_url = "redis://localhost:6379/0"
//	ttl       = "24h"
//
//	[graph]
//	splines = "ortho"
//
// Unknown keys are rejected so that typos do not silently fall back to a
// default.
package config

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/mlopsdiagrams/internal/server"
	"github.com/matzehuels/mlopsdiagrams/pkg/cache"
	"github.com/matzehuels/mlopsdiagrams/pkg/diagram"
	"github.com/matzehuels/mlopsdiagrams/pkg/errors"
	"github.com/matzehuels/mlopsdiagrams/pkg/pipeline"
)

// DefaultFile is looked up in the working directory when no explicit path
// is given.
const DefaultFile = "mlopsdiagrams.toml"

// Config is the decoded project file.
type Config struct {
	OutDir    string            `toml:"out_dir"`
	Format    string            `toml:"format"`
	Icons     string            `toml:"icons"`
	KeepGoing bool              `toml:"keep_going"`
	Cache     Cache             `toml:"cache"`
	Server    Server            `toml:"server"`
	Graph     map[string]string `toml:"graph"`

	// Source is the file the config was read from, empty for defaults.
	Source string `toml:"-"`
}

// Cache configures the render cache.
type Cache struct {
	Disabled bool   `toml:"disabled"`
	Dir      string `toml:"dir"`
	RedisURL string `toml:"redis_url"`
	Prefix   string `toml:"prefix"`
	TTL      string `toml:"ttl"`
}

// Server configures the preview server.
type Server struct {
	Addr string `toml:"addr"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		OutDir: pipeline.DefaultOutDir,
		Cache: Cache{
			Dir:    cache.DefaultDir(),
			Prefix: "mlopsdiagrams:",
		},
		Server: Server{Addr: server.DefaultAddr},
	}
}

// Load reads the config at path. An empty path tries DefaultFile and falls
// back to Default when it does not exist; an explicit path must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config")
	}
	cfg, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Source = path
	return cfg, nil
}

// Parse decodes TOML text on top of Default and validates the result.
func Parse(text string) (*Config, error) {
	cfg := Default()
	md, err := toml.Decode(text, cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field values that TOML typing cannot express.
func (c *Config) Validate() error {
	if c.Format != "" {
		c.Format = strings.ToLower(strings.TrimPrefix(c.Format, "."))
		if err := pipeline.ValidateFormat(c.Format); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "format")
		}
	}
	if len(c.Graph) > 0 {
		if _, err := diagram.DefaultGraphAttrs().With(c.Graph); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "[graph]")
		}
	}
	if c.Cache.RedisURL != "" && c.Cache.Prefix == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.prefix: must not be empty with cache.redis_url")
	}
	if _, err := c.Cache.TTLDuration(); err != nil {
		return err
	}
	return nil
}

// TTLDuration parses Cache.TTL, returning cache.DefaultTTL when unset.
func (c Cache) TTLDuration() (time.Duration, error) {
	if c.TTL == "" {
		return cache.DefaultTTL, nil
	}
	d, err := time.ParseDuration(c.TTL)
	if err != nil || d < 0 {
		return 0, errors.New(errors.ErrCodeInvalidConfig, "cache.ttl: invalid duration %q", c.TTL)
	}
	return d, nil
}

// Options converts the file settings to pipeline options.
func (c *Config) Options() pipeline.Options {
	return pipeline.Options{
		OutDir:     c.OutDir,
		Format:     c.Format,
		KeepGoing:  c.KeepGoing,
		GraphAttrs: c.Graph,
	}
}
