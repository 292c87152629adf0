// Package config loads pomedit settings from TOML files.
//
// Settings are layered: built-in defaults, then the user file
// ($XDG_CONFIG_HOME/pomedit/config.toml or ~/.config/pomedit/config.toml),
// then the nearest .pomedit.toml at or above the target POM's directory.
// Command-line flags are applied last by the caller. Each layer only
// overrides the keys it sets.
//
//	use_properties = true
//	active_profiles = ["release"]
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//	ttl = "12h"
package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/pomedit/pkg/cache"
	errs "github.com/matzehuels/pomedit/pkg/errors"
	"github.com/matzehuels/pomedit/pkg/integrations/maven"
	"github.com/matzehuels/pomedit/pkg/pom"
)

// ProjectFile is the name of the per-project config file.
const ProjectFile = ".pomedit.toml"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config is the merged configuration.
type Config struct {
	UseProperties  bool     `toml:"use_properties"`
	QueryMode      string   `toml:"query_mode"`
	SkipIfNewer    bool     `toml:"skip_if_newer"`
	ActiveProfiles []string `toml:"active_profiles"`

	// TopLevel bounds the parent walk; empty means the target's directory
	// or, when found, the directory holding the project config file.
	TopLevel string `toml:"top_level"`

	Cache   CacheConfig   `toml:"cache"`
	Maven   MavenConfig   `toml:"maven"`
	Server  ServerConfig  `toml:"server"`
	Journal JournalConfig `toml:"journal"`
}

type CacheConfig struct {
	Backend  string   `toml:"backend"`
	Dir      string   `toml:"dir"`
	RedisURL string   `toml:"redis_url"`
	TTL      Duration `toml:"ttl"`
}

type MavenConfig struct {
	SearchURL     string `toml:"search_url"`
	RepositoryURL string `toml:"repository_url"`
}

type ServerConfig struct {
	Addr         string `toml:"addr"`
	MaxBodyBytes int64  `toml:"max_body_bytes"`
}

type JournalConfig struct {
	Dir  string `toml:"dir"`
	Keep int    `toml:"keep"`
}

// Duration is a time.Duration written as a string ("24h", "90m").
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		QueryMode: pom.QueryStrict.String(),
		Cache: CacheConfig{
			Backend: BackendFile,
			TTL:     Duration{24 * time.Hour},
		},
		Maven: MavenConfig{
			SearchURL:     maven.DefaultSearchURL,
			RepositoryURL: maven.DefaultRepositoryURL,
		},
		Server: ServerConfig{
			Addr:         ":8080",
			MaxBodyBytes: 8 << 20,
		},
		Journal: JournalConfig{Keep: 50},
	}
}

// UserPath returns the location of the user config file.
func UserPath() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "pomedit", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "pomedit", "config.toml"), nil
}

// Load merges the defaults, the user file at userPath (skipped when empty
// or missing) and the project file nearest to projectDir (skipped when
// projectDir is empty). It returns the files that were applied.
func Load(userPath, projectDir string) (Config, []string, error) {
	cfg := Default()
	var sources []string

	if userPath != "" {
		ok, err := mergeFile(&cfg, userPath)
		if err != nil {
			return Config{}, nil, err
		}
		if ok {
			sources = append(sources, userPath)
		}
	}

	if projectDir != "" {
		if path, found := FindProjectFile(projectDir); found {
			if _, err := mergeFile(&cfg, path); err != nil {
				return Config{}, nil, err
			}
			sources = append(sources, path)
			if cfg.TopLevel == "" {
				cfg.TopLevel = filepath.Dir(path)
			} else if !filepath.IsAbs(cfg.TopLevel) {
				cfg.TopLevel = filepath.Join(filepath.Dir(path), cfg.TopLevel)
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, nil, err
	}
	return cfg, sources, nil
}

// Parse decodes a single TOML document over the defaults.
func Parse(r io.Reader) (Config, error) {
	cfg := Default()
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return Config{}, errs.Wrap(errs.ErrCodeInvalidInput, err, "parse config")
	}
	return cfg, cfg.Validate()
}

func mergeFile(cfg *Config, path string) (bool, error) {
	md, err := toml.DecodeFile(path, cfg)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, errs.Wrap(errs.ErrCodeInvalidInput, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return false, errs.New(errs.ErrCodeInvalidInput, "%s: unknown key %q", path, undecoded[0].String())
	}
	return true, nil
}

// FindProjectFile looks for ProjectFile in dir and its ancestors.
func FindProjectFile(dir string) (string, bool) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}
	for {
		path := filepath.Join(dir, ProjectFile)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// Validate checks enumerated values.
func (c Config) Validate() error {
	if _, err := pom.ParseQueryMode(c.QueryMode); err != nil {
		return err
	}
	switch c.Cache.Backend {
	case BackendFile, BackendNone:
	case BackendRedis:
		if c.Cache.RedisURL == "" {
			return errs.New(errs.ErrCodeInvalidInput, "cache backend redis requires cache.redis_url")
		}
	default:
		return errs.New(errs.ErrCodeInvalidInput, "unknown cache backend %q (must be one of: file, redis, none)", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "cache.ttl must not be negative")
	}
	for _, u := range []string{c.Maven.SearchURL, c.Maven.RepositoryURL} {
		if u == "" {
			continue
		}
		if err := errs.ValidateURL(u); err != nil {
			return err
		}
	}
	return nil
}

// Mode returns the parsed query mode.
func (c Config) Mode() pom.QueryMode {
	m, _ := pom.ParseQueryMode(c.QueryMode)
	return m
}

// OpenCache constructs the configured cache backend.
func (c Config) OpenCache(ctx context.Context) (cache.Cache, error) {
	switch c.Cache.Backend {
	case BackendNone:
		return cache.NewNullCache(), nil
	case BackendRedis:
		rc, err := cache.NewRedisCache(ctx, c.Cache.RedisURL)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeNetwork, err, "connect to redis")
		}
		return rc, nil
	default:
		fc, err := cache.NewFileCache(c.Cache.Dir)
		if err != nil {
			return nil, fmt.Errorf("open cache: %w", err)
		}
		return fc, nil
	}
}

// MavenClient builds a Maven Central client over store.
func (c Config) MavenClient(store cache.Cache) *maven.Client {
	return maven.NewClient(store, c.Cache.TTL.Duration).
		WithSearchURL(c.Maven.SearchURL).
		WithRepositoryURL(c.Maven.RepositoryURL)
}

// Encode writes c as TOML.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
