package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Environment variables read by Resolve.
const (
	EnvConfig   = "TOKENSNIFF_CONFIG"
	EnvJobs     = "TOKENSNIFF_JOBS"
	EnvLogLevel = "TOKENSNIFF_LOG_LEVEL"
	EnvCacheDir = "TOKENSNIFF_CACHE_DIR"
)

// Find walks up from startDir looking for FileName.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load reads path on top of the defaults. Unknown keys are errors.
func Load(path string) (*Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			// свойства правил произвольны
			if len(k) > 2 && k[0] == "rules" && k[2] == "properties" {
				continue
			}
			keys = append(keys, k.String())
		}
		if len(keys) > 0 {
			return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
		}
	}
	cfg.Path = path
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Resolve finds the configuration for a run: the explicit path, else
// $TOKENSNIFF_CONFIG, else the nearest tokensniff.toml above startDir,
// else the defaults. A .env file in startDir is loaded first; variables
// already set win over it.
func Resolve(startDir, explicit string) (*Config, error) {
	envFile := filepath.Join(startDir, ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", envFile, err)
	}

	path := explicit
	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path == "" {
		found, ok, err := Find(startDir)
		if err != nil {
			return nil, err
		}
		if ok {
			path = found
		}
	}

	cfg := Default()
	if path != "" {
		var err error
		if cfg, err = Load(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// ApplyEnv overrides values from the environment.
func (c *Config) ApplyEnv() error {
	if v := strings.TrimSpace(os.Getenv(EnvJobs)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("%s: expected a positive integer, got %q", EnvJobs, v)
		}
		c.Run.Jobs = n
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		c.Log.Level = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvCacheDir)); v != "" {
		c.Run.CacheDir = v
	}
	return nil
}
