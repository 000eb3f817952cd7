// Package config loads the cortex configuration file and the named
// store registry it contains.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultStoreName is used when the config names no default.
const DefaultStoreName = "default"

// EnvConfigPath overrides the config file location.
const EnvConfigPath = "CORTEX_CONFIG"

// EnvStoreRoot overrides the resolved store root entirely.
const EnvStoreRoot = "CORTEX_ROOT"

// StoreConfig describes one named store in the registry.
type StoreConfig struct {
	Root            string `yaml:"root"`
	MemoryExtension string `yaml:"memoryExtension,omitempty"`
	IndexExtension  string `yaml:"indexExtension,omitempty"`
	// RepoScoped nests the effective root under a subdirectory named
	// after the enclosing git repository, so each repository gets its
	// own memory tree.
	RepoScoped bool `yaml:"repoScoped,omitempty"`
}

// Config is the on-disk configuration document.
type Config struct {
	DefaultStore string                 `yaml:"defaultStore,omitempty"`
	Stores       map[string]StoreConfig `yaml:"stores,omitempty"`
}

// DefaultPath returns the standard config file location,
// ~/.cortex/config.yaml.
func DefaultPath() string {
	if env := os.Getenv(EnvConfigPath); env != "" {
		return env
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".cortex", "config.yaml")
	}
	return filepath.Join(home, ".cortex", "config.yaml")
}

// defaultConfig is used when no config file exists yet: a single store
// next to the config file.
func defaultConfig() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return &Config{
		DefaultStore: DefaultStoreName,
		Stores: map[string]StoreConfig{
			DefaultStoreName: {Root: filepath.Join(home, ".cortex", "memories")},
		},
	}
}

// Load reads the config file at path ("" means DefaultPath). A missing
// file yields the default config rather than an error.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return defaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if cfg.DefaultStore == "" {
		cfg.DefaultStore = DefaultStoreName
	}
	if cfg.Stores == nil {
		cfg.Stores = defaultConfig().Stores
	}
	return &cfg, nil
}

// Resolve returns the store configuration for name ("" selects the
// default store). The CORTEX_ROOT environment variable, when set,
// overrides the root of whichever store is selected.
func (c *Config) Resolve(name string) (StoreConfig, error) {
	if name == "" {
		name = c.DefaultStore
	}
	sc, ok := c.Stores[name]
	if !ok {
		return StoreConfig{}, fmt.Errorf("config: unknown store %q", name)
	}
	if env := os.Getenv(EnvStoreRoot); env != "" {
		sc.Root = env
	}
	if sc.Root == "" {
		return StoreConfig{}, fmt.Errorf("config: store %q has no root", name)
	}
	return sc, nil
}

// Names returns the registered store names in no particular order.
func (c *Config) Names() []string {
	names := make([]string, 0, len(c.Stores))
	for name := range c.Stores {
		names = append(names, name)
	}
	return names
}
