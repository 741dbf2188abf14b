// Package config loads application configuration from, in order of
// precedence: flag defaults, an optional YAML file, KARTENBOX_* environment
// variables, and explicitly set flags.
package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig  `koanf:"server" validate:"required"`
	Storage StorageConfig `koanf:"storage" validate:"required"`
	Decks   DecksConfig   `koanf:"decks"`
	Import  ImportConfig  `koanf:"import"`
}

// ServerConfig contains the web UI settings.
type ServerConfig struct {
	Addr     string `koanf:"addr" validate:"required"`
	LogLevel string `koanf:"log_level" validate:"required,oneof=debug info warn error"`
}

// StorageConfig locates the local blob store.
type StorageConfig struct {
	Path string `koanf:"path" validate:"required"`
}

// DecksConfig carries deck creation policy.
type DecksConfig struct {
	SeedExampleCards bool `koanf:"seed_example_cards"`
}

// ImportConfig carries deck import settings.
type ImportConfig struct {
	CacheDir string `koanf:"cache_dir" validate:"required"`
}

// flagKeys maps CLI flag names onto config keys. Flags not listed here are
// not configuration (e.g. --import selects a mode).
var flagKeys = map[string]string{
	"addr":          "server.addr",
	"log-level":     "server.log_level",
	"db":            "storage.path",
	"seed-examples": "decks.seed_example_cards",
	"cache-dir":     "import.cache_dir",
}

// Load assembles the configuration from the given parsed flag set. If the
// set has a non-empty --config flag, that YAML file is layered in between
// flag defaults and the environment.
func Load(f *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if cfgPath, err := f.GetString("config"); err == nil && cfgPath != "" {
		if err := k.Load(file.Provider(cfgPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", cfgPath, err)
		}
	}

	// KARTENBOX_SERVER__LOG_LEVEL=debug -> server.log_level. Double
	// underscore separates nesting levels so key names may themselves
	// contain underscores.
	err := k.Load(env.ProviderWithValue("KARTENBOX_", ".", func(key, value string) (string, interface{}) {
		key = strings.TrimPrefix(key, "KARTENBOX_")
		return strings.ReplaceAll(strings.ToLower(key), "__", "."), value
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	err = k.Load(posflag.ProviderWithValue(f, ".", k, func(key, value string) (string, interface{}) {
		mapped, ok := flagKeys[key]
		if !ok {
			return "", nil
		}
		if b, err := strconv.ParseBool(value); err == nil && isBoolFlag(f, key) {
			return mapped, b
		}
		return mapped, value
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load flags: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func isBoolFlag(f *pflag.FlagSet, name string) bool {
	flag := f.Lookup(name)
	return flag != nil && flag.Value.Type() == "bool"
}
