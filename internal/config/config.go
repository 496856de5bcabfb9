// Package config reads the optional tmtrace.yaml defaults file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultFile is looked up in the working directory when no path is given.
const DefaultFile = "tmtrace.yaml"

// Store backends.
const (
	StoreNone   = "none"
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
)

var backends = []string{StoreNone, StoreMemory, StoreFile, StoreSQLite, StoreRedis}

type Config struct {
	// Machines is the directory (or Loam catalog) holding machine definitions.
	Machines    string      `yaml:"machines"`
	Loam        bool        `yaml:"loam"`
	MaxDepth    int         `yaml:"max_depth"`
	MaxFrontier int         `yaml:"max_frontier"`
	Store       StoreConfig `yaml:"store"`
	Log         LogConfig   `yaml:"log"`
	HTTP        HTTPConfig  `yaml:"http"`
	MCP         MCPConfig   `yaml:"mcp"`
}

type StoreConfig struct {
	Backend string `yaml:"backend"`
	// Path is the results directory (file) or database file (sqlite).
	Path        string        `yaml:"path"`
	RedisAddr   string        `yaml:"redis_addr"`
	RedisPrefix string        `yaml:"redis_prefix"`
	TTL         time.Duration `yaml:"ttl"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	// File mirrors every record as JSON lines.
	File string `yaml:"file"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

type MCPConfig struct {
	// Port serves SSE instead of stdio when non-zero.
	Port int `yaml:"port"`
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		Machines: ".",
		MaxDepth: 100,
		Store: StoreConfig{
			Backend:   StoreNone,
			RedisAddr: "localhost:6379",
		},
		Log:  LogConfig{Level: "warn"},
		HTTP: HTTPConfig{Addr: ":8080"},
	}
}

// Load reads path over the defaults. An empty path tries DefaultFile and
// falls back to the defaults when it does not exist.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	cfg, err := Parse(bytes.NewReader(data))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result.
// Unknown keys are rejected.
func Parse(r io.Reader) (Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks ranges and enumerations.
func (c Config) Validate() error {
	if c.MaxDepth < 0 {
		return fmt.Errorf("max_depth must not be negative, got %d", c.MaxDepth)
	}
	if c.MaxFrontier < 0 {
		return fmt.Errorf("max_frontier must not be negative, got %d", c.MaxFrontier)
	}
	if !slices.Contains(backends, c.Store.Backend) {
		return fmt.Errorf("unknown store backend %q (want one of %v)", c.Store.Backend, backends)
	}
	if c.Store.TTL < 0 {
		return fmt.Errorf("store ttl must not be negative")
	}
	return nil
}
