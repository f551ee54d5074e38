package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/oarkflow/bcl"
	"github.com/oarkflow/errors"
	"github.com/oarkflow/json"
	"gopkg.in/yaml.v3"
)

// Config holds interpreter settings shared by the CLI and the HTTP server.
type Config struct {
	LogLevel     string       `json:"log_level" yaml:"log_level"`
	PowMode      string       `json:"pow_mode" yaml:"pow_mode"`
	StrictCommas bool         `json:"strict_commas" yaml:"strict_commas"`
	CacheSize    int64        `json:"cache_size" yaml:"cache_size"`
	Journal      string       `json:"journal,omitempty" yaml:"journal,omitempty"`
	Server       ServerConfig `json:"server" yaml:"server"`
}

type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr"`
	// BodyLimit is the maximum request body in bytes.
	BodyLimit int `json:"body_limit" yaml:"body_limit"`
	// MaxInputLines caps the input lines a single request may supply.
	MaxInputLines int `json:"max_input_lines" yaml:"max_input_lines"`
}

var logLevels = []string{"trace", "debug", "info", "warn", "error", "fatal", "panic"}

func Default() *Config {
	return &Config{
		LogLevel:  "error",
		PowMode:   "exact",
		CacheSize: 1024,
		Server: ServerConfig{
			Addr:          ":8080",
			BodyLimit:     1 << 20,
			MaxInputLines: 1000,
		},
	}
}

type unmarshalFunc func(data []byte, v any) error

func unmarshalerFor(format string) (unmarshalFunc, error) {
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "yaml", "yml":
		return yaml.Unmarshal, nil
	case "json":
		return func(data []byte, v any) error {
			return json.Unmarshal(data, v)
		}, nil
	case "bcl":
		return func(data []byte, v any) error {
			_, err := bcl.Unmarshal(data, v)
			return err
		}, nil
	default:
		return nil, fmt.Errorf("unsupported config format: %s", format)
	}
}

// Load reads a .yaml, .yml, .json or .bcl file over the defaults.
func Load(path string) (*Config, error) {
	unmarshal, err := unmarshalerFor(filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return decode(data, unmarshal)
}

// LoadFromString decodes raw config text, useful for tests.
func LoadFromString(content, format string) (*Config, error) {
	unmarshal, err := unmarshalerFor(format)
	if err != nil {
		return nil, err
	}
	return decode([]byte(content), unmarshal)
}

func decode(data []byte, unmarshal unmarshalFunc) (*Config, error) {
	cfg := Default()
	if err := unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) Validate() error {
	if cfg == nil {
		return errors.New("config is nil")
	}
	if !validLevel(cfg.LogLevel) {
		return fmt.Errorf("unknown log_level %q", cfg.LogLevel)
	}
	switch strings.ToLower(cfg.PowMode) {
	case "", "exact", "float":
	default:
		return fmt.Errorf("unknown pow_mode %q (want exact or float)", cfg.PowMode)
	}
	if cfg.CacheSize < 0 {
		return errors.New("cache_size must not be negative")
	}
	if cfg.Server.BodyLimit < 0 || cfg.Server.MaxInputLines < 0 {
		return errors.New("server limits must not be negative")
	}
	return nil
}

func validLevel(level string) bool {
	if level == "" {
		return true
	}
	for _, l := range logLevels {
		if strings.EqualFold(l, level) {
			return true
		}
	}
	return false
}
