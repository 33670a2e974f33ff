// Package config loads application configuration from environment variables,
// optionally seeded from a YAML file.
package config

import (
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	GitHubToken   string
	GitHubAPIURL  string // GitHub Enterprise base URL; empty for api.github.com.
	ListenAddr    string
	DBPath        string
	SecretKey     []byte // 32-byte AES-256 key; nil disables token storage.
	LogLevel      slog.Level
	LogFile       string
	HTTPCache     bool
	RateLimitWait bool
	Notice        string // Markdown shown on the dashboard.
}

// fileConfig mirrors Config for the YAML overlay. Values stay raw until the
// environment has been applied so both sources share one validation path.
type fileConfig struct {
	GitHubToken   string `yaml:"github_token"`
	GitHubAPIURL  string `yaml:"github_api_url"`
	ListenAddr    string `yaml:"listen_addr"`
	DBPath        string `yaml:"db_path"`
	SecretKey     string `yaml:"secret_key"`
	LogLevel      string `yaml:"log_level"`
	LogFile       string `yaml:"log_file"`
	HTTPCache     string `yaml:"http_cache"`
	RateLimitWait string `yaml:"rate_limit_wait"`
	Notice        string `yaml:"notice"`
}

// HasSecretKey reports whether encrypted token storage is enabled.
func (c *Config) HasSecretKey() bool {
	return c.SecretKey != nil
}

// Load reads configuration and returns a validated Config.
//
// If PRBOARD_CONFIG_FILE names a YAML file its values are read first; any
// PRBOARD_* environment variable that is set overrides the file. All values
// are optional: PRBOARD_LISTEN_ADDR (127.0.0.1:8080), PRBOARD_DB_PATH
// (prboard.db), PRBOARD_LOG_LEVEL (info), PRBOARD_HTTP_CACHE (false),
// PRBOARD_RATE_LIMIT_WAIT (false). PRBOARD_SECRET_KEY must be 64 hex
// characters when set.
func Load() (*Config, error) {
	raw := fileConfig{
		ListenAddr: "127.0.0.1:8080",
		DBPath:     "prboard.db",
		LogLevel:   "info",
	}

	if path, ok := os.LookupEnv("PRBOARD_CONFIG_FILE"); ok && path != "" {
		if err := raw.readFile(path); err != nil {
			return nil, err
		}
	}

	raw.applyEnv()
	return raw.parse()
}

func (f *fileConfig) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("PRBOARD_CONFIG_FILE: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, f); err != nil {
		return fmt.Errorf("PRBOARD_CONFIG_FILE: parse %s: %w", path, err)
	}
	return nil
}

func (f *fileConfig) applyEnv() {
	for key, dst := range map[string]*string{
		"PRBOARD_GITHUB_TOKEN":    &f.GitHubToken,
		"PRBOARD_GITHUB_API_URL":  &f.GitHubAPIURL,
		"PRBOARD_LISTEN_ADDR":     &f.ListenAddr,
		"PRBOARD_DB_PATH":         &f.DBPath,
		"PRBOARD_SECRET_KEY":      &f.SecretKey,
		"PRBOARD_LOG_LEVEL":       &f.LogLevel,
		"PRBOARD_LOG_FILE":        &f.LogFile,
		"PRBOARD_HTTP_CACHE":      &f.HTTPCache,
		"PRBOARD_RATE_LIMIT_WAIT": &f.RateLimitWait,
		"PRBOARD_NOTICE":          &f.Notice,
	} {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}
}

func (f *fileConfig) parse() (*Config, error) {
	cfg := &Config{
		GitHubToken:  strings.TrimSpace(f.GitHubToken),
		GitHubAPIURL: strings.TrimSpace(f.GitHubAPIURL),
		ListenAddr:   f.ListenAddr,
		DBPath:       f.DBPath,
		LogFile:      f.LogFile,
		Notice:       f.Notice,
	}

	if cfg.ListenAddr == "" {
		return nil, fmt.Errorf("PRBOARD_LISTEN_ADDR must not be empty")
	}
	if cfg.DBPath == "" {
		return nil, fmt.Errorf("PRBOARD_DB_PATH must not be empty")
	}

	var err error
	if cfg.LogLevel, err = parseLevel(f.LogLevel); err != nil {
		return nil, err
	}
	if cfg.HTTPCache, err = parseBool("PRBOARD_HTTP_CACHE", f.HTTPCache); err != nil {
		return nil, err
	}
	if cfg.RateLimitWait, err = parseBool("PRBOARD_RATE_LIMIT_WAIT", f.RateLimitWait); err != nil {
		return nil, err
	}
	if cfg.SecretKey, err = parseSecretKey(f.SecretKey); err != nil {
		return nil, err
	}

	return cfg, nil
}

func parseLevel(v string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(v))); err != nil {
		return 0, fmt.Errorf("PRBOARD_LOG_LEVEL has invalid level %q: expected debug, info, warn or error", v)
	}
	return level, nil
}

func parseBool(key, v string) (bool, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s has invalid boolean %q: %w", key, v, err)
	}
	return b, nil
}

func parseSecretKey(v string) ([]byte, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	key, err := hex.DecodeString(v)
	if err != nil {
		return nil, fmt.Errorf("PRBOARD_SECRET_KEY is not valid hex: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("PRBOARD_SECRET_KEY must decode to 32 bytes, got %d", len(key))
	}
	return key, nil
}
