// File path: internal/cache/config.go
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultTTL is how long a cache entry stays valid, measured from creation.
const DefaultTTL = 168 * time.Hour

// Config controls the result store. Values load from the environment with an
// optional JSON file underneath; explicit fields win over the file, the file
// wins over defaults.
type Config struct {
	Path string `json:"path"`

	TTL       time.Duration `json:"-"`
	TTLString string        `json:"ttl"`

	MaxOpenConns int `json:"max_open_conns"`
	MaxIdleConns int `json:"max_idle_conns"`

	BusyTimeout       time.Duration `json:"-"`
	BusyTimeoutString string        `json:"busy_timeout"`
}

// Merge overlays non-zero fields of override onto c.
func (c Config) Merge(override Config) Config {
	result := c
	if strings.TrimSpace(override.Path) != "" {
		result.Path = strings.TrimSpace(override.Path)
	}
	if override.TTL > 0 {
		result.TTL = override.TTL
	}
	if strings.TrimSpace(override.TTLString) != "" {
		result.TTLString = strings.TrimSpace(override.TTLString)
	}
	if override.MaxOpenConns > 0 {
		result.MaxOpenConns = override.MaxOpenConns
	}
	if override.MaxIdleConns > 0 {
		result.MaxIdleConns = override.MaxIdleConns
	}
	if override.BusyTimeout > 0 {
		result.BusyTimeout = override.BusyTimeout
	}
	if strings.TrimSpace(override.BusyTimeoutString) != "" {
		result.BusyTimeoutString = strings.TrimSpace(override.BusyTimeoutString)
	}
	return result
}

// LoadConfig assembles the store configuration from CODECRITIC_CACHE_* env
// vars and the optional CODECRITIC_CACHE_CONFIG JSON file.
func LoadConfig() (Config, error) {
	cfg := Config{}
	if path := strings.TrimSpace(os.Getenv("CODECRITIC_CACHE_CONFIG")); path != "" {
		fileCfg, err := loadConfigFile(path)
		if err != nil {
			return Config{}, err
		}
		cfg = cfg.Merge(fileCfg)
	}
	envCfg, err := loadConfigEnv()
	if err != nil {
		return Config{}, err
	}
	cfg = cfg.Merge(envCfg)
	if err := cfg.applyDefaults(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read cache config: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse cache config: %w", err)
	}
	return cfg, nil
}

func loadConfigEnv() (Config, error) {
	cfg := Config{
		Path:              strings.TrimSpace(os.Getenv("CODECRITIC_CACHE_PATH")),
		TTLString:         strings.TrimSpace(os.Getenv("CODECRITIC_CACHE_TTL")),
		BusyTimeoutString: strings.TrimSpace(os.Getenv("CODECRITIC_CACHE_BUSY_TIMEOUT")),
	}
	if raw := strings.TrimSpace(os.Getenv("CODECRITIC_CACHE_MAX_OPEN_CONNS")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, fmt.Errorf("parse CODECRITIC_CACHE_MAX_OPEN_CONNS: %w", err)
		}
		cfg.MaxOpenConns = value
	}
	if raw := strings.TrimSpace(os.Getenv("CODECRITIC_CACHE_MAX_IDLE_CONNS")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil {
			return Config{}, fmt.Errorf("parse CODECRITIC_CACHE_MAX_IDLE_CONNS: %w", err)
		}
		cfg.MaxIdleConns = value
	}
	return cfg, nil
}

func (c *Config) applyDefaults() error {
	if strings.TrimSpace(c.Path) == "" {
		c.Path = defaultCachePath()
	}
	if c.TTL == 0 && c.TTLString != "" {
		ttl, err := time.ParseDuration(c.TTLString)
		if err != nil {
			return fmt.Errorf("parse cache ttl: %w", err)
		}
		c.TTL = ttl
	}
	if c.TTL <= 0 {
		c.TTL = DefaultTTL
	}
	if c.BusyTimeout == 0 && c.BusyTimeoutString != "" {
		timeout, err := time.ParseDuration(c.BusyTimeoutString)
		if err != nil {
			return fmt.Errorf("parse cache busy timeout: %w", err)
		}
		c.BusyTimeout = timeout
	}
	if c.BusyTimeout <= 0 {
		c.BusyTimeout = 5 * time.Second
	}
	if c.MaxOpenConns <= 0 {
		c.MaxOpenConns = 4
	}
	if c.MaxIdleConns <= 0 {
		c.MaxIdleConns = 2
	}
	return nil
}

func defaultCachePath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".codecritic/cache.db"
	}
	return home + "/.codecritic/cache.db"
}
