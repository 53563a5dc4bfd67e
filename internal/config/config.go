package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	AppName    = "feedpulse"
	AppVersion = "1.0.0"
	AppRepo    = "https://github.com/feedpulse/feedpulse"
)

// DefaultUserAgent is sent on every outbound request.
var DefaultUserAgent = "Mozilla/5.0 (compatible; " + AppName + "/" + AppVersion + "; +" + AppRepo + ")"

const (
	DefaultFetchInterval = 2 * time.Minute
	DefaultFetchTimeout  = 10 * time.Second
	DefaultImageTimeout  = 5 * time.Second
	DefaultFeedTimeout   = 3 * time.Minute
)

type Config struct {
	Addr          string        `yaml:"addr"`
	DBPath        string        `yaml:"db_path"`
	DataDir       string        `yaml:"data_dir"`
	StaticDir     string        `yaml:"static_dir"`
	LogLevel      string        `yaml:"log_level"`
	FetchInterval time.Duration `yaml:"fetch_interval"`
	FetchTimeout  time.Duration `yaml:"fetch_timeout"`
	ImageTimeout  time.Duration `yaml:"image_timeout"`
	FeedTimeout   time.Duration `yaml:"feed_timeout"`
	Workers       int           `yaml:"workers"`
	ProxyURL      string        `yaml:"proxy_url"`
	// HostInterval spaces consecutive requests to the same host. Zero disables it.
	HostInterval time.Duration `yaml:"host_interval"`
	Readability  bool          `yaml:"readability"`
	NodeID       int64         `yaml:"node_id"`
}

// Load reads configuration from the environment. When FEEDPULSE_CONFIG points at a
// YAML file, its values are applied first and the environment overrides them.
func Load() (Config, error) {
	cfg := Config{
		Addr:          ":8080",
		DataDir:       "./data",
		LogLevel:      "info",
		FetchInterval: DefaultFetchInterval,
		FetchTimeout:  DefaultFetchTimeout,
		ImageTimeout:  DefaultImageTimeout,
		FeedTimeout:   DefaultFeedTimeout,
		Workers:       1,
	}

	if path := os.Getenv("FEEDPULSE_CONFIG"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if v := os.Getenv("FEEDPULSE_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("FEEDPULSE_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("FEEDPULSE_STATIC_DIR"); v != "" {
		cfg.StaticDir = v
	}
	if v := os.Getenv("FEEDPULSE_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("FEEDPULSE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("FEEDPULSE_PROXY_URL"); v != "" {
		cfg.ProxyURL = v
	}

	var err error
	if cfg.FetchInterval, err = envDuration("FEEDPULSE_FETCH_INTERVAL", cfg.FetchInterval); err != nil {
		return Config{}, err
	}
	if cfg.FetchTimeout, err = envDuration("FEEDPULSE_FETCH_TIMEOUT", cfg.FetchTimeout); err != nil {
		return Config{}, err
	}
	if cfg.ImageTimeout, err = envDuration("FEEDPULSE_IMAGE_TIMEOUT", cfg.ImageTimeout); err != nil {
		return Config{}, err
	}
	if cfg.FeedTimeout, err = envDuration("FEEDPULSE_FEED_TIMEOUT", cfg.FeedTimeout); err != nil {
		return Config{}, err
	}
	if cfg.HostInterval, err = envDuration("FEEDPULSE_HOST_INTERVAL", cfg.HostInterval); err != nil {
		return Config{}, err
	}
	if v := os.Getenv("FEEDPULSE_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse FEEDPULSE_WORKERS: %w", err)
		}
		cfg.Workers = n
	}
	if v := os.Getenv("FEEDPULSE_READABILITY"); v != "" {
		cfg.Readability = parseBool(v)
	}
	if v := os.Getenv("FEEDPULSE_NODE_ID"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("parse FEEDPULSE_NODE_ID: %w", err)
		}
		cfg.NodeID = n
	}

	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(cfg.DataDir, "feedpulse.db")
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	cfg.DBPath = filepath.Clean(cfg.DBPath)
	cfg.DataDir = filepath.Clean(cfg.DataDir)

	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return d, nil
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
