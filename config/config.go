package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Catalog    CatalogConfig    `yaml:"catalog"`
	Weather    WeatherConfig    `yaml:"weather"`
	Watering   WateringConfig   `yaml:"watering"`
	Push       PushConfig       `yaml:"push"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
	Reminder   ReminderConfig   `yaml:"reminder"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RequestIPHeader string  `yaml:"request_ip_header"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// CatalogConfig holds the configuration for the external plant catalog API
// and the backfill process that pulls from it.
type CatalogConfig struct {
	BaseURL         string        `yaml:"base_url"`
	APIKey          string        `yaml:"api_key"`
	HTTPProxy       string        `yaml:"http_proxy"`
	ProcessName     string        `yaml:"process_name"`
	PageDelayMS     int           `yaml:"page_delay_ms"`
	PageDelay       time.Duration `yaml:"-"` // Ignored by YAML parser
	CheckpointBatch int           `yaml:"checkpoint_batch"`
}

// WeatherConfig holds the configuration for the weather API.
type WeatherConfig struct {
	BaseURL         string        `yaml:"base_url"`
	APIKey          string        `yaml:"api_key"`
	CacheTTLMinutes int           `yaml:"cache_ttl_minutes"`
	CacheTTL        time.Duration `yaml:"-"`
}

// WateringConfig selects the schedule computation strategy.
type WateringConfig struct {
	Strategy string `yaml:"strategy"`
}

// PushConfig holds the VAPID keys for web push notifications.
type PushConfig struct {
	PublicKey  string `yaml:"vapid_public_key"`
	PrivateKey string `yaml:"vapid_private_key"`
	Subject    string `yaml:"subject"`
	TTL        int    `yaml:"ttl"`
}

// WorkerPoolConfig holds the configuration for the reminder worker pool.
type WorkerPoolConfig struct {
	Size int `yaml:"size"`
}

// ReminderConfig holds the configuration for the periodic reminder sweep.
type ReminderConfig struct {
	Enabled         bool          `yaml:"enabled"`
	IntervalSeconds int           `yaml:"interval_seconds"`
	Interval        time.Duration `yaml:"-"`
	DaysAhead       int           `yaml:"days_ahead"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	if cfg.Catalog.ProcessName == "" {
		cfg.Catalog.ProcessName = "plants_backfill"
	}
	if cfg.Catalog.PageDelayMS <= 0 {
		cfg.Catalog.PageDelayMS = 100
	}
	cfg.Catalog.PageDelay = time.Duration(cfg.Catalog.PageDelayMS) * time.Millisecond

	if cfg.Catalog.CheckpointBatch <= 0 {
		cfg.Catalog.CheckpointBatch = 10
	}

	if cfg.Weather.CacheTTLMinutes <= 0 {
		cfg.Weather.CacheTTLMinutes = 30
	}
	cfg.Weather.CacheTTL = time.Duration(cfg.Weather.CacheTTLMinutes) * time.Minute

	if cfg.Watering.Strategy == "" {
		cfg.Watering.Strategy = "default"
	}

	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}

	if cfg.WorkerPool.Size <= 0 {
		log.Printf("worker_pool.size is not set or invalid; defaulting to 1")
		cfg.WorkerPool.Size = 1
	}

	if cfg.Reminder.IntervalSeconds <= 0 {
		cfg.Reminder.IntervalSeconds = 86400
	}
	cfg.Reminder.Interval = time.Duration(cfg.Reminder.IntervalSeconds) * time.Second

	if cfg.Reminder.DaysAhead <= 0 {
		cfg.Reminder.DaysAhead = 1
	}

	return &cfg, nil
}
