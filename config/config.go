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
	Push       PushConfig       `yaml:"push"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
	Reminder   ReminderConfig   `yaml:"reminder"`
	Photos     PhotosConfig     `yaml:"photos"`
}

// WorkerPoolConfig holds the configuration for the notification worker pool.
type WorkerPoolConfig struct {
	Size int `yaml:"size"`
}

// PushConfig holds the VAPID keys for web push notifications.
type PushConfig struct {
	PublicKey  string `yaml:"vapid_public_key"`
	PrivateKey string `yaml:"vapid_private_key"`
	Subject    string `yaml:"subject"`
	TTL        int    `yaml:"ttl"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int           `yaml:"port"`
	RateLimitPerSec float64       `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int           `yaml:"rate_limit_burst"`
	CacheTTLSeconds int           `yaml:"cache_ttl_seconds"`
	CacheTTL        time.Duration `yaml:"-"`
	Timezone        string        `yaml:"timezone"`
	Language        string        `yaml:"language"`
	AllowedOrigins  []string      `yaml:"allowed_origins"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	Driver                 string `yaml:"driver"` // postgres | sqlite
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
	LogLevel               string `yaml:"log_level"`
}

// ReminderConfig controls the periodic watering reminder sweep.
type ReminderConfig struct {
	Enabled  bool     `yaml:"enabled"`
	Cron     string   `yaml:"cron"`
	Timezone string   `yaml:"timezone"`
	Statuses []string `yaml:"statuses"`
}

// PhotosConfig controls photo validation and optional S3 offloading.
type PhotosConfig struct {
	MaxBytes      int    `yaml:"max_bytes"`
	MaxPerWater   int    `yaml:"max_per_watering"`
	S3Bucket      string `yaml:"s3_bucket"`
	S3Region      string `yaml:"s3_region"`
	S3Prefix      string `yaml:"s3_prefix"`
	PublicBaseURL string `yaml:"public_base_url"`
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

	cfg.applyDefaults()
	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 5000
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 20
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 30
	}
	cfg.Server.CacheTTL = time.Duration(cfg.Server.CacheTTLSeconds) * time.Second
	if cfg.Server.Timezone == "" {
		cfg.Server.Timezone = "Europe/Madrid"
	}
	if cfg.Server.Language == "" {
		cfg.Server.Language = "es"
	}

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "postgres"
	}
	if cfg.Database.MaxIdleConns <= 0 {
		cfg.Database.MaxIdleConns = 2
	}

	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}

	if cfg.WorkerPool.Size <= 0 {
		log.Printf("worker_pool.size is not set or invalid; defaulting to 1")
		cfg.WorkerPool.Size = 1
	}

	if cfg.Reminder.Cron == "" {
		cfg.Reminder.Cron = "0 9 * * *"
	}
	if cfg.Reminder.Timezone == "" {
		cfg.Reminder.Timezone = cfg.Server.Timezone
	}
	if len(cfg.Reminder.Statuses) == 0 {
		cfg.Reminder.Statuses = []string{"overdue", "today"}
	}

	if cfg.Photos.MaxBytes <= 0 {
		cfg.Photos.MaxBytes = 20 << 20
	}
	if cfg.Photos.MaxPerWater <= 0 {
		cfg.Photos.MaxPerWater = 5
	}
	if cfg.Photos.S3Prefix == "" {
		cfg.Photos.S3Prefix = "plant-photos"
	}
}
