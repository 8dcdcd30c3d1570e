package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	YtDlp    YtDlpConfig    `yaml:"ytdlp"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host         string        `yaml:"host" envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port         int           `yaml:"port" envconfig:"SERVER_PORT" default:"8001"`
	ReadTimeout  time.Duration `yaml:"read_timeout" envconfig:"SERVER_READ_TIMEOUT" default:"30s"`
	WriteTimeout time.Duration `yaml:"write_timeout" envconfig:"SERVER_WRITE_TIMEOUT" default:"10m"`
}

// DatabaseConfig holds download log store configuration.
type DatabaseConfig struct {
	Path          string `yaml:"path" envconfig:"DATABASE_PATH" default:"./data/downloads.db"`
	RetentionDays int    `yaml:"retention_days" envconfig:"LOG_RETENTION_DAYS" default:"30"`
}

// YtDlpConfig holds external extractor configuration. Timeout and retry
// bounds are passed through to the binary, not enforced locally.
type YtDlpConfig struct {
	Path          string        `yaml:"path" envconfig:"YTDLP_PATH" default:"yt-dlp"`
	SocketTimeout time.Duration `yaml:"socket_timeout" envconfig:"YTDLP_SOCKET_TIMEOUT" default:"30s"`
	Retries       int           `yaml:"retries" envconfig:"YTDLP_RETRIES" default:"3"`
}

// Load reads configuration from an optional YAML file and the process
// environment. Environment variables override file values. A local
// .env file, if present, seeds the environment first.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found; proceeding with OS environment variables")
	}

	cfg := &Config{}

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration values are set.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}
	if c.YtDlp.Path == "" {
		return fmt.Errorf("YTDLP_PATH is required")
	}
	if c.YtDlp.Retries < 0 {
		return fmt.Errorf("YTDLP_RETRIES must not be negative")
	}
	if c.Database.RetentionDays < 0 {
		return fmt.Errorf("LOG_RETENTION_DAYS must not be negative")
	}
	return nil
}

// Address returns the server address in host:port format.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
