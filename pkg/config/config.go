// Package config provides configuration management for the boxtree tooling.
package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Traversal TraversalConfig `mapstructure:"traversal"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Log       LogConfig       `mapstructure:"log"`
}

// TraversalConfig holds traversal-build configuration.
type TraversalConfig struct {
	MaxWorkers int `mapstructure:"max_workers"`
}

// DatabaseConfig holds build-report database configuration.
type DatabaseConfig struct {
	Type     string `mapstructure:"type"` // sqlite, postgres or mysql
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Database string `mapstructure:"database"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Path     string `mapstructure:"path"` // for sqlite
	MaxConns int    `mapstructure:"max_conns"`
}

// StorageConfig holds artifact storage configuration.
type StorageConfig struct {
	Type      string `mapstructure:"type"` // cos or local
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	SecretID  string `mapstructure:"secret_id"`
	SecretKey string `mapstructure:"secret_key"`
	Domain    string `mapstructure:"domain"` // e.g., "myqcloud.com"
	Scheme    string `mapstructure:"scheme"` // e.g., "https" or "http"
	LocalPath string `mapstructure:"local_path"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads configuration from the specified file path.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/boxtree")
	}

	if err := v.ReadInConfig(); err != nil {
		// A missing config file falls back to defaults.
		_, notFound := err.(viper.ConfigFileNotFoundError)
		if !notFound && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadFromReader loads configuration from raw bytes (useful for testing).
func LoadFromReader(configType string, content []byte) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType(configType)
	if err := v.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Traversal defaults; max_workers 0 means one worker per CPU
	v.SetDefault("traversal.max_workers", 0)

	// Database defaults
	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.path", "./boxtree.db")
	v.SetDefault("database.max_conns", 10)

	// Storage defaults
	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.local_path", "./storage")

	// Log defaults
	v.SetDefault("log.level", "info")
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Traversal.MaxWorkers < 0 {
		return fmt.Errorf("traversal max_workers must not be negative")
	}

	switch c.Database.Type {
	case "sqlite":
		if c.Database.Path == "" {
			return fmt.Errorf("database path is required for sqlite")
		}
	case "postgres", "mysql":
		if c.Database.Host == "" {
			return fmt.Errorf("database host is required for %s", c.Database.Type)
		}
	default:
		return fmt.Errorf("unsupported database type: %s", c.Database.Type)
	}

	// Storage config validation is delegated to the storage package

	return nil
}
