package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	DB        DBConfig        `yaml:"db"`
	Server    ServerConfig    `yaml:"server"`
	Repricing RepricingConfig `yaml:"repricing"`
}

type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type RepricingConfig struct {
	TimeoutSeconds int  `yaml:"timeout_seconds"`
	HistoryEnabled bool `yaml:"history_enabled"`
}

// Timeout is the per-run deadline for the repricing manager.
func (c RepricingConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %v", err)
	}
	defer file.Close()

	cfg := &Config{}
	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %v", err)
	}

	applyDefaults(cfg)
	return cfg, nil
}

// DefaultConfig is the configuration used when no file is given.
func DefaultConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8585
	}
	if cfg.DB.Host == "" {
		cfg.DB.Host = "127.0.0.1"
	}
	if cfg.DB.Port == 0 {
		cfg.DB.Port = 5432
	}
	if cfg.Repricing.TimeoutSeconds == 0 {
		cfg.Repricing.TimeoutSeconds = 30
	}
}

func (c *Config) GetConnString() string {
	return fmt.Sprintf("user=%s password=%s dbname=%s sslmode=disable host=%s port=%d",
		c.DB.User, c.DB.Password, c.DB.Name, c.DB.Host, c.DB.Port)
}
