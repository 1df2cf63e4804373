package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	State   StateConfig   `yaml:"state"`
	Archive ArchiveConfig `yaml:"archive"`
	Ledger  LedgerConfig  `yaml:"ledger"`
}

// ServerConfig represents the HTTP server configuration
type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

// StateConfig represents the ledger snapshot file configuration
type StateConfig struct {
	Path string `yaml:"path"`
}

// ArchiveConfig represents the Pebble block archive configuration
type ArchiveConfig struct {
	Path string `yaml:"path"`
}

// LedgerConfig represents the defaults for a freshly initialized ledger
type LedgerConfig struct {
	Difficulty   int     `yaml:"difficulty"`
	MiningReward float64 `yaml:"mining_reward"`
}

// Load loads configuration from a YAML file and environment variables
func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: 8080,
			Host: "0.0.0.0",
		},
		State: StateConfig{
			Path: "./data/ledger.json",
		},
		Archive: ArchiveConfig{
			Path: "./data/pebble",
		},
		Ledger: LedgerConfig{
			Difficulty:   2,
			MiningReward: 100.0,
		},
	}

	// Load from YAML file if it exists
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		} else {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	// Override with environment variables
	cfg.loadEnv()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadEnv() {
	// Server config
	if port := os.Getenv("SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}
	if host := os.Getenv("SERVER_HOST"); host != "" {
		c.Server.Host = host
	}

	// Persistence config
	if path := os.Getenv("STATE_PATH"); path != "" {
		c.State.Path = path
	}
	if path := os.Getenv("ARCHIVE_PATH"); path != "" {
		c.Archive.Path = path
	}

	// Ledger config
	if difficulty := os.Getenv("LEDGER_DIFFICULTY"); difficulty != "" {
		if d, err := strconv.Atoi(difficulty); err == nil {
			c.Ledger.Difficulty = d
		}
	}
	if reward := os.Getenv("LEDGER_MINING_REWARD"); reward != "" {
		if r, err := strconv.ParseFloat(reward, 64); err == nil {
			c.Ledger.MiningReward = r
		}
	}
}

func (c *Config) validate() error {
	if c.Ledger.Difficulty < 0 {
		return fmt.Errorf("ledger difficulty must not be negative, got %d", c.Ledger.Difficulty)
	}
	if c.Ledger.MiningReward < 0 {
		return fmt.Errorf("ledger mining reward must not be negative, got %v", c.Ledger.MiningReward)
	}
	return nil
}
