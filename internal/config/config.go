// Package config loads the application configuration from a YAML file with
// environment fallbacks for secrets.
package config

import (
	"fmt"
	"os"

	"dukaan/internal/models"

	"gopkg.in/yaml.v3"
)

// SeedItem is a catalog entry loaded at startup so a fresh process starts
// with a working shop.
type SeedItem struct {
	Name     string  `yaml:"name"`
	Quantity int     `yaml:"quantity"`
	Unit     string  `yaml:"unit"`
	Price    float64 `yaml:"price"`
}

// Config represents the application configuration.
type Config struct {
	Server struct {
		Port        int `yaml:"port"`
		MetricsPort int `yaml:"metrics_port"`
	} `yaml:"server"`

	// AuthSecret enables bearer-token auth on the API when set.
	AuthSecret string `yaml:"auth_secret"`

	LLM struct {
		Model  string `yaml:"model"`
		APIKey string `yaml:"api_key"`
	} `yaml:"llm"`

	Inventory []SeedItem `yaml:"inventory"`
}

// Load reads the configuration file at path. A missing file yields defaults
// rather than an error so the binary runs without any setup.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.Server.Port = 8080
	cfg.Server.MetricsPort = 9090
	cfg.LLM.Model = "gpt-4o-mini"

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnv()
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyEnv()
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.MetricsPort == 0 {
		cfg.Server.MetricsPort = 9090
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" && c.LLM.APIKey == "" {
		c.LLM.APIKey = key
	}
	if secret := os.Getenv("AUTH_SECRET"); secret != "" && c.AuthSecret == "" {
		c.AuthSecret = secret
	}
}

// SeedInventory converts the configured seed catalog into inventory items.
// The returned slice preserves file order; the caller adds items one at a
// time so the newest entry still ends up first in the catalog.
func (c *Config) SeedInventory() []models.InventoryItem {
	items := make([]models.InventoryItem, 0, len(c.Inventory))
	for _, s := range c.Inventory {
		if s.Name == "" {
			continue
		}
		unit := s.Unit
		if unit == "" {
			unit = string(models.UnitPiece)
		}
		items = append(items, models.InventoryItem{
			Name:     s.Name,
			Quantity: s.Quantity,
			Unit:     unit,
			Price:    s.Price,
		})
	}
	return items
}
