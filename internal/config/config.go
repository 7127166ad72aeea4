// Package config loads the application configuration from a YAML file with
// environment variable overrides.
package config

import (
	"os"

	"github.com/ilyakaznacheev/cleanenv"

	"crypto-rush/internal/pricegen"
)

// Config holds all server and client settings.
type Config struct {
	Server struct {
		Port string `yaml:"port" env:"PORT" env-default:"8080"`
		Host string `yaml:"host" env:"HOST" env-default:"0.0.0.0"`
	} `yaml:"server"`

	Database struct {
		Path string `yaml:"path" env:"DB_PATH" env-default:"./data.db"`
	} `yaml:"database"`

	Game struct {
		RoundDuration int                  `yaml:"round_duration" env-default:"180"`
		StartBalance  float64              `yaml:"start_balance" env-default:"10000"`
		Assets        []pricegen.AssetSpec `yaml:"assets"`
	} `yaml:"game"`

	Leaderboard struct {
		// PruneCron schedules the retention job; empty disables pruning.
		PruneCron     string `yaml:"prune_cron" env:"PRUNE_CRON" env-default:"0 4 * * *"`
		RetentionDays int    `yaml:"retention_days" env:"RETENTION_DAYS" env-default:"30"`
	} `yaml:"leaderboard"`

	Client struct {
		ServerURL string `yaml:"server_url" env:"SERVER_URL" env-default:"http://localhost:8080"`
	} `yaml:"client"`

	LogLevel string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
}

// Load reads the config file at path, applying env overrides and defaults.
// A missing file is not an error; env vars and defaults apply alone.
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, err
		}
	} else if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, err
	}
	if len(cfg.Game.Assets) == 0 {
		cfg.Game.Assets = DefaultAssets()
	}
	return &cfg, nil
}

// DefaultAssets is the asset lineup used when the config names none.
func DefaultAssets() []pricegen.AssetSpec {
	return []pricegen.AssetSpec{
		{Symbol: "BTC", Name: "Bitcoin", StartPrice: 50000, Volatility: 0.015},
		{Symbol: "ETH", Name: "Ethereum", StartPrice: 3000, Volatility: 0.02},
		{Symbol: "DOGE", Name: "Dogecoin", StartPrice: 0.25, Volatility: 0.04},
	}
}
