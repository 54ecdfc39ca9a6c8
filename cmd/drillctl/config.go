package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds drillctl settings. Env var overrides use prefix DRILLCTL_.
type Config struct {
	Log   LogConfig
	Data  DataConfig
	Chart ChartConfig
}

// LogConfig controls the terminal logger.
type LogConfig struct {
	Level   string
	NoColor bool `mapstructure:"no_color"`
}

// DataConfig points the chart command at a live chart-data API.
type DataConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
}

// ChartConfig customizes chart rendering.
type ChartConfig struct {
	Theme      string
	AssetsHost string `mapstructure:"assets_host"`
}

func loadConfig(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("log.level", "info")
	v.SetDefault("log.no_color", false)
	v.SetDefault("data.base_url", "")
	v.SetDefault("data.api_key", "")
	v.SetDefault("chart.theme", "westeros")
	v.SetDefault("chart.assets_host", "")

	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "drillctl"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("DRILLCTL")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil && path != "" {
		return Config{}, fmt.Errorf("drillctl: read config %s: %w", path, err)
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("drillctl: unmarshal config: %w", err)
	}
	return c, nil
}
