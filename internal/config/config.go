package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/akshay-gocharting/gocharting-sdk-demo/internal/model"
)

// ServerConfig holds the HTTP server settings
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// FeedConfig holds the demo data generator and subscription settings
type FeedConfig struct {
	TickInterval time.Duration `mapstructure:"tick_interval"`
	Volatility   float64       `mapstructure:"volatility"`
	HistoryHours int           `mapstructure:"history_hours"`
}

// ChartConfig holds the initial chart mount settings
type ChartConfig struct {
	Symbol        string `mapstructure:"symbol"`
	Interval      string `mapstructure:"interval"`
	Theme         string `mapstructure:"theme"`
	EnableTrading bool   `mapstructure:"enable_trading"`
}

// SymbolConfig is one catalog entry as it appears in the config file
type SymbolConfig struct {
	Name        string  `mapstructure:"name"`
	Description string  `mapstructure:"description"`
	Exchange    string  `mapstructure:"exchange"`
	Type        string  `mapstructure:"type"`
	PriceScale  int     `mapstructure:"price_scale"`
	BasePrice   float64 `mapstructure:"base_price"`
}

// Config is the full application configuration
type Config struct {
	Server  ServerConfig   `mapstructure:"server"`
	Feed    FeedConfig     `mapstructure:"feed"`
	Chart   ChartConfig    `mapstructure:"chart"`
	Symbols []SymbolConfig `mapstructure:"symbols"`
}

// Load reads config.yaml from the given directory, falling back to built-in
// defaults when no file is present so the demo runs out of the box.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// No config file: defaults carry the demo
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if len(cfg.Symbols) == 0 {
		cfg.Symbols = defaultSymbols()
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("feed.tick_interval", "2s")
	v.SetDefault("feed.volatility", 0.01)
	v.SetDefault("feed.history_hours", 6)
	v.SetDefault("chart.symbol", "BTC-USD")
	v.SetDefault("chart.interval", "1")
	v.SetDefault("chart.theme", "dark")
	v.SetDefault("chart.enable_trading", true)
}

func defaultSymbols() []SymbolConfig {
	return []SymbolConfig{
		{Name: "BTC-USD", Description: "Bitcoin / US Dollar", Exchange: "DEMO", Type: "crypto", PriceScale: 2, BasePrice: 50_000},
		{Name: "ETH-USD", Description: "Ethereum / US Dollar", Exchange: "DEMO", Type: "crypto", PriceScale: 2, BasePrice: 3_000},
		{Name: "SOL-USD", Description: "Solana / US Dollar", Exchange: "DEMO", Type: "crypto", PriceScale: 3, BasePrice: 100},
	}
}

// CatalogSymbols converts the configured symbol entries into catalog records
func (c *Config) CatalogSymbols() []model.SymbolInfo {
	symbols := make([]model.SymbolInfo, 0, len(c.Symbols))
	for _, s := range c.Symbols {
		symbols = append(symbols, model.SymbolInfo{
			Name:        s.Name,
			FullName:    s.Exchange + ":" + s.Name,
			Description: s.Description,
			Exchange:    s.Exchange,
			Type:        s.Type,
			PriceScale:  s.PriceScale,
			Session:     "24x7",
			Timezone:    "Etc/UTC",
		})
	}
	return symbols
}

// BasePrices returns the configured starting price per symbol name
func (c *Config) BasePrices() map[string]float64 {
	prices := make(map[string]float64, len(c.Symbols))
	for _, s := range c.Symbols {
		prices[s.Name] = s.BasePrice
	}
	return prices
}
