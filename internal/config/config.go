package config

import (
	"fmt"
	"sync"
	"time"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Address string `mapstructure:"address"`
	Port    int    `mapstructure:"port"`
	Mode    string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Path    string `mapstructure:"path"`
	LogMode bool   `mapstructure:"log_mode"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	Issuer      string `mapstructure:"issuer"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

type SecurityConfig struct {
	BcryptCost int `mapstructure:"bcrypt_cost"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// PricingConfig configures the Bitcoin price source chain. Sources are
// tried in order; CoinMarketCap is skipped entirely when no key is set.
type PricingConfig struct {
	CoinGeckoURL     string  `mapstructure:"coingecko_url"`
	CoinMarketCapURL string  `mapstructure:"coinmarketcap_url"`
	CoinMarketCapKey string  `mapstructure:"coinmarketcap_key"`
	BinanceURL       string  `mapstructure:"binance_url"`
	FallbackPrice    float64 `mapstructure:"fallback_price"`
	CacheTTLSeconds  int     `mapstructure:"cache_ttl_seconds"`
	BackoffMillis    int     `mapstructure:"backoff_ms"`
	WarmInterval     string  `mapstructure:"warm_interval"`
}

func (p PricingConfig) CacheTTL() time.Duration {
	if p.CacheTTLSeconds <= 0 {
		return 300 * time.Second
	}
	return time.Duration(p.CacheTTLSeconds) * time.Second
}

func (p PricingConfig) Backoff() time.Duration {
	if p.BackoffMillis <= 0 {
		return 500 * time.Millisecond
	}
	return time.Duration(p.BackoffMillis) * time.Millisecond
}

// InvestmentConfig holds the closed set of accepted investment types and
// which of them are revalued against the live Bitcoin price.
type InvestmentConfig struct {
	Types            []string `mapstructure:"types"`
	PriceLinkedTypes []string `mapstructure:"price_linked_types"`
}

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	JWT        JWTConfig        `mapstructure:"jwt"`
	Security   SecurityConfig   `mapstructure:"security"`
	Log        LogConfig        `mapstructure:"log"`
	Pricing    PricingConfig    `mapstructure:"pricing"`
	Investment InvestmentConfig `mapstructure:"investment"`
}

var (
	appConfig *Config
	once      sync.Once
)

// Load loads configuration from given file path (e.g. "config.yaml").
// If path is empty, it defaults to "config.yaml" in current working directory.
func Load(path string) (*Config, error) {
	var err error
	once.Do(func() {
		v := viper.New()

		if path == "" {
			v.SetConfigName("config")
			v.SetConfigType("yaml")
			v.AddConfigPath(".")
		} else {
			v.SetConfigFile(path)
		}

		// environment overrides, e.g. RF_SERVER_PORT=9000
		v.SetEnvPrefix("RF")
		v.AutomaticEnv()

		setDefaults(v)

		if err = v.ReadInConfig(); err != nil {
			err = fmt.Errorf("read config: %w", err)
			return
		}

		var c Config
		if err = v.Unmarshal(&c); err != nil {
			err = fmt.Errorf("unmarshal config: %w", err)
			return
		}

		appConfig = &c
	})

	if err != nil {
		return nil, err
	}
	return appConfig, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("database.path", "data/rockefeller.db")
	v.SetDefault("jwt.expire_hours", 24)
	v.SetDefault("security.bcrypt_cost", 12)
	v.SetDefault("log.level", "info")
	v.SetDefault("pricing.coingecko_url", "https://api.coingecko.com/api/v3")
	v.SetDefault("pricing.coinmarketcap_url", "https://pro-api.coinmarketcap.com/v1")
	v.SetDefault("pricing.binance_url", "https://api.binance.com/api/v3")
	v.SetDefault("pricing.fallback_price", 97000)
	v.SetDefault("pricing.cache_ttl_seconds", 300)
	v.SetDefault("pricing.backoff_ms", 500)
	v.SetDefault("pricing.warm_interval", "@every 4m")
	v.SetDefault("investment.types", []string{"Bitcoin ETF", "Gold", "Stocks"})
	v.SetDefault("investment.price_linked_types", []string{"Bitcoin ETF"})
}

// Get returns the loaded global configuration.
// Call Load() once at application startup.
func Get() *Config {
	return appConfig
}
