package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Environment string          `mapstructure:"environment"`
	LogLevel    string          `mapstructure:"log_level"`
	Server      ServerConfig    `mapstructure:"server"`
	Cache       CacheConfig     `mapstructure:"cache"`
	RateLimit   RateLimitConfig `mapstructure:"rate_limit"`
	Providers   ProvidersConfig `mapstructure:"providers"`
	Fx          FxConfig        `mapstructure:"fx"`
	Market      MarketConfig    `mapstructure:"market"`
	Advisor     AdvisorConfig   `mapstructure:"advisor"`
	Security    SecurityConfig  `mapstructure:"security"`
}

type ServerConfig struct {
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type CacheConfig struct {
	Backend string      `mapstructure:"backend"`
	Redis   RedisConfig `mapstructure:"redis"`
	TTL     TTLConfig   `mapstructure:"ttl"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the host:port address of the Redis backend.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// TTLConfig holds the freshness window per cached data class.
type TTLConfig struct {
	Quote        time.Duration `mapstructure:"quote"`
	MarketIndex  time.Duration `mapstructure:"market_index"`
	ExchangeRate time.Duration `mapstructure:"exchange_rate"`
	News         time.Duration `mapstructure:"news"`
	Indicators   time.Duration `mapstructure:"indicators"`
	Analysis     time.Duration `mapstructure:"analysis"`
	Fundamentals time.Duration `mapstructure:"fundamentals"`
}

type RateLimitConfig struct {
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// ProviderConfig describes one third-party HTTP endpoint. Timeout is in
// seconds.
type ProviderConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Timeout int    `mapstructure:"timeout"`
}

type ProvidersConfig struct {
	Chart        ProviderConfig `mapstructure:"chart"`
	News         ProviderConfig `mapstructure:"news"`
	Fx           ProviderConfig `mapstructure:"fx"`
	Indicators   ProviderConfig `mapstructure:"indicators"`
	Fundamentals ProviderConfig `mapstructure:"fundamentals"`
}

type FxConfig struct {
	Base         string  `mapstructure:"base"`
	Quote        string  `mapstructure:"quote"`
	FallbackRate float64 `mapstructure:"fallback_rate"`
}

type MarketConfig struct {
	// IndexSymbols maps benchmark ticker to display name.
	IndexSymbols map[string]string `mapstructure:"index_symbols"`
	DemoFallback bool              `mapstructure:"demo_fallback"`
	DemoSeed     int64             `mapstructure:"demo_seed"`
}

type AdvisorConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key" json:"-" yaml:"-"`
	Model   string `mapstructure:"model"`
	Timeout int    `mapstructure:"timeout"`
}

type SecurityConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" json:"-" yaml:"-"`
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")

	// Set default values
	setDefaults()

	// Enable environment variable support
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.BindEnv("advisor.api_key", "ADVISOR_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind ADVISOR_API_KEY environment variable: %w", err)
	}
	if err := viper.BindEnv("security.jwt_secret", "JWT_SECRET"); err != nil {
		return nil, fmt.Errorf("failed to bind JWT_SECRET environment variable: %w", err)
	}

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		// Config file not found, use defaults and environment variables
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	config.Environment = strings.ToLower(config.Environment)

	if config.RateLimit.Requests < 1 {
		return nil, fmt.Errorf("rate_limit.requests must be positive, got %d", config.RateLimit.Requests)
	}
	if config.RateLimit.Window <= 0 {
		return nil, fmt.Errorf("rate_limit.window must be positive, got %v", config.RateLimit.Window)
	}
	switch config.Cache.Backend {
	case "memory", "redis":
	default:
		return nil, fmt.Errorf("cache.backend must be memory or redis, got %q", config.Cache.Backend)
	}
	if config.Fx.FallbackRate <= 0 {
		return nil, fmt.Errorf("fx.fallback_rate must be positive, got %v", config.Fx.FallbackRate)
	}

	return &config, nil
}

func setDefaults() {
	// Environment
	viper.SetDefault("environment", "development")
	viper.SetDefault("log_level", "info")

	// Server
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Cache
	viper.SetDefault("cache.backend", "memory")
	viper.SetDefault("cache.redis.host", "localhost")
	viper.SetDefault("cache.redis.port", 6379)
	viper.SetDefault("cache.redis.password", "")
	viper.SetDefault("cache.redis.db", 0)
	viper.SetDefault("cache.ttl.quote", "1m")
	viper.SetDefault("cache.ttl.market_index", "1m")
	viper.SetDefault("cache.ttl.exchange_rate", "5m")
	viper.SetDefault("cache.ttl.news", "5m")
	viper.SetDefault("cache.ttl.indicators", "5m")
	viper.SetDefault("cache.ttl.analysis", "60m")
	viper.SetDefault("cache.ttl.fundamentals", "60m")

	// Rate limiting
	viper.SetDefault("rate_limit.requests", 30)
	viper.SetDefault("rate_limit.window", "60s")

	// Providers
	viper.SetDefault("providers.chart.base_url", "http://localhost:3101")
	viper.SetDefault("providers.chart.timeout", 15)
	viper.SetDefault("providers.news.base_url", "http://localhost:3102")
	viper.SetDefault("providers.news.timeout", 15)
	viper.SetDefault("providers.fx.base_url", "http://localhost:3103")
	viper.SetDefault("providers.fx.timeout", 10)
	viper.SetDefault("providers.indicators.base_url", "http://localhost:3104")
	viper.SetDefault("providers.indicators.timeout", 15)
	viper.SetDefault("providers.fundamentals.base_url", "http://localhost:3105")
	viper.SetDefault("providers.fundamentals.timeout", 15)

	// Currency conversion
	viper.SetDefault("fx.base", "USD")
	viper.SetDefault("fx.quote", "KRW")
	viper.SetDefault("fx.fallback_rate", 1350.0)

	// Market overview
	viper.SetDefault("market.index_symbols", map[string]string{
		"^GSPC": "S&P 500",
		"^IXIC": "NASDAQ Composite",
		"^DJI":  "Dow Jones Industrial Average",
		"^KS11": "KOSPI",
	})
	viper.SetDefault("market.demo_fallback", true)
	viper.SetDefault("market.demo_seed", 1)

	// Advisor
	viper.SetDefault("advisor.base_url", "https://api.openai.com")
	viper.SetDefault("advisor.api_key", "")
	viper.SetDefault("advisor.model", "gpt-4o-mini")
	viper.SetDefault("advisor.timeout", 60)

	// Security
	viper.SetDefault("security.jwt_secret", "")
}
