package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Common
	Environment string
	LogLevel    string

	// Redis
	Redis RedisConfig

	// Market Data
	MarketData MarketDataConfig

	// Services
	Engine EngineConfig
	API    APIConfig
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host         string
	Port         int
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	StreamName   string
	MaxStreamLen int64
}

// MarketDataConfig holds market data provider configuration
type MarketDataConfig struct {
	Provider     string // "coingecko" or "mock"
	BaseURL      string
	APIKey       string
	Symbols      []string // coin ids, e.g. "bitcoin,ethereum"
	VsCurrency   string
	LookbackDays int
	PollInterval time.Duration
	HTTPTimeout  time.Duration
}

// EngineConfig holds indicator engine configuration
type EngineConfig struct {
	MaxSamples     int
	SMAPeriod      int
	EMASpan        int
	RSIPeriod      int
	MACDFast       int
	MACDSlow       int
	MACDSignal     int
	BBPeriod       int
	BBMultiplier   float64
	ATRPeriod      int
	WilliamsPeriod int
	ROCPeriod      int
	MomentumPeriod int
}

// APIConfig holds REST/WebSocket API configuration
type APIConfig struct {
	Port            int
	HealthCheckPort int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	PingInterval    time.Duration
	MaxConnections  int
	RateLimitRPS    int
}

// Load loads configuration from environment variables
// It automatically loads .env file if it exists in the current directory or parent directories
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Redis: RedisConfig{
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnvAsInt("REDIS_PORT", 6379),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getEnvAsInt("REDIS_DB", 0),
			PoolSize:     getEnvAsInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvAsInt("REDIS_MIN_IDLE_CONNS", 5),
			StreamName:   getEnv("REDIS_STREAM_NAME", "indicators"),
			MaxStreamLen: int64(getEnvAsInt("REDIS_MAX_STREAM_LEN", 10000)),
		},
		MarketData: MarketDataConfig{
			Provider:     getEnv("MARKET_DATA_PROVIDER", "coingecko"),
			BaseURL:      getEnv("MARKET_DATA_BASE_URL", "https://api.coingecko.com/api/v3"),
			APIKey:       getEnv("MARKET_DATA_API_KEY", ""),
			Symbols:      getEnvAsStringSlice("MARKET_DATA_SYMBOLS", []string{"bitcoin"}),
			VsCurrency:   getEnv("MARKET_DATA_VS_CURRENCY", "usd"),
			LookbackDays: getEnvAsInt("MARKET_DATA_LOOKBACK_DAYS", 30),
			PollInterval: getEnvAsDuration("MARKET_DATA_POLL_INTERVAL", 60*time.Second),
			HTTPTimeout:  getEnvAsDuration("MARKET_DATA_HTTP_TIMEOUT", 10*time.Second),
		},
		Engine: EngineConfig{
			MaxSamples:     getEnvAsInt("ENGINE_MAX_SAMPLES", 10000),
			SMAPeriod:      getEnvAsInt("ENGINE_SMA_PERIOD", 20),
			EMASpan:        getEnvAsInt("ENGINE_EMA_SPAN", 50),
			RSIPeriod:      getEnvAsInt("ENGINE_RSI_PERIOD", 14),
			MACDFast:       getEnvAsInt("ENGINE_MACD_FAST", 12),
			MACDSlow:       getEnvAsInt("ENGINE_MACD_SLOW", 26),
			MACDSignal:     getEnvAsInt("ENGINE_MACD_SIGNAL", 9),
			BBPeriod:       getEnvAsInt("ENGINE_BB_PERIOD", 20),
			BBMultiplier:   getEnvAsFloat("ENGINE_BB_MULTIPLIER", 2.0),
			ATRPeriod:      getEnvAsInt("ENGINE_ATR_PERIOD", 14),
			WilliamsPeriod: getEnvAsInt("ENGINE_WILLIAMS_PERIOD", 14),
			ROCPeriod:      getEnvAsInt("ENGINE_ROC_PERIOD", 12),
			MomentumPeriod: getEnvAsInt("ENGINE_MOMENTUM_PERIOD", 10),
		},
		API: APIConfig{
			Port:            getEnvAsInt("API_PORT", 8080),
			HealthCheckPort: getEnvAsInt("API_HEALTH_PORT", 8081),
			ReadTimeout:     getEnvAsDuration("API_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvAsDuration("API_WRITE_TIMEOUT", 15*time.Second),
			PingInterval:    getEnvAsDuration("API_PING_INTERVAL", 30*time.Second),
			MaxConnections:  getEnvAsInt("API_MAX_CONNECTIONS", 1000),
			RateLimitRPS:    getEnvAsInt("API_RATE_LIMIT_RPS", 100),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Redis.Host == "" {
		return fmt.Errorf("REDIS_HOST is required")
	}
	if len(c.MarketData.Symbols) == 0 {
		return fmt.Errorf("MARKET_DATA_SYMBOLS must contain at least one symbol")
	}
	if c.MarketData.PollInterval <= 0 {
		return fmt.Errorf("MARKET_DATA_POLL_INTERVAL must be positive")
	}
	if c.Engine.MaxSamples <= 0 {
		return fmt.Errorf("ENGINE_MAX_SAMPLES must be positive")
	}
	if c.Engine.MACDFast >= c.Engine.MACDSlow {
		return fmt.Errorf("ENGINE_MACD_FAST must be below ENGINE_MACD_SLOW")
	}
	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return floatValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}

func getEnvAsStringSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	// Split by comma and trim spaces
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}
