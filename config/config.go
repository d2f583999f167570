package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Store      StoreConfig
	Redis      RedisConfig
	ContentAPI ContentAPIConfig
	Auth       AuthConfig
	Checkout   CheckoutConfig
	Telemetry  TelemetryConfig
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type StoreConfig struct {
	// Path of the SQLite file backing the local key-value store.
	Path string
	// StatusLogPath of the SQLite file for the order status log.
	StatusLogPath string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type ContentAPIConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
	// CacheTTL controls how long catalog responses stay in redis.
	CacheTTL time.Duration
}

type AuthConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type CheckoutConfig struct {
	// ConfirmationDelay is the artificial pause before the order
	// confirmation is returned. Zero disables it.
	ConfirmationDelay time.Duration
}

type TelemetryConfig struct {
	ServiceName string
	LogLevel    string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  getDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
		},
		Store: StoreConfig{
			Path:          getEnv("STORE_PATH", "./data/storefront.db"),
			StatusLogPath: getEnv("STATUS_LOG_PATH", "./data/statuslog.db"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getInt("REDIS_DB", 0),
		},
		ContentAPI: ContentAPIConfig{
			BaseURL:  getEnv("CONTENT_API_URL", "https://cdn.contentstack.io/v3"),
			Token:    getEnv("CONTENT_API_TOKEN", ""),
			Timeout:  getDuration("CONTENT_API_TIMEOUT", 10*time.Second),
			CacheTTL: getDuration("CATALOG_CACHE_TTL", 5*time.Minute),
		},
		Auth: AuthConfig{
			BaseURL: getEnv("AUTH_API_URL", "https://identitytoolkit.googleapis.com/v1"),
			APIKey:  getEnv("AUTH_API_KEY", ""),
			Timeout: getDuration("AUTH_API_TIMEOUT", 10*time.Second),
		},
		Checkout: CheckoutConfig{
			ConfirmationDelay: getDuration("CHECKOUT_CONFIRMATION_DELAY", 2*time.Second),
		},
		Telemetry: TelemetryConfig{
			ServiceName: getEnv("OTEL_SERVICE_NAME", "storefront"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
