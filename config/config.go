// File: /config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Port      string `yaml:"port"`
	JWTSecret string `yaml:"jwt_secret"`

	// Storage backend: "mysql" or "mongo"
	StorageBackend string `yaml:"storage_backend"`
	MySQLDSN       string `yaml:"mysql_dsn"`
	MongoURI       string `yaml:"mongo_uri"`
	MongoDatabase  string `yaml:"mongo_database"`

	// Stock data provider
	StockAPIBaseURL string `yaml:"stock_api_base_url"`

	// Rate limiting
	RateLimitPerMinute int `yaml:"rate_limit_per_minute"`
	RateLimitBurst     int `yaml:"rate_limit_burst"`
}

func Load() (*Config, error) {
	rateLimit, _ := strconv.Atoi(getEnv("RATE_LIMIT_PER_MINUTE", "300"))
	burst, _ := strconv.Atoi(getEnv("RATE_LIMIT_BURST", "30"))

	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		JWTSecret:          getEnv("JWT_SECRET", "your-secret-key"),
		StorageBackend:     getEnv("STORAGE_BACKEND", "mysql"),
		MySQLDSN:           getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/stocktalk?charset=utf8mb4&parseTime=True&loc=Local"),
		MongoURI:           getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:      getEnv("MONGO_DATABASE", "stocktalk"),
		StockAPIBaseURL:    getEnv("STOCK_API_BASE_URL", "https://finnhub.io/api/v1"),
		RateLimitPerMinute: rateLimit,
		RateLimitBurst:     burst,
	}

	// An optional YAML file overrides the environment defaults.
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if cfg.StorageBackend != "mysql" && cfg.StorageBackend != "mongo" {
		return nil, fmt.Errorf("unsupported storage backend: %q", cfg.StorageBackend)
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
