package config

import (
	"fmt"
	"os"
	"time"
)

type Config struct {
	// Database
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string
	DatabaseURL string

	// Redis
	EnableCache bool
	RedisURL    string

	// JWT
	JWTSecret string

	// Server
	Port        string
	Environment string

	// Crawler
	CrawlerEndpoint string
	CrawlerTimeout  time.Duration

	// Auto-save
	AutoSaveDebounce time.Duration

	// Upload
	UploadDir     string
	MaxMediaSize  int64
	MaxAvatarSize int64
}

func New() *Config {
	c := &Config{
		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "linkpage"),
		DBPassword: getEnv("DB_PASSWORD", "linkpage"),
		DBName:     getEnv("DB_NAME", "linkpage"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// Redis
		EnableCache: getEnvAsBool("ENABLE_CACHE", true),
		RedisURL:    getEnv("REDIS_URL", "localhost:6379"),

		// JWT
		JWTSecret: getEnv("JWT_SECRET", "change-this-in-production"),

		// Server
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		// Crawler
		CrawlerEndpoint: getEnv("CRAWLER_ENDPOINT", "http://localhost:8090/crawl"),
		CrawlerTimeout:  time.Duration(getEnvAsInt("CRAWLER_TIMEOUT_SECONDS", 10)) * time.Second,

		// Auto-save
		AutoSaveDebounce: time.Duration(getEnvAsInt("AUTOSAVE_DEBOUNCE_MS", 2000)) * time.Millisecond,

		// Upload
		UploadDir:     getEnv("UPLOAD_DIR", "./uploads"),
		MaxMediaSize:  3 * 1024 * 1024,
		MaxAvatarSize: 2 * 1024 * 1024,
	}

	// Build DSN
	c.DatabaseURL = fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)

	return c
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var value int
	_, err := fmt.Sscanf(valueStr, "%d", &value)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	return valueStr == "true" || valueStr == "1"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
