// Package config loads runtime configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/joeshaw/envdecode"
)

// Config holds all runtime settings.
type Config struct {
	ServerPort string `env:"SERVER_PORT,default=8080"`

	DBHost     string `env:"DB_HOST,default=localhost"`
	DBPort     string `env:"DB_PORT,default=5432"`
	DBUser     string `env:"DB_USER,default=postgres"`
	DBPassword string `env:"DB_PASSWORD,default=postgres"`
	DBName     string `env:"DB_NAME,default=agri_advisor"`
	DBSSLMode  string `env:"DB_SSLMODE,default=disable"`
	SeedDB     bool   `env:"SEED_DB,default=false"`

	// Empty means the in-memory cache is used instead.
	RedisAddr string `env:"REDIS_ADDR"`

	// Market feed; no key means synthetic data only.
	DataGovAPIKey string `env:"DATA_GOV_API_KEY"`
	MandiBaseURL  string `env:"MANDI_BASE_URL,default=https://api.data.gov.in/resource/9ef84268-d588-465a-a308-a864a43d0070"`

	// Both are required for live weather; without them the stored fallback
	// applies.
	WeatherAPIKey  string `env:"WEATHER_API_KEY"`
	WeatherAPIHost string `env:"WEATHER_API_HOST"`

	// Empty disables the ML oracle.
	MLServiceURL string `env:"ML_SERVICE_URL"`

	JWTSecret string        `env:"JWT_SECRET,default=dev-secret-change-me"`
	JWTExpiry time.Duration `env:"JWT_EXPIRY,default=24h"`

	GatewayTimeout time.Duration `env:"GATEWAY_TIMEOUT,default=8s"`
	OracleTimeout  time.Duration `env:"ORACLE_TIMEOUT,default=5s"`
}

// Load decodes the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// DSN builds the Postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}
