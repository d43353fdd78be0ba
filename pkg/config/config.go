// Package config loads application configuration from the environment,
// with an optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	Auth          AuthConfig
	Map           MapConfig
	RoutesAPI     RoutesAPIConfig
	Observability ObservabilityConfig
}

type ServerConfig struct {
	Port               string
	RateLimitPerSecond int
	RateLimitBurst     int
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN builds a postgres connection string from the individual fields.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

type AuthConfig struct {
	JWTSecret string
}

// MapConfig seeds the map view shown before any stop exists.
type MapConfig struct {
	DefaultCenterLat float64
	DefaultCenterLng float64
	DefaultZoom      int
	FitPadding       int
}

// RoutesAPIConfig points at the backend that owns saved routes.
type RoutesAPIConfig struct {
	BaseURL string
}

type ObservabilityConfig struct {
	MetricsEnabled bool
}

// Load reads configuration from the environment. A .env file in the
// working directory is applied first when present; real environment
// variables win over it.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:               getEnv("SERVER_PORT", "8080"),
			RateLimitPerSecond: getEnvInt("RATE_LIMIT_PER_SECOND", 50),
			RateLimitBurst:     getEnvInt("RATE_LIMIT_BURST", 100),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			Name:     getEnv("DB_NAME", "planner"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Auth: AuthConfig{
			JWTSecret: os.Getenv("JWT_SECRET"),
		},
		Map: MapConfig{
			DefaultCenterLat: getEnvFloat("MAP_DEFAULT_CENTER_LAT", -33.4489),
			DefaultCenterLng: getEnvFloat("MAP_DEFAULT_CENTER_LNG", -70.6693),
			DefaultZoom:      getEnvInt("MAP_DEFAULT_ZOOM", 13),
			FitPadding:       getEnvInt("MAP_FIT_PADDING", 48),
		},
		RoutesAPI: RoutesAPIConfig{
			BaseURL: getEnv("ROUTES_API_BASE_URL", "http://localhost:9090"),
		},
		Observability: ObservabilityConfig{
			MetricsEnabled: getEnvBool("METRICS_ENABLED", true),
		},
	}

	if cfg.RoutesAPI.BaseURL == "" {
		return nil, fmt.Errorf("ROUTES_API_BASE_URL must not be empty")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
