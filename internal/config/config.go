package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Config holds the application configuration. It is built once in main and
// handed to the components that need it; nothing reads the environment after
// startup.
type Config struct {
	ServerPort int

	// Database connection settings. DatabaseURL, when set, wins over the
	// individual fields.
	DatabaseURL  string
	DBHost       string
	DBPort       int
	DBUser       string
	DBPassword   string
	DBName       string
	DBSSLMode    string
	MaxOpenConns int
	MaxIdleConns int

	// Token signing settings. JWTSecret has no default: a deployment without
	// an explicit secret is a configuration error.
	JWTSecret string
	TokenTTL  time.Duration
}

// Load loads configuration from environment variables or sets defaults.
func Load() (*Config, error) {
	port, err := getEnvInt("PORT", 8080)
	if err != nil {
		return nil, err
	}
	dbPort, err := getEnvInt("PG_PORT", 5432)
	if err != nil {
		return nil, err
	}
	maxOpen, err := getEnvInt("PG_MAX_OPEN_CONNS", 25)
	if err != nil {
		return nil, err
	}
	maxIdle, err := getEnvInt("PG_MAX_IDLE_CONNS", 5)
	if err != nil {
		return nil, err
	}
	ttlMinutes, err := getEnvInt("TOKEN_TTL_MINUTES", 60)
	if err != nil {
		return nil, err
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, errors.New("JWT_SECRET must be set")
	}

	return &Config{
		ServerPort:   port,
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DBHost:       getEnv("PG_HOST", "localhost"),
		DBPort:       dbPort,
		DBUser:       getEnv("PG_USER", "postgres"),
		DBPassword:   os.Getenv("PG_PASSWORD"),
		DBName:       getEnv("PG_DB", "spatial"),
		DBSSLMode:    getEnv("PG_SSLMODE", "disable"),
		MaxOpenConns: maxOpen,
		MaxIdleConns: maxIdle,
		JWTSecret:    secret,
		TokenTTL:     time.Duration(ttlMinutes) * time.Minute,
	}, nil
}

// DSN returns the Postgres connection string described by the config.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return "postgres://" + url.UserPassword(c.DBUser, c.DBPassword).String() +
		"@" + c.DBHost + ":" + strconv.Itoa(c.DBPort) + "/" + c.DBName +
		"?sslmode=" + c.DBSSLMode
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %w", key, err)
	}
	return n, nil
}
