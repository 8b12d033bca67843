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
// Following 12-factor app principles, all config is loaded from environment variables
type Config struct {
	Server   ServerConfig
	Auth     AuthConfig
	Business BusinessConfig
	Database DatabaseConfig
	Mail     MailConfig
	LogLevel string
}

type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     int
	ShutdownTimeout int
}

type AuthConfig struct {
	KitchenPIN    string        // Shared secret gating the kitchen dashboard
	SessionSecret string        // HMAC key for kitchen session tokens
	SessionTTL    time.Duration // Kitchen session lifetime
}

type BusinessConfig struct {
	Name           string
	DeliveryFee    float64 // Flat fee in MXN, charged for delivery orders only
	WhatsAppNumber string  // Country code + number, no spaces or signs
}

type DatabaseConfig struct {
	DSN string // MySQL DSN; empty selects the in-memory store
}

type MailConfig struct {
	APIURL string
	APIKey string
	From   string
	To     string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// A .env file is a development convenience, not a requirement
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "0.0.0.0"),
			ReadTimeout:     getEnvAsInt("READ_TIMEOUT", 15),
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 30),
		},
		Auth: AuthConfig{
			KitchenPIN:    getEnv("KITCHEN_PIN", "1234"),
			SessionSecret: getEnv("SESSION_SECRET", "kitchen-dev-secret"),
			SessionTTL:    getEnvAsDuration("SESSION_TTL", 8*time.Hour),
		},
		Business: BusinessConfig{
			Name:           getEnv("BUSINESS_NAME", "Tacos Master"),
			DeliveryFee:    getEnvAsFloat("DELIVERY_FEE", 25),
			WhatsAppNumber: getEnv("WHATSAPP_NUMBER", "526442141281"),
		},
		Database: DatabaseConfig{
			DSN: getEnv("MYSQL_DSN", ""),
		},
		Mail: MailConfig{
			APIURL: getEnv("MAIL_API_URL", ""),
			APIKey: getEnv("MAIL_API_KEY", ""),
			From:   getEnv("MAIL_FROM", ""),
			To:     getEnv("MAIL_TO", ""),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Auth.KitchenPIN == "" {
		return fmt.Errorf("KITCHEN_PIN is required")
	}

	if c.Auth.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET is required")
	}

	if c.Auth.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}

	if c.Business.DeliveryFee < 0 {
		return fmt.Errorf("DELIVERY_FEE must not be negative")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
