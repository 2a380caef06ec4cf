package config

import (
	"os"
)

// Config holds application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Auth     AuthConfig
	Email    EmailConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string
	Port string
	Env  string // "dev" or "prod"; controls log verbosity
}

// AuthConfig holds token verification settings. Identity and role assignment
// live upstream; this service only verifies the bearer tokens it is handed.
type AuthConfig struct {
	JWTSecret string
}

// EmailConfig holds notification settings. In shadow mode every outbound
// email is redirected to ShadowAddress.
type EmailConfig struct {
	Mode          string // "" (disabled), "shadow", "live"
	ShadowAddress string
	APIKey        string
	FromAddress   string
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "127.0.0.1"),
			Port:     getEnv("DB_PORT", "3306"),
			User:     getEnv("DB_USER", "shikayat"),
			Password: os.Getenv("DB_PASSWORD"),
			DBName:   getEnv("DB_NAME", "shikayat"),
		},
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("PORT", getEnv("SERVER_PORT", "8080")),
			Env:  getEnv("APP_ENV", "dev"),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", "dev-secret-change-in-production"),
		},
		Email: EmailConfig{
			Mode:          os.Getenv("EMAIL_MODE"),
			ShadowAddress: os.Getenv("EMAIL_SHADOW_ADDRESS"),
			APIKey:        os.Getenv("EMAIL_API_KEY"),
			FromAddress:   getEnv("EMAIL_FROM", "no-reply@shikayat.local"),
		},
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
