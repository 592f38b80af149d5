package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort string
	ServerHost string

	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// JWT configuration
	JWTSecret string
}

// LoadConfig builds a Config from environment variables, falling back to
// Docker secret files for sensitive values outside of CI.
func LoadConfig() (*Config, error) {
	env := GetEnvironment()

	cfg := &Config{
		ServerPort:    getValue(env, "SERVER_PORT", "server_port"),
		ServerHost:    getValue(env, "SERVER_HOST", "server_host"),
		DBHost:        getValue(env, "DB_HOST", "db_host"),
		DBPort:        getValue(env, "DB_PORT", "db_port"),
		DBUser:        getValue(env, "DB_USER", "db_user"),
		DBPassword:    getValue(env, "DB_PASSWORD", "db_password"),
		DBName:        getValue(env, "DB_NAME", "db_name"),
		DBSSLMode:     getValue(env, "DB_SSL_MODE", "db_ssl_mode"),
		RedisHost:     getValue(env, "REDIS_HOST", "redis_host"),
		RedisPort:     getValue(env, "REDIS_PORT", "redis_port"),
		RedisPassword: getValue(env, "REDIS_PASSWORD", "redis_password"),
		RedisURL:      getValue(env, "REDIS_URL", "redis_url"),
		JWTSecret:     getValue(env, "JWT_SECRET", "jwt_secret"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that every value the server cannot run without is set.
func (c *Config) Validate() error {
	required := map[string]string{
		"SERVER_PORT": c.ServerPort,
		"DB_HOST":     c.DBHost,
		"DB_PORT":     c.DBPort,
		"DB_USER":     c.DBUser,
		"DB_PASSWORD": c.DBPassword,
		"DB_NAME":     c.DBName,
		"JWT_SECRET":  c.JWTSecret,
	}

	var missing []string
	for name, value := range required {
		if value == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	if c.DBSSLMode == "" {
		c.DBSSLMode = "disable"
	}
	return nil
}

// getValue resolves a configuration value. Environment variables win;
// in production-like environments the Docker secrets directory is the
// fallback for values not present in the environment.
func getValue(env Environment, envVar, secretName string) string {
	if v := os.Getenv(envVar); v != "" {
		return v
	}
	if env == CI {
		return ""
	}
	return readSecret(secretName)
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	if data, err := os.ReadFile(filepath.Join(secretsDir, name)); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
