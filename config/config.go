package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort string
	ServerHost string

	// Database configuration
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// JWT configuration
	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	// Image storage
	ImageStore       string
	ImageStoragePath string
	S3BucketName     string
	AWSRegion        string

	// HTTP concerns
	CORSOrigins    []string
	TrustedProxies []string
	LoginRateLimit int

	LogLevel string
}

const (
	defaultAccessTokenTTL  = 15 * time.Minute
	defaultRefreshTokenTTL = 7 * 24 * time.Hour
	defaultLoginRateLimit  = 10
)

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	cfg := &Config{}

	switch env {
	case CI, Development, Test:
		if err := loadEnvConfig(cfg); err != nil {
			return nil, fmt.Errorf("failed to load %s configuration: %w", env, err)
		}
	case Production:
		if err := loadProdConfig(cfg); err != nil {
			return nil, fmt.Errorf("failed to load production configuration: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadEnvConfig reads plain environment variables, falling back to local defaults
func loadEnvConfig(cfg *Config) error {
	cfg.ServerPort = getEnv("SERVER_PORT", "8080")
	cfg.ServerHost = getEnv("SERVER_HOST", "localhost")
	cfg.DBDriver = getEnv("DB_DRIVER", "postgres")
	cfg.DBHost = getEnv("DB_HOST", "localhost")
	cfg.DBPort = getEnv("DB_PORT", "5432")
	cfg.DBUser = getEnv("DB_USER", "postgres")
	cfg.DBPassword = getEnv("DB_PASSWORD", "postgres")
	cfg.DBName = getEnv("DB_NAME", "cookwithfriends")
	cfg.DBSSLMode = getEnv("DB_SSL_MODE", "disable")
	cfg.SQLitePath = getEnv("SQLITE_PATH", "cookwithfriends.db")
	cfg.RedisHost = os.Getenv("REDIS_HOST")
	cfg.RedisPort = getEnv("REDIS_PORT", "6379")
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	cfg.RedisURL = os.Getenv("REDIS_URL")
	cfg.RedisDB = 0 // This is a constant, not a secret
	cfg.JWTSecret = os.Getenv("JWT_SECRET")

	return loadCommon(cfg, os.Getenv)
}

// loadProdConfig loads configuration for production using Docker secrets, with env as fallback
func loadProdConfig(cfg *Config) error {
	cfg.ServerPort = readSecretOrEnv("server_port", "SERVER_PORT")
	cfg.ServerHost = readSecretOrEnv("server_host", "SERVER_HOST")
	cfg.DBDriver = getEnv("DB_DRIVER", "postgres")
	cfg.DBHost = readSecretOrEnv("db_host", "DB_HOST")
	cfg.DBPort = readSecretOrEnv("db_port", "DB_PORT")
	cfg.DBUser = readSecretOrEnv("db_user", "DB_USER")
	cfg.DBPassword = readSecretOrEnv("db_password", "DB_PASSWORD")
	cfg.DBName = readSecretOrEnv("db_name", "DB_NAME")
	cfg.DBSSLMode = readSecretOrEnv("db_ssl_mode", "DB_SSL_MODE")
	cfg.RedisHost = readSecretOrEnv("redis_host", "REDIS_HOST")
	cfg.RedisPort = readSecretOrEnv("redis_port", "REDIS_PORT")
	cfg.RedisPassword = readSecretOrEnv("redis_password", "REDIS_PASSWORD")
	cfg.RedisURL = readSecretOrEnv("redis_url", "REDIS_URL")
	cfg.RedisDB = 0
	cfg.JWTSecret = readSecretOrEnv("jwt_secret", "JWT_SECRET")

	return loadCommon(cfg, func(key string) string {
		return readSecretOrEnv(strings.ToLower(key), key)
	})
}

// loadCommon fills the settings that are read the same way in every environment
func loadCommon(cfg *Config, lookup func(string) string) error {
	var err error
	if cfg.AccessTokenTTL, err = parseDuration(lookup("ACCESS_TOKEN_TTL"), defaultAccessTokenTTL); err != nil {
		return fmt.Errorf("ACCESS_TOKEN_TTL: %w", err)
	}
	if cfg.RefreshTokenTTL, err = parseDuration(lookup("REFRESH_TOKEN_TTL"), defaultRefreshTokenTTL); err != nil {
		return fmt.Errorf("REFRESH_TOKEN_TTL: %w", err)
	}

	cfg.ImageStore = orDefault(lookup("IMAGE_STORE"), "fs")
	cfg.ImageStoragePath = orDefault(lookup("IMAGE_STORAGE_PATH"), "images")
	cfg.S3BucketName = lookup("S3_BUCKET_NAME")
	cfg.AWSRegion = lookup("AWS_REGION")

	cfg.CORSOrigins = splitList(orDefault(lookup("CORS_ORIGINS"), "http://localhost:5173"))

	// Empty means X-Forwarded-For is ignored and the peer address is the client IP.
	cfg.TrustedProxies = splitList(lookup("TRUSTED_PROXIES"))

	cfg.LoginRateLimit = defaultLoginRateLimit
	if raw := lookup("LOGIN_RATE_LIMIT"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("LOGIN_RATE_LIMIT: %w", err)
		}
		cfg.LoginRateLimit = n
	}

	cfg.LogLevel = orDefault(lookup("LOG_LEVEL"), "info")
	return nil
}

// RedisEnabled reports whether enough redis settings are present to connect
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != "" || c.RedisHost != ""
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func readSecretOrEnv(secret, env string) string {
	if v := readSecret(secret); v != "" {
		return v
	}
	return os.Getenv(env)
}

func getEnv(key, fallback string) string {
	return orDefault(os.Getenv(key), fallback)
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func parseDuration(raw string, fallback time.Duration) (time.Duration, error) {
	if raw == "" {
		return fallback, nil
	}
	return time.ParseDuration(raw)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
