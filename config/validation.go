package config

import (
	"fmt"
	"net"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var supportedDrivers = map[string]bool{"postgres": true, "sqlite": true}

var supportedImageStores = map[string]bool{"fs": true, "s3": true}

// ValidateConfig checks that the loaded configuration can start the service
func ValidateConfig(cfg *Config) error {
	var errs []string
	add := func(field, msg string) {
		errs = append(errs, ValidationError{Field: field, Message: msg}.Error())
	}

	if cfg.JWTSecret == "" {
		add("JWT_SECRET", "is required")
	}
	if cfg.ServerPort == "" {
		add("SERVER_PORT", "is required")
	}
	if cfg.AccessTokenTTL <= 0 {
		add("ACCESS_TOKEN_TTL", "must be positive")
	}
	if cfg.RefreshTokenTTL <= 0 {
		add("REFRESH_TOKEN_TTL", "must be positive")
	}
	if cfg.RefreshTokenTTL > 0 && cfg.RefreshTokenTTL < cfg.AccessTokenTTL {
		add("REFRESH_TOKEN_TTL", "must not be shorter than ACCESS_TOKEN_TTL")
	}

	if !supportedDrivers[cfg.DBDriver] {
		add("DB_DRIVER", fmt.Sprintf("unsupported driver %q", cfg.DBDriver))
	}
	if cfg.DBDriver == "postgres" {
		if cfg.DBHost == "" {
			add("DB_HOST", "is required for postgres")
		}
		if cfg.DBName == "" {
			add("DB_NAME", "is required for postgres")
		}
	}

	if !supportedImageStores[cfg.ImageStore] {
		add("IMAGE_STORE", fmt.Sprintf("unsupported image store %q", cfg.ImageStore))
	}
	if cfg.ImageStore == "s3" && cfg.S3BucketName == "" {
		add("S3_BUCKET_NAME", "is required when IMAGE_STORE=s3")
	}
	if cfg.ImageStore == "fs" && cfg.ImageStoragePath == "" {
		add("IMAGE_STORAGE_PATH", "is required when IMAGE_STORE=fs")
	}

	for _, proxy := range cfg.TrustedProxies {
		if net.ParseIP(proxy) != nil {
			continue
		}
		if _, _, err := net.ParseCIDR(proxy); err != nil {
			add("TRUSTED_PROXIES", fmt.Sprintf("%q is not an IP address or CIDR", proxy))
		}
	}

	if cfg.LoginRateLimit < 0 {
		add("LOGIN_RATE_LIMIT", "must not be negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errs, "\n"))
	}
	return nil
}
