package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_USER", "cook")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "recipes")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("ACCESS_TOKEN_TTL", "5m")
	t.Setenv("REFRESH_TOKEN_TTL", "48h")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.DBHost)
	assert.Equal(t, "5433", cfg.DBPort)
	assert.Equal(t, "cook", cfg.DBUser)
	assert.Equal(t, "secret", cfg.DBPassword)
	assert.Equal(t, "recipes", cfg.DBName)
	assert.Equal(t, "test-secret", cfg.JWTSecret)
	assert.Equal(t, "redis://localhost:6379", cfg.RedisURL)
	assert.True(t, cfg.RedisEnabled())
	assert.Equal(t, 5*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 48*time.Hour, cfg.RefreshTokenTTL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
}

func TestLoadConfigWithDefaults(t *testing.T) {
	t.Setenv("ENV", "development")
	t.Setenv("JWT_SECRET", "dev-secret")
	for _, key := range []string{"DB_HOST", "DB_PORT", "DB_DRIVER", "REDIS_URL", "REDIS_HOST", "ACCESS_TOKEN_TTL", "REFRESH_TOKEN_TTL", "IMAGE_STORE", "LOGIN_RATE_LIMIT"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "5432", cfg.DBPort)
	assert.Equal(t, defaultAccessTokenTTL, cfg.AccessTokenTTL)
	assert.Equal(t, defaultRefreshTokenTTL, cfg.RefreshTokenTTL)
	assert.Equal(t, "fs", cfg.ImageStore)
	assert.Equal(t, defaultLoginRateLimit, cfg.LoginRateLimit)
	assert.False(t, cfg.RedisEnabled())
}

func TestLoadConfigRequiresSecret(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadConfigRejectsBadDuration(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("JWT_SECRET", "x")
	t.Setenv("ACCESS_TOKEN_TTL", "soon")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ACCESS_TOKEN_TTL")
}

func TestLoadProdConfigFromSecrets(t *testing.T) {
	dir := t.TempDir()
	secrets := map[string]string{
		"jwt_secret":  "prod-secret",
		"db_host":     "pg.prod",
		"db_name":     "cookwithfriends",
		"server_port": "9000",
	}
	for name, value := range secrets {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(value+"\n"), 0o600))
	}
	t.Setenv("CI", "")
	t.Setenv("ENV", "production")
	t.Setenv("SECRETS_DIR", dir)
	t.Setenv("JWT_SECRET", "ignored")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "prod-secret", cfg.JWTSecret)
	assert.Equal(t, "pg.prod", cfg.DBHost)
	assert.Equal(t, "9000", cfg.ServerPort)
}

func TestValidateConfigS3NeedsBucket(t *testing.T) {
	cfg := &Config{
		ServerPort:      "8080",
		DBDriver:        "sqlite",
		JWTSecret:       "s",
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: time.Hour,
		ImageStore:      "s3",
	}
	err := ValidateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "S3_BUCKET_NAME")

	cfg.S3BucketName = "recipe-images"
	assert.NoError(t, ValidateConfig(cfg))
}

func TestValidateConfigTrustedProxies(t *testing.T) {
	cfg := &Config{
		ServerPort:       "8080",
		DBDriver:         "sqlite",
		JWTSecret:        "s",
		AccessTokenTTL:   time.Minute,
		RefreshTokenTTL:  time.Hour,
		ImageStore:       "fs",
		ImageStoragePath: "images",
		TrustedProxies:   []string{"10.0.0.1", "172.16.0.0/12"},
	}
	assert.NoError(t, ValidateConfig(cfg))

	cfg.TrustedProxies = append(cfg.TrustedProxies, "proxy.internal")
	err := ValidateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TRUSTED_PROXIES")
}

func TestLoadConfigTrustedProxies(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("JWT_SECRET", "x")
	t.Setenv("TRUSTED_PROXIES", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Empty(t, cfg.TrustedProxies)

	t.Setenv("TRUSTED_PROXIES", "10.0.0.1, 10.1.0.0/16")
	cfg, err = LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.1", "10.1.0.0/16"}, cfg.TrustedProxies)
}
