package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Setenv("DB_HOST", "test-host")
	t.Setenv("DB_MAX_OPEN_CONNS", "20")
	t.Setenv("MINIO_USE_SSL", "true")
	t.Setenv("STORE_BACKEND", "GORM")
	t.Setenv("SQLITE_PATH", "/tmp/archive.db")
	t.Setenv("AUTH_LOGIN_RPS", "2.5")
	t.Setenv("DB_AUTO_MIGRATE", "false")

	cfg := Load()

	assert.Equal(t, "test-host", cfg.Database.Host)
	assert.Equal(t, 20, cfg.Database.MaxOpenConns)
	assert.True(t, cfg.MinIO.UseSSL)
	assert.Equal(t, BackendGorm, cfg.StoreBackend)
	assert.Equal(t, "/tmp/archive.db", cfg.SQLite.Path)
	assert.Equal(t, 2.5, cfg.Auth.LoginRPS)
	assert.Equal(t, StorageMinIO, cfg.StorageDriver)
	assert.False(t, cfg.AutoMigrate)
}

func TestAuthConfig_Enabled(t *testing.T) {
	assert.False(t, AuthConfig{}.Enabled())
	assert.True(t, AuthConfig{JWTSecret: "s"}.Enabled())
	assert.True(t, AuthConfig{JWKSURL: "https://example.test/jwks"}.Enabled())
}

func TestAppConfig_Location(t *testing.T) {
	cfg := &AppConfig{Timezone: "Asia/Jakarta"}
	loc := cfg.Location()
	assert.Equal(t, "Asia/Jakarta", loc.String())

	cfg.Timezone = "Not/AZone"
	assert.Equal(t, time.UTC, cfg.Location())

	cfg.Timezone = ""
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestGetEnv(t *testing.T) {
	key := "TEST_ENV_VAR"
	os.Setenv(key, "value")
	defer os.Unsetenv(key)

	assert.Equal(t, "value", getEnv(key, "default"))
	assert.Equal(t, "default", getEnv("NON_EXISTENT", "default"))
}

func TestGetEnvBool(t *testing.T) {
	key := "TEST_BOOL_VAR"

	os.Setenv(key, "true")
	assert.True(t, getEnvBool(key, false))

	os.Setenv(key, "false")
	assert.False(t, getEnvBool(key, true))

	os.Setenv(key, "invalid")
	assert.True(t, getEnvBool(key, true))

	os.Unsetenv(key)
	assert.True(t, getEnvBool(key, true))
}

func TestGetEnvInt(t *testing.T) {
	key := "TEST_INT_VAR"

	os.Setenv(key, "123")
	assert.Equal(t, 123, getEnvInt(key, 0))

	os.Setenv(key, "invalid")
	assert.Equal(t, 10, getEnvInt(key, 10))

	os.Unsetenv(key)
	assert.Equal(t, 10, getEnvInt(key, 10))
}

func TestGetEnvFloat(t *testing.T) {
	key := "TEST_FLOAT_VAR"
	defer os.Unsetenv(key)

	os.Setenv(key, "0.5")
	assert.Equal(t, 0.5, getEnvFloat(key, 1))

	os.Setenv(key, "nope")
	assert.Equal(t, 1.0, getEnvFloat(key, 1))
}
