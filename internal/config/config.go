package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Store backends selectable through STORE_BACKEND.
const (
	BackendPostgres = "postgres"
	BackendGorm     = "gorm"
	BackendRealtime = "realtime"
)

// Object storage drivers selectable through STORAGE_DRIVER.
const (
	StorageMinIO = "minio"
	StorageS3    = "s3"
	StorageNone  = "none"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// SQLiteConfig holds settings for the GORM-backed sqlite store.
type SQLiteConfig struct {
	Path string
	// Environment controls the GORM log level ("production" logs warnings only).
	Environment string
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// S3Config holds settings for AWS S3 or any S3-compatible endpoint (R2, Supabase Storage).
type S3Config struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	UsePathStyle    bool
}

// AuthConfig controls admin login and bearer-token verification.
type AuthConfig struct {
	JWTSecret         string
	TokenTTLMin       int
	JWKSURL           string
	AdminUsername     string
	AdminPasswordHash string
	LoginRPS          float64
	LoginBurst        int
}

// Enabled reports whether any token verification method is configured.
func (a AuthConfig) Enabled() bool {
	return a.JWTSecret != "" || a.JWKSURL != ""
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost       string
	Port          string
	Timezone      string
	LogLevel      string
	CORSOrigins   string
	StoreBackend  string
	StorageDriver string
	PresignTTLSec int
	AutoMigrate   bool
	Database      DatabaseConfig
	SQLite        SQLiteConfig
	MinIO         MinIOConfig
	S3            S3Config
	Auth          AuthConfig
}

// Location resolves the configured time zone, falling back to UTC.
func (c *AppConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		AppHost:       getEnv("APP_HOST", "localhost:8080"),
		Port:          getEnv("PORT", "8080"),
		Timezone:      getEnv("APP_TIMEZONE", "UTC"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		CORSOrigins:   getEnv("CORS_ORIGINS", "*"),
		StoreBackend:  strings.ToLower(getEnv("STORE_BACKEND", BackendPostgres)),
		StorageDriver: strings.ToLower(getEnv("STORAGE_DRIVER", StorageMinIO)),
		PresignTTLSec: getEnvInt("STORAGE_PRESIGN_TTL_SEC", 900),
		AutoMigrate:   getEnvBool("DB_AUTO_MIGRATE", true),
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		SQLite: SQLiteConfig{
			Path:        getEnv("SQLITE_PATH", "archive.db"),
			Environment: getEnv("APP_ENV", "development"),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		S3: S3Config{
			Endpoint:        getEnv("S3_ENDPOINT", ""),
			Region:          getEnv("S3_REGION", "auto"),
			AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
			Bucket:          getEnv("S3_BUCKET", ""),
			UsePathStyle:    getEnvBool("S3_USE_PATH_STYLE", true),
		},
		Auth: AuthConfig{
			JWTSecret:         getEnv("AUTH_JWT_SECRET", ""),
			TokenTTLMin:       getEnvInt("AUTH_TOKEN_TTL_MIN", 60),
			JWKSURL:           getEnv("AUTH_JWKS_URL", ""),
			AdminUsername:     getEnv("ADMIN_USERNAME", "admin"),
			AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
			LoginRPS:          getEnvFloat("AUTH_LOGIN_RPS", 0.2),
			LoginBurst:        getEnvInt("AUTH_LOGIN_BURST", 5),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return def
}
