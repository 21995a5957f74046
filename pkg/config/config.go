package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string
	HotelName string

	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	CORS      CORSConfig
	Log       LogConfig
	Storage   StorageConfig
	Uploads   UploadsConfig
	Exports   ExportsConfig
	Dashboard DashboardConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret            string
	Expiration        time.Duration
	RefreshExpiration time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// StorageConfig selects and configures the object store backend.
type StorageConfig struct {
	Driver          string // "local" or "minio"
	LocalDir        string
	MinioEndpoint   string
	MinioAccessKey  string
	MinioSecretKey  string
	MinioBucket     string
	MinioUseSSL     bool
	SignedURLSecret string
	SignedURLTTL    time.Duration
}

// UploadsConfig constrains incoming photo/image uploads.
type UploadsConfig struct {
	MaxFileSizeBytes int64
}

// ExportsConfig configures asynchronous export generation.
type ExportsConfig struct {
	Enabled           bool
	WorkerConcurrency int
	WorkerRetries     int
	CleanupInterval   time.Duration
}

// DashboardConfig governs dashboard cache tuning.
type DashboardConfig struct {
	CacheTTL time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")
	cfg.HotelName = v.GetString("HOTEL_NAME")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:            v.GetString("JWT_SECRET"),
		Expiration:        parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
		RefreshExpiration: parseDuration(v.GetString("REFRESH_TOKEN_EXPIRATION"), 7*24*time.Hour),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Storage = StorageConfig{
		Driver:          v.GetString("STORAGE_DRIVER"),
		LocalDir:        v.GetString("STORAGE_LOCAL_DIR"),
		MinioEndpoint:   v.GetString("MINIO_ENDPOINT"),
		MinioAccessKey:  v.GetString("MINIO_ACCESS_KEY"),
		MinioSecretKey:  v.GetString("MINIO_SECRET_KEY"),
		MinioBucket:     v.GetString("MINIO_BUCKET"),
		MinioUseSSL:     v.GetBool("MINIO_USE_SSL"),
		SignedURLSecret: v.GetString("STORAGE_SIGNED_URL_SECRET"),
		SignedURLTTL:    parseDuration(v.GetString("STORAGE_SIGNED_URL_TTL"), 30*time.Minute),
	}

	maxUploadSize := v.GetInt64("UPLOADS_MAX_FILE_SIZE")
	if maxUploadSize <= 0 {
		maxUploadSize = 5 * 1024 * 1024
	}
	cfg.Uploads = UploadsConfig{MaxFileSizeBytes: maxUploadSize}

	cfg.Exports = ExportsConfig{
		Enabled:           v.GetBool("ENABLE_EXPORTS"),
		WorkerConcurrency: v.GetInt("EXPORTS_WORKER_CONCURRENCY"),
		WorkerRetries:     v.GetInt("EXPORTS_WORKER_RETRIES"),
		CleanupInterval:   parseDuration(v.GetString("EXPORTS_CLEANUP_INTERVAL"), time.Hour),
	}

	cfg.Dashboard = DashboardConfig{
		CacheTTL: parseDuration(v.GetString("DASHBOARD_CACHE_TTL"), 5*time.Minute),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")
	v.SetDefault("HOTEL_NAME", "Harborview Hotel")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "hotel_backoffice")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("REFRESH_TOKEN_EXPIRATION", "168h")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("STORAGE_DRIVER", "local")
	v.SetDefault("STORAGE_LOCAL_DIR", "./uploads")
	v.SetDefault("MINIO_ENDPOINT", "")
	v.SetDefault("MINIO_ACCESS_KEY", "")
	v.SetDefault("MINIO_SECRET_KEY", "")
	v.SetDefault("MINIO_BUCKET", "backoffice")
	v.SetDefault("MINIO_USE_SSL", false)
	v.SetDefault("STORAGE_SIGNED_URL_SECRET", "dev_storage_secret")
	v.SetDefault("STORAGE_SIGNED_URL_TTL", "30m")

	v.SetDefault("UPLOADS_MAX_FILE_SIZE", 5*1024*1024)

	v.SetDefault("ENABLE_EXPORTS", true)
	v.SetDefault("EXPORTS_WORKER_CONCURRENCY", 1)
	v.SetDefault("EXPORTS_WORKER_RETRIES", 3)
	v.SetDefault("EXPORTS_CLEANUP_INTERVAL", "1h")

	v.SetDefault("DASHBOARD_CACHE_TTL", "5m")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
