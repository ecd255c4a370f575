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

// Storage drivers understood by the document store factory.
const (
	StorageDriverLocal = "local"
	StorageDriverS3    = "s3"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database    DatabaseConfig
	Redis       RedisConfig
	JWT         JWTConfig
	CORS        CORSConfig
	Log         LogConfig
	Storage     StorageConfig
	Uploads     UploadsConfig
	Schedules   SchedulesConfig
	Exports     ExportsConfig
	Cache       CacheConfig
	FileCleanup FileCleanupConfig
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
	Secret     string
	Expiration time.Duration
	Issuer     string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// StorageConfig selects where resident documents are written.
type StorageConfig struct {
	Driver     string
	LocalDir   string
	S3Bucket   string
	S3Region   string
	S3Endpoint string
	S3Prefix   string
	S3Access   string
	S3Secret   string
}

// UploadsConfig bounds multipart uploads.
type UploadsConfig struct {
	MaxPDFBytes   int64
	MaxExcelBytes int64
	MaxBatchFiles int
}

// SchedulesConfig bounds repeat schedule expansion.
type SchedulesConfig struct {
	MaxSpanDays int
}

// ExportsConfig configures roster exports and their signed download links.
type ExportsConfig struct {
	StorageDir      string
	SignedURLSecret string
	SignedURLTTL    time.Duration
	CleanupSpec     string
	PDFFontPath     string
}

// CacheConfig governs the Redis read-through cache.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

// FileCleanupConfig tunes the background queue that removes orphaned documents.
type FileCleanupConfig struct {
	Workers    int
	MaxRetries int
	RetryDelay time.Duration
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
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

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
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
		Issuer:     v.GetString("JWT_ISSUER"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Storage = StorageConfig{
		Driver:     strings.ToLower(v.GetString("STORAGE_DRIVER")),
		LocalDir:   v.GetString("STORAGE_LOCAL_DIR"),
		S3Bucket:   v.GetString("STORAGE_S3_BUCKET"),
		S3Region:   v.GetString("STORAGE_S3_REGION"),
		S3Endpoint: v.GetString("STORAGE_S3_ENDPOINT"),
		S3Prefix:   v.GetString("STORAGE_S3_PREFIX"),
		S3Access:   v.GetString("STORAGE_S3_ACCESS_KEY"),
		S3Secret:   v.GetString("STORAGE_S3_SECRET_KEY"),
	}

	maxPDF := v.GetInt64("UPLOAD_MAX_PDF_BYTES")
	if maxPDF <= 0 {
		maxPDF = 10 * 1024 * 1024
	}
	maxExcel := v.GetInt64("UPLOAD_MAX_EXCEL_BYTES")
	if maxExcel <= 0 {
		maxExcel = 5 * 1024 * 1024
	}
	cfg.Uploads = UploadsConfig{
		MaxPDFBytes:   maxPDF,
		MaxExcelBytes: maxExcel,
		MaxBatchFiles: v.GetInt("UPLOAD_MAX_BATCH_FILES"),
	}

	cfg.Schedules = SchedulesConfig{MaxSpanDays: v.GetInt("SCHEDULE_MAX_SPAN_DAYS")}

	cfg.Exports = ExportsConfig{
		StorageDir:      v.GetString("EXPORTS_STORAGE_DIR"),
		SignedURLSecret: v.GetString("EXPORTS_SIGNED_URL_SECRET"),
		SignedURLTTL:    parseDuration(v.GetString("EXPORTS_SIGNED_URL_TTL"), time.Hour),
		CleanupSpec:     v.GetString("EXPORTS_CLEANUP_CRON"),
		PDFFontPath:     v.GetString("EXPORTS_PDF_FONT"),
	}

	cfg.Cache = CacheConfig{
		Enabled: v.GetBool("ENABLE_CACHE"),
		TTL:     parseDuration(v.GetString("CACHE_TTL"), 5*time.Minute),
	}

	cfg.FileCleanup = FileCleanupConfig{
		Workers:    v.GetInt("FILE_CLEANUP_WORKERS"),
		MaxRetries: v.GetInt("FILE_CLEANUP_RETRIES"),
		RetryDelay: parseDuration(v.GetString("FILE_CLEANUP_RETRY_DELAY"), 2*time.Second),
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "dominest")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("JWT_ISSUER", "dominest-api")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("STORAGE_DRIVER", StorageDriverLocal)
	v.SetDefault("STORAGE_LOCAL_DIR", "./documents")
	v.SetDefault("STORAGE_S3_BUCKET", "")
	v.SetDefault("STORAGE_S3_REGION", "ap-northeast-2")
	v.SetDefault("STORAGE_S3_ENDPOINT", "")
	v.SetDefault("STORAGE_S3_PREFIX", "residents")

	v.SetDefault("UPLOAD_MAX_PDF_BYTES", 10*1024*1024)
	v.SetDefault("UPLOAD_MAX_EXCEL_BYTES", 5*1024*1024)
	v.SetDefault("UPLOAD_MAX_BATCH_FILES", 500)

	v.SetDefault("SCHEDULE_MAX_SPAN_DAYS", 366)

	v.SetDefault("EXPORTS_STORAGE_DIR", "./exports")
	v.SetDefault("EXPORTS_SIGNED_URL_SECRET", "dev_exports_secret")
	v.SetDefault("EXPORTS_SIGNED_URL_TTL", "1h")
	v.SetDefault("EXPORTS_CLEANUP_CRON", "0 */30 * * * *")
	v.SetDefault("EXPORTS_PDF_FONT", "")

	v.SetDefault("ENABLE_CACHE", false)
	v.SetDefault("CACHE_TTL", "5m")

	v.SetDefault("FILE_CLEANUP_WORKERS", 1)
	v.SetDefault("FILE_CLEANUP_RETRIES", 3)
	v.SetDefault("FILE_CLEANUP_RETRY_DELAY", "2s")
}

func isMissingFile(err error) bool {
	return strings.Contains(err.Error(), "no such file or directory")
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
