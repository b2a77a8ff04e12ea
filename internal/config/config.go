package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the full server configuration, sourced from environment variables
// (optionally seeded by a local .env file).
type Config struct {
	Port        string `mapstructure:"PORT"`
	Environment string `mapstructure:"ENVIRONMENT"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	CORSOrigins string `mapstructure:"CORS_ORIGINS"`

	JWTSecret   string        `mapstructure:"JWT_SECRET"`
	JWTIssuer   string        `mapstructure:"JWT_ISSUER"`
	JWTTokenTTL time.Duration `mapstructure:"JWT_TOKEN_TTL"`

	// StorageBackend selects where uploaded blobs live: "local" or "s3".
	StorageBackend  string `mapstructure:"STORAGE_BACKEND"`
	FileStoragePath string `mapstructure:"FILE_STORAGE_PATH"`
	MaxFileSizeMB   int64  `mapstructure:"MAX_FILE_SIZE_MB"`

	S3Endpoint  string `mapstructure:"S3_ENDPOINT"`
	S3Region    string `mapstructure:"S3_REGION"`
	S3Bucket    string `mapstructure:"S3_BUCKET"`
	S3AccessKey string `mapstructure:"S3_ACCESS_KEY"`
	S3SecretKey string `mapstructure:"S3_SECRET_KEY"`
	S3UseSSL    bool   `mapstructure:"S3_USE_SSL"`

	// RedisAddr enables the Redis-backed token blacklist; empty falls back to
	// the in-process blacklist.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`
}

// MaxUploadBytes returns the request body limit for file uploads.
func (c *Config) MaxUploadBytes() int64 {
	return c.MaxFileSizeMB << 20
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present, for local development.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load(".env")
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENVIRONMENT", "dev")
	v.SetDefault("DATABASE_URL", "postgres://localhost:5432/dataroom?sslmode=disable")
	v.SetDefault("CORS_ORIGINS", "http://localhost:5173")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_ISSUER", "dataroom")
	v.SetDefault("JWT_TOKEN_TTL", 7*24*time.Hour)
	v.SetDefault("STORAGE_BACKEND", "local")
	v.SetDefault("FILE_STORAGE_PATH", "./storage")
	v.SetDefault("MAX_FILE_SIZE_MB", 100)
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("S3_USE_SSL", true)
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_DB", 0)

	// AutomaticEnv alone does not surface env vars through Unmarshal, so every
	// key needs an explicit binding.
	for _, key := range []string{
		"PORT", "ENVIRONMENT", "DATABASE_URL", "CORS_ORIGINS",
		"JWT_SECRET", "JWT_ISSUER", "JWT_TOKEN_TTL",
		"STORAGE_BACKEND", "FILE_STORAGE_PATH", "MAX_FILE_SIZE_MB",
		"S3_ENDPOINT", "S3_REGION", "S3_BUCKET", "S3_ACCESS_KEY", "S3_SECRET_KEY", "S3_USE_SSL",
		"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
	} {
		_ = v.BindEnv(key)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		if c.Environment == "prod" {
			return fmt.Errorf("JWT_SECRET is required in prod")
		}
		c.JWTSecret = "dev-secret-change-in-production"
	}
	switch c.StorageBackend {
	case "local":
		if c.FileStoragePath == "" {
			return fmt.Errorf("FILE_STORAGE_PATH is required for local storage")
		}
	case "s3":
		if c.S3Endpoint == "" || c.S3Bucket == "" {
			return fmt.Errorf("S3_ENDPOINT and S3_BUCKET are required for s3 storage")
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q (want local or s3)", c.StorageBackend)
	}
	if c.MaxFileSizeMB <= 0 {
		return fmt.Errorf("MAX_FILE_SIZE_MB must be positive")
	}
	return nil
}
