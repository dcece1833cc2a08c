package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	productionCatalogURL = "https://rebilt-backend.onrender.com/api/v1"
	localCatalogURL      = "http://localhost:3000/api/v1"
)

type Config struct {
	Port        string
	Environment string
	Catalog     CatalogConfig
	Cloudinary  CloudinaryConfig
	Upload      UploadConfig
	Audit       AuditConfig
	Database    DatabaseConfig
	Mongo       MongoConfig
	LogLevel    string
}

// CatalogConfig points at the remote catalog REST API
type CatalogConfig struct {
	BaseURL string
	Timeout time.Duration
}

// CloudinaryConfig is used for unsigned preset uploads
type CloudinaryConfig struct {
	APIURL       string // e.g. https://api.cloudinary.com/v1_1
	CloudName    string
	UploadPreset string
	Timeout      time.Duration
}

// UploadConfig holds the tier policy inputs and fan-out settings
type UploadConfig struct {
	ImageFormats []string
	ModelFormats []string // pro tier only
	Concurrency  int
	JoinMode     string // best-effort or fail-fast
}

// AuditConfig selects where submission events are stored
type AuditConfig struct {
	Enabled bool
	Driver  string // postgres or mongo
}

type MongoConfig struct {
	URI      string
	Database string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

func Load() (*Config, error) {
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("LOG_LEVEL", "info")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read .env file (optional)
	if err := viper.ReadInConfig(); err != nil {
		// It's okay if .env doesn't exist, we'll use env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	environment := getEnvOrViper("ENVIRONMENT", "development")
	defaultCatalogURL := productionCatalogURL
	if environment == "local" {
		defaultCatalogURL = localCatalogURL
	}

	catalogTimeout, err := time.ParseDuration(getEnvOrViper("CATALOG_API_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid CATALOG_API_TIMEOUT: %w", err)
	}
	uploadTimeout, err := time.ParseDuration(getEnvOrViper("CLOUDINARY_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid CLOUDINARY_TIMEOUT: %w", err)
	}
	concurrency, err := strconv.Atoi(getEnvOrViper("UPLOAD_CONCURRENCY", "4"))
	if err != nil || concurrency < 1 {
		return nil, fmt.Errorf("invalid UPLOAD_CONCURRENCY: must be a positive integer")
	}

	cfg := &Config{
		Port:        getEnvOrViper("PORT", "8080"),
		Environment: environment,
		Catalog: CatalogConfig{
			BaseURL: strings.TrimSpace(getEnvOrViper("CATALOG_API_URL", defaultCatalogURL)),
			Timeout: catalogTimeout,
		},
		Cloudinary: CloudinaryConfig{
			APIURL:       strings.TrimSpace(getEnvOrViper("CLOUDINARY_API_URL", "https://api.cloudinary.com/v1_1")),
			CloudName:    strings.TrimSpace(getEnvOrViper("CLOUDINARY_CLOUD_NAME", "")),
			UploadPreset: strings.TrimSpace(getEnvOrViper("CLOUDINARY_UPLOAD_PRESET", "")),
			Timeout:      uploadTimeout,
		},
		Upload: UploadConfig{
			ImageFormats: splitList(getEnvOrViper("UPLOAD_IMAGE_FORMATS", "jpg,jpeg,png,gif,bmp,webp")),
			ModelFormats: splitList(getEnvOrViper("UPLOAD_MODEL_FORMATS", "glb,gltf")),
			Concurrency:  concurrency,
			JoinMode:     getEnvOrViper("UPLOAD_JOIN_MODE", "best-effort"),
		},
		Audit: AuditConfig{
			Enabled: getEnvOrViper("AUDIT_ENABLED", "false") == "true",
			Driver:  strings.ToLower(getEnvOrViper("AUDIT_DRIVER", "postgres")),
		},
		Database: DatabaseConfig{
			Host:     getEnvOrViper("DB_HOST", "localhost"),
			Port:     getEnvOrViper("DB_PORT", "5432"),
			User:     getEnvOrViper("DB_USER", "postgres"),
			Password: getEnvOrViper("DB_PASSWORD", "postgres"),
			DBName:   getEnvOrViper("DB_NAME", "catalogadmin"),
			SSLMode:  getEnvOrViper("DB_SSLMODE", "disable"),
		},
		Mongo: MongoConfig{
			URI:      getEnvOrViper("MONGO_URI", ""),
			Database: getEnvOrViper("MONGO_DB", "catalogadmin"),
		},
		LogLevel: getEnvOrViper("LOG_LEVEL", "info"),
	}

	// Validate required fields
	if cfg.Cloudinary.CloudName == "" {
		return nil, fmt.Errorf("CLOUDINARY_CLOUD_NAME is required")
	}
	if cfg.Cloudinary.UploadPreset == "" {
		return nil, fmt.Errorf("CLOUDINARY_UPLOAD_PRESET is required")
	}
	if cfg.Upload.JoinMode != "best-effort" && cfg.Upload.JoinMode != "fail-fast" {
		return nil, fmt.Errorf("UPLOAD_JOIN_MODE must be best-effort or fail-fast, got %q", cfg.Upload.JoinMode)
	}

	if cfg.Audit.Enabled {
		switch cfg.Audit.Driver {
		case "postgres":
		case "mongo":
			if cfg.Mongo.URI == "" {
				return nil, fmt.Errorf("MONGO_URI is required when AUDIT_DRIVER=mongo")
			}
		default:
			return nil, fmt.Errorf("AUDIT_DRIVER must be postgres or mongo, got %q", cfg.Audit.Driver)
		}
	}

	return cfg, nil
}

func getEnvOrViper(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return defaultValue
}

// splitList turns "glb, GLTF,obj" into [glb gltf obj]
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(part), "."))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
