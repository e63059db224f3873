package config

import (
	"os"
	"strconv"

	"orion/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Storage  StorageConfig
	Data     DataConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL     string
	SSLMode string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	OpsPort string
	GinMode string
	Pprof   bool
}

// StorageConfig holds file system paths for frames and model artifacts
type StorageConfig struct {
	DataDir   string
	ModelsDir string
}

// DataConfig holds data processing settings
type DataConfig struct {
	MaxUploadMB       int
	MaxGroups         int
	PreviewRows       int
	DiscreteThreshold int
	DiscreteRatio     float64
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Database: DatabaseConfig{
			URL:     os.Getenv("DATABASE_URL"),
			SSLMode: getEnvOrDefault("SSL_MODE", "disable"),
		},
		Server: ServerConfig{
			Port:    getEnvOrDefault("PORT", "8055"),
			OpsPort: getEnvOrDefault("OPS_PORT", "6060"),
			GinMode: getEnvOrDefault("GIN_MODE", "debug"),
			Pprof:   getEnvBoolOrDefault("PPROF_ENABLED", false),
		},
		Storage: StorageConfig{
			DataDir:   getEnvOrDefault("DATA_DIR", "./data"),
			ModelsDir: getEnvOrDefault("MODELS_DIR", "./models"),
		},
		Data: DataConfig{
			MaxUploadMB:       getEnvIntOrDefault("MAX_UPLOAD_MB", 100),
			MaxGroups:         getEnvIntOrDefault("MAX_GROUPS", 200),
			PreviewRows:       getEnvIntOrDefault("PREVIEW_ROWS", 50),
			DiscreteThreshold: getEnvIntOrDefault("DISCRETE_THRESHOLD", 30),
			DiscreteRatio:     getEnvFloatOrDefault("DISCRETE_RATIO", 0.02),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func validateConfig(config *Config) error {
	if config.Database.URL == "" {
		return errors.ConfigInvalid("DATABASE_URL is required")
	}
	if config.Data.MaxUploadMB <= 0 {
		return errors.ConfigInvalid("MAX_UPLOAD_MB must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
