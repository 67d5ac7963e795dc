// Package config loads application settings from an optional JSON file,
// a .env file and environment variables, in that order of precedence.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Settings holds the full application configuration.
type Settings struct {
	Server     ServerConfig     `json:"server"`
	Storage    StorageConfig    `json:"storage"`
	Database   DatabaseConfig   `json:"database"`
	Extraction ExtractionConfig `json:"extraction"`
	Features   FeatureConfig    `json:"features"`
	Log        LogConfig        `json:"log"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host            string `json:"host" envconfig:"HOST"`
	Port            int    `json:"port" envconfig:"PORT"`
	ShutdownTimeout int    `json:"shutdownTimeout" envconfig:"SHUTDOWN_TIMEOUT"`
	AllowedOrigins  string `json:"allowedOrigins" envconfig:"ALLOWED_ORIGINS"`
}

// StorageConfig selects and configures the asset storage backend.
type StorageConfig struct {
	Provider       string `json:"provider" envconfig:"STORAGE_PROVIDER"`
	LocalBasePath  string `json:"localBasePath" envconfig:"STORAGE_LOCAL_PATH"`
	Bucket         string `json:"bucket" envconfig:"STORAGE_BUCKET"`
	Prefix         string `json:"prefix" envconfig:"STORAGE_PREFIX"`
	Region         string `json:"region" envconfig:"STORAGE_REGION"`
	AccessKey      string `json:"accessKey" envconfig:"STORAGE_ACCESS_KEY"`
	SecretKey      string `json:"secretKey" envconfig:"STORAGE_SECRET_KEY"`
	CredentialFile string `json:"credentialFile" envconfig:"STORAGE_CREDENTIAL_FILE"`
}

// ProviderConfig flattens the backend settings into the key/value form
// storage providers initialize from.
func (s StorageConfig) ProviderConfig() map[string]string {
	return map[string]string{
		"basePath":       s.LocalBasePath,
		"bucket":         s.Bucket,
		"prefix":         s.Prefix,
		"region":         s.Region,
		"accessKey":      s.AccessKey,
		"secretKey":      s.SecretKey,
		"credentialFile": s.CredentialFile,
	}
}

// DatabaseConfig configures the metadata repository.
type DatabaseConfig struct {
	Driver string `json:"driver" envconfig:"DB_DRIVER"`
	DSN    string `json:"dsn" envconfig:"DB_DSN"`
}

// ExtractionConfig tunes extraction runs.
type ExtractionConfig struct {
	EnableParallel     bool `json:"enableParallel" envconfig:"EXTRACT_PARALLEL"`
	PerExtractorSecs   int  `json:"perExtractorTimeoutSeconds" envconfig:"EXTRACT_TIMEOUT_SECONDS"`
	OverallSecs        int  `json:"overallTimeoutSeconds" envconfig:"EXTRACT_OVERALL_TIMEOUT_SECONDS"`
	PostWorkers        int  `json:"postWorkers" envconfig:"EXTRACT_POST_WORKERS"`
	PostQueueSize      int  `json:"postQueueSize" envconfig:"EXTRACT_POST_QUEUE"`
	MaxShapesPerSlide  int  `json:"maxShapesPerSlide" envconfig:"EXTRACT_MAX_SHAPES"`
	MaxGroupDepth      int  `json:"maxGroupDepth" envconfig:"EXTRACT_MAX_GROUP_DEPTH"`
	ValidateOutput     bool `json:"validateOutput" envconfig:"EXTRACT_VALIDATE"`
	SignedURLExpiryMin int  `json:"signedUrlExpiryMinutes" envconfig:"SIGNED_URL_EXPIRY_MINUTES"`
}

// FeatureConfig contains feature flags.
type FeatureConfig struct {
	EnableCloudStorage    bool `json:"enableCloudStorage" envconfig:"ENABLE_CLOUD_STORAGE"`
	EnableProgressUpdates bool `json:"enableProgressUpdates" envconfig:"ENABLE_PROGRESS_UPDATES"`
	EnablePersistence     bool `json:"enablePersistence" envconfig:"ENABLE_PERSISTENCE"`
}

// LogConfig configures the structured logger.
type LogConfig struct {
	Level  string `json:"level" envconfig:"LOG_LEVEL"`
	Format string `json:"format" envconfig:"LOG_FORMAT"`
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ShutdownTimeout: 30,
		},
		Storage: StorageConfig{
			Provider:      "local",
			LocalBasePath: "./assets",
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			DSN:    "./slideconv.db",
		},
		Extraction: ExtractionConfig{
			EnableParallel:     true,
			PerExtractorSecs:   30,
			OverallSecs:        120,
			PostWorkers:        runtime.NumCPU(),
			PostQueueSize:      64,
			MaxShapesPerSlide:  500,
			MaxGroupDepth:      16,
			SignedURLExpiryMin: 60,
		},
		Features: FeatureConfig{
			EnableCloudStorage:    true,
			EnableProgressUpdates: true,
			EnablePersistence:     true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads settings: built-in defaults, then an optional JSON file,
// then .env and environment variables with the SLIDECONV prefix.
// Environment wins.
func Load(configFile string) (*Settings, error) {
	settings := Default()

	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			data, err := os.ReadFile(configFile)
			if err != nil {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
			if err := json.Unmarshal(data, &settings); err != nil {
				return nil, fmt.Errorf("error parsing config file: %w", err)
			}
		}
	}

	// .env never overrides variables already set in the environment.
	_ = godotenv.Load()

	if err := envconfig.Process("slideconv", &settings); err != nil {
		return nil, fmt.Errorf("error processing environment: %w", err)
	}

	if err := ensureDirectoriesExist(&settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

func ensureDirectoriesExist(settings *Settings) error {
	if settings.Storage.Provider != "local" {
		return nil
	}
	dir := settings.Storage.LocalBasePath
	if dir == "" {
		return nil
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Clean(dir)
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create storage directory %s: %w", dir, err)
		}
	}
	return nil
}
