package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete filevault configuration.
//
// This structure captures all configurable aspects of the server:
//   - Logging configuration
//   - HTTP server settings
//   - Storage root for uploaded file bytes
//   - Metadata store selection and configuration (store-specific)
//   - Session store selection and configuration (store-specific)
//   - Content store selection and configuration (store-specific)
//
// Configuration sources (in order of precedence):
//  1. Environment variables (FILEVAULT_*)
//  2. Configuration file (YAML or TOML)
//  3. Default values
//
// Store Configuration Pattern:
// Each store backend defines its own option set. The Config struct holds
// type-specific sections (e.g. metadata.mongo, metadata.badger) and only
// the section matching the selected type is used; the factory functions in
// factories.go decode and validate the selected section.
type Config struct {
	// Logging controls log output behavior
	Logging LoggingConfig `mapstructure:"logging"`

	// Server contains HTTP server settings
	Server ServerConfig `mapstructure:"server"`

	// Storage controls where uploaded file bytes are placed
	Storage StorageConfig `mapstructure:"storage"`

	// Metadata specifies the metadata store type and type-specific options
	Metadata MetadataConfig `mapstructure:"metadata"`

	// Sessions specifies the session store type and type-specific options
	Sessions SessionsConfig `mapstructure:"sessions"`

	// Content specifies the content store type and type-specific options
	Content ContentConfig `mapstructure:"content"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is the minimum log level to output
	// Valid values: DEBUG, INFO, WARN, ERROR (case-insensitive)
	Level string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error"`

	// Output specifies where logs are written
	// Valid values: stdout, stderr, or a file path
	Output string `mapstructure:"output" validate:"required"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	// Port is the TCP port the HTTP server listens on
	Port int `mapstructure:"port" validate:"required,gte=1,lte=65535"`

	// ReadHeaderTimeout bounds how long the server waits for request headers
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" validate:"required,gt=0"`

	// IdleTimeout bounds how long idle keep-alive connections are kept open
	IdleTimeout time.Duration `mapstructure:"idle_timeout" validate:"required,gt=0"`

	// ShutdownTimeout is the maximum time to wait for graceful shutdown
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required,gt=0"`
}

// StorageConfig controls content path generation.
type StorageConfig struct {
	// Root is the base directory under which uploaded file bytes are
	// written, flat, one fresh unique name per upload
	Root string `mapstructure:"root" validate:"required"`
}

// MetadataConfig specifies metadata store configuration.
//
// The Type field determines which backend is used; only the corresponding
// type-specific section is read.
type MetadataConfig struct {
	// Type specifies which metadata store backend to use
	// Valid values: mongo, badger, memory
	Type string `mapstructure:"type" validate:"required,oneof=mongo badger memory"`

	// Mongo contains MongoDB-specific options (Type = "mongo")
	Mongo map[string]any `mapstructure:"mongo"`

	// Badger contains BadgerDB-specific options (Type = "badger")
	Badger map[string]any `mapstructure:"badger"`

	// Memory contains memory-specific options (Type = "memory")
	Memory map[string]any `mapstructure:"memory"`
}

// SessionsConfig specifies session store configuration.
type SessionsConfig struct {
	// Type specifies which session store backend to use
	// Valid values: redis, memory
	Type string `mapstructure:"type" validate:"required,oneof=redis memory"`

	// Redis contains Redis-specific options (Type = "redis")
	Redis map[string]any `mapstructure:"redis"`

	// Memory contains memory-specific options (Type = "memory")
	Memory map[string]any `mapstructure:"memory"`
}

// ContentConfig specifies content store configuration.
type ContentConfig struct {
	// Type specifies which content store backend to use
	// Valid values: filesystem, memory, s3
	Type string `mapstructure:"type" validate:"required,oneof=filesystem memory s3"`

	// Filesystem contains filesystem-specific options (Type = "filesystem")
	Filesystem map[string]any `mapstructure:"filesystem"`

	// Memory contains memory-specific options (Type = "memory")
	Memory map[string]any `mapstructure:"memory"`

	// S3 contains S3-specific options (Type = "s3")
	S3 map[string]any `mapstructure:"s3"`
}

// Load loads configuration from file, environment, and defaults.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (FILEVAULT_*)
//  2. Configuration file
//  3. Default values
//
// Parameters:
//   - configPath: Path to config file (empty string uses default location)
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: Configuration loading or validation error
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setupViper(v, configPath)

	if err := readConfigFile(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// setupViper configures environment variable and config file handling.
func setupViper(v *viper.Viper, configPath string) {
	// Environment variables use the FILEVAULT_ prefix with underscores.
	// Example: FILEVAULT_SERVER_PORT=5000
	v.SetEnvPrefix("FILEVAULT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(getConfigDir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
}

// readConfigFile reads the configuration file if it exists. A missing file
// is acceptable; everything then comes from environment and defaults.
func readConfigFile(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

// getConfigDir returns the configuration directory path.
//
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config, or falls back to the
// current directory if the home directory cannot be determined.
func getConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "filevault")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	return filepath.Join(home, ".config", "filevault")
}
