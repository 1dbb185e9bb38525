// Package config loads and validates the aggregator configuration.
package config

import (
	"fmt"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config represents the application configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Sources    SourcesConfig    `mapstructure:"sources"`
	Sync       SyncConfig       `mapstructure:"sync"`
	Monitoring MonitoringConfig `mapstructure:"monitoring"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host            string        `mapstructure:"host" default:"0.0.0.0"`
	Port            int           `mapstructure:"port" default:"8080" validate:"gt=0,lte=65535"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" default:"15s"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" default:"30s"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout" default:"60s"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" default:"30s"`
}

// DatabaseConfig contains connection settings for one PostgreSQL database.
type DatabaseConfig struct {
	Host     string `mapstructure:"host" default:"localhost" validate:"required"`
	Port     int    `mapstructure:"port" default:"5432"`
	User     string `mapstructure:"user" validate:"required"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database" validate:"required"`
	SSLMode  string `mapstructure:"ssl_mode" default:"disable"`
}

// SourcesConfig holds one read-only connection per cloud provider.
type SourcesConfig struct {
	Huawei  DatabaseConfig `mapstructure:"huawei"`
	Tencent DatabaseConfig `mapstructure:"tencent"`
}

// SyncConfig contains synchronization engine settings.
type SyncConfig struct {
	// Interval between scheduled cycles; zero disables the scheduler.
	Interval time.Duration `mapstructure:"interval" default:"1h"`
	// ImmediateSync runs one cycle on startup before the first tick.
	ImmediateSync bool `mapstructure:"immediate_sync"`
	// MaxAttempts is the whole-cycle retry budget.
	MaxAttempts int `mapstructure:"max_attempts" default:"3" validate:"gte=1"`
	// RetryDelay is the fixed pause between whole-cycle retries.
	RetryDelay time.Duration `mapstructure:"retry_delay" default:"5s"`
	// CycleTimeout bounds one scheduled cycle end to end.
	CycleTimeout time.Duration `mapstructure:"cycle_timeout" default:"10m"`
	// StrictValidation escalates post-write validation failures into
	// cycle failures instead of logging them.
	StrictValidation bool `mapstructure:"strict_validation"`
	// ExpiryThresholdDays is the default window for the expiring-resources
	// query when the caller does not pass one.
	ExpiryThresholdDays int `mapstructure:"expiry_threshold_days" default:"65" validate:"gte=0"`
}

// MonitoringConfig contains metrics settings.
type MonitoringConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level      string `mapstructure:"level" default:"info"`
	Format     string `mapstructure:"format" default:"json"`
	OutputPath string `mapstructure:"output_path" default:"stdout"`
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Defaults are applied before unmarshalling: a value set explicitly in
	// the file, including a zero value like sync.interval: 0, must survive.
	var config Config
	if err := defaults.Set(&config); err != nil {
		return nil, fmt.Errorf("failed to apply config defaults: %w", err)
	}

	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// GetConnectionString returns a PostgreSQL connection string.
func (c *DatabaseConfig) GetConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}
