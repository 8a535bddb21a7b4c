// Package config provides configuration management for the dashboard server.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/spektr-org/promodash/dashboard"
	"github.com/spektr-org/promodash/dataset"
)

// EnvPrefix prefixes every environment override, e.g. PROMODASH_SERVER_PORT.
const EnvPrefix = "PROMODASH"

// Config holds all configuration for the dashboard server.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Data        DataConfig        `mapstructure:"data"`
	Dashboard   DashboardConfig   `mapstructure:"dashboard"`
	RateLimiter RateLimiterConfig `mapstructure:"rate_limiter"`
	Metrics     MetricsConfig     `mapstructure:"metrics"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
}

// DataConfig locates the input datasets. Relative file names resolve
// against Dir.
type DataConfig struct {
	Dir                string `mapstructure:"dir"`
	PriorityFile       string `mapstructure:"priority_file"`
	TypeEfficiencyFile string `mapstructure:"type_efficiency_file"`
	DeptEfficiencyFile string `mapstructure:"dept_efficiency_file"`
	HeaderRows         int    `mapstructure:"header_rows"`
	Preload            bool   `mapstructure:"preload"`
}

// DashboardConfig tunes the rendered panels.
type DashboardConfig struct {
	Title          string `mapstructure:"title"`
	RankingLimit   int    `mapstructure:"ranking_limit"`
	DeptChartLimit int    `mapstructure:"dept_chart_limit"`
	CurrencySymbol string `mapstructure:"currency_symbol"`
	ChartWidth     int    `mapstructure:"chart_width"`
	ChartHeight    int    `mapstructure:"chart_height"`
}

// RateLimiterConfig holds rate limiter configuration.
type RateLimiterConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	BurstSize         int     `mapstructure:"burst_size"`
}

// MetricsConfig holds Prometheus metrics configuration.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port"`
	Path    string `mapstructure:"path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// Load reads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/promodash/")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// A missing default config file is fine; an explicit one must exist.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "30s")
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Data defaults
	v.SetDefault("data.dir", "data")
	v.SetDefault("data.priority_file", dataset.DefaultPriorityFile)
	v.SetDefault("data.type_efficiency_file", dataset.DefaultTypeEfficiencyFile)
	v.SetDefault("data.dept_efficiency_file", dataset.DefaultDeptEfficiencyFile)
	v.SetDefault("data.header_rows", 1)
	v.SetDefault("data.preload", true)

	// Dashboard defaults
	def := dashboard.DefaultOptions()
	v.SetDefault("dashboard.title", "Promotional Action Optimization")
	v.SetDefault("dashboard.ranking_limit", def.RankingLimit)
	v.SetDefault("dashboard.dept_chart_limit", def.DeptChartLimit)
	v.SetDefault("dashboard.currency_symbol", def.CurrencySymbol)
	v.SetDefault("dashboard.chart_width", 640)
	v.SetDefault("dashboard.chart_height", 360)

	// Rate limiter defaults
	v.SetDefault("rate_limiter.enabled", true)
	v.SetDefault("rate_limiter.requests_per_second", 100.0)
	v.SetDefault("rate_limiter.burst_size", 50)

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("metrics.path", "/metrics")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Data.PriorityFile == "" || c.Data.TypeEfficiencyFile == "" || c.Data.DeptEfficiencyFile == "" {
		return fmt.Errorf("all three dataset files are required")
	}

	if c.Data.HeaderRows < 1 {
		return fmt.Errorf("data header rows must be at least 1, got %d", c.Data.HeaderRows)
	}

	if c.Dashboard.RankingLimit <= 0 {
		return fmt.Errorf("dashboard ranking limit must be positive")
	}

	if c.Dashboard.DeptChartLimit <= 0 {
		return fmt.Errorf("dashboard department chart limit must be positive")
	}

	if c.RateLimiter.Enabled {
		if c.RateLimiter.RequestsPerSecond <= 0 {
			return fmt.Errorf("rate limiter requests per second must be positive")
		}
		if c.RateLimiter.BurstSize <= 0 {
			return fmt.Errorf("rate limiter burst size must be positive")
		}
	}

	if c.Metrics.Enabled {
		if c.Metrics.Port <= 0 || c.Metrics.Port > 65535 {
			return fmt.Errorf("invalid metrics port: %d", c.Metrics.Port)
		}
		if c.Metrics.Port == c.Server.Port {
			return fmt.Errorf("metrics port must differ from server port (%d)", c.Server.Port)
		}
	}

	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("invalid logging format: %q", c.Logging.Format)
	}

	return nil
}

// Paths returns the dataset locations, joining relative names onto Dir.
func (d DataConfig) Paths() dataset.Paths {
	return dataset.Paths{
		Priority:       d.resolve(d.PriorityFile),
		TypeEfficiency: d.resolve(d.TypeEfficiencyFile),
		DeptEfficiency: d.resolve(d.DeptEfficiencyFile),
	}
}

func (d DataConfig) resolve(name string) string {
	if filepath.IsAbs(name) || d.Dir == "" {
		return name
	}
	return filepath.Join(d.Dir, name)
}

// Options converts the dashboard section into dashboard.Options.
func (d DashboardConfig) Options() dashboard.Options {
	return dashboard.Options{
		RankingLimit:   d.RankingLimit,
		DeptChartLimit: d.DeptChartLimit,
		CurrencySymbol: d.CurrencySymbol,
	}
}
