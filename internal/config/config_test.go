package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{Port: 8080},
		Data: DataConfig{
			Dir:                "data",
			PriorityFile:       "p.parquet",
			TypeEfficiencyFile: "t.parquet",
			DeptEfficiencyFile: "d.parquet",
			HeaderRows:         1,
		},
		Dashboard:   DashboardConfig{RankingLimit: 20, DeptChartLimit: 15},
		RateLimiter: RateLimiterConfig{Enabled: true, RequestsPerSecond: 10, BurstSize: 5},
		Metrics:     MetricsConfig{Enabled: true, Port: 9090, Path: "/metrics"},
		Logging:     LoggingConfig{Level: "info", Format: "json"},
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 120*time.Second, cfg.Server.IdleTimeout)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)

	assert.Equal(t, "data", cfg.Data.Dir)
	assert.Equal(t, "store_dept_priority.parquet", cfg.Data.PriorityFile)
	assert.Equal(t, 1, cfg.Data.HeaderRows)
	assert.True(t, cfg.Data.Preload)

	assert.Equal(t, 20, cfg.Dashboard.RankingLimit)
	assert.Equal(t, 15, cfg.Dashboard.DeptChartLimit)
	assert.Equal(t, "$", cfg.Dashboard.CurrencySymbol)

	assert.True(t, cfg.RateLimiter.Enabled)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, 9090, cfg.Metrics.Port)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PROMODASH_SERVER_PORT", "9000")
	t.Setenv("PROMODASH_DATA_DIR", "/srv/promo")
	t.Setenv("PROMODASH_DASHBOARD_RANKING_LIMIT", "5")
	t.Setenv("PROMODASH_SERVER_SHUTDOWN_TIMEOUT", "5s")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "/srv/promo", cfg.Data.Dir)
	assert.Equal(t, 5, cfg.Dashboard.RankingLimit)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "promodash.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 8181
data:
  dir: /var/lib/promodash
  header_rows: 2
  preload: false
dashboard:
  currency_symbol: "R$"
logging:
  format: console
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8181, cfg.Server.Port)
	assert.Equal(t, 2, cfg.Data.HeaderRows)
	assert.False(t, cfg.Data.Preload)
	assert.Equal(t, "R$", cfg.Dashboard.CurrencySymbol)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, 20, cfg.Dashboard.RankingLimit, "unset keys keep defaults")
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, validConfig().Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"server port", func(c *Config) { c.Server.Port = 0 }},
		{"missing file", func(c *Config) { c.Data.TypeEfficiencyFile = "" }},
		{"header rows", func(c *Config) { c.Data.HeaderRows = 0 }},
		{"ranking limit", func(c *Config) { c.Dashboard.RankingLimit = 0 }},
		{"dept chart limit", func(c *Config) { c.Dashboard.DeptChartLimit = -1 }},
		{"rate", func(c *Config) { c.RateLimiter.RequestsPerSecond = 0 }},
		{"burst", func(c *Config) { c.RateLimiter.BurstSize = 0 }},
		{"metrics port", func(c *Config) { c.Metrics.Port = 70000 }},
		{"port clash", func(c *Config) { c.Metrics.Port = c.Server.Port }},
		{"log format", func(c *Config) { c.Logging.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	t.Run("disabled sections skip checks", func(t *testing.T) {
		cfg := validConfig()
		cfg.RateLimiter = RateLimiterConfig{}
		cfg.Metrics = MetricsConfig{}
		assert.NoError(t, cfg.Validate())
	})
}

func TestDataPaths(t *testing.T) {
	d := DataConfig{
		Dir:                "data",
		PriorityFile:       "p.parquet",
		TypeEfficiencyFile: "/abs/t.csv",
		DeptEfficiencyFile: "d.parquet",
	}
	p := d.Paths()
	assert.Equal(t, filepath.Join("data", "p.parquet"), p.Priority)
	assert.Equal(t, "/abs/t.csv", p.TypeEfficiency)
	assert.Equal(t, filepath.Join("data", "d.parquet"), p.DeptEfficiency)
}

func TestDashboardOptions(t *testing.T) {
	opts := DashboardConfig{RankingLimit: 10, DeptChartLimit: 5, CurrencySymbol: "€"}.Options()
	assert.Equal(t, 10, opts.RankingLimit)
	assert.Equal(t, 5, opts.DeptChartLimit)
	assert.Equal(t, "€", opts.CurrencySymbol)
}
