package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/komsit37/dcf/pkg/dcf/valuation"
)

func TestDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	a, err := cfg.ValuationAssumptions()
	require.NoError(t, err)
	assert.Equal(t, valuation.DefaultAssumptions(), a)

	assert.Equal(t, 4, cfg.Basket.Concurrency)
	assert.Equal(t, "upside", cfg.Basket.Sort)
	assert.False(t, cfg.Quotes.Enabled)
	assert.Equal(t, 5*time.Second, cfg.Quotes.Timeout)
	assert.Equal(t, 5*time.Minute, cfg.Quotes.CacheTTL)
	assert.Equal(t, "table", cfg.Render.Format)
	assert.True(t, cfg.Render.Millions)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFileAndEnv(t *testing.T) {
	p := filepath.Join(t.TempDir(), "dcf.yaml")
	require.NoError(t, os.WriteFile(p, []byte(`
assumptions:
  risk_free_rate: 0.04
  variant: simple
quotes:
  enabled: true
  timeout: 30s
render:
  format: json
`), 0o644))
	t.Setenv("DCF_BASKET_CONCURRENCY", "8")
	t.Setenv("DCF_ASSUMPTIONS_MARKET_RETURN", "0.09")

	cfg, err := Load(p)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	a, err := cfg.ValuationAssumptions()
	require.NoError(t, err)
	assert.Equal(t, 0.04, a.RiskFreeRate)
	assert.Equal(t, 0.09, a.MarketReturn)
	assert.Equal(t, valuation.VariantSimple, a.Variant)
	assert.Equal(t, 0.025, a.TerminalGrowthRate, "untouched keys keep defaults")

	assert.Equal(t, 8, cfg.Basket.Concurrency)
	assert.True(t, cfg.Quotes.Enabled)
	assert.Equal(t, 30*time.Second, cfg.Quotes.Timeout)
	assert.Equal(t, "json", cfg.Render.Format)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"negative premium allowed", func(c *Config) { c.Assumptions.RiskFreeRate = 0.1 }, ""},
		{"negative terminal growth", func(c *Config) { c.Assumptions.TerminalGrowthRate = -0.01 }, "terminal growth rate"},
		{"zero floor spread", func(c *Config) { c.Assumptions.WACCFloorSpread = 0 }, "wacc floor spread"},
		{"unknown variant", func(c *Config) { c.Assumptions.Variant = "fancy" }, "unknown model variant"},
		{"zero concurrency", func(c *Config) { c.Basket.Concurrency = 0 }, "basket.concurrency"},
		{"bad sort", func(c *Config) { c.Basket.Sort = "pe" }, "unknown sort key"},
		{"bad format", func(c *Config) { c.Render.Format = "csv" }, "render.format"},
		{"quotes without cache", func(c *Config) { c.Quotes.Enabled = true; c.Quotes.CacheSize = 0 }, "quotes.cache_size"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
