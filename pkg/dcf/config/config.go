// Package config loads dcf settings from defaults, an optional YAML file
// and DCF_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/komsit37/dcf/pkg/dcf/basket"
	"github.com/komsit37/dcf/pkg/dcf/valuation"
)

// EnvPrefix prefixes every environment override, e.g. DCF_BASKET_CONCURRENCY.
const EnvPrefix = "DCF"

// Config represents the complete application configuration.
type Config struct {
	Assumptions AssumptionsConfig `mapstructure:"assumptions" yaml:"assumptions"`
	Basket      BasketConfig      `mapstructure:"basket"      yaml:"basket"`
	Quotes      QuotesConfig      `mapstructure:"quotes"      yaml:"quotes"`
	Render      RenderConfig      `mapstructure:"render"      yaml:"render"`
	Logging     LoggingConfig     `mapstructure:"logging"     yaml:"logging"`
	Trace       TraceConfig       `mapstructure:"trace"       yaml:"trace"`
}

// AssumptionsConfig holds the macro inputs of the model. Rates are fractions.
type AssumptionsConfig struct {
	RiskFreeRate        float64 `mapstructure:"risk_free_rate"         yaml:"risk_free_rate"`
	MarketReturn        float64 `mapstructure:"market_return"          yaml:"market_return"`
	TerminalGrowthRate  float64 `mapstructure:"terminal_growth_rate"   yaml:"terminal_growth_rate"`
	DefaultGrowthRate   float64 `mapstructure:"default_growth_rate"    yaml:"default_growth_rate"`
	DefaultBeta         float64 `mapstructure:"default_beta"           yaml:"default_beta"`
	DefaultCostOfEquity float64 `mapstructure:"default_cost_of_equity" yaml:"default_cost_of_equity"`
	DefaultTaxRate      float64 `mapstructure:"default_tax_rate"       yaml:"default_tax_rate"`
	WACCFloorSpread     float64 `mapstructure:"wacc_floor_spread"      yaml:"wacc_floor_spread"`
	Variant             string  `mapstructure:"variant"                yaml:"variant"` // "extended" or "simple"
}

// BasketConfig holds basket comparison settings.
type BasketConfig struct {
	Concurrency int    `mapstructure:"concurrency" yaml:"concurrency"`
	Sort        string `mapstructure:"sort"        yaml:"sort"`
}

// QuotesConfig holds live price lookup settings.
type QuotesConfig struct {
	Enabled   bool          `mapstructure:"enabled"    yaml:"enabled"`
	Timeout   time.Duration `mapstructure:"timeout"    yaml:"timeout"`
	CacheTTL  time.Duration `mapstructure:"cache_ttl"  yaml:"cache_ttl"`
	CacheSize int           `mapstructure:"cache_size" yaml:"cache_size"`
}

// RenderConfig holds output settings.
type RenderConfig struct {
	Format      string `mapstructure:"format"        yaml:"format"`        // "table", "detail", "json" or "tickers"
	MaxColWidth int    `mapstructure:"max_col_width" yaml:"max_col_width"` // 0 derives it from the terminal
	Millions    bool   `mapstructure:"millions"      yaml:"millions"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "console" or "json"
}

type TraceConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
}

// Load reads the configuration. With an empty path it looks for dcf.yaml in
// the working directory and in ~/.config/dcf, and a missing file is fine.
// Environment variables override file values.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("dcf")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(filepath.Join(homeDir(), ".config", "dcf"))
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Default returns the configuration with every default applied.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Defaults always decode.
	_ = v.Unmarshal(&cfg)
	return &cfg
}

func setDefaults(v *viper.Viper) {
	d := valuation.DefaultAssumptions()
	v.SetDefault("assumptions.risk_free_rate", d.RiskFreeRate)
	v.SetDefault("assumptions.market_return", d.MarketReturn)
	v.SetDefault("assumptions.terminal_growth_rate", d.TerminalGrowthRate)
	v.SetDefault("assumptions.default_growth_rate", d.DefaultGrowthRate)
	v.SetDefault("assumptions.default_beta", d.DefaultBeta)
	v.SetDefault("assumptions.default_cost_of_equity", d.DefaultCostOfEquity)
	v.SetDefault("assumptions.default_tax_rate", d.DefaultTaxRate)
	v.SetDefault("assumptions.wacc_floor_spread", d.WACCFloorSpread)
	v.SetDefault("assumptions.variant", string(d.Variant))

	v.SetDefault("basket.concurrency", 4)
	v.SetDefault("basket.sort", string(basket.ByUpside))

	v.SetDefault("quotes.enabled", false)
	v.SetDefault("quotes.timeout", 5*time.Second)
	v.SetDefault("quotes.cache_ttl", 5*time.Minute)
	v.SetDefault("quotes.cache_size", 256)

	v.SetDefault("render.format", "table")
	v.SetDefault("render.max_col_width", 0)
	v.SetDefault("render.millions", true)

	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.format", "console")

	v.SetDefault("trace.enabled", false)
}

// ValuationAssumptions converts the assumptions section for the engine.
func (c *Config) ValuationAssumptions() (valuation.Assumptions, error) {
	variant, err := valuation.ParseVariant(c.Assumptions.Variant)
	if err != nil {
		return valuation.Assumptions{}, err
	}
	a := c.Assumptions
	return valuation.Assumptions{
		RiskFreeRate:        a.RiskFreeRate,
		MarketReturn:        a.MarketReturn,
		TerminalGrowthRate:  a.TerminalGrowthRate,
		DefaultGrowthRate:   a.DefaultGrowthRate,
		DefaultBeta:         a.DefaultBeta,
		DefaultCostOfEquity: a.DefaultCostOfEquity,
		DefaultTaxRate:      a.DefaultTaxRate,
		WACCFloorSpread:     a.WACCFloorSpread,
		Variant:             variant,
	}, nil
}

// Validate reports every invalid setting at once. A market return below the
// risk-free rate is accepted.
func (c *Config) Validate() error {
	var errs []error
	a, err := c.ValuationAssumptions()
	if err != nil {
		errs = append(errs, err)
	} else if err := a.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Basket.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("basket.concurrency must be at least 1, got %d", c.Basket.Concurrency))
	}
	if _, err := basket.ParseSortKey(c.Basket.Sort); err != nil {
		errs = append(errs, err)
	}
	switch c.Render.Format {
	case "table", "detail", "json", "tickers":
	default:
		errs = append(errs, fmt.Errorf("render.format %q (want table, detail, json or tickers)", c.Render.Format))
	}
	if c.Render.MaxColWidth < 0 {
		errs = append(errs, errors.New("render.max_col_width must not be negative"))
	}
	if c.Quotes.Enabled {
		if c.Quotes.Timeout <= 0 {
			errs = append(errs, errors.New("quotes.timeout must be positive"))
		}
		if c.Quotes.CacheSize < 1 {
			errs = append(errs, errors.New("quotes.cache_size must be at least 1"))
		}
	}
	return errors.Join(errs...)
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
