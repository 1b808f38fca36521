package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/komsit37/dcf/pkg/dcf/basket"
	"github.com/komsit37/dcf/pkg/dcf/config"
	"github.com/komsit37/dcf/pkg/dcf/enrich"
	"github.com/komsit37/dcf/pkg/dcf/logging"
	"github.com/komsit37/dcf/pkg/dcf/pipeline"
	"github.com/komsit37/dcf/pkg/dcf/render"
	"github.com/komsit37/dcf/pkg/dcf/source"
	"github.com/komsit37/dcf/pkg/dcf/trace"
	"github.com/komsit37/dcf/pkg/dcf/valuation"
)

// app holds the state shared by every subcommand.
type app struct {
	configPath string
	envFile    string
	logLevel   string
	logFormat  string
	variant    string
	traceOn    bool

	cfg    *config.Config
	log    *zap.Logger
	engine *valuation.Engine
}

func (a *app) bindGlobal(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.StringVar(&a.configPath, "config", "", "config file (default ./dcf.yaml or ~/.config/dcf/dcf.yaml)")
	f.StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded before the config")
	f.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	f.StringVar(&a.logFormat, "log-format", "", "log format: console or json")
	f.StringVar(&a.variant, "variant", "", "model variant: extended or simple")
	f.BoolVar(&a.traceOn, "trace", false, "print OpenTelemetry spans to stderr")
}

func (a *app) setup(cmd *cobra.Command) error {
	if a.envFile != "" {
		if err := godotenv.Load(a.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", a.envFile, err)
		}
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Logging.Level = a.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Logging.Format = a.logFormat
	}
	if flags.Changed("variant") {
		cfg.Assumptions.Variant = a.variant
	}
	if flags.Changed("trace") {
		cfg.Trace.Enabled = a.traceOn
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	a.cfg = cfg

	log, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return err
	}
	zap.ReplaceGlobals(log)
	a.log = log

	if cfg.Trace.Enabled {
		if err := trace.Init(os.Stderr, version); err != nil {
			return fmt.Errorf("init tracing: %w", err)
		}
	}

	assumptions, err := cfg.ValuationAssumptions()
	if err != nil {
		return err
	}
	a.engine, err = valuation.New(
		valuation.WithAssumptions(assumptions),
		valuation.WithLogger(log.Named("valuation")),
	)
	return err
}

func (a *app) close(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	var errs []error
	if trace.Enabled() {
		errs = append(errs, trace.Shutdown(ctx))
	}
	if a.log != nil {
		// Sync returns EINVAL when stderr is a terminal.
		_ = a.log.Sync()
	}
	return errors.Join(errs...)
}

// prices returns the live quote service, or nil when quotes are off.
func (a *app) prices(enabled bool) enrich.PriceService {
	if !enabled {
		return nil
	}
	q := a.cfg.Quotes
	return enrich.NewCacheService(enrich.NewYFService(q.Timeout), q.CacheTTL, q.CacheSize)
}

func (a *app) runner(r render.Renderer, quotes bool, w io.Writer) *pipeline.Runner {
	return &pipeline.Runner{
		Source: source.FileSource{},
		Basket: basket.Runner{
			Valuer:      a.engine,
			Prices:      a.prices(quotes),
			Concurrency: a.cfg.Basket.Concurrency,
			Log:         a.log.Named("basket"),
		},
		Renderer: r,
		Writer:   w,
	}
}
