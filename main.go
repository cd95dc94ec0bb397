package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"lightcone/app"
	"lightcone/hal"
	"lightcone/internal/buildinfo"
	"lightcone/internal/config"
	"lightcone/internal/logging"
	"lightcone/internal/report"
	"lightcone/spacetime"
)

type options struct {
	configPath  string
	watch       bool
	headless    hal.HeadlessConfig
	x, y        float64
	lang        string
	logLevel    string
	showVersion bool

	// set records which flags were given explicitly.
	set map[string]bool
}

func parseFlags(fs *flag.FlagSet, args []string) (*options, error) {
	o := &options{set: make(map[string]bool)}
	fs.StringVar(&o.configPath, "config", "", "YAML config file (optional).")
	fs.BoolVar(&o.watch, "watch", false, "Reload -config on change and redraw.")
	fs.BoolVar(&o.headless.Enabled, "headless", false, "Run without a window.")
	fs.IntVar(&o.headless.Hz, "hz", 60, "Tick rate in headless mode.")
	fs.Uint64Var(&o.headless.Ticks, "ticks", 1, "Stop after N ticks in headless mode (0 = until interrupted).")
	fs.Float64Var(&o.x, "x", config.DefaultX, "First space magnitude.")
	fs.Float64Var(&o.y, "y", config.DefaultY, "Second space magnitude.")
	fs.StringVar(&o.lang, "lang", string(config.DefaultLang), "Output language: de | en.")
	fs.StringVar(&o.logLevel, "log-level", config.DefaultLogLevel, "Log level: debug | info | warn | error.")
	fs.BoolVar(&o.showVersion, "version", false, "Print the version and exit.")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) { o.set[f.Name] = true })

	if o.watch && o.configPath == "" {
		return nil, errors.New("-watch requires -config")
	}
	return o, nil
}

// override applies explicitly given flags on top of c.
func (o *options) override(c *config.Config) {
	if o.set["x"] {
		c.Space.X = o.x
	}
	if o.set["y"] {
		c.Space.Y = o.y
	}
	if o.set["lang"] {
		c.Lang = report.Lang(o.lang)
	}
	if o.set["log-level"] {
		c.LogLevel = o.logLevel
	}
}

// loadConfig returns the defaults, or the file at o.configPath, with flag
// overrides applied and validated.
func (o *options) loadConfig() (*config.Config, error) {
	cfg := config.Defaults()
	if o.configPath != "" {
		var err error
		if cfg, err = config.Load(o.configPath); err != nil {
			return nil, err
		}
	}
	o.override(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet(buildinfo.Name, flag.ContinueOnError)
	o, err := parseFlags(fs, args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if o.showVersion {
		fmt.Fprintln(stdout, buildinfo.String())
		return nil
	}

	cfg, err := o.loadConfig()
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	tol := cfg.Tolerance.Tolerance()
	res := spacetime.Evaluate(cfg.Space.X, cfg.Space.Y, tol)
	log.Info("lightcone: evaluated",
		zap.String("version", buildinfo.Short()),
		zap.Float64("x", res.X),
		zap.Float64("y", res.Y),
		zap.Float64("ct", res.CT),
		zap.Bool("holds", res.Holds),
	)
	if err := report.Write(stdout, res, cfg.Lang); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var reload chan *config.Config
	if o.watch {
		reload = make(chan *config.Config, 1)
		go func() {
			err := config.Watch(ctx, o.configPath, log, func(c *config.Config) {
				o.override(c)
				if err := c.Validate(); err != nil {
					log.Error("config: reload rejected", zap.Error(err))
					return
				}
				offerLatest(reload, c)
			})
			if err != nil {
				log.Error("config: watcher stopped", zap.Error(err))
			}
		}()
	}

	appCfg := app.Config{
		Result:    res,
		Lang:      cfg.Lang,
		View:      app.ViewOf(cfg.View),
		Tolerance: tol,
		Reload:    reload,
		Out:       stdout,
		Log:       log,
	}
	opts := hal.Options{
		Width:  cfg.Window.Width,
		Height: cfg.Window.Height,
		Scale:  cfg.Window.Scale,
		TPS:    cfg.Window.TPS,
		Title:  buildinfo.Title(),
		Logger: logging.HALLogger{L: log},
	}
	newApp := func(h hal.HAL) func() error {
		return app.New(h, appCfg)
	}

	if o.headless.Enabled {
		err := hal.RunHeadless(ctx, opts, newApp, o.headless)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}
	return hal.RunWindow(opts, newApp)
}

// offerLatest sends c on ch, replacing a pending value the render loop has
// not picked up yet.
func offerLatest(ch chan *config.Config, c *config.Config) {
	for {
		select {
		case ch <- c:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}
