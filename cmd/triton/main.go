package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/indigo-web/triton"
	"github.com/indigo-web/triton/config"
	"github.com/indigo-web/triton/http/mime"
	"github.com/indigo-web/triton/router"
	"github.com/indigo-web/triton/static"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

type options struct {
	Addr    string
	Root    string
	Config  string
	MIME    string
	Timeout time.Duration
}

func main() {
	var (
		opts   options
		pretty bool
	)

	flag.StringVar(&opts.Addr, "addr", ":8080", "address to listen on")
	flag.StringVar(&opts.Root, "root", ".", "document root")
	flag.StringVar(&opts.Config, "config", "", "JSON config file overlaying the defaults")
	flag.StringVar(&opts.MIME, "mime", "", "file of `ext type` lines extending the MIME table")
	flag.DurationVar(&opts.Timeout, "timeout", 0, "idle connection timeout (overrides the config)")
	flag.BoolVar(&pretty, "pretty", false, "human-friendly console logs")
	flag.Parse()

	logger := newLogger(pretty)
	if err := run(&logger, opts); err != nil {
		logger.Fatal().Err(err).Msg("server failed")
	}
}

func newLogger(pretty bool) zerolog.Logger {
	if pretty {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
			With().Timestamp().Logger()
	}

	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}

func run(logger *zerolog.Logger, opts options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	table, err := loadMIME(cfg, opts.MIME)
	if err != nil {
		return err
	}

	handler, err := static.New(opts.Root, cfg.Static.Index, table)
	if err != nil {
		return err
	}

	app := triton.New(opts.Addr).
		Tune(cfg).
		NotifyOnStart(func() {
			logger.Info().
				Str("addr", opts.Addr).
				Str("root", opts.Root).
				Dur("timeout", cfg.NET.ReadTimeout).
				Msg("listening")
		}).
		NotifyOnStop(func() {
			logger.Info().Msg("stopped")
		})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		app.Stop()
	}()

	return app.Serve(router.Recover(router.LogRequests(handler, logger)))
}

func loadConfig(opts options) (cfg *config.Config, err error) {
	cfg = config.Default()
	if len(opts.Config) > 0 {
		if cfg, err = config.Load(opts.Config); err != nil {
			return nil, err
		}
	}

	if opts.Timeout > 0 {
		cfg.NET.ReadTimeout = opts.Timeout
	}

	return cfg, nil
}

func loadMIME(cfg *config.Config, path string) (mime.Table, error) {
	table := mime.Default.With(cfg.Static.MIME)
	if len(path) == 0 {
		return table, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open MIME types")
	}
	defer file.Close()

	overrides, err := mime.ParseTypes(file)
	if err != nil {
		return nil, err
	}

	return table.With(overrides), nil
}
