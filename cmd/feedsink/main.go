package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jessevdk/go-flags"

	"feedsink/internal/config"
	"feedsink/internal/scheduler"
	"feedsink/internal/service"
	"feedsink/internal/sink"
	"feedsink/internal/source/rss"
)

var version = "dev"

type options struct {
	Config   string `short:"c" long:"config" env:"FEEDSINK_CONFIG" default:"config.yaml" description:"Path to config file"`
	LogLevel string `long:"log-level" env:"FEEDSINK_LOG_LEVEL" description:"Override log level (debug, info, warn, error)"`
	Once     bool   `long:"once" env:"FEEDSINK_ONCE" description:"Run once and exit even when an interval is configured"`
	Version  bool   `long:"version" description:"Print version and exit"`
}

func main() {
	var opts options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return
		}
		os.Exit(2)
	}

	if opts.Version {
		fmt.Println(version)
		return
	}

	logger := setupLogger("info")

	cfg, err := config.Load(opts.Config)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}
	logger = setupLogger(cfg.LogLevel)

	source := rss.New(rss.Config{
		URL:            cfg.Source.URL,
		Charset:        cfg.Source.Charset,
		UserAgent:      cfg.Source.UserAgent,
		Timeout:        cfg.Source.Timeout,
		MaxAttempts:    cfg.Source.Retry.MaxAttempts,
		InitialBackoff: cfg.Source.Retry.InitialBackoff,
		MaxBackoff:     cfg.Source.Retry.MaxBackoff,
		Tags: rss.Tags{
			Title:       cfg.Source.Tags.Title,
			Link:        cfg.Source.Tags.Link,
			Author:      cfg.Source.Tags.Author,
			Description: cfg.Source.Tags.Description,
			GUID:        cfg.Source.Tags.GUID,
			Publish:     cfg.Source.Tags.Publish,
		},
	}, logger)

	dispatcher := sink.NewDispatcher(os.Stdout, logger)
	persistService := service.NewPersistService(source, dispatcher, cfg.Sink.Dispatch(), logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	logger.Info("starting feedsink",
		"version", version,
		"source", cfg.Source.URL,
		"sink", cfg.Sink.Kind().String(),
		"interval", cfg.Schedule.Interval,
	)

	if opts.Once || cfg.Schedule.Interval == 0 {
		if _, err := persistService.Run(ctx); err != nil {
			logger.Error("run failed", "error", err)
			os.Exit(1)
		}
		return
	}

	sched := scheduler.NewScheduler(persistService, cfg.Schedule.Interval, cfg.Schedule.RunTimeout, logger)
	if err := sched.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("scheduler error", "error", err)
		os.Exit(1)
	}
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	// stdout carries the console sink document
	handler := slog.NewJSONHandler(os.Stderr, opts)
	return slog.New(handler)
}
