package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Makepad-fr/wordsync/internal/cli"
	"github.com/Makepad-fr/wordsync/internal/config"
	"github.com/Makepad-fr/wordsync/internal/logging"
	"github.com/Makepad-fr/wordsync/internal/ui"
)

func main() {
	// Root flags (apply to every subcommand)
	cfgPath := flag.String("config", "", "config file (default ./"+config.DefaultFileName+")")
	verbose := flag.Bool("verbose", false, "debug logging to stderr")
	noColor := flag.Bool("no-color", os.Getenv("NO_COLOR") != "", "disable ANSI colors")
	flag.Parse()

	// Hand the remaining args to the CLI runner.
	args := flag.Args()
	if len(args) == 0 {
		cli.PrintHelp()
		os.Exit(2)
	}

	path, required := *cfgPath, true
	if path == "" {
		path, required = config.DefaultFileName, false
	}
	cfg, err := config.Load(path, required)
	if err != nil {
		ui.Fail("config: " + err.Error())
		os.Exit(1)
	}
	ui.SetTheme(cfg.Theme)
	if *noColor {
		ui.SetColorForcing(false, true)
	}

	logger, err := logging.New(cfg.LogLevel, *verbose)
	if err != nil {
		ui.Fail(err.Error())
		os.Exit(1)
	}
	logger.Debug("config loaded", zap.String("path", path), zap.String("data_file", cfg.DataFile))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Run(ctx, args, cli.Options{
		Config: cfg,
		Logger: logger,
	})
	stop()
	_ = logger.Sync()
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	os.Exit(code)
}
