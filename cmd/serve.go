package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/KotFed0t/carteira_acoes/config"
	"github.com/KotFed0t/carteira_acoes/internal/httpserver"
	"github.com/KotFed0t/carteira_acoes/internal/scheduler"
	"github.com/KotFed0t/carteira_acoes/internal/transport/rest"
	"github.com/google/subcommands"
)

type serveCmd struct{}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "run the HTTP API and the alert scheduler" }
func (*serveCmd) Usage() string {
	return `serve

  Starts the HTTP API and the periodic alert evaluation job.
  Configuration is read from the environment and an optional .env file.
`
}

func (*serveCmd) SetFlags(*flag.FlagSet) {}

func (*serveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg := config.MustLoad()

	setupLogger(cfg)

	slog.Debug("config", slog.Any("cfg", cfg))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a, err := newApp(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	sched := scheduler.New(a.locker)
	sched.NewIntervalJob("evaluate alerts", func(ctx context.Context) error {
		_, err := a.alerts.EvaluateAlerts(ctx)
		return err
	}, cfg.Jobs.AlertEvaluationInterval, true)
	if a.drive != nil {
		sched.NewCrontabJob("drive cleanup", a.drive.DeleteOldFiles, cfg.Jobs.DriveCleanupCrontab, false)
	}
	sched.Start()
	defer sched.Stop()

	srv := httpserver.New(cfg, rest.NewController(a.wallet, a.alerts, a.quotes))
	errCh := make(chan error, 1)
	srv.Start(errCh)
	defer srv.Stop()

	// Waiting interruption signal
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	select {
	case sig := <-interrupt:
		slog.Info("shutting down", slog.String("signal", sig.String()))
	case err := <-errCh:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	return subcommands.ExitSuccess
}
