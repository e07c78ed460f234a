package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/KotFed0t/carteira_acoes/config"
	"github.com/KotFed0t/carteira_acoes/utils"
	"github.com/google/subcommands"
)

type evaluateAlertsCmd struct{}

func (*evaluateAlertsCmd) Name() string     { return "evaluate-alerts" }
func (*evaluateAlertsCmd) Synopsis() string { return "run one alert evaluation pass and exit" }
func (*evaluateAlertsCmd) Usage() string {
	return `evaluate-alerts

  Fetches quotes for all active alerts in one batch and marks the ones whose
  price is above the target. Exits non-zero when the pass fails.
`
}

func (*evaluateAlertsCmd) SetFlags(*flag.FlagSet) {}

func (*evaluateAlertsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg := config.MustLoad()

	setupLogger(cfg)

	a, err := newApp(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	summary, err := a.alerts.EvaluateAlerts(utils.CreateCtxWithRqID(ctx, ""))
	fmt.Printf("evaluated: %d, triggered: %d, skipped: %d\n", summary.Evaluated, summary.Triggered, summary.Skipped)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error evaluating alerts: %v\n", err)
		return subcommands.ExitFailure
	}

	return subcommands.ExitSuccess
}
