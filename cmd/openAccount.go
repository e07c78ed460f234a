package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/KotFed0t/carteira_acoes/config"
	"github.com/KotFed0t/carteira_acoes/internal/transport/rest/middleware"
	"github.com/KotFed0t/carteira_acoes/utils"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

type openAccountCmd struct {
	balance  string
	tokenTTL time.Duration
}

func (*openAccountCmd) Name() string     { return "open-account" }
func (*openAccountCmd) Synopsis() string { return "create an account and print a development token" }
func (*openAccountCmd) Usage() string {
	return `open-account [-balance <amount>] [-token-ttl <duration>]

  Creates an account with the given starting balance and prints its id
  and a bearer token signed with AUTH_JWT_SECRET.
  - balance: starting cash balance, e.g. "1000.00". Defaults to 0.
  - token-ttl: token lifetime, e.g. "24h". Zero issues a token without expiry.
`
}

func (c *openAccountCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.balance, "balance", "0", "Starting cash balance")
	f.DurationVar(&c.tokenTTL, "token-ttl", 24*time.Hour, "Lifetime of the printed token")
}

func (c *openAccountCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	balance, err := decimal.NewFromString(c.balance)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing balance '%s': %v\n", c.balance, err)
		return subcommands.ExitUsageError
	}

	cfg := config.MustLoad()

	setupLogger(cfg)

	a, err := newApp(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	accountID, err := a.wallet.OpenAccount(utils.CreateCtxWithRqID(ctx, ""), balance)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening account: %v\n", err)
		return subcommands.ExitFailure
	}

	token, err := middleware.SignToken(cfg.Auth.JWTSecret, accountID, c.tokenTTL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error signing token: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("account: %d\ntoken: %s\n", accountID, token)
	return subcommands.ExitSuccess
}
