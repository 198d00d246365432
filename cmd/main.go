// Command duster sweeps small leftover balances on a crypto exchange into a
// few target currencies.
//
// Usage:
//
//	duster --config duster.yaml
//	duster -targets btc,usd -max-value 10 -dry-run
//	duster -setup
//
// Required environment variables (a .env file in the working directory is loaded too):
//
//	For Bitfinex: BF_API_KEY, BF_API_SECRET
//	For Binance: BINANCE_API_KEY, BINANCE_API_SECRET
//	For Bybit: BYBIT_API_KEY, BYBIT_API_SECRET
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/vadiminshakov/duster/config"
	"github.com/vadiminshakov/duster/internal"
	"github.com/vadiminshakov/duster/internal/report"
	"github.com/vadiminshakov/duster/internal/setup"
	"github.com/vadiminshakov/duster/internal/sweeper"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	conf, err := config.Get()
	if err != nil {
		log.Fatal(err)
	}

	if conf.Setup {
		if err := setup.RunTUI(conf.ConfigPath); err != nil {
			log.Fatal(err)
		}
		return
	}

	logger, err := newLogger(conf.Verbose)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, conf, logger); err != nil {
		logger.Error("sweep failed", zap.Error(err))
		stop()
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, conf config.Config, logger *zap.Logger) error {
	client, err := internal.NewClient(conf, logger)
	if err != nil {
		return err
	}

	repo, err := internal.NewRepository(client, conf.DryRun, logger)
	if err != nil {
		return err
	}

	var opts []sweeper.Option
	if !conf.AssumeYes && !conf.DryRun {
		opts = append(opts, sweeper.WithApprover(setup.NewApprover()))
	}

	s, err := sweeper.New(repo, conf.Settings(), logger, opts...)
	if err != nil {
		return err
	}

	rep, err := s.Run(ctx)
	// partial reports are still worth showing
	report.Log(logger, rep)
	if renderErr := report.Render(os.Stdout, rep); renderErr != nil {
		logger.Warn("failed to render report", zap.Error(renderErr))
	}
	return err
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
