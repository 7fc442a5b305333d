package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/bobmcallan/vire-tracker/internal/app"
	"github.com/bobmcallan/vire-tracker/internal/client"
	"github.com/bobmcallan/vire-tracker/internal/common"
	"github.com/bobmcallan/vire-tracker/internal/config"
	"github.com/bobmcallan/vire-tracker/internal/importer"
	"github.com/bobmcallan/vire-tracker/internal/models"
	"github.com/bobmcallan/vire-tracker/internal/services/portfolio"
	"github.com/google/subcommands"
)

var commands = []subcommands.Command{
	&importCmd{},
	&holdingsCmd{},
	&valuationCmd{},
	&portfoliosCmd{},
}

// ledger is what the commands need, served either by a local app or by a
// running vire-tracker. Badger allows one process per directory, so the
// -server flag is required while the server is up.
type ledger interface {
	importer.Importer
	Holdings(ctx context.Context, portfolioID string) ([]models.Holding, error)
	Valuation(ctx context.Context, portfolioID string) (*models.PortfolioValuation, error)
	ListPortfolios(ctx context.Context) ([]string, error)
}

var (
	_ ledger = (*portfolio.Service)(nil)
	_ ledger = (*client.TrackerClient)(nil)
)

// openApp loads configuration and wires the application with a quiet logger.
func openApp() (*app.App, error) {
	if err := config.LoadDotEnv(*envFile); err != nil {
		return nil, err
	}
	cfg, err := config.LoadFromFile(*configFile)
	if err != nil {
		return nil, err
	}
	if cfg.Logging.Level == "" || cfg.Logging.Level == "info" {
		cfg.Logging.Level = "warn"
	}
	return app.New(cfg, common.NewLoggerFromConfig(cfg.Logging))
}

// withLedger runs fn against the remote server when -server is set, else
// against a freshly opened local app that is closed afterwards.
func withLedger(fn func(l ledger, logger *common.Logger) error) subcommands.ExitStatus {
	var (
		l      ledger
		logger *common.Logger
	)
	if *serverURL != "" {
		l = client.NewTrackerClient(*serverURL)
		logger = common.NewLogger("warn")
	} else {
		a, err := openApp()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		defer a.Close()
		l, logger = a.PortfolioService, a.Logger
	}

	if err := fn(l, logger); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type importCmd struct{}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import transactions from a JSON file, backfilling missing prices" }
func (*importCmd) Usage() string {
	return `vire-ledger import <portfolio> <file.json>

  The file holds either a JSON array of rows or {"transactions": [...]}.
  Each row has symbol, type, quantity and optional price, date, fees, total.
  Missing prices are looked up as the close on the row's date.
`
}
func (*importCmd) SetFlags(*flag.FlagSet) {}

func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Fprint(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}
	portfolioID, file := f.Arg(0), f.Arg(1)

	return withLedger(func(l ledger, logger *common.Logger) error {
		rows, err := importer.ImportFile(ctx, l, logger, portfolioID, file)
		if err != nil {
			return err
		}
		renderImport(os.Stdout, rows)
		return nil
	})
}

type holdingsCmd struct{}

func (*holdingsCmd) Name() string     { return "holdings" }
func (*holdingsCmd) Synopsis() string { return "list open positions with weighted-average cost" }
func (*holdingsCmd) Usage() string {
	return `vire-ledger holdings <portfolio>
`
}
func (*holdingsCmd) SetFlags(*flag.FlagSet) {}

func (c *holdingsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprint(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}
	return withLedger(func(l ledger, _ *common.Logger) error {
		hs, err := l.Holdings(ctx, f.Arg(0))
		if err != nil {
			return err
		}
		renderHoldings(os.Stdout, hs)
		return nil
	})
}

type valuationCmd struct{}

func (*valuationCmd) Name() string     { return "valuation" }
func (*valuationCmd) Synopsis() string { return "value a portfolio against live quotes" }
func (*valuationCmd) Usage() string {
	return `vire-ledger valuation <portfolio>
`
}
func (*valuationCmd) SetFlags(*flag.FlagSet) {}

func (c *valuationCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprint(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}
	return withLedger(func(l ledger, _ *common.Logger) error {
		v, err := l.Valuation(ctx, f.Arg(0))
		if err != nil {
			return err
		}
		renderValuation(os.Stdout, v)
		return nil
	})
}

type portfoliosCmd struct{}

func (*portfoliosCmd) Name() string     { return "portfolios" }
func (*portfoliosCmd) Synopsis() string { return "list portfolios in the ledger" }
func (*portfoliosCmd) Usage() string {
	return `vire-ledger portfolios
`
}
func (*portfoliosCmd) SetFlags(*flag.FlagSet) {}

func (*portfoliosCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return withLedger(func(l ledger, _ *common.Logger) error {
		ids, err := l.ListPortfolios(ctx)
		if err != nil {
			return err
		}
		for _, id := range ids {
			fmt.Println(id)
		}
		return nil
	})
}
