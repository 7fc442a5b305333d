package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bobmcallan/vire-tracker/internal/backfill"
	"github.com/bobmcallan/vire-tracker/internal/cache"
	"github.com/bobmcallan/vire-tracker/internal/clients/yahoo"
	"github.com/bobmcallan/vire-tracker/internal/common"
	"github.com/bobmcallan/vire-tracker/internal/config"
	"github.com/bobmcallan/vire-tracker/internal/handlers"
	"github.com/bobmcallan/vire-tracker/internal/interfaces"
	"github.com/bobmcallan/vire-tracker/internal/market"
	"github.com/bobmcallan/vire-tracker/internal/mcp"
	"github.com/bobmcallan/vire-tracker/internal/quotes"
	"github.com/bobmcallan/vire-tracker/internal/seed"
	"github.com/bobmcallan/vire-tracker/internal/services/portfolio"
	"github.com/bobmcallan/vire-tracker/internal/storage"
)

// App holds all application components and dependencies.
type App struct {
	Config  *config.Config
	Logger  *common.Logger
	Started time.Time

	Storage          interfaces.StorageManager
	QuoteClient      *yahoo.Client
	QuoteCache       *cache.QuoteCache
	Scheduler        *quotes.Scheduler
	Backfill         *backfill.Batcher
	PortfolioService *portfolio.Service

	// HTTP handlers
	HealthHandler    *handlers.HealthHandler
	VersionHandler   *handlers.VersionHandler
	PortfolioHandler *handlers.PortfolioHandler
	QuotesHandler    *handlers.QuotesHandler
	LogsHandler      *handlers.LogsHandler
	MCPHandler       *mcp.Handler

	cancel context.CancelFunc
}

// New initializes the application with all dependencies.
func New(cfg *config.Config, logger *common.Logger) (*App, error) {
	a := &App{
		Config:  cfg,
		Logger:  logger,
		Started: time.Now(),
	}

	env := strings.ToLower(strings.TrimSpace(cfg.Environment))
	if env != "prod" && env != "dev" && env != "" {
		logger.Warn().
			Str("environment", cfg.Environment).
			Msg("unrecognized environment value, defaulting to prod behavior")
	}

	if err := a.initServices(); err != nil {
		return nil, err
	}
	a.initHandlers()

	logger.Info().Msg("application initialization complete")

	return a, nil
}

// initServices opens storage and builds the quote and portfolio services.
func (a *App) initServices() error {
	loc, err := market.LoadLocation(a.Config.Quotes.Timezone)
	if err != nil {
		return fmt.Errorf("invalid quotes timezone: %w", err)
	}

	mgr, err := storage.NewStorageManager(a.Logger, a.Config)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	a.Storage = mgr

	a.QuoteClient = yahoo.NewClient(a.Config.Quotes.BaseURL,
		yahoo.WithTimeout(a.Config.Quotes.GetTimeout()),
		yahoo.WithRateLimit(a.Config.Quotes.RateLimit),
		yahoo.WithLogger(a.Logger),
	)

	// timer-driven fetches outlive any request; Close cancels them
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	a.QuoteCache = cache.New(0)
	a.Scheduler = quotes.NewScheduler(a.QuoteClient, a.Logger,
		quotes.WithCache(a.QuoteCache),
		quotes.WithLocation(loc),
		quotes.WithIntervals(a.Config.Quotes.GetOpenInterval(), a.Config.Quotes.GetClosedInterval()),
		quotes.WithContext(ctx),
	)

	a.Backfill = backfill.NewBatcher(a.QuoteClient, a.Logger,
		backfill.WithBatchSize(a.Config.Backfill.BatchSize),
	)

	a.PortfolioService = portfolio.NewService(mgr.TransactionStore(), a.Scheduler, a.Backfill, a.Logger)

	a.Logger.Debug().
		Str("timezone", loc.String()).
		Str("provider", a.Config.Quotes.BaseURL).
		Msg("Services initialized")
	return nil
}

// initHandlers initializes all HTTP handlers.
func (a *App) initHandlers() {
	a.HealthHandler = handlers.NewHealthHandler(a.Logger, a.Scheduler)
	a.VersionHandler = handlers.NewVersionHandler(a.Logger)
	a.PortfolioHandler = handlers.NewPortfolioHandler(a.PortfolioService, a.Logger)
	a.QuotesHandler = handlers.NewQuotesHandler(a.Scheduler, a.Logger)
	a.LogsHandler = handlers.NewLogsHandler(a.Logger, a.Logger)
	a.MCPHandler = mcp.NewHandler(a.PortfolioService, a.Scheduler, a.Logger)

	a.Logger.Debug().Msg("HTTP handlers initialized")
}

// StartWatching begins polling the configured watch list. No-op when empty.
func (a *App) StartWatching(ctx context.Context) {
	if len(a.Config.Quotes.Watch) == 0 {
		return
	}
	a.Scheduler.StartPolling(ctx, a.Config.Quotes.Watch)
}

// SeedDemo imports the demo portfolio in dev mode. No-op otherwise.
func (a *App) SeedDemo(ctx context.Context) {
	if !a.Config.IsDevMode() {
		return
	}
	a.Logger.Warn().Msg("RUNNING IN DEV MODE, seeding demo portfolio")
	if n := seed.DemoPortfolio(ctx, a.PortfolioService, a.Logger); n > 0 {
		a.Logger.Info().Int("transactions", n).Msg("demo portfolio seeded")
	}
}

// Close stops polling and closes all application resources.
func (a *App) Close() error {
	if a.Scheduler != nil {
		a.Scheduler.StopPolling()
	}
	if a.cancel != nil {
		a.cancel()
	}
	if a.Storage != nil {
		if err := a.Storage.Close(); err != nil {
			return fmt.Errorf("failed to close storage: %w", err)
		}
	}
	return nil
}
