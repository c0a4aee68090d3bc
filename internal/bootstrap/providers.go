package bootstrap

import (
	"hypeindex/internal/adapters/alpaca"
	"hypeindex/internal/adapters/config"
	errnoop "hypeindex/internal/adapters/errors/noop"
	"hypeindex/internal/adapters/errors/sentry"
	"hypeindex/internal/adapters/polygon"
	"hypeindex/internal/adapters/ratelimit"
	"hypeindex/internal/adapters/reddit"
	redisclient "hypeindex/internal/adapters/redis"
	"hypeindex/internal/api"
	dashboardapi "hypeindex/internal/api/dashboard"
	"hypeindex/internal/api/health"
	"hypeindex/internal/cache"
	"hypeindex/internal/domain/market_data"
	"hypeindex/internal/metrics"
	dashboardsvc "hypeindex/internal/services/dashboard"
	marketdatasvc "hypeindex/internal/services/market_data"
	sentimentsvc "hypeindex/internal/services/sentiment"
	"hypeindex/pkg/clock"
	"hypeindex/pkg/errors"
	"hypeindex/pkg/logger"
)

const sentimentFeedName = "reddit"

// ========================================
// Phase 1: Configuration & Logging
// ========================================

// MustInitConfig loads configuration and initializes logger
func (c *Container) MustInitConfig() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}
	c.Config = cfg

	// Initialize logger
	if err := logger.Init(cfg.App.LogLevel, cfg.App.Env); err != nil {
		panic("failed to init logger: " + err.Error())
	}

	c.Log = logger.Get()
	c.Log.Infof("Starting %s in %s mode", cfg.App.Name, cfg.App.Env)

	// Initialize error tracker
	c.ErrorTracker = provideErrorTracker(cfg, c.Log)
	logger.SetErrorTracker(c.ErrorTracker)
	c.Log = logger.Get()
}

// ========================================
// Phase 2: Infrastructure Layer
// ========================================

// MustInitInfrastructure initializes metrics and the price cache backend
func (c *Container) MustInitInfrastructure() {
	metrics.Init()
	c.Clock = clock.New()

	switch c.Config.Cache.Backend {
	case config.CacheRedis:
		var err error
		c.Log.Info("Connecting to Redis...")
		c.Redis, err = redisclient.NewClient(c.Config.Redis)
		if err != nil {
			c.Log.Fatalf("failed to connect redis: %v", err)
		}
		c.Cache = cache.NewRedisStore(c.Redis)
		c.Log.Infow("✓ Redis cache connected", "addr", c.Config.Redis.Addr(), "ttl", c.Config.Cache.TTL)
	default:
		c.Cache = cache.NewMemoryStore(c.Clock)
		c.Log.Infow("✓ In-memory cache initialized", "ttl", c.Config.Cache.TTL)
	}
}

// ========================================
// Phase 3: External Adapters
// ========================================

// MustInitAdapters initializes the price and sentiment feed clients
func (c *Container) MustInitAdapters() {
	c.Adapters.Prices = provideBarSource(c.Config, c.Log)

	c.Adapters.Reddit = reddit.NewClient(reddit.Options{
		BaseURL:   c.Config.Reddit.BaseURL,
		UserAgent: c.Config.Reddit.UserAgent,
		Limit:     c.Config.Reddit.Limit,
		Timeout:   c.Config.Reddit.Timeout,
		Limiter:   ratelimit.NewLimiter(sentimentFeedName, c.Config.Reddit.RequestsPerMinute),
	}, c.Log)

	c.Log.Infow("✓ Feed clients initialized",
		"prices", c.Adapters.Prices.Name(),
		"sentiment", sentimentFeedName,
	)
}

// ========================================
// Phase 4: Services
// ========================================

// MustInitServices initializes domain and presentation services
func (c *Container) MustInitServices() {
	tickers, err := config.LoadTickers(c.Config.Dashboard.TickerListPath)
	if err != nil {
		c.Log.Fatalf("failed to load ticker list: %v", err)
	}
	c.Services.Tickers = tickers

	c.Services.MarketData = marketdatasvc.NewService(
		c.Adapters.Prices,
		c.Cache,
		c.Clock,
		c.Config.Cache.TTL,
		c.Config.Price.Lookback(),
		c.Log,
	)
	c.Services.Sentiment = sentimentsvc.NewService(c.Adapters.Reddit, sentimentFeedName, c.Log)
	c.Services.Dashboard = dashboardsvc.NewService(
		c.Services.MarketData,
		c.Services.Sentiment,
		c.Clock,
		dashboardsvc.Options{
			DefaultTicker: c.Config.Dashboard.DefaultTicker,
			Tickers:       tickers,
			HotUpvotes:    c.Config.Dashboard.HotUpvotes,
			Location:      c.Config.Dashboard.Location(),
			RefreshAll:    c.Config.Dashboard.RefreshAll,
		},
		c.Log,
	)

	c.Log.Infow("✓ Services initialized", "tickers", len(tickers))
}

// ========================================
// Phase 5: Application Layer
// ========================================

// MustInitApplication initializes HTTP handlers and server
func (c *Container) MustInitApplication() {
	c.Application.HealthHandler = health.New(c.Log, c.Config.App.Name, c.Config.App.Version).
		Register("cache", c.Cache.Health)

	c.Application.DashboardHandler = dashboardapi.NewHandler(c.Services.Dashboard, c.TemplateRegistry(), c.Log)

	c.Application.HTTPServer = api.NewServer(api.ServerConfig{
		Port:         c.Config.HTTP.Port,
		ReadTimeout:  c.Config.HTTP.ReadTimeout,
		WriteTimeout: c.Config.HTTP.WriteTimeout,
	}, c.Application.DashboardHandler, c.Application.HealthHandler, c.Log)
}

// ========================================
// Providers
// ========================================

func provideErrorTracker(cfg *config.Config, log *logger.Logger) errors.Tracker {
	if !cfg.ErrorTracking.Enabled || cfg.ErrorTracking.SentryDSN == "" {
		log.Info("Error tracking disabled")
		return errnoop.New()
	}

	tracker, err := sentry.New(cfg.ErrorTracking.SentryDSN, cfg.ErrorTracking.Environment, cfg.App.Version)
	if err != nil {
		log.Warnf("Failed to initialize Sentry: %v", err)
		return errnoop.New()
	}

	log.Info("Error tracking initialized (Sentry)")
	return tracker
}

// provideBarSource picks the configured price provider. A missing key is not
// fatal: every request then fails upstream and the dashboard shows no prices.
func provideBarSource(cfg *config.Config, log *logger.Logger) market_data.BarSource {
	if cfg.PriceCredentialsMissing() {
		log.Warnw("Price provider credentials missing, price data will be empty",
			"provider", cfg.Price.Provider,
		)
	}

	switch cfg.Price.Provider {
	case config.ProviderAlpaca:
		return alpaca.NewClient(
			cfg.Alpaca.APIKey,
			cfg.Alpaca.APISecret,
			cfg.Alpaca.DataURL,
			cfg.Alpaca.Feed,
			cfg.Price.Timeout,
			ratelimit.NewLimiter(config.ProviderAlpaca, cfg.Alpaca.RequestsPerMinute),
			log,
		)
	default:
		return polygon.NewClient(
			cfg.Polygon.BaseURL,
			cfg.Polygon.APIKey,
			cfg.Price.Timeout,
			ratelimit.NewLimiter(config.ProviderPolygon, cfg.Polygon.RequestsPerMinute),
			log,
		)
	}
}
