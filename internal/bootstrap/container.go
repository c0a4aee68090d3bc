package bootstrap

import (
	"context"
	"sync"

	"hypeindex/internal/adapters/config"
	"hypeindex/internal/adapters/reddit"
	redisclient "hypeindex/internal/adapters/redis"
	"hypeindex/internal/api"
	dashboardapi "hypeindex/internal/api/dashboard"
	"hypeindex/internal/api/health"
	"hypeindex/internal/cache"
	"hypeindex/internal/domain/market_data"
	dashboardsvc "hypeindex/internal/services/dashboard"
	marketdatasvc "hypeindex/internal/services/market_data"
	sentimentsvc "hypeindex/internal/services/sentiment"
	"hypeindex/pkg/clock"
	"hypeindex/pkg/errors"
	"hypeindex/pkg/logger"
	"hypeindex/pkg/templates"
)

// Container holds all application dependencies and their lifecycle
// Components are organized in initialization order
type Container struct {
	// Core configuration & logging
	Config       *config.Config
	Log          *logger.Logger
	ErrorTracker errors.Tracker
	Clock        clock.Clock

	// Infrastructure Layer
	Redis *redisclient.Client // nil unless CACHE_BACKEND=redis
	Cache cache.Store

	// External Adapters
	Adapters *Adapters

	// Domain Layer - Services
	Services *Services

	// Application Layer
	Application *Application

	// Lifecycle management
	Lifecycle *Lifecycle
	WG        *sync.WaitGroup
	Context   context.Context
	Cancel    context.CancelFunc
}

// Adapters groups all external feed clients
type Adapters struct {
	Prices market_data.BarSource // Polygon or Alpaca
	Reddit *reddit.Client
}

// Services groups all services
type Services struct {
	Tickers    []config.Ticker
	MarketData *marketdatasvc.Service // Cached daily bars
	Sentiment  *sentimentsvc.Service  // Post search + classification
	Dashboard  *dashboardsvc.Service  // View assembly
}

// Application groups application layer components
type Application struct {
	HTTPServer       *api.Server
	HealthHandler    *health.Handler
	DashboardHandler *dashboardapi.Handler
}

// NewContainer creates a new dependency container
func NewContainer() *Container {
	ctx, cancel := context.WithCancel(context.Background())

	return &Container{
		Adapters:    &Adapters{},
		Services:    &Services{},
		Application: &Application{},
		Lifecycle:   NewLifecycle(),
		WG:          &sync.WaitGroup{},
		Context:     ctx,
		Cancel:      cancel,
	}
}

// MustInit initializes all components in the correct order
// Panics on any initialization error (fail-fast at startup)
func (c *Container) MustInit() {
	c.MustInitConfig()
	c.MustInitInfrastructure()
	c.MustInitAdapters()
	c.MustInitServices()
	c.MustInitApplication()
}

// Start starts the HTTP server in the background
func (c *Container) Start() error {
	c.Log.Info("Starting all systems...")

	c.WG.Add(1)
	go func() {
		defer c.WG.Done()
		if err := c.Application.HTTPServer.Start(); err != nil {
			c.Log.Errorf("HTTP server failed: %v", err)
			c.Cancel() // Trigger shutdown on fatal HTTP error
		}
	}()

	c.Log.Info("✓ All systems operational")
	return nil
}

// Shutdown performs graceful shutdown in the correct order
func (c *Container) Shutdown() {
	c.Log.Info("Initiating graceful shutdown...")

	c.Cancel()

	c.Lifecycle.Shutdown(
		c.WG,
		c.Application.HTTPServer,
		c.Redis,
		c.ErrorTracker,
		c.Log,
	)
}

// TemplateRegistry returns the global template registry
func (c *Container) TemplateRegistry() *templates.Registry {
	return templates.Get()
}
