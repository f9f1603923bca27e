package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"MarketBrief/internal/service/scheduler"
	"MarketBrief/pkg/cache"
	"MarketBrief/pkg/config"
	xhttp "MarketBrief/pkg/http"
	applogger "MarketBrief/pkg/logger"
)

// App encapsulates the application lifecycle: the job scheduler, the
// dashboard HTTP server, and the shared cache.
type App struct {
	cfg        *config.Config
	logger     *applogger.Logger
	sched      *scheduler.Scheduler
	httpServer *xhttp.Server
	cache      cache.Service
}

// New creates an App with all dependencies injected.
func New(
	cfg *config.Config,
	logger *applogger.Logger,
	sched *scheduler.Scheduler,
	httpServer *xhttp.Server,
	cacheSvc cache.Service,
) *App {
	return &App{
		cfg:        cfg,
		logger:     logger,
		sched:      sched,
		httpServer: httpServer,
		cache:      cacheSvc,
	}
}

// Run starts all services and blocks until an interrupt or TERM signal.
func (a *App) Run() error {
	a.sched.Start()

	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}
	a.logger.Info("application started",
		applogger.String("environment", a.cfg.Environment),
		applogger.Int("port", a.cfg.Server.Port),
		applogger.String("timezone", a.cfg.Timezone),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	return a.shutdown()
}

func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.sched.Stop(ctx); err != nil {
		a.logger.Warn("scheduler stop error", applogger.Error(err))
	}
	if err := a.httpServer.Stop(ctx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Warn("cache close error", applogger.Error(err))
		}
	}

	a.logger.Info("shutdown complete")
	return nil
}
