package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/go-chi/jwtauth/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"go-procurement/cmd/procurement/config"
	"go-procurement/internal/procurement"
	"go-procurement/internal/procurement/crm"
	"go-procurement/internal/procurement/healthmonitor"
	"go-procurement/internal/procurement/inventory"
	"go-procurement/internal/procurement/metrics"
	"go-procurement/internal/procurement/purchasing"
	"go-procurement/internal/procurement/service"
	"go-procurement/internal/procurement/tasks"
	"go-procurement/internal/procurement/transition"
	"go-procurement/pkg/jwtfactory"
	"go-procurement/pkg/logging"
	"go-procurement/pkg/tracing"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	newLogger := logging.NewZapLogger
	if cfg.LogFormat == config.LogFormatConsole {
		newLogger = logging.NewConsoleZapLogger
	}
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	rootCtx, cancelCtx := signal.NotifyContext(
		context.Background(),
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
		syscall.SIGABRT,
	)
	defer cancelCtx()

	shutdownTracing, err := tracing.Init(rootCtx, cfg.Tracing)
	if err != nil {
		logger.ErrorCtx(rootCtx, "tracing disabled", zap.Error(err))
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()
			if err := shutdownTracing(ctx); err != nil {
				logger.ErrorCtx(ctx, "error flushing traces", zap.Error(err))
			}
		}()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	appMetrics := metrics.New(registry)

	purchasingClient := purchasing.New(cfg.Purchasing, logger)
	tokenCache := crm.NewTokenCache(crm.NewLogin(cfg.CRMLogin), cfg.TokenTTL, appMetrics, logger)
	crmClient := crm.New(cfg.CRM, tokenCache, logger)
	inventoryClient := inventory.New(cfg.Inventory, logger)
	tasksClient := tasks.New(cfg.Tasks, logger)

	orchestrator := transition.New(cfg.Policy, purchasingClient, tasksClient, inventoryClient, appMetrics, logger)

	tokenAuth := jwtauth.New(cfg.JWTConfig.Algorithm, []byte(cfg.JWTConfig.Secret), nil)
	tokenFactory := jwtfactory.New(tokenAuth, cfg.JWTConfig.ExpirationTime)

	healthMonitor := healthmonitor.NewHealthMonitor(cfg.Health, purchasingClient, appMetrics, logger)

	services := procurement.Services{
		Authorization: service.NewAuthorization(cfg.Operator, tokenFactory, logger),
		Orders:        service.NewOrders(cfg.Orders, purchasingClient, tasksClient, orchestrator, logger),
		Vendors:       service.NewVendors(purchasingClient, crmClient, logger),
		Dashboard:     service.NewDashboard(purchasingClient),
		Health:        healthMonitor,
	}
	server := procurement.NewServer(cfg.Server, tokenAuth, services, registry, logger)

	if err := run(rootCtx, cfg, server, healthMonitor, logger); err != nil {
		logger.ErrorCtx(rootCtx, "Server shutdown with error", zap.Error(err))
	} else {
		logger.InfoCtx(rootCtx, "Server shutdown gracefully")
	}
}

func run(
	rootCtx context.Context,
	cfg *config.Config,
	server *procurement.Server,
	healthMonitor *healthmonitor.HealthMonitor,
	logger *logging.ZapLogger,
) error {
	g, ctx := errgroup.WithContext(rootCtx)

	context.AfterFunc(ctx, func() {
		ctx, cancelCtx := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancelCtx()

		<-ctx.Done()
		log.Fatal("failed to gracefully shutdown the server")
	})

	g.Go(func() error {
		logger.InfoCtx(ctx, "Starting server", zap.String("address", cfg.Server.ServerAddress))
		if err := server.Run(); err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		healthMonitor.Run()
		return nil
	})

	g.Go(func() error {
		defer logger.InfoCtx(ctx, "Shutting down server")
		<-ctx.Done()
		healthMonitor.Stop()
		if err := server.Shutdown(); err != nil {
			return fmt.Errorf("failed to shutdown server: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("goroutine error occurred: %w", err)
	}

	return nil
}
