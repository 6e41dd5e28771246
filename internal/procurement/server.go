package procurement

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"go-procurement/internal/procurement/handlers"
	"go-procurement/internal/procurement/middleware"
	"go-procurement/pkg/logging"
)

type Config struct {
	ServerAddress   string
	ShutdownTimeout time.Duration
}

// Services bundles what the admin API needs; main builds it.
type Services struct {
	Authorization handlers.AuthorizationService
	Orders        OrdersService
	Vendors       handlers.VendorsService
	Dashboard     handlers.DashboardService
	Health        handlers.HealthReporter
}

type OrdersService interface {
	handlers.OrdersGettingService
	handlers.OrderGettingService
	handlers.OrderCreationService
	handlers.StatusChangeService
}

type Server struct {
	logger     *logging.ZapLogger
	httpServer *http.Server
	cfg        Config
}

func NewServer(
	cfg Config,
	tokenAuth *jwtauth.JWTAuth,
	services Services,
	gatherer prometheus.Gatherer,
	logger *logging.ZapLogger,
) *Server {
	srv := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           createMux(tokenAuth, services, gatherer, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &Server{
		cfg:        cfg,
		logger:     logger,
		httpServer: srv,
	}
}

func (s *Server) Run() error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server ListenAndServe failed: %w", err)
	}
	return nil
}

func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

func createMux(
	tokenAuth *jwtauth.JWTAuth,
	services Services,
	gatherer prometheus.Gatherer,
	logger *logging.ZapLogger,
) *chi.Mux {
	authorizationHandler := handlers.NewAuthorizationHandler(services.Authorization, logger)
	ordersGettingHandler := handlers.NewOrdersGettingHandler(services.Orders, logger)
	orderGettingHandler := handlers.NewOrderGettingHandler(services.Orders, logger)
	orderCreationHandler := handlers.NewOrderCreationHandler(services.Orders, logger)
	statusChangeHandler := handlers.NewStatusChangeHandler(services.Orders, logger)
	vendorsHandler := handlers.NewVendorsHandler(services.Vendors, logger)
	dashboardHandler := handlers.NewDashboardHandler(services.Dashboard, logger)
	healthHandler := handlers.NewHealthHandler(services.Health, logger)

	router := chi.NewRouter()
	router.Use(
		middleware.NewLoggerContext().CreateHandler,
		middleware.NewPanicRecover(logger).CreateHandler,
	)

	router.Get("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}).ServeHTTP)

	router.Route("/api", func(router chi.Router) {
		router.Get("/health", healthHandler.ServeHTTP)
		router.Post("/auth/login", authorizationHandler.ServeHTTP)

		router.Group(func(router chi.Router) {
			router.Use(jwtauth.Verifier(tokenAuth))
			router.Use(jwtauth.Authenticator(tokenAuth))

			router.Get("/orders", ordersGettingHandler.ServeHTTP)
			router.Post("/orders", orderCreationHandler.ServeHTTP)
			router.Get("/orders/{id}", orderGettingHandler.ServeHTTP)
			router.Put("/orders/{id}/status", statusChangeHandler.ServeHTTP)

			router.Get("/vendors", vendorsHandler.List)
			router.Post("/vendors", vendorsHandler.Create)
			router.Put("/vendors/{id}", vendorsHandler.Update)
			router.Delete("/vendors/{id}", vendorsHandler.Delete)

			router.Get("/crm/prospects", vendorsHandler.Prospects)

			router.Get("/dashboard", dashboardHandler.Stats)
			router.Get("/dashboard/vendors/{id}", dashboardHandler.VendorSummary)
		})
	})

	return router
}
