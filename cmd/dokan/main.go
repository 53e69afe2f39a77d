package main

import (
	"context"
	"encoding/hex"
	"log"
	"net/http"
	"time"

	"github.com/dokanhq/dokan/config"
	"github.com/dokanhq/dokan/internal/auth"
	handler "github.com/dokanhq/dokan/internal/handler/http"
	"github.com/dokanhq/dokan/internal/notifier"
	"github.com/dokanhq/dokan/internal/payment"
	"github.com/dokanhq/dokan/internal/repository"
	"github.com/dokanhq/dokan/internal/repository/postgres"
	"github.com/dokanhq/dokan/internal/service"
	"github.com/dokanhq/dokan/internal/worker"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const (
	notificationQueueSize  = 64
	reconciliationInterval = time.Hour
)

// newLogger creates logger with log level
func newLogger(level string) (*zap.Logger, error) {
	loggerLvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	loggerCfg := zap.NewProductionConfig()
	loggerCfg.Level = loggerLvl

	return loggerCfg.Build()
}

func main() {

	// create new config
	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// initialize logger
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Error initializing logger: %v", err)
	}
	defer logger.Sync()

	// create context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// initialize database
	db, err := postgres.New(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("Error initializing database", zap.Error(err))
	}
	defer db.Close()

	// migrate database
	if err := db.Migrate(); err != nil {
		logger.Fatal("Error migrating database", zap.Error(err))
	}

	tokenKey, err := hex.DecodeString(cfg.TokenKey)
	if err != nil {
		logger.Fatal("Error extracting token key", zap.Error(err))
	}
	token := auth.NewAuthToken(tokenKey)

	// dependency injection
	// notifications
	notificationRepo := repository.NewNotificationRepository(db)
	dispatcher := notifier.New(notificationRepo, logger, notificationQueueSize)
	go dispatcher.Run(ctx)

	// auth
	userRepo := repository.NewUserRepository(db)
	authService := service.NewAuthService(userRepo, token)
	authHandler := handler.NewAuthHandler(authService)

	// employees
	employeeRepo := repository.NewEmployeeRepository(db)
	employeeService := service.NewEmployeeService(employeeRepo)
	employeeHandler := handler.NewEmployeeHandler(employeeService)

	// orders
	orderRepo := repository.NewOrderRepository(db)
	orderService := service.NewOrderService(orderRepo, employeeRepo, dispatcher, logger)
	orderHandler := handler.NewOrderHandler(orderService, employeeService)

	// payments
	gateway := payment.NewClient(cfg.GatewayBaseURL, cfg.GatewayKey, cfg.GatewaySecret)
	paymentHandler := handler.NewPaymentHandler(gateway, orderService, logger)

	// background cash reconciliation check
	reconciliation := worker.NewReconciliationWorker(orderService, reconciliationInterval, logger)
	go reconciliation.Run(ctx)

	router := chi.NewRouter()

	router.Use(handler.Logging(logger))

	router.Post("/api/user/register", authHandler.RegisterUser())
	router.Post("/api/user/login", authHandler.LoginUser())
	router.Post("/api/payments/ipn", paymentHandler.HandleIPN())
	router.Get("/api/payments/ipn", paymentHandler.HandleIPN())

	// routes that require authentication
	router.Group(func(group chi.Router) {
		group.Use(handler.AuthMiddleware(token))

		group.Post("/api/orders", orderHandler.CreateOrder())
		group.Get("/api/orders/{number}", orderHandler.GetOrder())
		group.Get("/api/orders/{number}/timeline", orderHandler.GetOrderTimeline())
		group.Get("/api/user/orders", orderHandler.ListUserOrders())

		group.Post("/api/orders/{number}/transitions", orderHandler.ApplyTransition())

		group.Get("/api/admin/orders", orderHandler.ListOrders())
		group.Get("/api/admin/summary", orderHandler.GetOrderSummary())
		group.Post("/api/admin/employees", employeeHandler.CreateEmployee())
		group.Get("/api/admin/employees", employeeHandler.ListEmployees())
		group.Post("/api/admin/employees/{id}/suspend", employeeHandler.SuspendEmployee())
		group.Post("/api/admin/employees/{id}/reactivate", employeeHandler.ReactivateEmployee())
	})

	logger.Info("Running server", zap.String("addr", cfg.ServerAddr))

	if err := http.ListenAndServe(cfg.ServerAddr, router); err != nil {
		logger.Fatal("Error starting server", zap.Error(err))
	}
}
