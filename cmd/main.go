package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/freshconcept/ordering/internal/adapter/amqp"
	"github.com/freshconcept/ordering/internal/adapter/logger"
	"github.com/freshconcept/ordering/internal/adapter/postgres"
	"github.com/freshconcept/ordering/internal/adapter/rabbitmq"
	"github.com/freshconcept/ordering/internal/app/account"
	"github.com/freshconcept/ordering/internal/app/catalog"
	"github.com/freshconcept/ordering/internal/app/order"
	"github.com/freshconcept/ordering/internal/config"

	httpAdapter "github.com/freshconcept/ordering/internal/adapter/http"
)

func main() {
	mode := flag.String("mode", "", "Service mode: order-service, notification-subscriber")
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	port := flag.Int("port", 0, "HTTP port (overrides config)")
	prefetch := flag.Int("prefetch", 1, "RabbitMQ prefetch count")
	flag.Parse()

	if *mode == "" {
		log.Fatal("--mode flag is required")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *port != 0 {
		cfg.HTTP.Port = *port
	}

	ctx := context.Background()
	lgr := logger.New(*mode)

	db, err := postgres.Connect(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer db.Close()

	lgr.Info("db_connected", "Connected to PostgreSQL database", "", map[string]interface{}{
		"host": cfg.Database.Host,
		"db":   cfg.Database.Database,
	})

	mqConn, err := rabbitmq.Connect(cfg.RabbitMQ)
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer mqConn.Close()

	lgr.Info("rabbitmq_connected", "Connected to RabbitMQ", "", map[string]interface{}{
		"host": cfg.RabbitMQ.Host,
	})

	switch *mode {
	case "order-service":
		runOrderService(db, mqConn, lgr, cfg.HTTP.Port)

	case "notification-subscriber":
		runNotificationSubscriber(ctx, mqConn, lgr, *prefetch)

	default:
		log.Fatalf("Invalid mode: %s", *mode)
	}
}

func runOrderService(db postgres.DB, mqConn rabbitmq.Connection, lgr logger.Logger, port int) {
	customerRepo := postgres.NewCustomerRepository(db)
	productRepo := postgres.NewProductRepository(db)
	orderRepo := postgres.NewOrderRepository(db)
	userRepo := postgres.NewUserRepository(db)

	publisher := rabbitmq.NewPublisher(mqConn)

	orderService := order.NewService(orderRepo, customerRepo, productRepo, publisher, lgr)
	catalogService := catalog.NewService(productRepo, lgr)
	accountService := account.NewService(customerRepo, userRepo, lgr)

	orderHandler := httpAdapter.NewOrderHandler(orderService, lgr)
	catalogHandler := httpAdapter.NewCatalogHandler(catalogService, lgr)
	accountHandler := httpAdapter.NewAccountHandler(accountService, lgr)

	handler := httpAdapter.NewRouter(orderHandler, catalogHandler, accountHandler, accountService, lgr)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	lgr.Info("service_started", fmt.Sprintf("Ordering service started on port %d", port), "", map[string]interface{}{
		"port": port,
	})

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		lgr.Info("shutdown_initiated", "Shutting down ordering service", "", nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			lgr.Error("shutdown_error", "Error during shutdown", "", nil, err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		lgr.Error("server_error", "Server error", "", nil, err)
	}
}

func runNotificationSubscriber(ctx context.Context, mqConn rabbitmq.Connection, lgr logger.Logger, prefetch int) {
	consumer := rabbitmq.NewConsumer(mqConn, prefetch)
	notificationHandler := amqp.NewNotificationHandler(lgr)

	lgr.Info("service_started", "Notification subscriber started", "", nil)

	go func() {
		if err := consumer.ConsumeOrderEvents(ctx, notificationHandler.HandleOrderEvent); err != nil {
			lgr.Error("consumer_error", "Error consuming order events", "", nil, err)
		}
	}()

	sigint := make(chan os.Signal, 1)
	signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
	<-sigint

	lgr.Info("shutdown_initiated", "Shutting down notification subscriber", "", nil)
}
