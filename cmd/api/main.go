package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"lumera/internal/config"
	"lumera/internal/db"
	"lumera/internal/events"
	"lumera/internal/httpserver"
	"lumera/internal/repository/cartstore"
	customerrepo "lumera/internal/repository/customer"
	orderrepo "lumera/internal/repository/order"
	pricerepo "lumera/internal/repository/price"
	productrepo "lumera/internal/repository/product"
	tokenrepo "lumera/internal/repository/token"
	cartsvc "lumera/internal/service/cart"
	"lumera/internal/service/catalog"
	customersvc "lumera/internal/service/customer"
	ordersvc "lumera/internal/service/order"
	paymentsvc "lumera/internal/service/payment"
	"lumera/internal/service/pricing"
)

func main() {
	cfg := config.Load()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	redisClient, err := db.ConnectRedis(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Fatalf("connect to redis: %v", err)
	}
	defer redisClient.Close()

	publisher, err := events.NewClient(cfg.AMQPURL, logger)
	if err != nil {
		logger.Fatalf("connect to broker: %v", err)
	}
	defer publisher.Close()

	productRepo := productrepo.NewPostgres(dbpool, logger)
	priceRepo := pricerepo.NewPostgres(dbpool, logger)
	customerRepo := customerrepo.NewPostgres(dbpool, logger)
	tokenRepo := tokenrepo.NewPostgres(dbpool)
	orderRepo := orderrepo.NewPostgres(dbpool, logger)
	cartStore := cartstore.NewRedis(redisClient, 0, logger)

	gate := pricing.NewGate(priceRepo, customerRepo, logger)
	catalogService := catalog.New(productRepo, gate, logger)
	cartService := cartsvc.New(cartStore, logger)
	orderService := ordersvc.New(orderRepo, publisher, logger)
	paymentService := paymentsvc.New(orderRepo, publisher, logger)
	customerService := customersvc.New(customerRepo, tokenRepo)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		CatalogSvc:    catalogService,
		CartSvc:       cartService,
		PricingSvc:    gate,
		OrderSvc:      orderService,
		PaymentSvc:    paymentService,
		CustomerSvc:   customerService,
		CORSOrigins:   cfg.CORSOrigins,
		WebhookSecret: cfg.WebhookSecret,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}

	// Pending debounced cart saves go out before the process exits.
	cartService.Flush(shutdownCtx)
}
