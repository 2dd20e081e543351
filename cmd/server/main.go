package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fjod/go_storefront/internal/carts"
	"github.com/fjod/go_storefront/internal/catalog"
	"github.com/fjod/go_storefront/internal/checkout"
	"github.com/fjod/go_storefront/internal/config"
	"github.com/fjod/go_storefront/internal/draftstore"
	"github.com/fjod/go_storefront/internal/gateway"
	"github.com/fjod/go_storefront/internal/orders"
	"github.com/fjod/go_storefront/internal/profile"
	"github.com/fjod/go_storefront/internal/publisher"
	"github.com/fjod/go_storefront/internal/session"
)

func main() {
	log.Println("storefront starting...")

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// MongoDB holds carts and saved addresses
	mongoDB, err := carts.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	if err := carts.EnsureIndexes(ctx, mongoDB); err != nil {
		log.Fatalf("Failed to create cart indexes: %v", err)
	}
	log.Printf("Connected to MongoDB at %s", cfg.MongoURI)

	// Redis backs the cart cache, order drafts and anonymous sessions
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()
	log.Printf("Connected to Redis at %s", cfg.RedisAddr)

	// Postgres holds orders and the outbox
	creds := &orders.Credentials{
		Host:              cfg.PostgresHost,
		Port:              cfg.PostgresPort,
		User:              cfg.PostgresUser,
		Password:          cfg.PostgresPassword,
		DBName:            cfg.PostgresDB,
		MigrationsDirPath: cfg.MigrationsPath,
	}
	orderRepo, err := orders.NewRepository(creds)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer orderRepo.Close()

	if err := orderRepo.RunMigrations(creds); err != nil {
		log.Fatalf("Failed to run order migrations: %v", err)
	}
	log.Println("Order migrations completed")

	// SQLite holds the product catalog
	catalogRepo, err := catalog.NewRepository(cfg.CatalogDBPath)
	if err != nil {
		log.Fatalf("Failed to open catalog database: %v", err)
	}
	defer catalogRepo.Close()

	if err := catalogRepo.RunMigrations(cfg.CatalogMigrationsPath); err != nil {
		log.Fatalf("Failed to run catalog migrations: %v", err)
	}
	log.Println("Catalog migrations completed")

	// Services
	cartService := carts.NewService(carts.NewMongoRepository(mongoDB), carts.NewRedisCache(redisClient))
	orderService := orders.NewService(orderRepo)
	profileService := profile.NewService(profile.NewMongoRepository(mongoDB))
	sessionStore := session.NewStore(redisClient)
	draftStore := draftstore.NewRedisStore(redisClient)

	requestTimeout := 5 * time.Second
	orchestrator := checkout.NewOrchestrator(
		draftStore,
		checkout.NewOrderHandler(orderService, requestTimeout),
		checkout.NewCartHandler(cartService, requestTimeout),
		checkout.NewProductHandler(catalogRepo, requestTimeout),
		checkout.NewProfileHandler(profileService, requestTimeout),
		nil,
	)

	// Background workers: outbox publisher and order-events cart cleanup
	outboxPoller := publisher.NewOutboxPoller(orderRepo, cfg.KafkaBrokers...)
	go outboxPoller.Run(ctx)

	cartPoller := carts.NewPoller(cartService, cfg.KafkaBrokers...)
	go cartPoller.Run(ctx)

	router := gateway.NewRouter(gateway.Handlers{
		Cart:     gateway.NewCartHandler(cartService, cfg.RequestTimeout),
		Checkout: gateway.NewCheckoutHandler(orchestrator, cfg.RequestTimeout),
		Products: gateway.NewProductHandler(catalogRepo, cfg.RequestTimeout),
		Orders:   gateway.NewOrderHandler(orderService, cfg.RequestTimeout),
		Address:  gateway.NewAddressHandler(profileService, cfg.RequestTimeout),
		Sessions: sessionStore,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Storefront listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down storefront...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("storefront stopped")
}
