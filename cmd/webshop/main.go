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

	"github.com/csukav/Webshop/internal/auth"
	authrepo "github.com/csukav/Webshop/internal/auth/repository"
	cartcache "github.com/csukav/Webshop/internal/cart/cache"
	cartrepo "github.com/csukav/Webshop/internal/cart/repository"
	cartservice "github.com/csukav/Webshop/internal/cart/service"
	catalogrepo "github.com/csukav/Webshop/internal/catalog/repository"
	catalogservice "github.com/csukav/Webshop/internal/catalog/service"
	"github.com/csukav/Webshop/internal/checkout"
	"github.com/csukav/Webshop/internal/checkout/publisher"
	"github.com/csukav/Webshop/internal/config"
	"github.com/csukav/Webshop/internal/httpapi"
	ordersrepo "github.com/csukav/Webshop/internal/orders/repository"
	"github.com/csukav/Webshop/internal/postgres"
	"github.com/csukav/Webshop/internal/storage"
)

func main() {
	log.Println("webshop starting...")

	cfg := config.Load()

	// Postgres: catalog, orders, profiles
	db, err := postgres.Connect(&postgres.Credentials{
		Host:     cfg.PostgresHost,
		Port:     cfg.PostgresPort,
		User:     cfg.PostgresUser,
		Password: cfg.PostgresPassword,
		DBName:   cfg.PostgresDB,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := postgres.RunMigrations(db, cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	// MongoDB: durable cart store
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	mongoDB, err := cartrepo.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		cancel()
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	if err := cartrepo.EnsureIndexes(ctx, mongoDB); err != nil {
		log.Printf("cart index creation failed: %v", err)
	}
	cancel()

	// Redis: cart cache and sessions
	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer redisClient.Close()

	cartService := cartservice.NewCartService(
		cartrepo.NewMongoRepository(mongoDB),
		cartcache.NewRedisCache(redisClient),
	)

	catalogService := catalogservice.NewCatalogService(catalogrepo.NewRepository(db))

	orderRepository := ordersrepo.NewRepository(db)
	checkoutService := checkout.NewService(orderRepository, cartService)

	sessions := auth.NewSessionStore(redisClient, cfg.SessionTTL)
	authService := auth.NewService(authrepo.NewRepository(db), sessions)

	imageStore, err := storage.NewImageStore(storage.Config{
		Endpoint:  cfg.MinioEndpoint,
		AccessKey: cfg.MinioAccessKey,
		SecretKey: cfg.MinioSecretKey,
		Bucket:    cfg.MinioBucket,
		UseSSL:    cfg.MinioUseSSL,
	})
	if err != nil {
		log.Fatalf("Failed to create image store: %v", err)
	}
	bucketCtx, bucketCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := imageStore.EnsureBucket(bucketCtx); err != nil {
		log.Printf("image bucket check failed (uploads may not work): %v", err)
	}
	bucketCancel()

	// Outbox poller publishes order events to Kafka
	pollerCtx, pollerCancel := context.WithCancel(context.Background())
	defer pollerCancel()
	poller := publisher.NewOutboxPoller(orderRepository, cfg.KafkaTopic, cfg.KafkaBrokers...)
	go poller.Run(pollerCtx)

	handler := httpapi.NewRouter(httpapi.RouterDeps{
		Auth:           httpapi.NewAuthHandler(authService, cfg.SessionTTL),
		Cart:           httpapi.NewCartHandler(cartService, catalogService),
		Catalog:        httpapi.NewCatalogHandler(catalogService),
		Checkout:       httpapi.NewCheckoutHandler(checkoutService),
		Orders:         httpapi.NewOrdersHandler(orderRepository),
		Admin:          httpapi.NewAdminHandler(catalogService, orderRepository, imageStore),
		AuthService:    authService,
		RequestTimeout: cfg.RequestTimeout,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("webshop listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	pollerCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}
