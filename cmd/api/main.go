package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/veloara/go-storefront-api/internal/config"
	"github.com/veloara/go-storefront-api/internal/handler"
	"github.com/veloara/go-storefront-api/internal/middleware"
	"github.com/veloara/go-storefront-api/internal/repository"
	"github.com/veloara/go-storefront-api/internal/service"
	"github.com/veloara/go-storefront-api/internal/worker"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		log.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// PostgreSQL
	poolCfg, err := pgxpool.ParseConfig(cfg.DB.DSN())
	if err != nil {
		log.Error("parse db config", "error", err)
		os.Exit(1)
	}
	poolCfg.MaxConns = cfg.DB.MaxConns

	dbPool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		log.Error("connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	if err := dbPool.Ping(ctx); err != nil {
		log.Error("ping database", "error", err)
		os.Exit(1)
	}
	log.Info("connected to PostgreSQL")

	// Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Error("connect to Redis", "error", err)
		os.Exit(1)
	}
	log.Info("connected to Redis")

	// RabbitMQ
	amqpConn, err := amqp.Dial(cfg.RabbitMQ.URL)
	if err != nil {
		log.Error("connect to RabbitMQ", "error", err)
		os.Exit(1)
	}
	defer amqpConn.Close()

	amqpCh, err := amqpConn.Channel()
	if err != nil {
		log.Error("open RabbitMQ channel", "error", err)
		os.Exit(1)
	}
	defer amqpCh.Close()

	if err := worker.SetupRabbitMQ(amqpCh); err != nil {
		log.Error("setup RabbitMQ", "error", err)
		os.Exit(1)
	}
	log.Info("connected to RabbitMQ")

	// Repositories
	userRepo := repository.NewUserRepository(dbPool)
	productRepo := repository.NewProductRepository(dbPool)
	cartRepo := repository.NewCartRepository(dbPool)
	wishlistRepo := repository.NewWishlistRepository(dbPool)
	orderRepo := repository.NewOrderRepository(dbPool)
	addressRepo := repository.NewAddressRepository(dbPool)

	// Services
	authSvc := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	productSvc := service.NewProductService(productRepo, redisClient)
	cartSvc := service.NewCartService(cartRepo, productRepo)
	wishlistSvc := service.NewWishlistService(wishlistRepo, productRepo)
	orderSvc := service.NewOrderService(orderRepo, userRepo, amqpCh)
	addressSvc := service.NewAddressService(addressRepo)

	// Handlers
	authH := handler.NewAuthHandler(authSvc)
	productH := handler.NewProductHandler(productSvc)
	cartH := handler.NewCartHandler(cartSvc, log)
	wishlistH := handler.NewWishlistHandler(wishlistSvc)
	orderH := handler.NewOrderHandler(orderSvc)
	addressH := handler.NewAddressHandler(addressSvc)
	healthH := handler.NewHealthHandler(dbPool, redisClient, amqpConn)

	// Worker
	fulfillment := worker.NewFulfillmentWorker(amqpCh, orderRepo, productRepo, redisClient, log)

	// Router
	router := gin.Default()
	router.GET("/healthz", healthH.Healthz)
	router.GET("/readyz", healthH.Readyz)

	authRequired := middleware.AuthMiddleware(cfg.JWT.Secret)
	adminOnly := middleware.RequireAdmin(userRepo)

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		auth.POST("/google-login", authH.GoogleLogin)
		auth.GET("/me", authRequired, authH.Me)

		products := v1.Group("/products")
		products.GET("", productH.List)
		products.GET("/search", productH.Search)
		products.GET("/:id", productH.GetByID)

		admin := products.Group("", authRequired, adminOnly)
		admin.POST("", productH.Create)
		admin.PUT("/:id", productH.Update)
		admin.DELETE("/:id", productH.Delete)

		cart := v1.Group("/cart", authRequired)
		cart.GET("", cartH.GetCart)
		cart.GET("/detailed", cartH.GetDetailedCart)
		cart.POST("/add", cartH.AddItem)
		cart.PUT("/update", cartH.UpdateItem)
		cart.DELETE("/remove/:productId", cartH.RemoveItem)
		cart.DELETE("/clear", cartH.Clear)
		cart.POST("/clean", cartH.Dedupe)

		wishlist := v1.Group("/wishlist", authRequired)
		wishlist.GET("", wishlistH.GetWishlist)
		wishlist.POST("/add", wishlistH.AddItem)
		wishlist.DELETE("/remove/:productId", wishlistH.RemoveItem)
		wishlist.DELETE("/clear", wishlistH.Clear)

		orders := v1.Group("/orders", authRequired)
		orders.POST("/create", orderH.Create)
		orders.GET("/my-orders", orderH.ListMine)
		orders.GET("/all", orderH.ListAll)
		orders.PUT("/update-status/:id", orderH.UpdateStatus)

		addresses := v1.Group("/addresses", authRequired)
		addresses.GET("", addressH.List)
		addresses.POST("/add", addressH.Create)
		addresses.PUT("/update/:id", addressH.Update)
		addresses.DELETE("/delete/:id", addressH.Delete)
	}

	if err := fulfillment.Start(ctx); err != nil {
		log.Error("start fulfillment worker", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("starting HTTP server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", "error", err)
	}

	fulfillment.Stop()
	time.Sleep(500 * time.Millisecond)
	cancel()
	log.Info("server stopped")
}
