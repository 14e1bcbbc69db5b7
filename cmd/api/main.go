package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	redis "github.com/redis/go-redis/v9"

	v1 "github.com/emalsert/sr03devoir2/cmd/api/router/v1"
	"github.com/emalsert/sr03devoir2/internal/infrastructure/auth"
	cacheadapter "github.com/emalsert/sr03devoir2/internal/infrastructure/cache/adapter"
	"github.com/emalsert/sr03devoir2/internal/infrastructure/database"
	queueadapter "github.com/emalsert/sr03devoir2/internal/infrastructure/queue/adapter"
	"github.com/emalsert/sr03devoir2/internal/infrastructure/realtime"
	"github.com/emalsert/sr03devoir2/internal/pkg/channel/application/task"
	httpHandler "github.com/emalsert/sr03devoir2/internal/pkg/channel/presentation/http"
	useradapter "github.com/emalsert/sr03devoir2/internal/repository/adapter"
	"github.com/emalsert/sr03devoir2/pkg/config"
	"github.com/emalsert/sr03devoir2/pkg/logging"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}

	bootLogger := logging.New(logging.ParseLevel("info"))
	cfg, err := config.Load(bootLogger, "config")
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	logger := logging.New(logging.ParseLevel(cfg.Chat.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to the database on startup
	connCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	pool, err := database.Connect(connCtx, cfg.Database.URL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer pool.Close()

	cache, err := cacheadapter.NewRedisCache(cfg.Redis.URL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer cache.Close()

	queueClient, err := queueadapter.NewAsynqClient(cfg.Redis.URL)
	if err != nil {
		log.Fatalf("failed to create queue client: %v", err)
	}
	defer queueClient.Close()

	queueServer, err := queueadapter.NewAsynqServer(cfg.Redis.URL, logger)
	if err != nil {
		log.Fatalf("failed to create queue server: %v", err)
	}
	task.RegisterInvitationEmailTask(queueServer, logger)

	hub := realtime.NewHub()
	defer hub.Close()
	presence := realtime.NewPresence()

	relayOpt, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		log.Fatalf("invalid redis url: %v", err)
	}
	relayClient := redis.NewClient(relayOpt)
	defer relayClient.Close()
	relay := realtime.NewRelay(relayClient, hub, logger)

	broadcaster := realtime.NewBroadcaster(hub, relay, cfg.Chat.MaxFileSizeBytes)

	verifier := auth.NewJWTVerifier(cfg.Auth.JWTSecret, useradapter.NewPgUserRepository(pool), cache)

	r := gin.Default()
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	v1.RegisterRoutes(r, httpHandler.Deps{
		Pool:        pool,
		Queue:       queueClient,
		Hub:         hub,
		Presence:    presence,
		Broadcaster: broadcaster,
		Verifier:    verifier,
		Logger:      logger,
		MaxFileSize: cfg.Chat.MaxFileSizeBytes,
	})

	srv := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: r,
	}

	go func() {
		if err := relay.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("relay stopped", "error", err)
		}
	}()

	go func() {
		if err := queueServer.Run(ctx); err != nil {
			logger.Error("queue worker stopped", "error", err)
		}
	}()

	go func() {
		logger.Info("http server listening", "address", cfg.Server.Address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "error", err)
	}
}
