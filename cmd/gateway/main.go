package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/redis/go-redis/v9"

	"github.com/amir656/polytrage/internal/config"
	"github.com/amir656/polytrage/internal/gateway"
	"github.com/amir656/polytrage/internal/gateway/hub"
	"github.com/amir656/polytrage/internal/logging"
	"github.com/amir656/polytrage/internal/store"
	"github.com/amir656/polytrage/internal/stream"
)

func main() {
	fmt.Println("🚀 Starting Gateway...")

	cfg := config.Load()

	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.LogLevel
	logCfg.OutputFile = cfg.LogFile
	if err := logging.Init(logCfg); err != nil {
		fmt.Printf("❌ Failed to init logging: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.URL,
		Password: cfg.Redis.Password,
		DB:       0,
	})

	if err := redisClient.Ping(ctx).Err(); err != nil {
		fmt.Printf("❌ Failed to connect to Redis: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("✓ Connected to Redis")

	st, err := store.Open(ctx, cfg.Postgres.DSN)
	if err != nil {
		fmt.Printf("❌ Failed to connect to Postgres: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()
	fmt.Println("✓ Connected to Postgres")

	h := hub.NewHub()
	go h.Run(ctx)

	feed := gateway.NewFeed(
		stream.NewConsumer(redisClient, cfg.Gateway.ConsumerID, cfg.Gateway.GroupName),
		h,
	)
	go feed.Run(ctx)

	handler := gateway.NewHandler(ctx, st, h)

	server := &http.Server{
		Addr:    cfg.Gateway.HTTPAddr,
		Handler: handler.Router(cfg.Gateway.AllowedOrigins),
	}

	go func() {
		fmt.Printf("✓ Gateway listening on %s\n", cfg.Gateway.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Printf("❌ Server error: %v\n", err)
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	fmt.Println("\n🛑 Shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		fmt.Printf("⚠️  Server shutdown error: %v\n", err)
	}

	redisClient.Close()
	fmt.Println("✓ Shutdown complete")
}
