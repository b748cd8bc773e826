package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"github.com/redis/go-redis/v9"

	"github.com/amir656/polytrage/internal/config"
	"github.com/amir656/polytrage/internal/logging"
	"github.com/amir656/polytrage/internal/scanner"
	"github.com/amir656/polytrage/internal/scanner/detector"
	"github.com/amir656/polytrage/internal/scanner/markets"
	"github.com/amir656/polytrage/internal/scanner/pyth"
	"github.com/amir656/polytrage/internal/store"
	"github.com/amir656/polytrage/internal/stream"
)

func main() {
	fmt.Println("🚀 Starting Scanner...")

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

	engine := scanner.NewEngine(
		pyth.NewClient(cfg.Scanner.PythEndpoint, pyth.DefaultFeedIDs),
		markets.NewMockProvider(),
		detector.New(),
		st,
		stream.NewPublisher(redisClient),
		cfg.Scanner,
	)

	go func() {
		fmt.Printf("✓ Scanner running (interval %s)\n", cfg.Scanner.ScanInterval)
		engine.Run(ctx)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	fmt.Println("\n🛑 Shutting down...")
	cancel()
	redisClient.Close()
	fmt.Println("✓ Shutdown complete")
}
