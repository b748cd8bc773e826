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
	"github.com/amir656/polytrage/internal/executor"
	"github.com/amir656/polytrage/internal/executor/notifier"
	"github.com/amir656/polytrage/internal/executor/vincent"
	"github.com/amir656/polytrage/internal/logging"
	"github.com/amir656/polytrage/internal/store"
	"github.com/amir656/polytrage/internal/stream"
)

func main() {
	fmt.Println("🚀 Starting Executor...")

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

	if _, err := st.EnsureDefaultPolicy(ctx); err != nil {
		fmt.Printf("❌ Failed to ensure default policy: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("✓ User policy ready")

	if cfg.Executor.SlackWebhookURL != "" {
		fmt.Println("✓ Slack notifications enabled")
	}

	engine := executor.NewEngine(
		stream.NewConsumer(redisClient, cfg.Executor.ConsumerID, cfg.Executor.GroupName),
		stream.NewPublisher(redisClient),
		vincent.NewClient(cfg.Executor.VincentApp, cfg.Executor.BaseRPCURL),
		st,
		st,
		notifier.NewSlackNotifier(cfg.Executor.SlackWebhookURL),
		cfg.Executor,
	)

	go engine.Run(ctx)
	fmt.Println("✓ Executor running")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	fmt.Println("\n🛑 Shutting down...")
	cancel()
	redisClient.Close()
	fmt.Println("✓ Shutdown complete")
}
