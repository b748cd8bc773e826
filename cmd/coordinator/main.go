package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/redis/go-redis/v9"

	"github.com/amir656/polytrage/internal/analyzer"
	"github.com/amir656/polytrage/internal/analyzer/reasoning"
	"github.com/amir656/polytrage/internal/config"
	"github.com/amir656/polytrage/internal/executor"
	"github.com/amir656/polytrage/internal/executor/notifier"
	"github.com/amir656/polytrage/internal/executor/vincent"
	"github.com/amir656/polytrage/internal/logging"
	"github.com/amir656/polytrage/internal/scanner"
	"github.com/amir656/polytrage/internal/scanner/detector"
	"github.com/amir656/polytrage/internal/scanner/markets"
	"github.com/amir656/polytrage/internal/scanner/pyth"
	"github.com/amir656/polytrage/internal/store"
	"github.com/amir656/polytrage/internal/stream"
)

// metricsInterval is how often the coordinator reports pipeline counters
const metricsInterval = 60 * time.Second

// The coordinator runs the whole pipeline in one process for local demos:
// scanner, analyzer, and executor wired through the same Redis streams
// they use when deployed separately.
func main() {
	fmt.Println("🚀 Starting Pipeline Coordinator...")

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

	publisher := stream.NewPublisher(redisClient)

	scannerEngine := scanner.NewEngine(
		pyth.NewClient(cfg.Scanner.PythEndpoint, pyth.DefaultFeedIDs),
		markets.NewMockProvider(),
		detector.New(),
		st,
		publisher,
		cfg.Scanner,
	)

	analyzerEngine := analyzer.NewEngine(
		reasoning.NewEngine(reasoning.DefaultKnowledgeBase()),
		stream.NewConsumer(redisClient, cfg.Analyzer.ConsumerID, cfg.Analyzer.GroupName),
		publisher,
		cfg.Analyzer,
	)

	executorEngine := executor.NewEngine(
		stream.NewConsumer(redisClient, cfg.Executor.ConsumerID, cfg.Executor.GroupName),
		publisher,
		vincent.NewClient(cfg.Executor.VincentApp, cfg.Executor.BaseRPCURL),
		st,
		st,
		notifier.NewSlackNotifier(cfg.Executor.SlackWebhookURL),
		cfg.Executor,
	)

	go scannerEngine.Run(ctx)
	go analyzerEngine.Run(ctx)
	go executorEngine.Run(ctx)
	fmt.Println("✓ Pipeline running: scanner → analyzer → executor")

	go reportMetrics(ctx, scannerEngine, analyzerEngine, executorEngine)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	fmt.Println("\n🛑 Shutting down...")
	cancel()
	redisClient.Close()
	fmt.Println("✓ Shutdown complete")
}

// reportMetrics periodically prints pipeline counters
func reportMetrics(ctx context.Context, sc *scanner.Engine, an *analyzer.Engine, ex *executor.Engine) {
	ticker := time.NewTicker(metricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			scm := sc.Metrics()
			anm := an.Metrics()
			exm := ex.Metrics()

			fmt.Printf("📊 Pipeline: scans=%d (failed=%d) opportunities=%d analyzed=%d pending=%d skipped=%d executed=%d failed=%d\n",
				scm.ScansCompleted, scm.ScansFailed, scm.OpportunitiesFound,
				anm.OpportunitiesSeen, anm.Pending, anm.Skipped,
				exm.TradesExecuted, exm.TradesFailed)
		}
	}
}
