package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/akshay-gocharting/gocharting-sdk-demo/api"
	"github.com/akshay-gocharting/gocharting-sdk-demo/internal/broker"
	"github.com/akshay-gocharting/gocharting-sdk-demo/internal/catalog"
	"github.com/akshay-gocharting/gocharting-sdk-demo/internal/chart"
	"github.com/akshay-gocharting/gocharting-sdk-demo/internal/config"
	core2 "github.com/akshay-gocharting/gocharting-sdk-demo/internal/core"
	"github.com/akshay-gocharting/gocharting-sdk-demo/internal/data"
	"github.com/akshay-gocharting/gocharting-sdk-demo/internal/datafeed"
	"github.com/akshay-gocharting/gocharting-sdk-demo/internal/feed"
)

func main() {
	// Create a context that can be cancelled
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := slog.Default()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	cfg, err := config.Load("config")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// 1. Static symbol catalog from config (no ambient globals)
	cat := catalog.New(cfg.CatalogSymbols())

	// 2. In-memory bar storage (pluggable - can be replaced with database, etc.)
	barStorage := data.NewInMemoryBarStorage()

	// 3. Bar ingestion service (reads ticks from a channel and maintains 1m bars)
	barIngestion := core2.NewBarIngestionService(barStorage, logger)
	barIngestion.Start(ctx)

	// 4. Demo tick generator feeding the ingestion channel
	genCfg := feed.DefaultGeneratorConfig()
	genCfg.Symbols = cat.Symbols()
	genCfg.BasePrices = cfg.BasePrices()
	genCfg.Interval = cfg.Feed.TickInterval
	genCfg.Volatility = cfg.Feed.Volatility
	genCfg.HistoryHours = cfg.Feed.HistoryHours
	generator := feed.NewTickGenerator(barIngestion.GetTickChannel(), genCfg)
	generator.Start(ctx)

	// 5. Datafeed adapter over catalog + storage
	chartFeed := datafeed.New(cat, barStorage, cfg.Feed.TickInterval, logger)

	// 6. Chart host: mount the (demo) engine, wait for ready, apply broker data
	snapshot := broker.NewDemoSnapshot(cat.Symbols())
	host := chart.NewHost(chart.NewDemoCreateChart(logger), chart.Options{
		Symbol:        cfg.Chart.Symbol,
		Interval:      cfg.Chart.Interval,
		Theme:         cfg.Chart.Theme,
		EnableTrading: cfg.Chart.EnableTrading,
		Datafeed:      chartFeed,
	}, snapshot, logger)

	if err := host.Mount(ctx); err != nil {
		// Non-fatal: the API still serves data, /status reports the failure
		logger.Error("chart mount failed", "error", err)
	}

	go func() {
		<-sigChan
		fmt.Println("\nReceived shutdown signal, stopping services...")
		host.Close() // tears down the engine and destroys the datafeed
		cancel()     // stops the generator and ingestion
	}()

	// API handler exposing the datafeed and chart status
	apiHandler := api.NewAPIHandler(chartFeed, host, logger)

	port := cfg.Server.Port
	fmt.Printf("GoCharting demo feed starting on port %d\n", port)
	fmt.Printf("Endpoints:\n")
	fmt.Printf("  GET /api/v1/symbols/BTC-USD\n")
	fmt.Printf("  GET /api/v1/search?query=BTC\n")
	fmt.Printf("  GET /api/v1/bars?symbol=BTC-USD&resolution=1&from=...&to=...\n")
	fmt.Printf("  GET /api/v1/stream?symbol=BTC-USD&resolution=1 (WebSocket)\n")
	fmt.Printf("  GET /status\n")
	fmt.Printf("  GET /health\n")
	fmt.Printf("Press Ctrl+C to gracefully shutdown\n")

	log.Fatal(apiHandler.StartServer(port))
}
