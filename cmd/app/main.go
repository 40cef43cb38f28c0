package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/chris/marketplace-settlements/pkg/engine"
	"github.com/chris/marketplace-settlements/pkg/events"
	"github.com/chris/marketplace-settlements/pkg/handlers"
	"github.com/chris/marketplace-settlements/pkg/liquidity"
	"github.com/chris/marketplace-settlements/pkg/models"
	"github.com/chris/marketplace-settlements/pkg/provider"
	"github.com/chris/marketplace-settlements/pkg/registry"
	"github.com/chris/marketplace-settlements/pkg/storage"
	dynamostore "github.com/chris/marketplace-settlements/pkg/storage/dynamodb"
	memorystore "github.com/chris/marketplace-settlements/pkg/storage/memory"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, publisher := buildAWSDependencies(ctx, logger)

	catalog := seedProviders()
	reg := registry.New(catalog)
	pools := buildPools(logger)
	adapters := buildAdapters(catalog)

	eng := engine.New(nil, logger, pools, reg, store, publisher, adapters)
	if err := eng.Start(ctx); err != nil {
		logger.Error("failed to start settlement engine", "error", err)
		os.Exit(1)
	}

	router := handlers.NewRouter(eng, logger)

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}
	server := &http.Server{Addr: ":" + port, Handler: router}

	go func() {
		logger.Info("starting server", "port", port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}
	if err := eng.Shutdown(shutdownCtx); err != nil {
		logger.Error("engine shutdown failed", "error", err)
	}
}

// buildAWSDependencies wires the DynamoDB record store and the SQS event
// publisher when their environment variables are set, falling back to
// in-process implementations for local development.
func buildAWSDependencies(ctx context.Context, logger *slog.Logger) (storage.RecordStore, events.Publisher) {
	settlementsTable := os.Getenv("DYNAMODB_SETTLEMENTS_TABLE_NAME")
	eventsQueueURL := os.Getenv("SQS_EVENTS_QUEUE_URL")

	var store storage.RecordStore = memorystore.New()
	var publisher events.Publisher = &events.NoOpPublisher{}

	if settlementsTable == "" && eventsQueueURL == "" {
		logger.Info("no AWS configuration found, using in-memory store and no-op events")
		return store, publisher
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		logger.Error("unable to load AWS SDK config", "error", err)
		os.Exit(1)
	}

	if settlementsTable != "" {
		store = dynamostore.New(dynamodb.NewFromConfig(cfg), settlementsTable)
		logger.Info("using DynamoDB record store", "table", settlementsTable)
	}
	if eventsQueueURL != "" {
		publisher = events.NewSQSPublisher(sqs.NewFromConfig(cfg), eventsQueueURL)
		logger.Info("publishing settlement events to SQS", "queue_url", eventsQueueURL)
	}
	return store, publisher
}

// seedProviders returns the disbursement catalog. Amounts are in minor units.
func seedProviders() []models.Provider {
	return []models.Provider{
		{
			Id:                "bkash",
			Name:              "bKash",
			Currencies:        []string{"BDT"},
			MaxAmount:         25_000_000,
			FeeRate:           decimal.RequireFromString("0.018"),
			ProcessingTime:    2 * time.Second,
			Reliability:       0.95,
			AvailableCapacity: 500_000_000,
			Active:            true,
		},
		{
			Id:                "nagad",
			Name:              "Nagad",
			Currencies:        []string{"BDT"},
			MaxAmount:         25_000_000,
			FeeRate:           decimal.RequireFromString("0.015"),
			ProcessingTime:    4 * time.Second,
			Reliability:       0.92,
			AvailableCapacity: 400_000_000,
			Active:            true,
		},
		{
			Id:                "citybank-wire",
			Name:              "City Bank Wire",
			Currencies:        []string{"BDT", "USD"},
			MaxAmount:         500_000_000,
			FeeRate:           decimal.RequireFromString("0.005"),
			ProcessingTime:    6 * time.Hour,
			Reliability:       0.99,
			AvailableCapacity: 2_000_000_000,
			Active:            true,
		},
		{
			Id:                "rocket",
			Name:              "Rocket",
			Currencies:        []string{"BDT"},
			MaxAmount:         10_000_000,
			FeeRate:           decimal.RequireFromString("0.02"),
			ProcessingTime:    3 * time.Second,
			Reliability:       0.90,
			AvailableCapacity: 200_000_000,
			Active:            false,
		},
	}
}

func buildPools(logger *slog.Logger) *liquidity.Manager {
	pools := liquidity.NewManager()
	if err := pools.CreatePool("BDT", 1_000_000_000, 50_000_000); err != nil {
		logger.Error("failed to seed BDT pool", "error", err)
		os.Exit(1)
	}
	if err := pools.CreatePool("USD", 10_000_000, 500_000); err != nil {
		logger.Error("failed to seed USD pool", "error", err)
		os.Exit(1)
	}
	return pools
}

// buildAdapters returns a sandbox adapter per catalog entry. Real gateway
// integrations plug in here.
func buildAdapters(catalog []models.Provider) map[string]provider.Adapter {
	adapters := make(map[string]provider.Adapter, len(catalog))
	for _, p := range catalog {
		latency := p.ProcessingTime
		if latency > 2*time.Second {
			latency = 2 * time.Second
		}
		adapters[p.Id] = &provider.SandboxAdapter{ProviderID: p.Id, Latency: latency}
	}
	return adapters
}
