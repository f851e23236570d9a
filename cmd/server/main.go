package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/vanshika/costar/internal/config"
	"github.com/vanshika/costar/internal/dataset"
	"github.com/vanshika/costar/internal/domain"
	"github.com/vanshika/costar/internal/graphdb"
	"github.com/vanshika/costar/internal/logging"
	"github.com/vanshika/costar/internal/repository"
	"github.com/vanshika/costar/internal/server"
	"github.com/vanshika/costar/internal/service"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging)

	source, graphClient, err := buildCreditSource(ctx, logger, cfg)
	if err != nil {
		logger.Error("failed to create credit source", "error", err)
		os.Exit(1)
	}
	defer func() {
		if graphClient != nil {
			if err := graphClient.Close(context.Background()); err != nil {
				logger.Warn("closing graph client failed", "error", err)
			}
		}
	}()

	costars := service.NewCostarService(source, service.Config{
		BaconActor:        domain.ActorID(cfg.Dataset.BaconActor),
		Workers:           cfg.Search.Workers,
		ParallelThreshold: cfg.Search.ParallelThreshold,
		Logger:            logger,
	})
	if _, err := costars.Load(ctx); err != nil {
		logger.Error("initial graph load failed", "error", err, "source", source.Describe())
		os.Exit(1)
	}

	health := server.HealthChecks{server.LoadedHealthService{Service: costars}}
	if graphClient != nil {
		health = append(health, server.GraphHealthService{Client: graphClient})
	}

	router := server.NewRouter(logger, server.RouterDependencies{
		Health:           health,
		API:              server.NewAPIHandlers(logger, costars, cfg.HTTP.AdminToken),
		MetricsEnabled:   cfg.HTTP.MetricsEnabled,
		AllowedOrigins:   server.SplitOrigins(cfg.HTTP.AllowedOriginsCSV),
		AllowCredentials: true,
	})

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.New(logger, cfg.HTTP, router).Run(ctx); err != nil {
		logger.Error("server stopped unexpectedly", "error", err)
		os.Exit(1)
	}
}

// buildCreditSource prefers Neo4j when GRAPH_URI is set and falls back to dataset files.
// The returned client is nil for file sources.
func buildCreditSource(ctx context.Context, logger *slog.Logger, cfg config.Config) (service.CreditSource, graphdb.Client, error) {
	if !cfg.UseGraphDB() {
		files := dataset.Files{
			CreditsPath: cfg.Dataset.CreditsPath,
			ActorsPath:  cfg.Dataset.ActorsPath,
			FilmsPath:   cfg.Dataset.FilmsPath,
		}
		logger.Info("serving credits from files", "credits", files.CreditsPath)
		return dataset.NewFileSource(files), nil, nil
	}

	client, err := graphdb.NewNeo4jClient(ctx, graphdb.Options{
		URI:            cfg.Graph.URI,
		Database:       cfg.Graph.Database,
		Username:       cfg.Graph.Username,
		Password:       cfg.Graph.Password,
		MaxConnections: cfg.Graph.MaxConnections,
	})
	if err != nil {
		return nil, nil, err
	}
	logger.Info("serving credits from graph database", "uri", cfg.Graph.URI, "database", cfg.Graph.Database)
	return repository.New(client).WithPageSize(cfg.Graph.PageSize), client, nil
}
