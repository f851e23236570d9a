package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/vanshika/costar/internal/config"
	"github.com/vanshika/costar/internal/dataset"
	"github.com/vanshika/costar/internal/graphdb"
	"github.com/vanshika/costar/internal/logging"
	"github.com/vanshika/costar/internal/repository"
	"github.com/vanshika/costar/internal/service"
)

var errMissingDataset = errors.New("dataset not found")

func main() {
	var (
		datasetDir  = flag.String("dataset-dir", "./data", "Directory containing credits, names and films files")
		format      = flag.String("format", string(dataset.FormatJSON), "Extension to look for in dataset-dir (json, msgpack, yaml)")
		creditsPath = flag.String("credits", "", "Path to the credits file (overrides dataset-dir)")
		actorsPath  = flag.String("names", "", "Path to the actor name table (overrides dataset-dir)")
		filmsPath   = flag.String("films", "", "Path to the film title table (overrides dataset-dir)")
		workers     = flag.Int("workers", 4, "Number of concurrent workers for ingestion")
		batchSize   = flag.Int("batch-size", 1000, "Rows per write transaction")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging).With("component", "ingest")

	files, err := resolveDatasetPaths(*datasetDir, dataset.Format(*format), *creditsPath, *actorsPath, *filmsPath)
	if err != nil {
		logger.Error("dataset resolution failed", "error", err)
		os.Exit(1)
	}

	ds, err := files.Read()
	if err != nil {
		logger.Error("failed to read dataset", "error", err, "credits", files.CreditsPath)
		os.Exit(1)
	}
	if len(ds.Credits) == 0 {
		logger.Error("credits dataset empty", "path", files.CreditsPath)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	graphClient, err := buildGraphClient(ctx, logger, cfg)
	if err != nil {
		logger.Error("failed to create graph client", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := graphClient.Close(context.Background()); err != nil {
			logger.Warn("closing graph client failed", "error", err)
		}
	}()

	repo := repository.New(graphClient)
	if err := repo.EnsureSchema(ctx); err != nil {
		logger.Error("schema setup failed", "error", err)
		os.Exit(1)
	}

	ingestor := service.NewBulkIngestor(repo, *workers, *batchSize).WithLogger(logger)

	start := time.Now()
	logger.Info("ingesting dataset",
		"credits", len(ds.Credits),
		"actors", len(ds.Actors),
		"films", len(ds.Films),
		"workers", *workers,
	)
	if err := ingestor.IngestDataset(ctx, ds); err != nil {
		logger.Error("ingestion failed", "error", err)
		os.Exit(1)
	}

	total, err := repo.CountCredits(ctx)
	if err != nil {
		logger.Warn("counting stored credits failed", "error", err)
	}
	logger.Info("ingestion complete", "duration", time.Since(start).String(), "credits", len(ds.Credits), "stored", total)
}

// resolveDatasetPaths picks explicit paths first and otherwise looks for credits, names
// and films files with the given extension in baseDir. Missing name tables are skipped.
func resolveDatasetPaths(baseDir string, format dataset.Format, creditsPath, actorsPath, filmsPath string) (dataset.Files, error) {
	resolve := func(explicitPath, stem string, required bool) (string, error) {
		if explicitPath != "" {
			if _, err := os.Stat(explicitPath); err != nil {
				return "", fmt.Errorf("stat %s: %w", explicitPath, err)
			}
			return explicitPath, nil
		}
		path := filepath.Join(baseDir, stem+"."+string(format))
		if _, err := os.Stat(path); err != nil {
			if required {
				return "", fmt.Errorf("%w: %s", errMissingDataset, path)
			}
			return "", nil
		}
		return path, nil
	}

	var files dataset.Files
	var err error
	if files.CreditsPath, err = resolve(creditsPath, "credits", true); err != nil {
		return dataset.Files{}, err
	}
	if files.ActorsPath, err = resolve(actorsPath, "names", false); err != nil {
		return dataset.Files{}, err
	}
	if files.FilmsPath, err = resolve(filmsPath, "films", false); err != nil {
		return dataset.Files{}, err
	}
	return files, nil
}

func buildGraphClient(ctx context.Context, logger *slog.Logger, cfg config.Config) (graphdb.Client, error) {
	if !cfg.UseGraphDB() {
		return nil, fmt.Errorf("GRAPH_URI is required for ingestion")
	}
	client, err := graphdb.NewNeo4jClient(ctx, graphdb.Options{
		URI:            cfg.Graph.URI,
		Database:       cfg.Graph.Database,
		Username:       cfg.Graph.Username,
		Password:       cfg.Graph.Password,
		MaxConnections: cfg.Graph.MaxConnections,
	})
	if err != nil {
		return nil, err
	}
	logger.Info("connected to graph", "uri", cfg.Graph.URI, "database", cfg.Graph.Database)
	return client, nil
}
