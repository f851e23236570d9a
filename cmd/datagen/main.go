package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/vanshika/costar/internal/dataset"
	"github.com/vanshika/costar/internal/generator"
)

func main() {
	cfg := generator.DefaultConfig()
	var (
		actors     = flag.Int("actors", cfg.NumActors, "number of actors to generate")
		films      = flag.Int("films", cfg.NumFilms, "number of films to generate")
		minCast    = flag.Int("min-cast", cfg.MinCast, "smallest cast per film")
		maxCast    = flag.Int("max-cast", cfg.MaxCast, "largest cast per film")
		stars      = flag.Int("stars", cfg.NumStars, "size of the frequently cast star pool")
		starChance = flag.Float64("star-chance", cfg.StarChance, "probability that a cast slot goes to a star")
		reference  = flag.Int64("reference-actor", cfg.ReferenceActor, "id of the actor Bacon numbers are measured from")
		seed       = flag.Uint64("seed", cfg.Seed, "random seed for deterministic generation")
		outputDir  = flag.String("output-dir", "data", "directory to write credits, names and films files")
		format     = flag.String("format", string(dataset.FormatJSON), "output encoding: json, msgpack or yaml")
	)
	flag.Parse()

	genCfg := generator.Config{
		NumActors:      *actors,
		NumFilms:       *films,
		MinCast:        *minCast,
		MaxCast:        *maxCast,
		NumStars:       *stars,
		StarChance:     clampProbability(*starChance),
		ReferenceActor: *reference,
		Seed:           *seed,
	}

	outFormat, err := dataset.FormatFor("out." + *format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid format: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	ds, err := generator.New(genCfg).Generate(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generation failed: %v\n", err)
		os.Exit(1)
	}

	files, err := generator.WriteDataset(ds, *outputDir, outFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to write dataset: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stdout, "Generated %d credits across %d actors and %d films into %s\n",
		len(ds.Credits), len(ds.Actors), len(ds.Films), files.CreditsPath)
}

func clampProbability(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
