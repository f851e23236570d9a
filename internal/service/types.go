package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/vanshika/costar/internal/domain"
	"github.com/vanshika/costar/internal/graph"
)

// CostarGraph is the co-star graph keyed by actor and film ids.
type CostarGraph = graph.Graph[domain.ActorID, domain.FilmID]

// CreditSource supplies the dataset a graph is built from.
type CreditSource interface {
	LoadDataset(ctx context.Context) (domain.Dataset, error)
	Describe() string
}

// CreditWriter is the storage contract used by bulk ingestion.
type CreditWriter interface {
	UpsertCredits(ctx context.Context, credits []domain.Credit) error
	UpsertActors(ctx context.Context, actors []domain.Actor) error
	UpsertFilms(ctx context.Context, films []domain.Film) error
}

// Service errors. Graph errors (graph.ErrUnknownActor and friends) pass through wrapped.
var (
	ErrGraphNotLoaded = errors.New("graph not loaded")
	ErrUnknownName    = errors.New("unknown name")
	ErrUnknownFilm    = errors.New("unknown film")
)

// Config tunes a CostarService.
type Config struct {
	// BaconActor is the reference actor for Bacon numbers.
	BaconActor        domain.ActorID
	Workers           int
	ParallelThreshold int
	Logger            *slog.Logger
}

// DefaultBaconActor is Kevin Bacon's id in the public credit dataset.
const DefaultBaconActor domain.ActorID = 4724

func (c Config) graphOptions() []graph.Option {
	var opts []graph.Option
	if c.Workers > 0 {
		opts = append(opts, graph.WithParallelism(c.Workers))
	}
	if c.ParallelThreshold > 0 {
		opts = append(opts, graph.WithParallelThreshold(c.ParallelThreshold))
	}
	return opts
}

// BaconResult is an actor's distance from the reference actor with the path realising it.
type BaconResult struct {
	Actor  domain.ActorSummary `json:"actor"`
	Bacon  domain.ActorSummary `json:"bacon"`
	Number int                 `json:"number"`
	Found  bool                `json:"found"`
	Path   domain.ActorPath    `json:"path"`
}
