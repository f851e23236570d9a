package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vanshika/costar/internal/domain"
	"github.com/vanshika/costar/internal/graph"
	"github.com/vanshika/costar/internal/metrics"
)

var tracer = otel.Tracer("costar.service")

// CostarService owns the loaded co-star graph and answers queries against it.
//
// The graph and name directory live in one snapshot held by an atomic pointer. Queries
// read whichever snapshot is current when they start; Load builds a new one and swaps it
// in, so queries never block on a reload.
type CostarService struct {
	source     CreditSource
	baconActor domain.ActorID
	graphOpts  []graph.Option
	logger     *slog.Logger
	nowFn      func() time.Time

	current  atomic.Pointer[snapshot]
	reloadMu sync.Mutex
}

// NewCostarService constructs a service reading credits from source. Nothing is loaded
// until Load is called.
func NewCostarService(source CreditSource, cfg Config) *CostarService {
	if cfg.BaconActor == 0 {
		cfg.BaconActor = DefaultBaconActor
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &CostarService{
		source:     source,
		baconActor: cfg.BaconActor,
		graphOpts:  cfg.graphOptions(),
		logger:     logger.With("component", "costar_service"),
		nowFn:      time.Now,
	}
}

// WithClock overrides the time provider (used primarily in tests).
func (s *CostarService) WithClock(nowFn func() time.Time) {
	if nowFn != nil {
		s.nowFn = nowFn
	}
}

// Load reads the dataset from the configured source, builds a graph and makes it current.
// On failure the previously loaded graph stays in place.
func (s *CostarService) Load(ctx context.Context) (domain.GraphSummary, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	ctx, span := tracer.Start(ctx, "CostarService.Load",
		trace.WithAttributes(attribute.String("costar.source", s.source.Describe())))
	defer span.End()

	start := time.Now()
	ds, err := s.source.LoadDataset(ctx)
	if err != nil {
		metrics.RecordGraphLoad(0, 0, time.Since(start), err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return domain.GraphSummary{}, fmt.Errorf("load credits from %s: %w", s.source.Describe(), err)
	}

	snap := buildSnapshot(ds, s.source.Describe(), s.graphOpts, s.nowFn().UTC())
	s.current.Store(snap)

	elapsed := time.Since(start)
	summary := summarize(snap)
	metrics.RecordGraphLoad(summary.Actors, summary.Films, elapsed, nil)
	span.SetAttributes(
		attribute.Int("costar.actors", summary.Actors),
		attribute.Int("costar.films", summary.Films),
	)
	s.logger.Info("graph loaded",
		"source", snap.source,
		"credits", snap.credits,
		"actors", summary.Actors,
		"films", summary.Films,
		"edges", summary.Edges,
		"duration_ms", elapsed.Milliseconds(),
	)
	if !snap.graph.HasActor(s.baconActor) {
		s.logger.Warn("reference actor missing from graph", "actor", s.baconActor)
	}
	return summary, nil
}

// Loaded reports whether a graph is available.
func (s *CostarService) Loaded() bool {
	return s.current.Load() != nil
}

// BaconActor returns the reference actor id.
func (s *CostarService) BaconActor() domain.ActorID {
	return s.baconActor
}

// Stats describes the current graph.
func (s *CostarService) Stats(ctx context.Context) (domain.GraphSummary, error) {
	var out domain.GraphSummary
	err := s.observe(ctx, "stats", nil, func(snap *snapshot) (bool, error) {
		out = summarize(snap)
		return true, nil
	})
	return out, err
}

// ActedTogether reports whether two actors share a film. Both must be known.
func (s *CostarService) ActedTogether(ctx context.Context, a, b domain.ActorID) (bool, error) {
	var together bool
	err := s.observe(ctx, "acted_together", actorAttrs(a, b), func(snap *snapshot) (bool, error) {
		if err := requireActors(snap, a, b); err != nil {
			return false, err
		}
		together = snap.graph.ActedTogether(a, b)
		return together, nil
	})
	return together, err
}

// ActorsAtDistance lists the actors exactly n hops from source.
func (s *CostarService) ActorsAtDistance(ctx context.Context, source domain.ActorID, n int) (domain.LevelResult, error) {
	var out domain.LevelResult
	attrs := append(actorAttrs(source), attribute.Int("costar.distance", n))
	err := s.observe(ctx, "actors_at_distance", attrs, func(snap *snapshot) (bool, error) {
		ids, err := snap.graph.LevelSet(source, n)
		if err != nil {
			return false, err
		}
		out = domain.LevelResult{
			Source:   source,
			Distance: n,
			Actors:   snap.summaries(ids),
			Total:    len(ids),
		}
		return len(ids) > 0, nil
	})
	return out, err
}

// BaconActors lists the actors with Bacon number n.
func (s *CostarService) BaconActors(ctx context.Context, n int) (domain.LevelResult, error) {
	return s.ActorsAtDistance(ctx, s.baconActor, n)
}

// DistanceHistogram counts actors per distance from source over its whole component.
func (s *CostarService) DistanceHistogram(ctx context.Context, source domain.ActorID) (domain.DistanceHistogram, error) {
	var out domain.DistanceHistogram
	err := s.observe(ctx, "distance_histogram", actorAttrs(source), func(snap *snapshot) (bool, error) {
		counts, err := snap.graph.LevelSizes(source)
		if err != nil {
			return false, err
		}
		reachable := 0
		for _, c := range counts[1:] {
			reachable += c
		}
		out = domain.DistanceHistogram{Source: source, Counts: counts, Reachable: reachable}
		return true, nil
	})
	return out, err
}

// ActorPath returns the shortest path from a to b annotated with films.
func (s *CostarService) ActorPath(ctx context.Context, a, b domain.ActorID) (domain.ActorPath, error) {
	var out domain.ActorPath
	err := s.observe(ctx, "actor_path", actorAttrs(a, b), func(snap *snapshot) (bool, error) {
		ids, found, err := snap.graph.ShortestPath(a, b)
		if err != nil {
			return false, err
		}
		out, err = snap.actorPath(a, b, ids, found)
		return found, err
	})
	return out, err
}

// BaconPath returns the shortest path from the reference actor to actor.
func (s *CostarService) BaconPath(ctx context.Context, actor domain.ActorID) (domain.ActorPath, error) {
	return s.ActorPath(ctx, s.baconActor, actor)
}

// BaconNumber returns actor's distance from the reference actor.
func (s *CostarService) BaconNumber(ctx context.Context, actor domain.ActorID) (BaconResult, error) {
	path, err := s.BaconPath(ctx, actor)
	if err != nil {
		return BaconResult{}, err
	}
	snap := s.current.Load()
	out := BaconResult{
		Actor: snap.summary(actor),
		Bacon: snap.summary(s.baconActor),
		Found: path.Found,
		Path:  path,
	}
	if path.Found {
		out.Number = path.Hops
	}
	return out, nil
}

// FilmPath lists the films along the shortest path from a to b.
func (s *CostarService) FilmPath(ctx context.Context, a, b domain.ActorID) (domain.FilmPath, error) {
	out := domain.FilmPath{Source: a, Target: b, Films: []domain.Film{}}
	err := s.observe(ctx, "film_path", actorAttrs(a, b), func(snap *snapshot) (bool, error) {
		ids, found, err := snap.graph.ShortestPath(a, b)
		if err != nil || !found {
			return false, err
		}
		films, err := snap.graph.EventPath(ids)
		if err != nil {
			return false, err
		}
		for _, f := range films {
			out.Films = append(out.Films, snap.film(f))
		}
		out.Found = true
		return true, nil
	})
	return out, err
}

// PathToFilm returns the shortest path from actor to anyone who appeared in film.
func (s *CostarService) PathToFilm(ctx context.Context, actor domain.ActorID, film domain.FilmID) (domain.ActorPath, error) {
	var out domain.ActorPath
	attrs := append(actorAttrs(actor), attribute.Int64("costar.film", int64(film)))
	err := s.observe(ctx, "path_to_film", attrs, func(snap *snapshot) (bool, error) {
		if !snap.graph.HasEvent(film) {
			return false, fmt.Errorf("%w: %d", ErrUnknownFilm, film)
		}
		cast := snap.graph.Participants(film)
		inFilm := func(a domain.ActorID) bool {
			_, ok := slices.BinarySearch(cast, a)
			return ok
		}
		ids, found, err := snap.graph.ShortestPathToGoal(actor, inFilm)
		if err != nil {
			return false, err
		}
		out, err = snap.actorPath(actor, 0, ids, found)
		return found, err
	})
	return out, err
}

// ConnectFilms returns the shortest actor chain from a member of film1 to a member of
// film2.
func (s *CostarService) ConnectFilms(ctx context.Context, film1, film2 domain.FilmID) (domain.BridgePath, error) {
	out := domain.BridgePath{FromFilm: film1, ToFilm: film2}
	attrs := []attribute.KeyValue{
		attribute.Int64("costar.film1", int64(film1)),
		attribute.Int64("costar.film2", int64(film2)),
	}
	err := s.observe(ctx, "connect_films", attrs, func(snap *snapshot) (bool, error) {
		for _, f := range []domain.FilmID{film1, film2} {
			if !snap.graph.HasEvent(f) {
				return false, fmt.Errorf("%w: %d", ErrUnknownFilm, f)
			}
		}
		ids, found, err := snap.graph.ConnectPath(film1, film2)
		if err != nil {
			return false, err
		}
		out.Path, err = snap.actorPath(0, 0, ids, found)
		return found, err
	})
	return out, err
}

// ActorRelationships lists every co-star of actor with the films they shared.
func (s *CostarService) ActorRelationships(ctx context.Context, actor domain.ActorID) (domain.ActorRelationships, error) {
	var out domain.ActorRelationships
	err := s.observe(ctx, "actor_relationships", actorAttrs(actor), func(snap *snapshot) (bool, error) {
		if err := requireActors(snap, actor); err != nil {
			return false, err
		}
		links := snap.graph.Links(actor)
		out = domain.ActorRelationships{
			ActorID: actor,
			Name:    snap.names.ActorName(actor),
			Links:   make([]domain.CostarLink, 0, len(links)),
		}
		for _, l := range links {
			out.Links = append(out.Links, domain.CostarLink{
				ActorID:   l.Actor,
				ActorName: snap.names.ActorName(l.Actor),
				FilmID:    l.Event,
				FilmTitle: snap.names.FilmTitle(l.Event),
			})
		}
		return len(out.Links) > 0, nil
	})
	return out, err
}

// FilmCast lists the actors credited in film.
func (s *CostarService) FilmCast(ctx context.Context, film domain.FilmID) (domain.FilmCast, error) {
	var out domain.FilmCast
	err := s.observe(ctx, "film_cast", []attribute.KeyValue{attribute.Int64("costar.film", int64(film))}, func(snap *snapshot) (bool, error) {
		if !snap.graph.HasEvent(film) {
			return false, fmt.Errorf("%w: %d", ErrUnknownFilm, film)
		}
		out = domain.FilmCast{
			FilmID: film,
			Title:  snap.names.FilmTitle(film),
			Cast:   snap.summaries(snap.graph.Participants(film)),
		}
		return true, nil
	})
	return out, err
}

// LookupActor resolves an actor name, ignoring case and extra whitespace.
func (s *CostarService) LookupActor(name string) (domain.ActorSummary, error) {
	snap := s.current.Load()
	if snap == nil {
		return domain.ActorSummary{}, ErrGraphNotLoaded
	}
	id, ok := snap.names.ActorByName(name)
	if !ok {
		return domain.ActorSummary{}, fmt.Errorf("%w: actor %q", ErrUnknownName, strings.TrimSpace(name))
	}
	return snap.summary(id), nil
}

// LookupFilm resolves a film title, ignoring case and extra whitespace.
func (s *CostarService) LookupFilm(title string) (domain.Film, error) {
	snap := s.current.Load()
	if snap == nil {
		return domain.Film{}, ErrGraphNotLoaded
	}
	id, ok := snap.names.FilmByTitle(title)
	if !ok {
		return domain.Film{}, fmt.Errorf("%w: film %q", ErrUnknownName, strings.TrimSpace(title))
	}
	return snap.film(id), nil
}

// observe runs fn against the current snapshot inside a span and records query metrics.
// fn reports whether the query found something.
func (s *CostarService) observe(ctx context.Context, op string, attrs []attribute.KeyValue, fn func(*snapshot) (bool, error)) error {
	_, span := tracer.Start(ctx, "CostarService."+op, trace.WithAttributes(attrs...))
	defer span.End()

	start := time.Now()
	snap := s.current.Load()
	if snap == nil {
		metrics.RecordQuery(op, metrics.OutcomeError, time.Since(start))
		span.SetStatus(codes.Error, ErrGraphNotLoaded.Error())
		return ErrGraphNotLoaded
	}

	found, err := fn(snap)
	outcome := metrics.OutcomeFound
	switch {
	case err != nil:
		outcome = metrics.OutcomeError
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if !isClientError(err) {
			s.logger.Error("query failed", "operation", op, "error", err)
		}
	case !found:
		outcome = metrics.OutcomeNotFound
	}
	span.SetAttributes(attribute.Bool("costar.found", found))
	metrics.RecordQuery(op, outcome, time.Since(start))
	return err
}

func summarize(snap *snapshot) domain.GraphSummary {
	st := snap.graph.Stats()
	namedActors, namedFilms := snap.names.Len()
	return domain.GraphSummary{
		Actors:      st.Actors,
		Films:       st.Events,
		Edges:       st.Edges,
		MaxDegree:   st.MaxDegree,
		Credits:     snap.credits,
		NamedActors: namedActors,
		NamedFilms:  namedFilms,
		Source:      snap.source,
		LoadedAt:    snap.loadedAt,
	}
}

func requireActors(snap *snapshot, ids ...domain.ActorID) error {
	for _, id := range ids {
		if !snap.graph.HasActor(id) {
			return fmt.Errorf("%w: %d", graph.ErrUnknownActor, id)
		}
	}
	return nil
}

func actorAttrs(ids ...domain.ActorID) []attribute.KeyValue {
	vals := make([]int64, len(ids))
	for i, id := range ids {
		vals[i] = int64(id)
	}
	return []attribute.KeyValue{attribute.Int64Slice("costar.actors", vals)}
}

// isClientError reports errors caused by the query rather than the service.
func isClientError(err error) bool {
	return errors.Is(err, graph.ErrUnknownActor) ||
		errors.Is(err, graph.ErrInvalidArgument) ||
		errors.Is(err, ErrUnknownFilm)
}
