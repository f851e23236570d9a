package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/vanshika/costar/internal/domain"
	"github.com/vanshika/costar/internal/graphdb"
)

const (
	defaultPageSize = 5000
	maxPageSize     = 50000
)

// ErrInvalidCredit is returned when a credit references a zero actor or film id.
var ErrInvalidCredit = errors.New("credit requires non-zero actor and film ids")

// Repository encapsulates persistence of credits and name tables in the graph database.
type Repository struct {
	client   graphdb.Client
	pageSize int
}

// New instantiates a Repository backed by the supplied client.
func New(client graphdb.Client) *Repository {
	return &Repository{client: client, pageSize: defaultPageSize}
}

// WithPageSize overrides the number of credits fetched per page while streaming.
func (r *Repository) WithPageSize(size int) *Repository {
	switch {
	case size <= 0:
		r.pageSize = defaultPageSize
	case size > maxPageSize:
		r.pageSize = maxPageSize
	default:
		r.pageSize = size
	}
	return r
}

// EnsureSchema creates the uniqueness constraints the MERGE statements rely on.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := r.client.ExecuteWrite(ctx, stmt, nil); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// UpsertCredits merges a batch of credits. Each credit becomes a CREDITED_WITH
// relationship between the two actors carrying the film id, and both actors are
// attached to the film node.
func (r *Repository) UpsertCredits(ctx context.Context, credits []domain.Credit) error {
	if len(credits) == 0 {
		return nil
	}
	rows := make([]map[string]any, 0, len(credits))
	for _, c := range credits {
		if c.ActorA == 0 || c.ActorB == 0 || c.Film == 0 {
			return fmt.Errorf("%w: %+v", ErrInvalidCredit, c)
		}
		rows = append(rows, creditParams(c))
	}

	if _, err := r.client.ExecuteWrite(ctx, upsertCreditsCypher, map[string]any{"credits": rows}); err != nil {
		return fmt.Errorf("upsert %d credits: %w", len(credits), err)
	}
	return nil
}

// UpsertActors merges actor names.
func (r *Repository) UpsertActors(ctx context.Context, actors []domain.Actor) error {
	if len(actors) == 0 {
		return nil
	}
	rows := make([]map[string]any, 0, len(actors))
	for _, a := range actors {
		rows = append(rows, map[string]any{"id": int64(a.ID), "name": a.Name})
	}
	if _, err := r.client.ExecuteWrite(ctx, upsertActorsCypher, map[string]any{"actors": rows}); err != nil {
		return fmt.Errorf("upsert %d actors: %w", len(actors), err)
	}
	return nil
}

// UpsertFilms merges film titles.
func (r *Repository) UpsertFilms(ctx context.Context, films []domain.Film) error {
	if len(films) == 0 {
		return nil
	}
	rows := make([]map[string]any, 0, len(films))
	for _, f := range films {
		rows = append(rows, map[string]any{"id": int64(f.ID), "title": f.Title})
	}
	if _, err := r.client.ExecuteWrite(ctx, upsertFilmsCypher, map[string]any{"films": rows}); err != nil {
		return fmt.Errorf("upsert %d films: %w", len(films), err)
	}
	return nil
}

// StreamCredits pages through every stored credit in a stable order and hands each to
// fn. Paging stops at the first short page.
func (r *Repository) StreamCredits(ctx context.Context, fn func(domain.Credit) error) error {
	for skip := 0; ; skip += r.pageSize {
		n := 0
		err := r.client.StreamRead(ctx, listCreditsCypher, map[string]any{
			"skip":  skip,
			"limit": r.pageSize,
		}, func(rec graphdb.Record) error {
			n++
			c, err := creditFromRecord(rec)
			if err != nil {
				return err
			}
			return fn(c)
		})
		if err != nil {
			return fmt.Errorf("stream credits at offset %d: %w", skip, err)
		}
		if n < r.pageSize {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
}

// LoadCredits returns every stored credit.
func (r *Repository) LoadCredits(ctx context.Context) ([]domain.Credit, error) {
	var credits []domain.Credit
	err := r.StreamCredits(ctx, func(c domain.Credit) error {
		credits = append(credits, c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return credits, nil
}

// LoadActors returns every named actor.
func (r *Repository) LoadActors(ctx context.Context) ([]domain.Actor, error) {
	res, err := r.client.ExecuteRead(ctx, listActorsCypher, nil)
	if err != nil {
		return nil, fmt.Errorf("list actors query: %w", err)
	}
	actors := make([]domain.Actor, 0, len(res.Records))
	for _, rec := range res.Records {
		id, ok := rec.Int64("actorId")
		if !ok {
			continue
		}
		actors = append(actors, domain.Actor{ID: domain.ActorID(id), Name: rec.String("name")})
	}
	return actors, nil
}

// LoadFilms returns every titled film.
func (r *Repository) LoadFilms(ctx context.Context) ([]domain.Film, error) {
	res, err := r.client.ExecuteRead(ctx, listFilmsCypher, nil)
	if err != nil {
		return nil, fmt.Errorf("list films query: %w", err)
	}
	films := make([]domain.Film, 0, len(res.Records))
	for _, rec := range res.Records {
		id, ok := rec.Int64("filmId")
		if !ok {
			continue
		}
		films = append(films, domain.Film{ID: domain.FilmID(id), Title: rec.String("title")})
	}
	return films, nil
}

// LoadDataset reads credits and both name tables.
func (r *Repository) LoadDataset(ctx context.Context) (domain.Dataset, error) {
	credits, err := r.LoadCredits(ctx)
	if err != nil {
		return domain.Dataset{}, err
	}
	actors, err := r.LoadActors(ctx)
	if err != nil {
		return domain.Dataset{}, err
	}
	films, err := r.LoadFilms(ctx)
	if err != nil {
		return domain.Dataset{}, err
	}
	return domain.Dataset{Credits: credits, Actors: actors, Films: films}, nil
}

// CountCredits returns the number of stored credits.
func (r *Repository) CountCredits(ctx context.Context) (int64, error) {
	res, err := r.client.ExecuteRead(ctx, countCreditsCypher, nil)
	if err != nil {
		return 0, fmt.Errorf("count credits query: %w", err)
	}
	if len(res.Records) == 0 {
		return 0, nil
	}
	total, _ := res.Records[0].Int64("total")
	return total, nil
}

// Describe names the source for logs and stats.
func (r *Repository) Describe() string {
	return "neo4j"
}

func creditParams(c domain.Credit) map[string]any {
	return map[string]any{
		"a": int64(c.ActorA),
		"b": int64(c.ActorB),
		"f": int64(c.Film),
	}
}

func creditFromRecord(rec graphdb.Record) (domain.Credit, error) {
	a, okA := rec.Int64("actorA")
	b, okB := rec.Int64("actorB")
	f, okF := rec.Int64("filmId")
	if !okA || !okB || !okF {
		return domain.Credit{}, fmt.Errorf("malformed credit record %v", map[string]any(rec))
	}
	return domain.Credit{ActorA: domain.ActorID(a), ActorB: domain.ActorID(b), Film: domain.FilmID(f)}, nil
}

var schemaStatements = []string{
	`CREATE CONSTRAINT actor_id IF NOT EXISTS FOR (a:Actor) REQUIRE a.actorId IS UNIQUE`,
	`CREATE CONSTRAINT film_id IF NOT EXISTS FOR (f:Film) REQUIRE f.filmId IS UNIQUE`,
}

const upsertCreditsCypher = `
UNWIND $credits AS c
MERGE (a:Actor {actorId: c.a})
MERGE (b:Actor {actorId: c.b})
MERGE (f:Film {filmId: c.f})
MERGE (a)-[:ACTED_IN]->(f)
MERGE (b)-[:ACTED_IN]->(f)
MERGE (a)-[:CREDITED_WITH {filmId: c.f}]->(b)
`

const upsertActorsCypher = `
UNWIND $actors AS row
MERGE (a:Actor {actorId: row.id})
SET a.name = row.name
`

const upsertFilmsCypher = `
UNWIND $films AS row
MERGE (f:Film {filmId: row.id})
SET f.title = row.title
`

const listCreditsCypher = `
MATCH (a:Actor)-[r:CREDITED_WITH]->(b:Actor)
RETURN a.actorId AS actorA,
       b.actorId AS actorB,
       r.filmId AS filmId
ORDER BY actorA, actorB, filmId
SKIP $skip
LIMIT $limit
`

const listActorsCypher = `
MATCH (a:Actor)
WHERE a.name IS NOT NULL
RETURN a.actorId AS actorId, a.name AS name
ORDER BY actorId
`

const listFilmsCypher = `
MATCH (f:Film)
WHERE f.title IS NOT NULL
RETURN f.filmId AS filmId, f.title AS title
ORDER BY filmId
`

const countCreditsCypher = `
MATCH (:Actor)-[r:CREDITED_WITH]->(:Actor)
RETURN count(r) AS total
`
