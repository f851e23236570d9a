package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/costar/internal/domain"
	"github.com/vanshika/costar/internal/graph"
)

type stubSource struct {
	mu    sync.Mutex
	ds    domain.Dataset
	err   error
	loads int
}

func (s *stubSource) LoadDataset(context.Context) (domain.Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loads++
	if s.err != nil {
		return domain.Dataset{}, s.err
	}
	return s.ds, nil
}

func (s *stubSource) Describe() string { return "stub" }

// chainDataset links the reference actor to 5 through two films and leaves 9-10 apart:
//
//	4724 -100- 2 -101- 3 -102- 5      9 -200- 10
//	4724 -103- 7 -104- 5
func chainDataset() domain.Dataset {
	return domain.Dataset{
		Credits: []domain.Credit{
			{ActorA: 4724, ActorB: 2, Film: 100},
			{ActorA: 2, ActorB: 3, Film: 101},
			{ActorA: 3, ActorB: 5, Film: 102},
			{ActorA: 4724, ActorB: 7, Film: 103},
			{ActorA: 7, ActorB: 5, Film: 104},
			{ActorA: 9, ActorB: 10, Film: 200},
		},
		Actors: []domain.Actor{
			{ID: 4724, Name: "Kevin Bacon"},
			{ID: 2, Name: "Ada Stone"},
			{ID: 5, Name: "Ben Marsh"},
		},
		Films: []domain.Film{
			{ID: 100, Title: "First Light"},
			{ID: 104, Title: "Last Call"},
		},
	}
}

func loadedService(t *testing.T) *CostarService {
	t.Helper()
	svc := NewCostarService(&stubSource{ds: chainDataset()}, Config{})
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	svc.WithClock(func() time.Time { return fixed })
	_, err := svc.Load(context.Background())
	require.NoError(t, err)
	return svc
}

func TestCostarService_NotLoaded(t *testing.T) {
	svc := NewCostarService(&stubSource{}, Config{})
	ctx := context.Background()

	assert.False(t, svc.Loaded())
	_, err := svc.ActorPath(ctx, 1, 2)
	assert.ErrorIs(t, err, ErrGraphNotLoaded)
	_, err = svc.Stats(ctx)
	assert.ErrorIs(t, err, ErrGraphNotLoaded)
	_, err = svc.LookupActor("anyone")
	assert.ErrorIs(t, err, ErrGraphNotLoaded)
}

func TestCostarService_Load(t *testing.T) {
	svc := loadedService(t)

	st, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, st.Actors)
	assert.Equal(t, 6, st.Films)
	assert.Equal(t, 6, st.Edges)
	assert.Equal(t, 6, st.Credits)
	assert.Equal(t, 3, st.NamedActors)
	assert.Equal(t, 2, st.NamedFilms)
	assert.Equal(t, "stub", st.Source)
	assert.Equal(t, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), st.LoadedAt)
}

func TestCostarService_FailedReloadKeepsGraph(t *testing.T) {
	src := &stubSource{ds: chainDataset()}
	svc := NewCostarService(src, Config{})
	_, err := svc.Load(context.Background())
	require.NoError(t, err)

	boom := errors.New("disk gone")
	src.err = boom
	_, err = svc.Load(context.Background())
	assert.ErrorIs(t, err, boom)

	ok, err := svc.ActedTogether(context.Background(), 4724, 2)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, src.loads)
}

func TestCostarService_ActedTogether(t *testing.T) {
	svc := loadedService(t)
	ctx := context.Background()

	ok, err := svc.ActedTogether(ctx, 2, 3)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.ActedTogether(ctx, 2, 5)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = svc.ActedTogether(ctx, 2, 999)
	assert.ErrorIs(t, err, graph.ErrUnknownActor)
}

func TestCostarService_BaconActors(t *testing.T) {
	svc := loadedService(t)
	ctx := context.Background()

	res, err := svc.BaconActors(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Total)
	assert.Equal(t, []domain.ActorSummary{{ID: 3}, {ID: 5, Name: "Ben Marsh"}}, res.Actors)

	res, err = svc.BaconActors(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, []domain.ActorSummary{{ID: 4724, Name: "Kevin Bacon"}}, res.Actors)

	res, err = svc.BaconActors(ctx, 9)
	require.NoError(t, err)
	assert.Empty(t, res.Actors)

	_, err = svc.BaconActors(ctx, -1)
	assert.ErrorIs(t, err, graph.ErrInvalidArgument)
}

func TestCostarService_BaconPathPrefersSmallestIDs(t *testing.T) {
	svc := loadedService(t)

	path, err := svc.BaconPath(context.Background(), 5)
	require.NoError(t, err)
	require.True(t, path.Found)
	assert.Equal(t, 2, path.Hops)

	ids := make([]domain.ActorID, 0, len(path.Nodes))
	for _, n := range path.Nodes {
		ids = append(ids, n.ID)
	}
	assert.Equal(t, []domain.ActorID{4724, 7, 5}, ids)
	assert.Equal(t, "Kevin Bacon", path.Nodes[0].Label)
	assert.Equal(t, "7", path.Nodes[1].Label)
	require.Len(t, path.Edges, 2)
	assert.Equal(t, domain.FilmID(103), path.Edges[0].FilmID)
	assert.Equal(t, "Last Call", path.Edges[1].Label)
}

func TestCostarService_BaconNumber(t *testing.T) {
	svc := loadedService(t)
	ctx := context.Background()

	res, err := svc.BaconNumber(ctx, 3)
	require.NoError(t, err)
	assert.True(t, res.Found)
	assert.Equal(t, 2, res.Number)
	assert.Equal(t, "Kevin Bacon", res.Bacon.Name)

	res, err = svc.BaconNumber(ctx, 10)
	require.NoError(t, err)
	assert.False(t, res.Found)
	assert.Empty(t, res.Path.Nodes)

	_, err = svc.BaconNumber(ctx, 12345)
	assert.ErrorIs(t, err, graph.ErrUnknownActor)
}

func TestCostarService_FilmPath(t *testing.T) {
	svc := loadedService(t)

	fp, err := svc.FilmPath(context.Background(), 2, 5)
	require.NoError(t, err)
	assert.True(t, fp.Found)
	assert.Equal(t, []domain.Film{{ID: 101}, {ID: 102}}, fp.Films)

	fp, err = svc.FilmPath(context.Background(), 2, 9)
	require.NoError(t, err)
	assert.False(t, fp.Found)
	assert.Empty(t, fp.Films)
}

func TestCostarService_PathToFilm(t *testing.T) {
	svc := loadedService(t)
	ctx := context.Background()

	path, err := svc.PathToFilm(ctx, 2, 104)
	require.NoError(t, err)
	require.True(t, path.Found)
	assert.Equal(t, 2, path.Hops)
	assert.Equal(t, domain.ActorID(5), path.Target, "smallest cast member on the nearest level")

	path, err = svc.PathToFilm(ctx, 2, 100)
	require.NoError(t, err)
	assert.Equal(t, 0, path.Hops)

	path, err = svc.PathToFilm(ctx, 2, 200)
	require.NoError(t, err)
	assert.False(t, path.Found)

	_, err = svc.PathToFilm(ctx, 2, 999)
	assert.ErrorIs(t, err, ErrUnknownFilm)
}

func TestCostarService_ConnectFilms(t *testing.T) {
	svc := loadedService(t)
	ctx := context.Background()

	bridge, err := svc.ConnectFilms(ctx, 100, 102)
	require.NoError(t, err)
	require.True(t, bridge.Path.Found)
	assert.Equal(t, 1, bridge.Path.Hops)
	assert.Equal(t, domain.ActorID(2), bridge.Path.Source)
	assert.Equal(t, domain.ActorID(3), bridge.Path.Target)

	bridge, err = svc.ConnectFilms(ctx, 100, 200)
	require.NoError(t, err)
	assert.False(t, bridge.Path.Found)

	_, err = svc.ConnectFilms(ctx, 100, 999)
	assert.ErrorIs(t, err, ErrUnknownFilm)
}

func TestCostarService_RelationshipsAndCast(t *testing.T) {
	svc := loadedService(t)
	ctx := context.Background()

	rel, err := svc.ActorRelationships(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Ada Stone", rel.Name)
	assert.Equal(t, []domain.CostarLink{
		{ActorID: 4724, ActorName: "Kevin Bacon", FilmID: 100, FilmTitle: "First Light"},
		{ActorID: 3, FilmID: 101},
	}, rel.Links)

	cast, err := svc.FilmCast(ctx, 104)
	require.NoError(t, err)
	assert.Equal(t, "Last Call", cast.Title)
	assert.Equal(t, []domain.ActorSummary{{ID: 5, Name: "Ben Marsh"}, {ID: 7}}, cast.Cast)
}

func TestCostarService_DistanceHistogram(t *testing.T) {
	svc := loadedService(t)

	h, err := svc.DistanceHistogram(context.Background(), 4724)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 2}, h.Counts)
	assert.Equal(t, 4, h.Reachable)
}

func TestCostarService_Lookup(t *testing.T) {
	svc := loadedService(t)

	actor, err := svc.LookupActor("  kevin   BACON ")
	require.NoError(t, err)
	assert.Equal(t, domain.ActorID(4724), actor.ID)

	film, err := svc.LookupFilm("first light")
	require.NoError(t, err)
	assert.Equal(t, domain.FilmID(100), film.ID)

	_, err = svc.LookupActor("Nobody")
	assert.ErrorIs(t, err, ErrUnknownName)
}

func TestCostarService_ConcurrentQueriesDuringReload(t *testing.T) {
	svc := loadedService(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				path, err := svc.BaconPath(ctx, 5)
				assert.NoError(t, err)
				assert.Equal(t, 2, path.Hops)
			}
		}()
	}
	for i := 0; i < 5; i++ {
		_, err := svc.Load(ctx)
		require.NoError(t, err)
	}
	wg.Wait()
}
