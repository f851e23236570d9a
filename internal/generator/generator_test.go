package generator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/costar/internal/dataset"
	"github.com/vanshika/costar/internal/domain"
)

func smallConfig() Config {
	return Config{
		NumActors:      200,
		NumFilms:       80,
		MinCast:        2,
		MaxCast:        5,
		NumStars:       10,
		StarChance:     0.4,
		ReferenceActor: 17,
		Seed:           7,
	}
}

func TestGenerate_Shape(t *testing.T) {
	ds, err := New(smallConfig()).Generate(context.Background())
	require.NoError(t, err)

	assert.Len(t, ds.Actors, 200)
	assert.Len(t, ds.Films, 80)
	assert.Equal(t, referenceActorName, ds.Actors[16].Name)

	casts := make(map[domain.FilmID]map[domain.ActorID]struct{})
	for _, c := range ds.Credits {
		assert.NotEqual(t, c.ActorA, c.ActorB)
		assert.GreaterOrEqual(t, int64(c.ActorA), int64(1))
		assert.LessOrEqual(t, int64(c.ActorA), int64(200))
		if casts[c.Film] == nil {
			casts[c.Film] = make(map[domain.ActorID]struct{})
		}
		casts[c.Film][c.ActorA] = struct{}{}
		casts[c.Film][c.ActorB] = struct{}{}
	}
	assert.Len(t, casts, 80, "every film has at least one credit")
	for film, cast := range casts {
		assert.GreaterOrEqual(t, len(cast), 2, "film %d", film)
		assert.LessOrEqual(t, len(cast), 5, "film %d", film)
	}

	names := make(map[string]struct{}, len(ds.Actors))
	for _, a := range ds.Actors {
		_, dup := names[a.Name]
		assert.False(t, dup, "duplicate name %q", a.Name)
		names[a.Name] = struct{}{}
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	a, err := New(smallConfig()).Generate(context.Background())
	require.NoError(t, err)
	b, err := New(smallConfig()).Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestGenerate_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(smallConfig()).Generate(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestUnique(t *testing.T) {
	used := map[string]int{}
	assert.Equal(t, "Jane Doe", unique(used, "Jane Doe"))
	assert.Equal(t, "Jane Doe 2", unique(used, "Jane Doe"))
	assert.Equal(t, "Jane Doe 3", unique(used, "Jane Doe"))
}

func TestWriteDataset(t *testing.T) {
	ds, err := New(Config{NumActors: 20, NumFilms: 5, NumStars: 3, Seed: 1}).Generate(context.Background())
	require.NoError(t, err)

	files, err := WriteDataset(ds, t.TempDir(), dataset.FormatMsgpack)
	require.NoError(t, err)

	got, err := files.Read()
	require.NoError(t, err)
	assert.Equal(t, ds.Credits, got.Credits)
	assert.Len(t, got.Actors, 20)
	assert.Len(t, got.Films, 5)
}
