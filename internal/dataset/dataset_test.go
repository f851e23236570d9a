package dataset

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/costar/internal/domain"
)

func sampleDataset() domain.Dataset {
	return domain.Dataset{
		Credits: []domain.Credit{
			{ActorA: 1, ActorB: 2, Film: 100},
			{ActorA: 2, ActorB: 3, Film: 101},
		},
		Actors: []domain.Actor{
			{ID: 1, Name: "Ada Stone"},
			{ID: 2, Name: "Ben Marsh"},
			{ID: 3, Name: "Cy Lowe"},
		},
		Films: []domain.Film{
			{ID: 100, Title: "First Light"},
			{ID: 101, Title: "Second Wind"},
		},
	}
}

func TestFiles_WriteRead(t *testing.T) {
	for _, ext := range []string{".json", ".msgpack", ".yaml"} {
		t.Run(ext, func(t *testing.T) {
			dir := t.TempDir()
			files := Files{
				CreditsPath: filepath.Join(dir, "data", "credits"+ext),
				ActorsPath:  filepath.Join(dir, "data", "names"+ext),
				FilmsPath:   filepath.Join(dir, "data", "films"+ext),
			}
			want := sampleDataset()
			require.NoError(t, files.Write(want))

			got, err := files.Read()
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestReadCredits_TripleLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiny.json")
	require.NoError(t, os.WriteFile(path, []byte(`[[4724, 2876, 617], [1640, 4724, 617]]`), 0o644))

	credits, err := ReadCredits(path)
	require.NoError(t, err)
	assert.Equal(t, []domain.Credit{
		{ActorA: 4724, ActorB: 2876, Film: 617},
		{ActorA: 1640, ActorB: 4724, Film: 617},
	}, credits)
}

func TestReadCredits_Errors(t *testing.T) {
	dir := t.TempDir()

	short := filepath.Join(dir, "short.json")
	require.NoError(t, os.WriteFile(short, []byte(`[[1, 2]]`), 0o644))
	_, err := ReadCredits(short)
	assert.ErrorContains(t, err, "want 3")

	_, err = ReadCredits(filepath.Join(dir, "credits.csv"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = ReadCredits(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadActors_SortedByID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "names.yml")
	require.NoError(t, os.WriteFile(path, []byte("Kevin Bacon: 4724\nAda Stone: 3\n"), 0o644))

	actors, err := ReadActors(path)
	require.NoError(t, err)
	assert.Equal(t, []domain.Actor{{ID: 3, Name: "Ada Stone"}, {ID: 4724, Name: "Kevin Bacon"}}, actors)
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	files := Files{CreditsPath: filepath.Join(dir, "credits.mp")}
	require.NoError(t, files.Write(domain.Dataset{Credits: sampleDataset().Credits}))

	src := NewFileSource(files)
	assert.Equal(t, "file:credits.mp", src.Describe())

	ds, err := src.LoadDataset(context.Background())
	require.NoError(t, err)
	assert.Len(t, ds.Credits, 2)
	assert.Empty(t, ds.Actors)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = src.LoadDataset(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
