package dataset

import (
	"cmp"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/vanshika/costar/internal/domain"
)

// ReadCredits decodes a credits file.
func ReadCredits(path string) ([]domain.Credit, error) {
	var triples [][]int64
	if err := readFile(path, &triples); err != nil {
		return nil, err
	}
	credits := make([]domain.Credit, 0, len(triples))
	for i, t := range triples {
		if len(t) != 3 {
			return nil, fmt.Errorf("%s: credit %d has %d fields, want 3", path, i, len(t))
		}
		credits = append(credits, domain.Credit{
			ActorA: domain.ActorID(t[0]),
			ActorB: domain.ActorID(t[1]),
			Film:   domain.FilmID(t[2]),
		})
	}
	return credits, nil
}

// WriteCredits encodes credits as triples.
func WriteCredits(path string, credits []domain.Credit) error {
	triples := make([][]int64, 0, len(credits))
	for _, c := range credits {
		triples = append(triples, []int64{int64(c.ActorA), int64(c.ActorB), int64(c.Film)})
	}
	return writeFile(path, triples)
}

// ReadActors decodes an actor name table (name -> id), ordered by id.
func ReadActors(path string) ([]domain.Actor, error) {
	table, err := readTable(path)
	if err != nil {
		return nil, err
	}
	actors := make([]domain.Actor, 0, len(table))
	for name, id := range table {
		actors = append(actors, domain.Actor{ID: domain.ActorID(id), Name: name})
	}
	slices.SortFunc(actors, func(a, b domain.Actor) int {
		return cmp.Or(cmp.Compare(a.ID, b.ID), cmp.Compare(a.Name, b.Name))
	})
	return actors, nil
}

// WriteActors encodes an actor name table.
func WriteActors(path string, actors []domain.Actor) error {
	table := make(map[string]int64, len(actors))
	for _, a := range actors {
		table[a.Name] = int64(a.ID)
	}
	return writeFile(path, table)
}

// ReadFilms decodes a film title table (title -> id), ordered by id.
func ReadFilms(path string) ([]domain.Film, error) {
	table, err := readTable(path)
	if err != nil {
		return nil, err
	}
	films := make([]domain.Film, 0, len(table))
	for title, id := range table {
		films = append(films, domain.Film{ID: domain.FilmID(id), Title: title})
	}
	slices.SortFunc(films, func(a, b domain.Film) int {
		return cmp.Or(cmp.Compare(a.ID, b.ID), cmp.Compare(a.Title, b.Title))
	})
	return films, nil
}

// WriteFilms encodes a film title table.
func WriteFilms(path string, films []domain.Film) error {
	table := make(map[string]int64, len(films))
	for _, f := range films {
		table[f.Title] = int64(f.ID)
	}
	return writeFile(path, table)
}

// Files locates a dataset on disk. Only CreditsPath is required.
type Files struct {
	CreditsPath string
	ActorsPath  string
	FilmsPath   string
}

// Read loads every configured file.
func (f Files) Read() (domain.Dataset, error) {
	var ds domain.Dataset
	var err error
	if ds.Credits, err = ReadCredits(f.CreditsPath); err != nil {
		return domain.Dataset{}, err
	}
	if f.ActorsPath != "" {
		if ds.Actors, err = ReadActors(f.ActorsPath); err != nil {
			return domain.Dataset{}, err
		}
	}
	if f.FilmsPath != "" {
		if ds.Films, err = ReadFilms(f.FilmsPath); err != nil {
			return domain.Dataset{}, err
		}
	}
	return ds, nil
}

// Write stores ds to the configured files, creating parent directories. Name tables are
// skipped when their path is empty.
func (f Files) Write(ds domain.Dataset) error {
	if err := WriteCredits(f.CreditsPath, ds.Credits); err != nil {
		return err
	}
	if f.ActorsPath != "" {
		if err := WriteActors(f.ActorsPath, ds.Actors); err != nil {
			return err
		}
	}
	if f.FilmsPath != "" {
		if err := WriteFilms(f.FilmsPath, ds.Films); err != nil {
			return err
		}
	}
	return nil
}

// FileSource serves a dataset from disk to the query service.
type FileSource struct {
	files Files
}

// NewFileSource returns a source reading the given files on every load.
func NewFileSource(files Files) *FileSource {
	return &FileSource{files: files}
}

// LoadDataset re-reads the files. The context is only checked up front since file
// decoding is not interruptible.
func (s *FileSource) LoadDataset(ctx context.Context) (domain.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return domain.Dataset{}, err
	}
	return s.files.Read()
}

// Describe names the source for logs and stats.
func (s *FileSource) Describe() string {
	return "file:" + filepath.Base(s.files.CreditsPath)
}

func readTable(path string) (map[string]int64, error) {
	var table map[string]int64
	if err := readFile(path, &table); err != nil {
		return nil, err
	}
	return table, nil
}

func readFile(path string, v any) error {
	c, err := codecFor(path)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := c.unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func writeFile(path string, v any) error {
	c, err := codecFor(path)
	if err != nil {
		return err
	}
	data, err := c.marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
