package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/costar/internal/domain"
)

type stubWriter struct {
	mu       sync.Mutex
	credits  []domain.Credit
	actors   []domain.Actor
	films    []domain.Film
	batches  int
	failWith func(batch []domain.Credit) error
}

func (w *stubWriter) UpsertCredits(_ context.Context, credits []domain.Credit) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.batches++
	if w.failWith != nil {
		if err := w.failWith(credits); err != nil {
			return err
		}
	}
	w.credits = append(w.credits, credits...)
	return nil
}

func (w *stubWriter) UpsertActors(_ context.Context, actors []domain.Actor) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.actors = append(w.actors, actors...)
	return nil
}

func (w *stubWriter) UpsertFilms(_ context.Context, films []domain.Film) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.films = append(w.films, films...)
	return nil
}

func manyCredits(n int) []domain.Credit {
	out := make([]domain.Credit, n)
	for i := range out {
		out[i] = domain.Credit{ActorA: domain.ActorID(i + 1), ActorB: domain.ActorID(i + 2), Film: domain.FilmID(i + 1)}
	}
	return out
}

func TestBulkIngestor_IngestDataset(t *testing.T) {
	w := &stubWriter{}
	ing := NewBulkIngestor(w, 3, 10)

	ds := domain.Dataset{
		Credits: manyCredits(95),
		Actors:  []domain.Actor{{ID: 1, Name: "Ada Stone"}},
		Films:   []domain.Film{{ID: 1, Title: "First Light"}},
	}
	require.NoError(t, ing.IngestDataset(context.Background(), ds))

	assert.Len(t, w.credits, 95)
	assert.ElementsMatch(t, ds.Credits, w.credits)
	assert.Equal(t, 10, w.batches)
	assert.Len(t, w.actors, 1)
	assert.Len(t, w.films, 1)
}

func TestBulkIngestor_AggregatesErrors(t *testing.T) {
	boom := errors.New("write refused")
	w := &stubWriter{failWith: func(batch []domain.Credit) error {
		if batch[0].Film%20 == 1 {
			return boom
		}
		return nil
	}}
	ing := NewBulkIngestor(w, 2, 10)

	err := ing.IngestCredits(context.Background(), manyCredits(50))
	var taskErr *TaskError
	require.ErrorAs(t, err, &taskErr)
	assert.Len(t, taskErr.Errors, 3)
	assert.ErrorIs(t, err, boom)
	assert.Len(t, w.credits, 20)
}

func TestBulkIngestor_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewBulkIngestor(&stubWriter{}, 2, 10).IngestCredits(ctx, manyCredits(30))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBulkIngestor_Empty(t *testing.T) {
	w := &stubWriter{}
	require.NoError(t, NewBulkIngestor(w, 0, 0).IngestCredits(context.Background(), nil))
	assert.Zero(t, w.batches)
}

func TestTaskError_Message(t *testing.T) {
	var te TaskError
	assert.NoError(t, te.asError())
	te.append(errors.New("a"))
	assert.Equal(t, "a", te.Error())
	te.append(errors.New("b"))
	assert.Equal(t, "multiple errors: a; b", te.Error())
}
