package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/vanshika/costar/internal/domain"
	"github.com/vanshika/costar/internal/metrics"
)

const (
	defaultIngestWorkers   = 4
	defaultIngestBatchSize = 1000
)

// TaskError accumulates multiple errors produced during bulk ingestion.
type TaskError struct {
	Errors []error
}

func (e *TaskError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msgs := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		msgs = append(msgs, err.Error())
	}
	return "multiple errors: " + strings.Join(msgs, "; ")
}

// Unwrap exposes the individual failures to errors.Is and errors.As.
func (e *TaskError) Unwrap() []error {
	return e.Errors
}

func (e *TaskError) append(err error) {
	if err == nil {
		return
	}
	e.Errors = append(e.Errors, err)
}

func (e *TaskError) asError() error {
	if len(e.Errors) == 0 {
		return nil
	}
	return e
}

// BulkIngestor writes large datasets to a CreditWriter in batches using a bounded pool of
// goroutines. A failed batch does not stop the others; failures are returned together
// as a *TaskError.
type BulkIngestor struct {
	writer    CreditWriter
	workers   int
	batchSize int
	logger    *slog.Logger
}

// NewBulkIngestor creates a BulkIngestor. Non-positive workers or batchSize select
// defaults.
func NewBulkIngestor(writer CreditWriter, workers, batchSize int) *BulkIngestor {
	if workers <= 0 {
		workers = defaultIngestWorkers
	}
	if batchSize <= 0 {
		batchSize = defaultIngestBatchSize
	}
	return &BulkIngestor{
		writer:    writer,
		workers:   workers,
		batchSize: batchSize,
		logger:    slog.Default().With("component", "bulk_ingestor"),
	}
}

// WithLogger replaces the ingestor's logger.
func (bi *BulkIngestor) WithLogger(logger *slog.Logger) *BulkIngestor {
	if logger != nil {
		bi.logger = logger.With("component", "bulk_ingestor")
	}
	return bi
}

// IngestDataset writes the name tables and then the credits.
func (bi *BulkIngestor) IngestDataset(ctx context.Context, ds domain.Dataset) error {
	if err := bi.IngestActors(ctx, ds.Actors); err != nil {
		return err
	}
	if err := bi.IngestFilms(ctx, ds.Films); err != nil {
		return err
	}
	return bi.IngestCredits(ctx, ds.Credits)
}

// IngestCredits upserts credits in concurrent batches.
func (bi *BulkIngestor) IngestCredits(ctx context.Context, credits []domain.Credit) error {
	return bi.run(ctx, "credits", len(credits), func(lo, hi int) error {
		err := bi.writer.UpsertCredits(ctx, credits[lo:hi])
		metrics.RecordIngest(hi-lo, err)
		return err
	})
}

// IngestActors upserts actor names in concurrent batches.
func (bi *BulkIngestor) IngestActors(ctx context.Context, actors []domain.Actor) error {
	return bi.run(ctx, "actors", len(actors), func(lo, hi int) error {
		return bi.writer.UpsertActors(ctx, actors[lo:hi])
	})
}

// IngestFilms upserts film titles in concurrent batches.
func (bi *BulkIngestor) IngestFilms(ctx context.Context, films []domain.Film) error {
	return bi.run(ctx, "films", len(films), func(lo, hi int) error {
		return bi.writer.UpsertFilms(ctx, films[lo:hi])
	})
}

func (bi *BulkIngestor) run(ctx context.Context, kind string, total int, batchFn func(lo, hi int) error) error {
	if total == 0 {
		return nil
	}

	var (
		mu      sync.Mutex
		taskErr TaskError
		eg      errgroup.Group
	)
	eg.SetLimit(bi.workers)

	batches := 0
	for lo := 0; lo < total; lo += bi.batchSize {
		if ctx.Err() != nil {
			break
		}
		hi := min(lo+bi.batchSize, total)
		batches++
		eg.Go(func() error {
			if err := batchFn(lo, hi); err != nil {
				mu.Lock()
				taskErr.append(err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = eg.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}
	for _, err := range taskErr.Errors {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
	}

	bi.logger.Info("ingested", "kind", kind, "items", total, "batches", batches, "failed_batches", len(taskErr.Errors))
	return taskErr.asError()
}
