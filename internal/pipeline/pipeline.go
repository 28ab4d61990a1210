package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/corsica-dataviz/internal/domain"
	"github.com/couchcryptid/corsica-dataviz/internal/observability"
	"github.com/couchcryptid/storm-data-shared/retry"
)

// ErrNotReady is returned while no normalized dataset is available.
var ErrNotReady = errors.New("dataset has not been loaded yet")

const (
	initialBackoff     = 200 * time.Millisecond
	maxBackoff         = 5 * time.Second
	maxLoadAttempts    = 5
	maxPublishAttempts = 5
)

// Extractor reads the raw source collections.
type Extractor interface {
	Extract(ctx context.Context) (domain.RawDataset, error)
}

// Transformer turns the raw collections into the normalized dataset.
type Transformer interface {
	Transform(ctx context.Context, raw domain.RawDataset) (domain.Dataset, error)
}

// Publisher exports the normalized dataset to a downstream sink.
type Publisher interface {
	Publish(ctx context.Context, ds domain.Dataset) error
}

// Pipeline loads the dataset once, keeps it for the derivation layer, and
// optionally exports it.
type Pipeline struct {
	extractor   Extractor
	transformer Transformer
	publisher   Publisher
	logger      *slog.Logger
	metrics     *observability.Metrics
	dataset     atomic.Pointer[domain.Dataset]
}

// New creates a Pipeline with the given stages and observability. Pass a nil
// publisher to disable export.
func New(e Extractor, t Transformer, p Publisher, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		extractor:   e,
		transformer: t,
		publisher:   p,
		logger:      logger,
		metrics:     metrics,
	}
}

// CheckReadiness returns nil once a dataset has been loaded.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if p.dataset.Load() == nil {
		return ErrNotReady
	}
	return nil
}

// Dataset returns the loaded dataset, or ErrNotReady.
func (p *Pipeline) Dataset() (domain.Dataset, error) {
	ds := p.dataset.Load()
	if ds == nil {
		return domain.Dataset{}, ErrNotReady
	}
	return *ds, nil
}

// Run loads the dataset, retrying transient failures with backoff, then
// exports it. A dataset that cannot be loaded is returned as an error; export
// failures are logged and never affect readiness. Cancellation is not an error.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started")

	ds, err := p.loadWithRetry(ctx)
	if err != nil {
		if ctx.Err() != nil {
			p.logger.Info("pipeline stopping before dataset load", "reason", ctx.Err())
			return nil
		}
		return err
	}

	p.dataset.Store(&ds)
	p.metrics.DatasetReady.Set(1)
	p.logger.Info("dataset ready", "communes", len(ds.Communes), "fires", len(ds.Fires))

	if p.publisher == nil {
		return nil
	}
	if err := p.publishWithRetry(ctx, ds); err != nil {
		p.logger.Error("dataset export abandoned", "error", err)
	}
	return nil
}

// Load runs extract and transform a single time without retry.
func (p *Pipeline) Load(ctx context.Context) (domain.Dataset, error) {
	start := time.Now()

	raw, err := p.extractor.Extract(ctx)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("extract: %w", err)
	}
	ds, err := p.transformer.Transform(ctx, raw)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("transform: %w", err)
	}

	p.metrics.DatasetLoadDuration.Observe(time.Since(start).Seconds())
	return ds, nil
}

func (p *Pipeline) loadWithRetry(ctx context.Context) (domain.Dataset, error) {
	backoff := initialBackoff
	var err error
	for attempt := 1; attempt <= maxLoadAttempts; attempt++ {
		var ds domain.Dataset
		if ds, err = p.Load(ctx); err == nil {
			return ds, nil
		}
		if ctx.Err() != nil {
			return domain.Dataset{}, ctx.Err()
		}

		p.logger.Error("dataset load failed", "error", err, "attempt", attempt)
		if attempt == maxLoadAttempts {
			break
		}
		if !retry.SleepWithContext(ctx, backoff) {
			return domain.Dataset{}, ctx.Err()
		}
		backoff = retry.NextBackoff(backoff, maxBackoff)
	}
	return domain.Dataset{}, fmt.Errorf("load dataset after %d attempts: %w", maxLoadAttempts, err)
}

func (p *Pipeline) publishWithRetry(ctx context.Context, ds domain.Dataset) error {
	backoff := initialBackoff
	var err error
	for attempt := 1; attempt <= maxPublishAttempts; attempt++ {
		if err = p.publisher.Publish(ctx, ds); err == nil {
			p.logger.Info("dataset exported", "attempt", attempt)
			return nil
		}
		p.metrics.ExportErrors.Inc()
		if ctx.Err() != nil {
			return ctx.Err()
		}

		p.logger.Warn("dataset export failed", "error", err, "attempt", attempt)
		if attempt == maxPublishAttempts {
			break
		}
		if !retry.SleepWithContext(ctx, backoff) {
			return ctx.Err()
		}
		backoff = retry.NextBackoff(backoff, maxBackoff)
	}
	return fmt.Errorf("export failed after %d attempts: %w", maxPublishAttempts, err)
}
