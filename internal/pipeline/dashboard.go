package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/couchcryptid/corsica-dataviz/internal/domain"
	"github.com/couchcryptid/corsica-dataviz/internal/observability"
)

// DatasetSource provides the current normalized dataset.
type DatasetSource interface {
	Dataset() (domain.Dataset, error)
}

// Dashboard derives snapshots and picker options from the loaded dataset.
// It holds no derived state; every call recomputes.
type Dashboard struct {
	source    DatasetSource
	formatter domain.Formatter
	mapConfig domain.MapSettings
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// NewDashboard creates a Dashboard over source.
func NewDashboard(source DatasetSource, formatter domain.Formatter, mapConfig domain.MapSettings, logger *slog.Logger, metrics *observability.Metrics) *Dashboard {
	return &Dashboard{
		source:    source,
		formatter: formatter,
		mapConfig: mapConfig,
		logger:    logger,
		metrics:   metrics,
	}
}

// Snapshot derives the dashboard state for sel.
func (d *Dashboard) Snapshot(ctx context.Context, sel domain.Selection) (domain.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return domain.Snapshot{}, err
	}
	ds, err := d.source.Dataset()
	if err != nil {
		return domain.Snapshot{}, err
	}

	start := time.Now()
	snap := domain.BuildSnapshot(ds, sel, d.formatter)

	label := string(sel.Domain)
	d.metrics.SnapshotRequests.WithLabelValues(label).Inc()
	d.metrics.SnapshotDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())
	d.logger.Debug("snapshot derived",
		"domain", sel.Domain,
		"year", sel.Year,
		"metric", sel.Metric,
		"threshold", sel.Threshold.String(),
		"markers", len(snap.Markers),
	)
	return snap, nil
}

// Options returns the picker contents and view configurations.
func (d *Dashboard) Options(ctx context.Context) (domain.FilterOptions, error) {
	if err := ctx.Err(); err != nil {
		return domain.FilterOptions{}, err
	}
	ds, err := d.source.Dataset()
	if err != nil {
		return domain.FilterOptions{}, err
	}
	return domain.BuildOptions(ds, d.mapConfig), nil
}

// View returns the rendering configuration of one domain under sel.
func (d *Dashboard) View(sel domain.Selection) domain.ViewConfig {
	return domain.ViewFor(sel.Domain).Config(sel)
}
