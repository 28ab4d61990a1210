package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/corsica-dataviz/internal/domain"
	"github.com/couchcryptid/corsica-dataviz/internal/observability"
)

// DatasetTransformer implements Transformer using the domain normalizer with
// optional coordinate backfill.
type DatasetTransformer struct {
	geocoder domain.Geocoder
	region   string
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// NewTransformer creates a DatasetTransformer. Pass a nil geocoder to disable
// coordinate backfill.
func NewTransformer(geocoder domain.Geocoder, region string, logger *slog.Logger, metrics *observability.Metrics) *DatasetTransformer {
	return &DatasetTransformer{
		geocoder: geocoder,
		region:   region,
		logger:   logger,
		metrics:  metrics,
	}
}

func (t *DatasetTransformer) Transform(ctx context.Context, raw domain.RawDataset) (domain.Dataset, error) {
	communes, filled := domain.BackfillCoordinates(ctx, raw.Communes, t.geocoder, t.region, t.logger)
	if err := ctx.Err(); err != nil {
		return domain.Dataset{}, err
	}
	if filled > 0 {
		t.metrics.CoordinatesFilled.Add(float64(filled))
		t.logger.Info("coordinates backfilled", "communes", filled)
	}
	raw.Communes = communes

	ds, stats := domain.Normalize(raw)

	t.metrics.DatasetRows.WithLabelValues("commune", "kept").Add(float64(stats.CommunesKept))
	t.metrics.DatasetRows.WithLabelValues("commune", "dropped").Add(float64(stats.CommunesDropped))
	t.metrics.DatasetRows.WithLabelValues("fire", "kept").Add(float64(stats.Fires))
	if stats.CommunesDropped > 0 {
		t.logger.Warn("communes dropped for missing coordinates", "dropped", stats.CommunesDropped)
	}
	t.logger.Info("dataset normalized",
		"communes_read", stats.CommunesRead,
		"communes_kept", stats.CommunesKept,
		"fires", stats.Fires,
	)
	return ds, nil
}
