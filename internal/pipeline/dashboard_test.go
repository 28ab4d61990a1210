package pipeline_test

import (
	"context"
	"testing"
	"time"

	"github.com/couchcryptid/corsica-dataviz/internal/domain"
	"github.com/couchcryptid/corsica-dataviz/internal/pipeline"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

type staticSource struct {
	ds  domain.Dataset
	err error
}

func (s staticSource) Dataset() (domain.Dataset, error) { return s.ds, s.err }

func loadedSource(t *testing.T) staticSource {
	t.Helper()
	ds, _ := domain.Normalize(sampleRaw())
	return staticSource{ds: ds}
}

func newDashboard(src pipeline.DatasetSource) *pipeline.Dashboard {
	return pipeline.NewDashboard(src, domain.NewFormatter(language.English), domain.DefaultMapSettings(), discardLogger(), newTestMetrics())
}

func TestDashboard_Snapshot(t *testing.T) {
	frozen := time.Date(2024, time.July, 1, 12, 0, 0, 0, time.UTC)
	domain.SetClock(clockwork.NewFakeClockAt(frozen))
	t.Cleanup(func() { domain.SetClock(clockwork.NewRealClock()) })

	metrics := newTestMetrics()
	d := pipeline.NewDashboard(loadedSource(t), domain.NewFormatter(language.English), domain.DefaultMapSettings(), discardLogger(), metrics)

	sel := domain.DefaultSelection()
	sel.Domain = domain.DomainFire
	sel.Year = "2017"

	snap, err := d.Snapshot(context.Background(), sel)
	require.NoError(t, err)

	assert.Equal(t, sel, snap.Selection)
	assert.Equal(t, domain.DomainFire, snap.View.Domain)
	require.Len(t, snap.KPIs, 3)
	assert.Equal(t, "1", snap.KPIs[0].Value)
	assert.Equal(t, "1,800 ha", snap.KPIs[1].Value)
	assert.Len(t, snap.Markers, 1)
	assert.Equal(t, frozen, snap.GeneratedAt)
	assert.InDelta(t, 1.0, testutil.ToFloat64(metrics.SnapshotRequests.WithLabelValues("fire")), 1e-9)
}

func TestDashboard_NotReady(t *testing.T) {
	d := newDashboard(staticSource{err: pipeline.ErrNotReady})

	_, err := d.Snapshot(context.Background(), domain.DefaultSelection())
	require.ErrorIs(t, err, pipeline.ErrNotReady)

	_, err = d.Options(context.Background())
	require.ErrorIs(t, err, pipeline.ErrNotReady)
}

func TestDashboard_Options(t *testing.T) {
	d := newDashboard(loadedSource(t))

	opts, err := d.Options(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"2017"}, opts.Years)
	assert.Len(t, opts.Views, 3)
	assert.Equal(t, domain.DefaultMapSettings(), opts.Map)
	assert.Equal(t, domain.DefaultSelection(), opts.Defaults)
}

func TestDashboard_View(t *testing.T) {
	d := newDashboard(loadedSource(t))

	sel := domain.DefaultSelection()
	sel.Domain = domain.DomainEnergy
	sel.Metric = domain.MetricResidential

	cfg := d.View(sel)
	assert.Equal(t, domain.DomainEnergy, cfg.Domain)
	assert.Contains(t, cfg.YAxisLabel, "Résidentiel")
}
