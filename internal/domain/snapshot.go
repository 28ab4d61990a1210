package domain

import (
	"sort"
	"strconv"
	"time"
)

// Snapshot is everything the presentation layer needs to render one state of
// the dashboard.
type Snapshot struct {
	Selection   Selection  `json:"selection"`
	View        ViewConfig `json:"view"`
	KPIs        []KPI      `json:"kpis"`
	Markers     []Marker   `json:"markers"`
	Charts      Charts     `json:"charts"`
	GeneratedAt time.Time  `json:"generated_at"`
}

// BuildSnapshot filters ds by the selection and derives every output of the
// active domain. Every call recomputes from scratch.
func BuildSnapshot(ds Dataset, sel Selection, f Formatter) Snapshot {
	v := ViewFor(sel.Domain)
	filtered := v.Filter(ds, sel)

	return Snapshot{
		Selection:   sel,
		View:        v.Config(sel),
		KPIs:        v.KPIs(filtered, ds, sel, f),
		Markers:     v.Markers(filtered, sel, f),
		Charts:      v.Charts(filtered, ds, sel),
		GeneratedAt: clock.Now().UTC(),
	}
}

// MapSettings configures the external slippy map.
type MapSettings struct {
	Center      Geo    `json:"center"`
	Zoom        int    `json:"zoom"`
	TileURL     string `json:"tile_url"`
	Attribution string `json:"attribution"`
}

// DefaultTileURL is the dark basemap template used when none is configured.
const DefaultTileURL = "https://{s}.basemaps.cartocdn.com/dark_all/{z}/{x}/{y}{r}.png"

// DefaultMapSettings frames the whole of Corsica.
func DefaultMapSettings() MapSettings {
	return MapSettings{
		Center:      Geo{Lat: 42.15, Lng: 9.15},
		Zoom:        8,
		TileURL:     DefaultTileURL,
		Attribution: "&copy; OpenStreetMap",
	}
}

// MetricOption is one entry of the energy metric picker.
type MetricOption struct {
	Value EnergyMetric `json:"value"`
	Label string       `json:"label"`
}

// FilterOptions lists the values each picker offers.
type FilterOptions struct {
	Years      []string       `json:"years"`
	Metrics    []MetricOption `json:"metrics"`
	Thresholds []string       `json:"thresholds"`
	Views      []ViewConfig   `json:"views"`
	Map        MapSettings    `json:"map"`
	Defaults   Selection      `json:"defaults"`
}

// BuildOptions derives the picker contents from the dataset.
func BuildOptions(ds Dataset, m MapSettings) FilterOptions {
	defaults := DefaultSelection()

	metrics := make([]MetricOption, len(EnergyMetrics))
	for i, em := range EnergyMetrics {
		metrics[i] = MetricOption{Value: em, Label: em.Label()}
	}

	thresholds := []string{All}
	for _, t := range ThresholdPresets {
		thresholds = append(thresholds, strconv.Itoa(t))
	}

	configs := make([]ViewConfig, len(Domains))
	for i, d := range Domains {
		sel := defaults
		sel.Domain = d
		configs[i] = ViewFor(d).Config(sel)
	}

	return FilterOptions{
		Years:      FireYears(ds.Fires),
		Metrics:    metrics,
		Thresholds: thresholds,
		Views:      configs,
		Map:        m,
		Defaults:   defaults,
	}
}

// FireYears returns the distinct non-empty years, ascending.
func FireYears(fires []FireEvent) []string {
	seen := make(map[string]bool)
	years := make([]string, 0)
	for _, f := range fires {
		if f.Year == "" || seen[f.Year] {
			continue
		}
		seen[f.Year] = true
		years = append(years, f.Year)
	}
	sort.Strings(years)
	return years
}
