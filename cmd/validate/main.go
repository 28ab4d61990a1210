// Command validate loads the dataset files and checks the invariants the
// dashboard relies on: normalization bounds, jitter radius, filter
// correctness, aggregate consistency and empty-set behavior. It exits
// non-zero when any phase fails.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -communes data/communes.json \
//	  -fires data/fires.json
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"

	"github.com/couchcryptid/corsica-dataviz/internal/adapter/jsonfile"
	"github.com/couchcryptid/corsica-dataviz/internal/domain"
	"github.com/couchcryptid/corsica-dataviz/internal/observability"
	"github.com/couchcryptid/corsica-dataviz/internal/pipeline"
	"golang.org/x/text/language"
)

// maxJitter is the largest allowed offset between a fire's original and
// displayed coordinate, in degrees.
const maxJitter = 0.01

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	communesPath := flag.String("communes", "data/communes.json", "path to the commune dataset")
	firesPath := flag.String("fires", "data/fires.json", "path to the fire dataset")
	flag.Parse()

	os.Exit(run(*communesPath, *firesPath, os.Stdout))
}

func run(communesPath, firesPath string, out io.Writer) int {
	fmt.Fprintln(out, "=== Corsica Dataset Validation ===")
	fmt.Fprintln(out)

	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	loader := jsonfile.NewLoader(communesPath, firesPath, quiet)
	raw, err := loader.Extract(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}
	tr := pipeline.NewTransformer(nil, "", quiet, observability.NewMetricsForTesting())
	ds, err := tr.Transform(context.Background(), raw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateCommunes(ds.Communes),
		validateJitter(ds.Fires),
		validateRepeatable(raw, ds),
		validateThresholds(ds.Communes),
		validateYearFilter(ds.Fires),
		validateSurfaceTotals(ds.Fires),
		validateLeaderboards(ds.Fires),
		validateEnergyWeighting(ds.Communes),
		validateEmptySelections(ds),
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(out, "  %-42s %s\n", p.name, status)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Records: %d/%d communes kept, %d fires\n", len(ds.Communes), len(raw.Communes), len(ds.Fires))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(out, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(out, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(out, "\nAll validations passed.")
		return 0
	}
	fmt.Fprintln(out, "\nValidation FAILED.")
	return 1
}

// ── Phases ──

func validateCommunes(communes []domain.CommuneRecord) *phase {
	p := &phase{name: "Commune normalization"}
	for _, c := range communes {
		if c.Geo.Lat == 0 || c.Geo.Lng == 0 {
			p.errorf("%s: missing coordinate %+v", c.Name, c.Geo)
		}
		if c.Facilities < 0 || c.Consumption < 0 || c.Youth < 0 {
			p.errorf("%s: negative count (facilities=%d consumption=%g youth=%d)", c.Name, c.Facilities, c.Consumption, c.Youth)
		}
		if c.MarkerWeight != c.Youth {
			p.errorf("%s: marker weight %d differs from youth %d", c.Name, c.MarkerWeight, c.Youth)
		}
		for _, m := range domain.EnergyMetrics[1:] {
			if v := m.Value(c); v < 0 || v > 100 {
				p.errorf("%s: %s share %g outside [0,100]", c.Name, m, v)
			}
		}
	}
	return p
}

func validateJitter(fires []domain.FireEvent) *phase {
	p := &phase{name: "Fire jitter radius"}
	seen := make(map[string]bool, len(fires))
	for _, f := range fires {
		if d := math.Abs(f.Geo.Lat - f.Origin.Lat); d > maxJitter {
			p.errorf("%s: lat offset %g exceeds %g", f.ID, d, maxJitter)
		}
		if d := math.Abs(f.Geo.Lng - f.Origin.Lng); d > maxJitter {
			p.errorf("%s: lng offset %g exceeds %g", f.ID, d, maxJitter)
		}
		if seen[f.ID] {
			p.errorf("%s: duplicate fire id", f.ID)
		}
		seen[f.ID] = true
	}
	return p
}

func validateRepeatable(raw domain.RawDataset, ds domain.Dataset) *phase {
	p := &phase{name: "Normalization is repeatable"}
	again, _ := domain.Normalize(raw)
	if len(again.Fires) != len(ds.Fires) || len(again.Communes) != len(ds.Communes) {
		p.errorf("record counts differ between runs")
		return p
	}
	for i := range ds.Fires {
		if again.Fires[i] != ds.Fires[i] {
			p.errorf("%s: second run produced %+v, first %+v", ds.Fires[i].ID, again.Fires[i].Geo, ds.Fires[i].Geo)
		}
	}
	return p
}

func validateThresholds(communes []domain.CommuneRecord) *phase {
	p := &phase{name: "Equipment threshold filter"}
	for _, t := range domain.ThresholdPresets {
		filtered := domain.FilterCommunes(communes, domain.MinEquipment(t))
		want := 0
		for _, c := range communes {
			if c.Facilities >= t {
				want++
			}
		}
		if len(filtered) != want {
			p.errorf("threshold %d: kept %d communes, want %d", t, len(filtered), want)
		}
		for _, c := range filtered {
			if c.Facilities < t {
				p.errorf("threshold %d: %s has %d facilities", t, c.Name, c.Facilities)
			}
		}
	}
	if all := domain.FilterCommunes(communes, domain.Threshold{}); len(all) != len(communes) {
		p.errorf("threshold all: kept %d of %d communes", len(all), len(communes))
	}
	return p
}

func validateYearFilter(fires []domain.FireEvent) *phase {
	p := &phase{name: "Fire year filter"}
	total := 0
	for _, y := range domain.FireYears(fires) {
		filtered := domain.FilterFires(fires, y)
		for _, f := range filtered {
			if f.Year != y {
				p.errorf("year %s: %s has year %s", y, f.ID, f.Year)
			}
		}
		total += len(filtered)
	}
	if total != len(fires) {
		p.errorf("per-year filters cover %d of %d fires", total, len(fires))
	}
	if all := domain.FilterFires(fires, domain.All); len(all) != len(fires) {
		p.errorf("year all: kept %d of %d fires", len(all), len(fires))
	}
	return p
}

func validateSurfaceTotals(fires []domain.FireEvent) *phase {
	p := &phase{name: "Surface totals match history"}
	byYear := make(map[string]float64)
	for _, yt := range domain.SurfaceByYear(fires) {
		byYear[yt.Year] = yt.Surface
	}
	for _, y := range domain.FireYears(fires) {
		got := domain.TotalSurface(domain.FilterFires(fires, y))
		if math.Abs(got-byYear[y]) > 1e-6 {
			p.errorf("year %s: filtered total %g, history %g", y, got, byYear[y])
		}
	}
	return p
}

func validateLeaderboards(fires []domain.FireEvent) *phase {
	p := &phase{name: "Leaderboard ordering and counts"}
	selections := append([]string{domain.All}, domain.FireYears(fires)...)
	for _, y := range selections {
		filtered := domain.FilterFires(fires, y)
		board := domain.FireLeaderboard(filtered)
		if len(board) > domain.LeaderboardSize {
			p.errorf("year %s: %d entries", y, len(board))
		}
		counts := make(map[string]int)
		for _, f := range filtered {
			counts[f.Commune]++
		}
		for i, e := range board {
			if e.Rank != i+1 {
				p.errorf("year %s: entry %d has rank %d", y, i, e.Rank)
			}
			if i > 0 && e.Surface > board[i-1].Surface {
				p.errorf("year %s: %s (%g) ranked below %s (%g)", y, e.Commune, e.Surface, board[i-1].Commune, board[i-1].Surface)
			}
			if e.FireCount != counts[e.Commune] {
				p.errorf("year %s: %s fire count %d, want %d", y, e.Commune, e.FireCount, counts[e.Commune])
			}
		}
	}
	return p
}

func validateEnergyWeighting(communes []domain.CommuneRecord) *phase {
	p := &phase{name: "Energy share weighting"}
	total := domain.ConsumptionGWh(communes, domain.MetricTotal)
	for _, m := range domain.EnergyMetrics[1:] {
		var mwh float64
		for _, c := range communes {
			mwh += c.Consumption * m.Value(c) / 100
		}
		want := math.Round(mwh / 1000)
		if got := domain.ConsumptionGWh(communes, m); math.Abs(got-want) > 1 {
			p.errorf("%s: %g GWh, weighted sum gives %g", m, got, want)
		}
		if got := domain.ConsumptionGWh(communes, m); got > total {
			p.errorf("%s: sector consumption %g exceeds total %g", m, got, total)
		}
	}
	return p
}

func validateEmptySelections(ds domain.Dataset) *phase {
	p := &phase{name: "Empty selections"}
	f := domain.NewFormatter(language.French)

	if _, ok := domain.WorstYear(nil); ok {
		p.errorf("worst year reported for an empty fire set")
	}

	fire := domain.DefaultSelection()
	fire.Domain = domain.DomainFire
	fire.Year = "1900"
	snap := domain.BuildSnapshot(ds, fire, f)
	if len(snap.Markers) != 0 || snap.KPIs[2].Value != domain.NotAvailable {
		p.errorf("fire year 1900: %d markers, worst year %q", len(snap.Markers), snap.KPIs[2].Value)
	}

	sport := domain.DefaultSelection()
	sport.Threshold = domain.MinEquipment(math.MaxInt32)
	snap = domain.BuildSnapshot(ds, sport, f)
	if snap.KPIs[0].Value != "0" || snap.KPIs[1].Value != "0" || snap.KPIs[2].Value != domain.NotAvailable {
		p.errorf("sport threshold above every commune: KPIs %q %q %q", snap.KPIs[0].Value, snap.KPIs[1].Value, snap.KPIs[2].Value)
	}
	return p
}
