// Command snapshot renders the dashboard to static JSON files for hosting
// without the service. It writes options.json plus one snapshot per domain
// default, per energy metric, per sport threshold preset and per fire year.
// A fixed clock keeps the output byte-for-byte reproducible.
//
// Usage:
//
//	go run ./cmd/snapshot \
//	  -communes data/communes.json \
//	  -fires data/fires.json \
//	  -out dist/snapshots
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/couchcryptid/corsica-dataviz/internal/adapter/jsonfile"
	"github.com/couchcryptid/corsica-dataviz/internal/domain"
	"github.com/couchcryptid/corsica-dataviz/internal/observability"
	"github.com/couchcryptid/corsica-dataviz/internal/pipeline"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
)

var defaultStamp = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// job is one file to render.
type job struct {
	name string
	sel  domain.Selection
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	communesPath := flag.String("communes", "data/communes.json", "path to the commune dataset")
	firesPath := flag.String("fires", "data/fires.json", "path to the fire dataset")
	outDir := flag.String("out", "", "output directory for the JSON files")
	locale := flag.String("locale", "fr", "BCP 47 tag for number formatting")
	stamp := flag.String("generated-at", defaultStamp.Format(time.RFC3339), "timestamp written to every snapshot")
	flag.Parse()

	if *outDir == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}
	tag, err := language.Parse(*locale)
	if err != nil {
		return fmt.Errorf("invalid -locale: %w", err)
	}
	at, err := time.Parse(time.RFC3339, *stamp)
	if err != nil {
		return fmt.Errorf("invalid -generated-at: %w", err)
	}

	domain.SetClock(clockwork.NewFakeClockAt(at))
	defer domain.SetClock(nil)

	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := observability.NewMetricsForTesting()
	loader := jsonfile.NewLoader(*communesPath, *firesPath, quiet)
	p := pipeline.New(loader, pipeline.NewTransformer(nil, "", quiet, metrics), nil, quiet, metrics)

	ds, err := p.Load(context.Background())
	if err != nil {
		return err
	}
	log.Printf("loaded %d communes, %d fires", len(ds.Communes), len(ds.Fires))

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	f := domain.NewFormatter(tag)
	if err := writeJSON(filepath.Join(*outDir, "options.json"), domain.BuildOptions(ds, domain.DefaultMapSettings())); err != nil {
		return err
	}

	jobs := plan(ds)
	g := new(errgroup.Group)
	g.SetLimit(4)
	for _, j := range jobs {
		g.Go(func() error {
			snap := domain.BuildSnapshot(ds, j.sel, f)
			return writeJSON(filepath.Join(*outDir, j.name+".json"), snap)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	log.Printf("wrote %d snapshots and options.json to %s", len(jobs), *outDir)
	return nil
}

// plan lists every selection worth pre-rendering.
func plan(ds domain.Dataset) []job {
	var jobs []job //nolint:prealloc // size depends on the fire years present

	for _, d := range domain.Domains {
		sel := domain.DefaultSelection()
		sel.Domain = d
		jobs = append(jobs, job{name: string(d), sel: sel})
	}
	for _, t := range domain.ThresholdPresets {
		sel := domain.DefaultSelection()
		sel.Threshold = domain.MinEquipment(t)
		jobs = append(jobs, job{name: "sport-min-" + strconv.Itoa(t), sel: sel})
	}
	for _, m := range domain.EnergyMetrics[1:] {
		sel := domain.DefaultSelection()
		sel.Domain = domain.DomainEnergy
		sel.Metric = m
		jobs = append(jobs, job{name: "energy-" + string(m), sel: sel})
	}
	for _, y := range domain.FireYears(ds.Fires) {
		// Years become file names, so only canonical integers are rendered.
		if canonical, err := domain.ParseYear(y); err != nil || canonical != y || canonical == domain.All {
			log.Printf("skipping fire year %q: not a plain year", y)
			continue
		}
		sel := domain.DefaultSelection()
		sel.Domain = domain.DomainFire
		sel.Year = y
		jobs = append(jobs, job{name: "fire-" + y, sel: sel})
	}
	return jobs
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
