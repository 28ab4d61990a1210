package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/couchcryptid/corsica-dataviz/internal/domain"
)

// Loader reads the commune and fire datasets from JSON files.
// It implements pipeline.Extractor.
type Loader struct {
	communesPath string
	firesPath    string
	logger       *slog.Logger
}

// NewLoader creates a loader for the two dataset files.
func NewLoader(communesPath, firesPath string, logger *slog.Logger) *Loader {
	return &Loader{
		communesPath: communesPath,
		firesPath:    firesPath,
		logger:       logger,
	}
}

// Extract reads both files. Malformed fields inside a row never fail the load;
// a missing file or a document that is not a JSON array does.
func (l *Loader) Extract(ctx context.Context) (domain.RawDataset, error) {
	var raw domain.RawDataset

	if err := readArray(ctx, l.communesPath, &raw.Communes); err != nil {
		return domain.RawDataset{}, fmt.Errorf("load communes: %w", err)
	}
	if err := readArray(ctx, l.firesPath, &raw.Fires); err != nil {
		return domain.RawDataset{}, fmt.Errorf("load fires: %w", err)
	}

	l.logger.Info("dataset files read",
		"communes_path", l.communesPath,
		"communes", len(raw.Communes),
		"fires_path", l.firesPath,
		"fires", len(raw.Fires),
	)
	return raw, nil
}

func readArray[T any](ctx context.Context, path string, dst *[]T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
