package domain

import (
	"context"
	"log/slog"
)

// BackfillCoordinates fills missing commune coordinates through the geocoder
// so the rows survive normalization. It returns a new slice and the number of
// rows filled. A nil geocoder, a failed lookup, or an empty result leaves the
// row untouched (graceful degradation).
func BackfillCoordinates(ctx context.Context, rows []RawCommune, geocoder Geocoder, region string, logger *slog.Logger) ([]RawCommune, int) {
	out := make([]RawCommune, len(rows))
	copy(out, rows)
	if geocoder == nil {
		return out, 0
	}

	filled := 0
	for i, r := range out {
		if hasCoordinate(r.Lat) && hasCoordinate(r.Lng) {
			continue
		}
		if r.Name == "" {
			continue
		}
		if ctx.Err() != nil {
			return out, filled
		}

		result, err := geocoder.ForwardGeocode(ctx, string(r.Name), region)
		if err != nil {
			logger.Warn("forward geocoding failed",
				"commune", string(r.Name),
				"region", region,
				"error", err,
			)
			continue
		}
		if result.Lat == 0 || result.Lng == 0 {
			logger.Debug("no geocoding match", "commune", string(r.Name), "region", region)
			continue
		}

		out[i].Lat = Float(result.Lat)
		out[i].Lng = Float(result.Lng)
		filled++
	}
	return out, filled
}
