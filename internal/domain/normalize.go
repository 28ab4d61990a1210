package domain

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
)

// jitterSpan is the full width of the fire offset window, so each axis moves
// by at most half of it.
const jitterSpan = 0.02

// NormalizeStats summarizes one normalization pass.
type NormalizeStats struct {
	CommunesRead    int
	CommunesKept    int
	CommunesDropped int
	Fires           int
}

// Normalize cleans both raw collections. It never fails: malformed numerics
// degrade to zero and communes without coordinates are dropped.
func Normalize(raw RawDataset) (Dataset, NormalizeStats) {
	communes, dropped := NormalizeCommunes(raw.Communes)
	fires := NormalizeFires(raw.Fires)
	return Dataset{Communes: communes, Fires: fires}, NormalizeStats{
		CommunesRead:    len(raw.Communes),
		CommunesKept:    len(communes),
		CommunesDropped: dropped,
		Fires:           len(fires),
	}
}

// NormalizeCommunes coerces missing numerics to zero and drops rows missing
// either coordinate. It returns the kept records and the number dropped.
func NormalizeCommunes(rows []RawCommune) ([]CommuneRecord, int) {
	out := make([]CommuneRecord, 0, len(rows))
	dropped := 0
	for i, r := range rows {
		rec, ok := normalizeCommune(r, i)
		if !ok {
			dropped++
			continue
		}
		out = append(out, rec)
	}
	return out, dropped
}

func normalizeCommune(r RawCommune, ordinal int) (CommuneRecord, bool) {
	if !hasCoordinate(r.Lat) || !hasCoordinate(r.Lng) {
		return CommuneRecord{}, false
	}

	youth := nonNegativeInt(r.Youth.OrZero())
	geo := Geo{Lat: r.Lat.Value, Lng: r.Lng.Value}

	return CommuneRecord{
		ID:          communeID(string(r.Name), geo, ordinal),
		Name:        string(r.Name),
		Geo:         geo,
		Youth:       youth,
		Facilities:  nonNegativeInt(r.Facilities.OrZero()),
		Consumption: nonNegative(r.Consumption.OrZero()),
		Shares: SectorShares{
			Residential:  share(r.Residential.OrZero()),
			Tertiary:     share(r.Tertiary.OrZero()),
			Industrial:   share(r.Industrial.OrZero()),
			Agricultural: share(r.Agricultural.OrZero()),
		},
		MarkerWeight: youth,
	}, true
}

// NormalizeFires applies the positional jitter to every fire. No rows are
// dropped. Identical source rows are told apart by their occurrence ordinal,
// so the result depends only on the input and its order.
func NormalizeFires(rows []RawFire) []FireEvent {
	out := make([]FireEvent, 0, len(rows))
	seen := make(map[string]int, len(rows))
	for _, r := range rows {
		surface := nonNegative(r.Surface.OrZero())
		key := fmt.Sprintf("%s|%s|%g", r.Commune, r.Date, surface)
		ordinal := seen[key]
		seen[key] = ordinal + 1

		hash := sha256.Sum256([]byte(fmt.Sprintf("%s|%d", key, ordinal)))
		origin := Geo{Lat: r.Lat.OrZero(), Lng: r.Lng.OrZero()}

		out = append(out, FireEvent{
			ID:        "fire-" + hex.EncodeToString(hash[:8]),
			Commune:   string(r.Commune),
			Year:      string(r.Year),
			Date:      string(r.Date),
			SurfaceHa: surface,
			Geo: Geo{
				Lat: origin.Lat + jitterOffset(hash[0:8]),
				Lng: origin.Lng + jitterOffset(hash[8:16]),
			},
			Origin: origin,
		})
	}
	return out
}

// jitterOffset maps eight hash bytes onto [-jitterSpan/2, jitterSpan/2).
func jitterOffset(b []byte) float64 {
	frac := float64(binary.BigEndian.Uint64(b)>>11) / (1 << 53)
	return (frac - 0.5) * jitterSpan
}

// communeID produces a stable identifier from the commune name, position and
// row ordinal, so duplicated rows still get distinct IDs.
func communeID(name string, geo Geo, ordinal int) string {
	hash := sha256.Sum256([]byte(fmt.Sprintf("%s|%.4f|%.4f|%d", name, geo.Lat, geo.Lng, ordinal)))
	return "commune-" + hex.EncodeToString(hash[:8])
}

// hasCoordinate treats zero like a missing value; no commune sits on the
// equator or the prime meridian.
func hasCoordinate(f LooseFloat) bool {
	return f.Valid && f.Value != 0
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

func nonNegativeInt(v float64) int {
	return int(math.Round(nonNegative(v)))
}

func share(v float64) float64 {
	return math.Min(nonNegative(v), 100)
}
