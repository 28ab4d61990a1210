package domain

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// LeaderboardSize caps the fire leaderboard.
const LeaderboardSize = 5

// ChartPoint is one bar of the fire history chart.
type ChartPoint struct {
	Label string  `json:"name"`
	Value float64 `json:"value"`
}

// YearTotal is the burned surface accumulated for one year.
type YearTotal struct {
	Year    string  `json:"year"`
	Surface float64 `json:"surface_ha"`
}

// LeaderboardEntry ranks a commune by cumulative burned surface.
type LeaderboardEntry struct {
	Rank      int     `json:"rank"`
	Commune   string  `json:"commune"`
	Surface   float64 `json:"surface_ha"`
	FireCount int     `json:"fire_count"`
}

// TotalFacilities sums facility counts.
func TotalFacilities(communes []CommuneRecord) int {
	total := 0
	for _, c := range communes {
		total += c.Facilities
	}
	return total
}

// TotalYouth sums the 15–29 population.
func TotalYouth(communes []CommuneRecord) int {
	total := 0
	for _, c := range communes {
		total += c.Youth
	}
	return total
}

// ConsumptionGWh returns the consumption attributable to the metric in GWh,
// rounded. For total consumption this is Σ consototale / 1000. For a sector
// share each commune contributes consototale × share / 100, so large
// consumers weigh more than small ones.
func ConsumptionGWh(communes []CommuneRecord, m EnergyMetric) float64 {
	if len(communes) == 0 {
		return 0
	}
	mwh := make([]float64, len(communes))
	for i, c := range communes {
		if m.IsShare() {
			mwh[i] = c.Consumption * m.Value(c) / 100
		} else {
			mwh[i] = c.Consumption
		}
	}
	return math.Round(floats.Sum(mwh) / 1000)
}

// MetricAverage is the plain mean of the metric. ok is false for no input.
func MetricAverage(communes []CommuneRecord, m EnergyMetric) (avg float64, ok bool) {
	if len(communes) == 0 {
		return 0, false
	}
	values := make([]float64, len(communes))
	for i, c := range communes {
		values[i] = m.Value(c)
	}
	return stat.Mean(values, nil), true
}

// TotalSurface sums burned surface without rounding.
func TotalSurface(fires []FireEvent) float64 {
	if len(fires) == 0 {
		return 0
	}
	surfaces := make([]float64, len(fires))
	for i, f := range fires {
		surfaces[i] = f.SurfaceHa
	}
	return floats.Sum(surfaces)
}

// SurfaceByYear accumulates burned surface per year in first-seen order.
// Fires without a year are left out, matching FireYears.
func SurfaceByYear(fires []FireEvent) []YearTotal {
	index := make(map[string]int)
	totals := make([]YearTotal, 0)
	for _, f := range fires {
		if f.Year == "" {
			continue
		}
		i, ok := index[f.Year]
		if !ok {
			i = len(totals)
			index[f.Year] = i
			totals = append(totals, YearTotal{Year: f.Year})
		}
		totals[i].Surface += f.SurfaceHa
	}
	return totals
}

// WorstYear returns the year with the largest summed surface. On an exact tie
// the year accumulated first wins. ok is false when no fire has a year.
func WorstYear(fires []FireEvent) (worst YearTotal, ok bool) {
	for i, yt := range SurfaceByYear(fires) {
		if i == 0 || yt.Surface > worst.Surface {
			worst = yt
		}
		ok = true
	}
	return worst, ok
}

// FireHistory is the per-year surface series, ascending by year and rounded
// to whole hectares.
func FireHistory(fires []FireEvent) []ChartPoint {
	totals := SurfaceByYear(fires)
	sort.Slice(totals, func(i, j int) bool { return totals[i].Year < totals[j].Year })

	points := make([]ChartPoint, len(totals))
	for i, yt := range totals {
		points[i] = ChartPoint{Label: yt.Year, Value: math.Round(yt.Surface)}
	}
	return points
}

// FireLeaderboard ranks communes by cumulative burned surface and keeps the
// top LeaderboardSize. Equal surfaces keep their first-seen order.
func FireLeaderboard(fires []FireEvent) []LeaderboardEntry {
	index := make(map[string]int)
	entries := make([]LeaderboardEntry, 0)
	for _, f := range fires {
		i, ok := index[f.Commune]
		if !ok {
			i = len(entries)
			index[f.Commune] = i
			entries = append(entries, LeaderboardEntry{Commune: f.Commune})
		}
		entries[i].Surface += f.SurfaceHa
		entries[i].FireCount++
	}

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Surface > entries[j].Surface })

	if len(entries) > LeaderboardSize {
		entries = entries[:LeaderboardSize]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// TopFacilities returns the commune with the most facilities, first wins ties.
func TopFacilities(communes []CommuneRecord) (CommuneRecord, bool) {
	return maxBy(communes, func(c CommuneRecord) float64 { return float64(c.Facilities) })
}

// PeakConsumption returns the commune with the highest total consumption,
// first wins ties.
func PeakConsumption(communes []CommuneRecord) (CommuneRecord, bool) {
	return maxBy(communes, func(c CommuneRecord) float64 { return c.Consumption })
}

func maxBy(communes []CommuneRecord, key func(CommuneRecord) float64) (CommuneRecord, bool) {
	if len(communes) == 0 {
		return CommuneRecord{}, false
	}
	best := communes[0]
	for _, c := range communes[1:] {
		if key(c) > key(best) {
			best = c
		}
	}
	return best, true
}
