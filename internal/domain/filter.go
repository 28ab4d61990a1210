package domain

import "slices"

// FilterFires keeps the fires whose year equals the selector. Years are
// compared as strings; All passes every event through. The result is always a
// fresh slice.
func FilterFires(fires []FireEvent, year string) []FireEvent {
	if year == "" || year == All {
		return slices.Clone(fires)
	}
	out := make([]FireEvent, 0, len(fires))
	for _, f := range fires {
		if f.Year == year {
			out = append(out, f)
		}
	}
	return out
}

// FilterCommunes keeps the communes with at least t.Min facilities. An unset
// threshold passes every commune through. The result is always a fresh slice.
func FilterCommunes(communes []CommuneRecord, t Threshold) []CommuneRecord {
	if !t.Set {
		return slices.Clone(communes)
	}
	out := make([]CommuneRecord, 0, len(communes))
	for _, c := range communes {
		if c.Facilities >= t.Min {
			out = append(out, c)
		}
	}
	return out
}
