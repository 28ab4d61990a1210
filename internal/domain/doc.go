// Package domain models the Corsica territorial datasets and derives every
// dashboard view from them.
//
// # Data Sources
//
// Two static JSON arrays are loaded once at startup:
//
//	communes.json  one object per municipality (INSEE population, sports
//	               equipment census, ORE/Enedis consumption by sector)
//	fires.json     one object per recorded wildfire larger than one hectare
//	               (Prométhée database)
//
// # Field Conventions
//
// Commune objects:
//
//	nom               municipality name
//	lat, lng          WGS-84 centroid; rows missing either are dropped
//	population_15_29  residents aged 15 to 29 (may be fractional upstream, rounded)
//	nb_equipements    sports equipment count
//	consototale       yearly consumption in MWh
//	part_residentiel, part_tertiaire, part_industrie, part_agriculture
//	                  sector shares in percent; sourced independently so they
//	                  do not necessarily sum to 100
//
// Fire objects:
//
//	commune, date     free text
//	annee             year, a JSON number in some exports and a string in others
//	surface_ha        burned surface in hectares
//	lat, lng          commune centroid, shared by every fire of that commune
//
// Numeric fields accept numbers, numeric strings, or null. Anything that does
// not parse degrades to zero rather than failing the load; see [LooseFloat].
//
// # Jitter
//
// Fires in the same commune share a centroid, so each event is offset by up to
// ±0.01° on both axes. The offset is derived from a SHA-256 of the event's
// commune, date, surface, and occurrence ordinal, so normalizing the same
// input twice yields identical coordinates. See [NormalizeFires].
//
// # Domains
//
// The dashboard has three modes (sport, energy, fire). Each is a [View] that
// owns its filter, KPI set, marker sizing, popup payload, and chart series.
// [BuildSnapshot] runs a [Selection] through the matching view.
package domain
