package domain

// RawCommune is one commune object as found in the source JSON.
type RawCommune struct {
	Name         LooseString `json:"nom"`
	Lat          LooseFloat  `json:"lat"`
	Lng          LooseFloat  `json:"lng"`
	Youth        LooseFloat  `json:"population_15_29"`
	Facilities   LooseFloat  `json:"nb_equipements"`
	Consumption  LooseFloat  `json:"consototale"`
	Residential  LooseFloat  `json:"part_residentiel"`
	Tertiary     LooseFloat  `json:"part_tertiaire"`
	Industrial   LooseFloat  `json:"part_industrie"`
	Agricultural LooseFloat  `json:"part_agriculture"`
}

// RawFire is one fire object as found in the source JSON.
type RawFire struct {
	Commune LooseString `json:"commune"`
	Year    LooseString `json:"annee"`
	Date    LooseString `json:"date"`
	Surface LooseFloat  `json:"surface_ha"`
	Lat     LooseFloat  `json:"lat"`
	Lng     LooseFloat  `json:"lng"`
}

// RawDataset bundles both source collections before normalization.
type RawDataset struct {
	Communes []RawCommune
	Fires    []RawFire
}

// Geo represents a WGS-84 latitude/longitude coordinate pair.
type Geo struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// SectorShares holds the per-sector consumption percentages of a commune.
type SectorShares struct {
	Residential  float64 `json:"part_residentiel"`
	Tertiary     float64 `json:"part_tertiaire"`
	Industrial   float64 `json:"part_industrie"`
	Agricultural float64 `json:"part_agriculture"`
}

// CommuneRecord is a normalized commune. Every record has both coordinates.
type CommuneRecord struct {
	ID          string       `json:"id"`
	Name        string       `json:"nom"`
	Geo         Geo          `json:"geo"`
	Youth       int          `json:"population_15_29"`
	Facilities  int          `json:"nb_equipements"`
	Consumption float64      `json:"consototale"` // MWh
	Shares      SectorShares `json:"shares"`

	// MarkerWeight mirrors Youth and is only read for marker sizing and
	// metric selection.
	MarkerWeight int `json:"z_sport"`
}

// FireEvent is a normalized wildfire with its jittered position.
type FireEvent struct {
	ID        string  `json:"id"`
	Commune   string  `json:"commune"`
	Year      string  `json:"annee"`
	Date      string  `json:"date"`
	SurfaceHa float64 `json:"surface_ha"`
	Geo       Geo     `json:"geo"`
	Origin    Geo     `json:"origin"` // position before jitter
}

// Dataset is the normalized, immutable input to every derivation.
type Dataset struct {
	Communes []CommuneRecord `json:"communes"`
	Fires    []FireEvent     `json:"fires"`
}
