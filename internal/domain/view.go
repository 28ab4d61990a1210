package domain

import (
	"math"
	"strconv"
)

// KPI is one headline card.
type KPI struct {
	Label    string `json:"label"`
	Value    string `json:"val"`
	Subtitle string `json:"sub,omitempty"`
	Icon     string `json:"icon"`
	Color    string `json:"color"`
}

// PopupField is one line of a marker popup.
type PopupField struct {
	Icon  string `json:"icon,omitempty"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// Popup is the payload shown when a marker is clicked.
type Popup struct {
	Title  string       `json:"title"`
	Fields []PopupField `json:"fields"`
}

// Marker is one circle on the map.
type Marker struct {
	ID     string  `json:"id"`
	Geo    Geo     `json:"geo"`
	Radius float64 `json:"radius"`
	Popup  Popup   `json:"popup"`
}

// ScatterPoint is one commune on the scatter chart.
type ScatterPoint struct {
	Name   string  `json:"nom"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Detail string  `json:"detail,omitempty"`
}

// Charts holds the chart series of a domain. Sport and energy fill Scatter;
// fire fills History and Leaderboard.
type Charts struct {
	Scatter     []ScatterPoint     `json:"scatter,omitempty"`
	History     []ChartPoint       `json:"history,omitempty"`
	Leaderboard []LeaderboardEntry `json:"leaderboard,omitempty"`
}

// RadiusRange bounds marker radii in pixels.
type RadiusRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Clamp limits v to the range.
func (r RadiusRange) Clamp(v float64) float64 {
	return math.Max(r.Min, math.Min(v, r.Max))
}

// ViewConfig carries the rendering parameters of a domain.
type ViewConfig struct {
	Domain      Domain      `json:"domain"`
	Title       string      `json:"title"`
	Theme       string      `json:"theme"`
	Secondary   string      `json:"sec"`
	Chart       string      `json:"chart"` // "scatter" or "bar"
	XAxisLabel  string      `json:"x_axis"`
	YAxisLabel  string      `json:"y_axis"`
	Legend      string      `json:"legend"`
	FillOpacity float64     `json:"fill_opacity"`
	Radius      RadiusRange `json:"radius"`
}

// View is the behavior of one dashboard domain.
type View interface {
	Domain() Domain
	Config(sel Selection) ViewConfig

	// Filter derives the filtered view. It never modifies ds.
	Filter(ds Dataset, sel Selection) Dataset

	// KPIs returns exactly three cards. full is the unfiltered dataset, used
	// by cards that are defined over every commune.
	KPIs(filtered, full Dataset, sel Selection, f Formatter) []KPI

	// Radius maps the domain's magnitude field onto a marker radius.
	Radius(magnitude float64) float64

	Markers(filtered Dataset, sel Selection, f Formatter) []Marker
	Charts(filtered, full Dataset, sel Selection) Charts
}

var views = map[Domain]View{
	DomainSport:  sportView{},
	DomainEnergy: energyView{},
	DomainFire:   fireView{},
}

// ViewFor resolves the view of a domain. Unknown domains resolve to sport.
func ViewFor(d Domain) View {
	if v, ok := views[d]; ok {
		return v
	}
	return views[DomainSport]
}

// SportRadius sizes a commune marker by facility count.
func SportRadius(c CommuneRecord) float64 {
	return sportView{}.Radius(float64(c.Facilities))
}

// EnergyRadius sizes a commune marker by total consumption.
func EnergyRadius(c CommuneRecord) float64 {
	return energyView{}.Radius(c.Consumption)
}

// FireRadius sizes a fire marker by burned surface.
func FireRadius(e FireEvent) float64 {
	return fireView{}.Radius(e.SurfaceHa)
}

// --- sport ---

type sportView struct{}

var sportRadius = RadiusRange{Min: 3, Max: 25}

func (sportView) Domain() Domain { return DomainSport }

func (sportView) Config(Selection) ViewConfig {
	return ViewConfig{
		Domain:      DomainSport,
		Title:       "Offre Sportive",
		Theme:       "#38bdf8",
		Secondary:   "#c084fc",
		Chart:       "scatter",
		XAxisLabel:  "Pop. Jeune",
		YAxisLabel:  "Équipements",
		Legend:      "Intensité",
		FillOpacity: 0.6,
		Radius:      sportRadius,
	}
}

func (sportView) Filter(ds Dataset, sel Selection) Dataset {
	return Dataset{Communes: FilterCommunes(ds.Communes, sel.Threshold)}
}

func (sportView) KPIs(filtered, _ Dataset, _ Selection, f Formatter) []KPI {
	top := KPI{Label: "Ville Top Sport", Value: NotAvailable, Icon: "map-pin", Color: "text-neon-purple"}
	if c, ok := TopFacilities(filtered.Communes); ok {
		top.Value = c.Name
		top.Subtitle = f.Int(c.Facilities) + " équipements"
	}
	return []KPI{
		{Label: "Total Équipements", Value: f.Int(TotalFacilities(filtered.Communes)), Icon: "trophy", Color: "text-yellow-400"},
		{Label: "Jeunes (15-29 ans)", Value: f.Int(TotalYouth(filtered.Communes)), Icon: "users", Color: "text-neon-blue"},
		top,
	}
}

func (sportView) Radius(facilities float64) float64 {
	return sportRadius.Clamp(facilities / 1.5)
}

func (sportView) Markers(filtered Dataset, _ Selection, f Formatter) []Marker {
	markers := make([]Marker, 0, len(filtered.Communes))
	for _, c := range filtered.Communes {
		markers = append(markers, Marker{
			ID:     c.ID,
			Geo:    c.Geo,
			Radius: SportRadius(c),
			Popup: Popup{
				Title: c.Name,
				Fields: []PopupField{
					{Icon: "🏅", Label: "Équipements", Value: f.Int(c.Facilities)},
					{Icon: "👥", Label: "Jeunes (15-29)", Value: f.Int(c.Youth)},
				},
			},
		})
	}
	return markers
}

func (sportView) Charts(filtered, _ Dataset, _ Selection) Charts {
	points := make([]ScatterPoint, 0, len(filtered.Communes))
	for _, c := range filtered.Communes {
		points = append(points, ScatterPoint{Name: c.Name, X: float64(c.Youth), Y: float64(c.Facilities)})
	}
	return Charts{Scatter: points}
}

// --- energy ---

// energyView ignores every filter: the full commune set is always shown and
// only the displayed metric changes.
type energyView struct{}

var energyRadius = RadiusRange{Min: 3, Max: 30}

func (energyView) Domain() Domain { return DomainEnergy }

func (energyView) Config(sel Selection) ViewConfig {
	y := "Consommation (MWh)"
	if sel.Metric.IsShare() {
		y = "Part " + sel.Metric.Label() + " (%)"
	}
	return ViewConfig{
		Domain:      DomainEnergy,
		Title:       "Intensité Énergétique",
		Theme:       "#fbbf24",
		Secondary:   "#f97316",
		Chart:       "scatter",
		XAxisLabel:  "Pop. Jeune",
		YAxisLabel:  y,
		Legend:      "Intensité",
		FillOpacity: 0.6,
		Radius:      energyRadius,
	}
}

func (energyView) Filter(ds Dataset, _ Selection) Dataset {
	return Dataset{Communes: FilterCommunes(ds.Communes, Threshold{})}
}

func (energyView) KPIs(filtered, full Dataset, sel Selection, f Formatter) []KPI {
	consumption := KPI{Label: "Conso. Totale", Icon: "zap", Color: "text-amber-400"}
	consumption.Value = f.Round(ConsumptionGWh(filtered.Communes, sel.Metric)) + " GWh"
	if sel.Metric.IsShare() {
		consumption.Label = "Conso. " + sel.Metric.Label()
		consumption.Subtitle = "pondérée par la consommation communale"
	}

	average := KPI{Label: "Moyenne Conso.", Value: NotAvailable, Icon: "home", Color: "text-green-400"}
	if sel.Metric.IsShare() {
		average.Label = "Part " + sel.Metric.Label() + " moy."
	}
	if avg, ok := MetricAverage(full.Communes, sel.Metric); ok {
		if sel.Metric.IsShare() {
			average.Value = f.OneDecimal(avg) + "%"
		} else {
			average.Value = f.OneDecimal(avg) + " MWh"
		}
	}

	peak := KPI{Label: "Pic Conso", Value: NotAvailable, Icon: "building", Color: "text-orange-500"}
	if c, ok := PeakConsumption(filtered.Communes); ok {
		peak.Value = c.Name
		peak.Subtitle = f.Round(c.Consumption) + " MWh"
	}

	return []KPI{consumption, average, peak}
}

func (energyView) Radius(consumption float64) float64 {
	return energyRadius.Clamp(math.Sqrt(consumption) / 10)
}

func (energyView) Markers(filtered Dataset, _ Selection, f Formatter) []Marker {
	markers := make([]Marker, 0, len(filtered.Communes))
	for _, c := range filtered.Communes {
		markers = append(markers, Marker{
			ID:     c.ID,
			Geo:    c.Geo,
			Radius: EnergyRadius(c),
			Popup: Popup{
				Title: c.Name,
				Fields: []PopupField{
					{Icon: "⚡", Label: "Consommation", Value: f.Round(c.Consumption) + " MWh"},
					{Icon: "🏠", Label: "Résid", Value: percent(c.Shares.Residential)},
					{Icon: "🏢", Label: "Tert", Value: percent(c.Shares.Tertiary)},
					{Icon: "🏭", Label: "Indu", Value: percent(c.Shares.Industrial)},
					{Icon: "🚜", Label: "Agri", Value: percent(c.Shares.Agricultural)},
				},
			},
		})
	}
	return markers
}

func (energyView) Charts(_, full Dataset, sel Selection) Charts {
	points := make([]ScatterPoint, 0, len(full.Communes))
	for _, c := range full.Communes {
		points = append(points, ScatterPoint{
			Name:   c.Name,
			X:      float64(c.Youth),
			Y:      sel.Metric.Value(c),
			Detail: "Résidentiel: " + percent(c.Shares.Residential),
		})
	}
	return Charts{Scatter: points}
}

// --- fire ---

type fireView struct{}

var fireRadius = RadiusRange{Min: 4, Max: 40}

func (fireView) Domain() Domain { return DomainFire }

func (fireView) Config(Selection) ViewConfig {
	return ViewConfig{
		Domain:      DomainFire,
		Title:       "Historique Incendies",
		Theme:       "#ef4444",
		Secondary:   "#7f1d1d",
		Chart:       "bar",
		XAxisLabel:  "Année",
		YAxisLabel:  "Surface (ha)",
		Legend:      "Surface brûlée",
		FillOpacity: 0.4,
		Radius:      fireRadius,
	}
}

func (fireView) Filter(ds Dataset, sel Selection) Dataset {
	return Dataset{Fires: FilterFires(ds.Fires, sel.Year)}
}

func (fireView) KPIs(filtered, _ Dataset, _ Selection, f Formatter) []KPI {
	worst := KPI{Label: "Année Noire", Value: NotAvailable, Icon: "calendar", Color: "text-red-700"}
	if yt, ok := WorstYear(filtered.Fires); ok {
		worst.Value = yt.Year
		worst.Subtitle = f.Round(yt.Surface) + " ha brûlés"
	}
	return []KPI{
		{Label: "Incendies (>1ha)", Value: f.Int(len(filtered.Fires)), Icon: "alert-triangle", Color: "text-orange-500"},
		{Label: "Surface Brûlée", Value: f.Round(TotalSurface(filtered.Fires)) + " ha", Icon: "flame", Color: "text-red-500"},
		worst,
	}
}

func (fireView) Radius(surfaceHa float64) float64 {
	return fireRadius.Clamp(math.Sqrt(surfaceHa) * 2)
}

func (fireView) Markers(filtered Dataset, _ Selection, _ Formatter) []Marker {
	markers := make([]Marker, 0, len(filtered.Fires))
	for _, e := range filtered.Fires {
		markers = append(markers, Marker{
			ID:     e.ID,
			Geo:    e.Geo,
			Radius: FireRadius(e),
			Popup: Popup{
				Title: e.Commune,
				Fields: []PopupField{
					{Icon: "🔥", Label: "Surface", Value: strconv.FormatFloat(e.SurfaceHa, 'f', -1, 64) + " hectares"},
					{Icon: "📅", Label: "Date", Value: e.Date},
				},
			},
		})
	}
	return markers
}

func (fireView) Charts(filtered, _ Dataset, _ Selection) Charts {
	return Charts{
		History:     FireHistory(filtered.Fires),
		Leaderboard: FireLeaderboard(filtered.Fires),
	}
}

func percent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "%"
}
