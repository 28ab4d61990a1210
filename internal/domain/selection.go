package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidSelection is returned when a selection parameter cannot be parsed.
var ErrInvalidSelection = errors.New("invalid selection")

// Domain names one of the three dashboard modes.
type Domain string

const (
	DomainSport  Domain = "sport"
	DomainEnergy Domain = "energy"
	DomainFire   Domain = "fire"
)

// Domains lists every mode in tab order.
var Domains = []Domain{DomainSport, DomainEnergy, DomainFire}

// ParseDomain validates a domain name. An empty string selects sport.
func ParseDomain(s string) (Domain, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DomainSport, nil
	}
	for _, d := range Domains {
		if string(d) == s {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: unknown domain %q", ErrInvalidSelection, s)
}

// EnergyMetric selects the commune field displayed in energy mode.
type EnergyMetric string

const (
	MetricTotal        EnergyMetric = "consototale"
	MetricResidential  EnergyMetric = "part_residentiel"
	MetricTertiary     EnergyMetric = "part_tertiaire"
	MetricIndustrial   EnergyMetric = "part_industrie"
	MetricAgricultural EnergyMetric = "part_agriculture"
)

// EnergyMetrics lists the selectable metrics, total consumption first.
var EnergyMetrics = []EnergyMetric{MetricTotal, MetricResidential, MetricTertiary, MetricIndustrial, MetricAgricultural}

// ParseEnergyMetric validates a metric name. An empty string selects total
// consumption.
func ParseEnergyMetric(s string) (EnergyMetric, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return MetricTotal, nil
	}
	for _, m := range EnergyMetrics {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: unknown energy metric %q", ErrInvalidSelection, s)
}

// IsShare reports whether the metric is a sector percentage.
func (m EnergyMetric) IsShare() bool {
	return m != MetricTotal
}

// Label is the display name of the metric.
func (m EnergyMetric) Label() string {
	switch m {
	case MetricResidential:
		return "Résidentiel"
	case MetricTertiary:
		return "Tertiaire"
	case MetricIndustrial:
		return "Industrie"
	case MetricAgricultural:
		return "Agriculture"
	default:
		return "Conso. Totale"
	}
}

// Value reads the metric from a commune.
func (m EnergyMetric) Value(c CommuneRecord) float64 {
	switch m {
	case MetricResidential:
		return c.Shares.Residential
	case MetricTertiary:
		return c.Shares.Tertiary
	case MetricIndustrial:
		return c.Shares.Industrial
	case MetricAgricultural:
		return c.Shares.Agricultural
	default:
		return c.Consumption
	}
}

// All disables the fire year and sport threshold filters.
const All = "all"

// ThresholdPresets are the minimum-equipment values offered by the picker.
var ThresholdPresets = []int{1, 5, 10, 20}

// Threshold is the sport minimum-equipment filter. The zero value means "all".
type Threshold struct {
	Min int
	Set bool
}

// MinEquipment returns a threshold keeping communes with at least n facilities.
func MinEquipment(n int) Threshold {
	return Threshold{Min: n, Set: true}
}

func (t Threshold) String() string {
	if !t.Set {
		return All
	}
	return strconv.Itoa(t.Min)
}

func (t Threshold) MarshalJSON() ([]byte, error) {
	if !t.Set {
		return json.Marshal(All)
	}
	return json.Marshal(t.Min)
}

// ParseThreshold accepts "all", an empty string, or a non-negative integer.
func ParseThreshold(s string) (Threshold, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, All) {
		return Threshold{}, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return Threshold{}, fmt.Errorf("%w: threshold %q is not a non-negative integer", ErrInvalidSelection, s)
	}
	return MinEquipment(n), nil
}

// ParseYear accepts "all", an empty string, or an integer year, returned in
// canonical form so it compares equal to normalized fire years.
func ParseYear(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, All) {
		return All, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return "", fmt.Errorf("%w: year %q is not an integer", ErrInvalidSelection, s)
	}
	return strconv.Itoa(n), nil
}

// Selection is the complete filter state of the dashboard. Filters of the
// inactive domains are carried along but have no effect.
type Selection struct {
	Domain    Domain       `json:"domain"`
	Year      string       `json:"year"`
	Metric    EnergyMetric `json:"metric"`
	Threshold Threshold    `json:"threshold"`
}

// DefaultSelection is the state every control resets to.
func DefaultSelection() Selection {
	return Selection{
		Domain: DomainSport,
		Year:   All,
		Metric: MetricTotal,
	}
}

// ParseSelection builds a Selection from raw control values. Empty values
// fall back to the defaults.
func ParseSelection(domain, year, metric, threshold string) (Selection, error) {
	d, err := ParseDomain(domain)
	if err != nil {
		return Selection{}, err
	}
	y, err := ParseYear(year)
	if err != nil {
		return Selection{}, err
	}
	m, err := ParseEnergyMetric(metric)
	if err != nil {
		return Selection{}, err
	}
	t, err := ParseThreshold(threshold)
	if err != nil {
		return Selection{}, err
	}
	return Selection{Domain: d, Year: y, Metric: m, Threshold: t}, nil
}
