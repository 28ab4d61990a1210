package domain

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// NotAvailable is displayed for values that cannot be derived from an empty
// selection.
const NotAvailable = "N/A"

// Formatter renders KPI numbers with locale-aware grouping and decimal marks.
type Formatter struct {
	printer *message.Printer
}

// NewFormatter creates a formatter for the given locale.
func NewFormatter(tag language.Tag) Formatter {
	return Formatter{printer: message.NewPrinter(tag)}
}

func (f Formatter) p() *message.Printer {
	if f.printer == nil {
		return message.NewPrinter(language.French)
	}
	return f.printer
}

// Int formats n with thousands separators.
func (f Formatter) Int(n int) string {
	return f.p().Sprintf("%d", n)
}

// Round formats v rounded to the nearest integer with thousands separators.
func (f Formatter) Round(v float64) string {
	return f.Int(int(math.Round(v)))
}

// OneDecimal formats v with exactly one decimal.
func (f Formatter) OneDecimal(v float64) string {
	return f.p().Sprintf("%.1f", v)
}
