package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// LooseFloat decodes a JSON number, a numeric string, or null. Values that do
// not parse leave Valid false instead of failing the surrounding document.
type LooseFloat struct {
	Value float64
	Valid bool
}

// Float returns a valid LooseFloat holding v.
func Float(v float64) LooseFloat {
	return LooseFloat{Value: v, Valid: true}
}

// OrZero returns the value, or 0 when it was absent or malformed.
func (f LooseFloat) OrZero() float64 {
	if !f.Valid {
		return 0
	}
	return f.Value
}

func (f *LooseFloat) UnmarshalJSON(data []byte) error {
	*f = LooseFloat{}
	raw := strings.TrimSpace(string(data))
	if raw == "" || raw == "null" {
		return nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		// French exports use a decimal comma.
		raw = strings.Replace(strings.TrimSpace(s), ",", ".", 1)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	*f = LooseFloat{Value: v, Valid: true}
	return nil
}

func (f LooseFloat) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// LooseString decodes a JSON string or number into its canonical text form:
// 2003, 2003.0 and "2003" all become "2003". Other values decode to "".
type LooseString string

func (s *LooseString) UnmarshalJSON(data []byte) error {
	*s = ""
	raw := strings.TrimSpace(string(data))
	switch {
	case raw == "" || raw == "null":
		return nil
	case raw[0] == '"':
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return nil
		}
		*s = LooseString(strings.TrimSpace(str))
	default:
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			*s = LooseString(strconv.FormatFloat(v, 'f', -1, 64))
		}
	}
	return nil
}
