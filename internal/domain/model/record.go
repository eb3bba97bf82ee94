package model

import "math"

// Measure is a nullable drill result. The zero value is null.
type Measure struct {
	Value float64
	Valid bool
}

// Some returns a non-null measure.
func Some(v float64) Measure { return Measure{Value: v, Valid: true} }

// Null returns an absent measure.
func Null() Measure { return Measure{} }

// MeasureOf converts a parsed float; NaN and infinities are treated as missing cells.
func MeasureOf(v float64) Measure {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Null()
	}
	return Some(v)
}

// Record is one combine participant.
type Record struct {
	Player      string
	Position    string
	Institution string
	// Year is 0 when the cell was missing or malformed.
	Year     int
	Weight   Measure
	Measures [NumMetrics]Measure
	// Portrait is the joined portrait reference; empty when unmatched.
	Portrait string
}

// HasYear reports whether the record carries a usable year.
func (r Record) HasYear() bool { return r.Year > 0 }

// Measure returns the value of metric m for the record.
func (r Record) Measure(m Metric) Measure {
	i, ok := metricIndex[m]
	if !ok {
		return Null()
	}
	return r.Measures[i]
}

// Value returns the value of metric m and whether it is present.
func (r Record) Value(m Metric) (float64, bool) {
	ms := r.Measure(m)
	return ms.Value, ms.Valid
}

// Set assigns metric m. Unknown metrics are ignored.
func (r *Record) Set(m Metric, ms Measure) {
	if i, ok := metricIndex[m]; ok {
		r.Measures[i] = ms
	}
}

// Complete reports whether every drill in the set is present.
func (r Record) Complete() bool {
	for _, ms := range r.Measures {
		if !ms.Valid {
			return false
		}
	}
	return true
}
