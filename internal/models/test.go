package models

import (
	"time"
)

// ChemicalType identifies one of the chemicals tracked by a pool test.
// The set is closed; adding a chemical requires a standards table entry.
type ChemicalType string

const (
	ChemicalFreeChlorine  ChemicalType = "free_chlorine"
	ChemicalTotalChlorine ChemicalType = "total_chlorine"
	ChemicalPh            ChemicalType = "ph"
	ChemicalAlkalinity    ChemicalType = "alkalinity"
	ChemicalCyanuricAcid  ChemicalType = "cyanuric_acid"
	ChemicalCalcium       ChemicalType = "calcium"
	ChemicalTemperature   ChemicalType = "temperature"
)

// AllChemicals lists every chemical in canonical order. This order is also
// the iteration order of a ChemicalReading's present values.
var AllChemicals = []ChemicalType{
	ChemicalFreeChlorine,
	ChemicalTotalChlorine,
	ChemicalPh,
	ChemicalAlkalinity,
	ChemicalCyanuricAcid,
	ChemicalCalcium,
	ChemicalTemperature,
}

// IsValidChemical reports whether the given string names a known chemical
func IsValidChemical(c ChemicalType) bool {
	for _, known := range AllChemicals {
		if c == known {
			return true
		}
	}
	return false
}

// ChemicalReading holds the measured values of one pool test. Fields are
// pointers because partial readings are valid: an indoor pool may never
// report cyanuric acid, and a quick strip test may only carry chlorine and pH.
type ChemicalReading struct {
	FreeChlorine  *float64 `json:"free_chlorine,omitempty"`
	TotalChlorine *float64 `json:"total_chlorine,omitempty"`
	Ph            *float64 `json:"ph,omitempty"`
	Alkalinity    *float64 `json:"alkalinity,omitempty"`
	CyanuricAcid  *float64 `json:"cyanuric_acid,omitempty"`
	Calcium       *float64 `json:"calcium,omitempty"`
	Temperature   *float64 `json:"temperature,omitempty"`
}

// Value returns the measured value for a chemical and whether it is present
func (r *ChemicalReading) Value(chemical ChemicalType) (float64, bool) {
	var p *float64
	switch chemical {
	case ChemicalFreeChlorine:
		p = r.FreeChlorine
	case ChemicalTotalChlorine:
		p = r.TotalChlorine
	case ChemicalPh:
		p = r.Ph
	case ChemicalAlkalinity:
		p = r.Alkalinity
	case ChemicalCyanuricAcid:
		p = r.CyanuricAcid
	case ChemicalCalcium:
		p = r.Calcium
	case ChemicalTemperature:
		p = r.Temperature
	}
	if p == nil {
		return 0, false
	}
	return *p, true
}

// Set stores a measured value for a chemical. Unknown chemicals are ignored.
func (r *ChemicalReading) Set(chemical ChemicalType, value float64) {
	v := value
	switch chemical {
	case ChemicalFreeChlorine:
		r.FreeChlorine = &v
	case ChemicalTotalChlorine:
		r.TotalChlorine = &v
	case ChemicalPh:
		r.Ph = &v
	case ChemicalAlkalinity:
		r.Alkalinity = &v
	case ChemicalCyanuricAcid:
		r.CyanuricAcid = &v
	case ChemicalCalcium:
		r.Calcium = &v
	case ChemicalTemperature:
		r.Temperature = &v
	}
}

// Chemicals returns the chemicals present in the reading, in canonical order
func (r *ChemicalReading) Chemicals() []ChemicalType {
	var present []ChemicalType
	for _, chemical := range AllChemicals {
		if _, ok := r.Value(chemical); ok {
			present = append(present, chemical)
		}
	}
	return present
}

// IsEmpty reports whether the reading carries no values at all
func (r *ChemicalReading) IsEmpty() bool {
	return len(r.Chemicals()) == 0
}

// PoolTest is one logged chemical test for a pool
type PoolTest struct {
	PoolID    string    `json:"pool_id"`
	Timestamp time.Time `json:"timestamp"`
	TakenBy   string    `json:"taken_by,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	ChemicalReading
}

// TrendPoint is one (timestamp, value) sample of a single chemical,
// used for trend analysis over a pool's test history
type TrendPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}
