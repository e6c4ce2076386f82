package chemistry

import (
	"fmt"
	"strings"

	"github.com/PoolCheck-App/poolcheck_backend/internal/models"
)

// Range is a closed numeric interval
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// ChemicalStandard holds the MAHC limits for one chemical.
// CriticalLow < Min < Ideal.Min <= Ideal.Max < Max < CriticalHigh holds
// for every entry in the standards table.
type ChemicalStandard struct {
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	Ideal        Range   `json:"ideal"`
	CriticalLow  float64 `json:"critical_low"`
	CriticalHigh float64 `json:"critical_high"`
	Unit         string  `json:"unit"`
	Precision    int     `json:"precision"`
	Description  string  `json:"description"`
	Regulation   string  `json:"regulation"`
}

// standards is the MAHC standards table. Loaded once, never mutated.
var standards = map[models.ChemicalType]ChemicalStandard{
	models.ChemicalFreeChlorine: {
		Min: 1.0, Max: 3.0,
		Ideal:       Range{Min: 1.5, Max: 2.5},
		CriticalLow: 0.5, CriticalHigh: 5.0,
		Unit: "ppm", Precision: 1,
		Description: "Free Chlorine",
		Regulation:  "MAHC 5.7.3.1.1",
	},
	models.ChemicalTotalChlorine: {
		Min: 1.0, Max: 4.0,
		Ideal:       Range{Min: 1.5, Max: 3.0},
		CriticalLow: 0.5, CriticalHigh: 6.0,
		Unit: "ppm", Precision: 1,
		Description: "Total Chlorine",
		Regulation:  "MAHC 5.7.3.1.2",
	},
	models.ChemicalPh: {
		Min: 7.0, Max: 7.8,
		Ideal:       Range{Min: 7.3, Max: 7.5},
		CriticalLow: 6.5, CriticalHigh: 8.0,
		Unit: "", Precision: 1,
		Description: "pH",
		Regulation:  "MAHC 5.7.3.2",
	},
	models.ChemicalAlkalinity: {
		Min: 60, Max: 180,
		Ideal:       Range{Min: 80, Max: 120},
		CriticalLow: 30, CriticalHigh: 240,
		Unit: "ppm", Precision: 0,
		Description: "Total Alkalinity",
		Regulation:  "MAHC 5.7.3.3",
	},
	models.ChemicalCyanuricAcid: {
		Min: 10, Max: 100,
		Ideal:       Range{Min: 30, Max: 50},
		CriticalLow: 0, CriticalHigh: 150,
		Unit: "ppm", Precision: 0,
		Description: "Cyanuric Acid",
		Regulation:  "MAHC 5.7.3.4",
	},
	models.ChemicalCalcium: {
		Min: 150, Max: 800,
		Ideal:       Range{Min: 200, Max: 400},
		CriticalLow: 100, CriticalHigh: 1000,
		Unit: "ppm", Precision: 0,
		Description: "Calcium Hardness",
		Regulation:  "MAHC 5.7.3.5",
	},
	models.ChemicalTemperature: {
		Min: 70, Max: 104,
		Ideal:       Range{Min: 78, Max: 84},
		CriticalLow: 50, CriticalHigh: 110,
		Unit: "°F", Precision: 0,
		Description: "Water Temperature",
		Regulation:  "MAHC 5.7.3.6",
	},
}

// StandardFor returns the MAHC standard for a chemical. The chemical set is
// closed, so an unknown key is a programming error, not a runtime condition.
func StandardFor(chemical models.ChemicalType) ChemicalStandard {
	standard, ok := standards[chemical]
	if !ok {
		panic(fmt.Sprintf("chemistry: no standard defined for chemical %q", chemical))
	}
	return standard
}

// AllStandards returns a copy of the full standards table keyed by chemical
func AllStandards() map[models.ChemicalType]ChemicalStandard {
	table := make(map[models.ChemicalType]ChemicalStandard, len(standards))
	for chemical, standard := range standards {
		table[chemical] = standard
	}
	return table
}

// AcceptableRange returns the display string for a chemical's MAHC range,
// e.g. "1.0-3.0 ppm"
func AcceptableRange(chemical models.ChemicalType) string {
	standard := StandardFor(chemical)
	return formatRange(standard.Min, standard.Max, standard)
}

// IdealRange returns the display string for a chemical's ideal range
func IdealRange(chemical models.ChemicalType) string {
	standard := StandardFor(chemical)
	return formatRange(standard.Ideal.Min, standard.Ideal.Max, standard)
}

func formatRange(low, high float64, standard ChemicalStandard) string {
	text := fmt.Sprintf("%.*f-%.*f %s",
		standard.Precision, low, standard.Precision, high, standard.Unit)
	return strings.TrimSpace(text)
}

// idealTarget returns the reference point used when computing adjustments:
// the midpoint of the ideal range (pH ideal 7.3-7.5 targets 7.4)
func idealTarget(standard ChemicalStandard) float64 {
	return (standard.Ideal.Min + standard.Ideal.Max) / 2
}
