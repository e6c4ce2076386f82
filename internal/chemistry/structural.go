package chemistry

import (
	"fmt"

	"github.com/PoolCheck-App/poolcheck_backend/internal/models"
)

// Physical bounds, distinct from the MAHC compliance bounds: values outside
// these cannot be real measurements and are rejected before any compliance
// evaluation happens.
const (
	phScaleMin     = 0
	phScaleMax     = 14
	temperatureMin = 32  // °F, freezing
	temperatureMax = 120 // °F
)

// ReadingCheck is the outcome of the structural pre-check of a reading.
// Errors block submission; warnings are advisory free text for form display.
type ReadingCheck struct {
	IsValid  bool     `json:"is_valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// ValidateReading performs the structural sanity check of a (possibly
// partial) reading before compliance evaluation:
//
//   - negative values are rejected for every chemical
//   - pH must lie on the 0-14 scale
//   - temperature must lie in 32-120 °F
//
// Values that pass the structural checks but fall outside their ideal range
// produce a descriptive warning. Absent chemicals produce neither error nor
// warning. IsValid is false only when errors are present.
func ValidateReading(reading *models.ChemicalReading) ReadingCheck {
	check := ReadingCheck{
		IsValid:  true,
		Errors:   []string{},
		Warnings: []string{},
	}

	for _, chemical := range reading.Chemicals() {
		value, _ := reading.Value(chemical)
		standard := StandardFor(chemical)

		if value < 0 {
			check.Errors = append(check.Errors,
				fmt.Sprintf("%s cannot be negative (got %s)",
					standard.Description, FormatValue(value, chemical)))
			continue
		}

		switch chemical {
		case models.ChemicalPh:
			if value < phScaleMin || value > phScaleMax {
				check.Errors = append(check.Errors,
					fmt.Sprintf("pH must be between %d and %d (got %s)",
						phScaleMin, phScaleMax, FormatValue(value, chemical)))
				continue
			}
		case models.ChemicalTemperature:
			if value < temperatureMin || value > temperatureMax {
				check.Errors = append(check.Errors,
					fmt.Sprintf("Water Temperature must be between %d°F and %d°F (got %s)",
						temperatureMin, temperatureMax, FormatValue(value, chemical)))
				continue
			}
		}

		if value < standard.Ideal.Min || value > standard.Ideal.Max {
			check.Warnings = append(check.Warnings,
				fmt.Sprintf("%s is %s, outside the ideal range of %s",
					standard.Description, FormatValue(value, chemical), IdealRange(chemical)))
		}
	}

	check.IsValid = len(check.Errors) == 0
	return check
}
