package chemistry

import (
	"fmt"

	"github.com/PoolCheck-App/poolcheck_backend/internal/models"
)

// Status is the severity tier of a validated chemical value
type Status string

const (
	StatusGood      Status = "good"
	StatusWarning   Status = "warning"
	StatusCritical  Status = "critical"
	StatusEmergency Status = "emergency"
)

// severityRank orders tiers from least to most severe
var severityRank = map[Status]int{
	StatusGood:      0,
	StatusWarning:   1,
	StatusCritical:  2,
	StatusEmergency: 3,
}

// ValidationResult classifies one chemical value against its MAHC standard
type ValidationResult struct {
	Chemical        models.ChemicalType `json:"chemical"`
	Status          Status              `json:"status"`
	Message         string              `json:"message"`
	Recommendation  string              `json:"recommendation,omitempty"`
	RequiresAction  bool                `json:"requires_action"`
	RequiresClosure bool                `json:"requires_closure"`
}

// direction of a deviation from the acceptable or ideal range
type direction string

const (
	directionLow  direction = "low"
	directionHigh direction = "high"
)

// remediations holds the fixed per-chemical, per-direction corrective advice
var remediations = map[models.ChemicalType]map[direction]string{
	models.ChemicalFreeChlorine: {
		directionLow:  "Add liquid or granular chlorine; check feeder operation",
		directionHigh: "Stop chlorine feed and retest; add sodium thiosulfate if needed",
	},
	models.ChemicalTotalChlorine: {
		directionLow:  "Add chlorine to restore sanitizer residual",
		directionHigh: "Superchlorinate to breakpoint to burn off combined chlorine",
	},
	models.ChemicalPh: {
		directionLow:  "Add soda ash (sodium carbonate) to raise pH",
		directionHigh: "Add muriatic acid or sodium bisulfate, in small increments",
	},
	models.ChemicalAlkalinity: {
		directionLow:  "Add sodium bicarbonate to raise total alkalinity",
		directionHigh: "Add muriatic acid gradually; retest after circulation",
	},
	models.ChemicalCyanuricAcid: {
		directionLow:  "Add cyanuric acid stabilizer to protect chlorine from sunlight",
		directionHigh: "Partially drain and refill with fresh water to dilute stabilizer",
	},
	models.ChemicalCalcium: {
		directionLow:  "Add calcium chloride to raise calcium hardness",
		directionHigh: "Partially drain and refill with softer water",
	},
	models.ChemicalTemperature: {
		directionLow:  "Raise heater setpoint; verify heater operation",
		directionHigh: "Lower heater setpoint; increase fresh water circulation",
	},
}

// Validate classifies a single chemical value into one of the four severity
// tiers. Rules apply in order, first match wins:
//
//  1. at or beyond a critical bound -> emergency (pool closure required)
//  2. outside the MAHC min/max     -> critical
//  3. outside the ideal range      -> warning
//  4. otherwise                    -> good
//
// Boundary values are inclusive on the safe side: value == min or value == max
// is still within the acceptable range, while value == criticalLow or
// value == criticalHigh already counts as an emergency.
func Validate(value float64, chemical models.ChemicalType) ValidationResult {
	standard := StandardFor(chemical)

	if value <= standard.CriticalLow || value >= standard.CriticalHigh {
		return ValidationResult{
			Chemical: chemical,
			Status:   StatusEmergency,
			Message: fmt.Sprintf("%s is critically out of range at %s",
				standard.Description, FormatValue(value, chemical)),
			Recommendation:  "Close the pool immediately and contact the facility manager",
			RequiresAction:  true,
			RequiresClosure: true,
		}
	}

	if value < standard.Min || value > standard.Max {
		dir := directionLow
		if value > standard.Max {
			dir = directionHigh
		}
		return ValidationResult{
			Chemical: chemical,
			Status:   StatusCritical,
			Message: fmt.Sprintf("%s is %s at %s (acceptable range %s)",
				standard.Description, dir, FormatValue(value, chemical), AcceptableRange(chemical)),
			Recommendation:  remediations[chemical][dir],
			RequiresAction:  true,
			RequiresClosure: false,
		}
	}

	if value < standard.Ideal.Min || value > standard.Ideal.Max {
		dir := directionLow
		if value > standard.Ideal.Max {
			dir = directionHigh
		}
		return ValidationResult{
			Chemical: chemical,
			Status:   StatusWarning,
			Message: fmt.Sprintf("%s is slightly %s at %s (ideal range %s)",
				standard.Description, dir, FormatValue(value, chemical), IdealRange(chemical)),
			Recommendation:  remediations[chemical][dir],
			RequiresAction:  true,
			RequiresClosure: false,
		}
	}

	return ValidationResult{
		Chemical: chemical,
		Status:   StatusGood,
		Message: fmt.Sprintf("%s is within the ideal range at %s",
			standard.Description, FormatValue(value, chemical)),
		RequiresAction:  false,
		RequiresClosure: false,
	}
}
