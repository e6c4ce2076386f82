package chemistry

import (
	"fmt"
	"strings"

	"github.com/PoolCheck-App/poolcheck_backend/internal/models"
)

// basePriority ranks chemicals by how urgently an issue with them should be
// surfaced. Sanitizer problems outrank comfort problems.
var basePriority = map[models.ChemicalType]int{
	models.ChemicalFreeChlorine:  7,
	models.ChemicalPh:            6,
	models.ChemicalTotalChlorine: 5,
	models.ChemicalAlkalinity:    4,
	models.ChemicalCyanuricAcid:  3,
	models.ChemicalCalcium:       2,
	models.ChemicalTemperature:   1,
}

// severityMultiplier scales the base priority by how bad the reading is
var severityMultiplier = map[Status]int{
	StatusEmergency: 4,
	StatusCritical:  3,
	StatusWarning:   2,
	StatusGood:      1,
}

// FormatValue renders a chemical value at its display precision with its
// unit, e.g. "2.0 ppm" for free chlorine or "7.4" for pH
func FormatValue(value float64, chemical models.ChemicalType) string {
	standard := StandardFor(chemical)
	text := fmt.Sprintf("%.*f %s", standard.Precision, value, standard.Unit)
	return strings.TrimSpace(text)
}

// Priority returns the sort key for ordering simultaneous issues: base
// chemical priority times the severity multiplier of its validation. Higher
// means show first. It carries no other semantics.
func Priority(chemical models.ChemicalType, validation ValidationResult) int {
	return basePriority[chemical] * severityMultiplier[validation.Status]
}
