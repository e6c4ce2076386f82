package chemistry

import (
	"fmt"

	"github.com/PoolCheck-App/poolcheck_backend/internal/models"
)

// ClosureDecision is the safety gate derived from a full test: whether any
// chemical mandates immediate pool closure, and why
type ClosureDecision struct {
	ShouldClose bool     `json:"should_close"`
	Reasons     []string `json:"reasons"`
}

// ShouldClosePool validates every chemical present in the reading and
// collects a reason for each one that requires closure. The decision is
// consistent with GenerateComplianceReport: ShouldClose is true exactly when
// the report's overall verdict is emergency.
func ShouldClosePool(reading *models.ChemicalReading) ClosureDecision {
	decision := ClosureDecision{Reasons: []string{}}

	for _, chemical := range reading.Chemicals() {
		value, _ := reading.Value(chemical)
		result := Validate(value, chemical)
		if result.RequiresClosure {
			standard := StandardFor(chemical)
			decision.Reasons = append(decision.Reasons,
				fmt.Sprintf("%s: %s", standard.Description, result.Message))
		}
	}

	decision.ShouldClose = len(decision.Reasons) > 0
	return decision
}
