package chemistry

import (
	"math"

	"github.com/PoolCheck-App/poolcheck_backend/internal/models"
)

// AdjustmentAction says which way a chemical needs to move
type AdjustmentAction string

const (
	ActionIncrease AdjustmentAction = "increase"
	ActionDecrease AdjustmentAction = "decrease"
)

// Adjustment describes the correction needed to bring one chemical back to
// the midpoint of its ideal range
type Adjustment struct {
	Action AdjustmentAction `json:"action"`
	Amount float64          `json:"amount"`
	Unit   string           `json:"unit"`
}

// GetAdjustments computes the correction per chemical for every value in the
// reading that falls outside its ideal range. Chemicals within their ideal
// range are omitted from the result entirely.
func GetAdjustments(reading *models.ChemicalReading) map[models.ChemicalType]Adjustment {
	adjustments := make(map[models.ChemicalType]Adjustment)

	for _, chemical := range reading.Chemicals() {
		value, _ := reading.Value(chemical)
		standard := StandardFor(chemical)

		if value >= standard.Ideal.Min && value <= standard.Ideal.Max {
			continue
		}

		action := ActionIncrease
		if value > standard.Ideal.Max {
			action = ActionDecrease
		}

		adjustments[chemical] = Adjustment{
			Action: action,
			Amount: math.Abs(idealTarget(standard) - value),
			Unit:   standard.Unit,
		}
	}

	return adjustments
}
