package chemistry

import (
	"github.com/PoolCheck-App/poolcheck_backend/internal/models"
)

// Verdict is the overall compliance outcome of a full test
type Verdict string

const (
	VerdictCompliant    Verdict = "compliant"
	VerdictWarning      Verdict = "warning"
	VerdictNonCompliant Verdict = "non-compliant"
	VerdictEmergency    Verdict = "emergency"
)

// closureAction is the literal required action appended once per report
// when any chemical mandates closure
const closureAction = "IMMEDIATE POOL CLOSURE REQUIRED"

// ChemicalDetail is the per-chemical line of a compliance report
type ChemicalDetail struct {
	Chemical   models.ChemicalType `json:"chemical"`
	Value      float64             `json:"value"`
	Validation ValidationResult    `json:"validation"`
}

// ComplianceReport aggregates the validation of every chemical present in
// one test. It is recomputed on demand and never persisted.
type ComplianceReport struct {
	Overall         Verdict          `json:"overall"`
	TotalTests      int              `json:"total_tests"`
	PassedTests     int              `json:"passed_tests"`
	WarningTests    int              `json:"warning_tests"`
	CriticalTests   int              `json:"critical_tests"`
	EmergencyTests  int              `json:"emergency_tests"`
	Recommendations []string         `json:"recommendations"`
	RequiredActions []string         `json:"required_actions"`
	Details         []ChemicalDetail `json:"details"`
}

// GenerateComplianceReport validates every chemical present in the reading
// and tallies the outcome. Absent chemicals are skipped silently and do not
// count toward any total. Recommendation and action lists are deduplicated
// in first-seen order.
func GenerateComplianceReport(reading *models.ChemicalReading) ComplianceReport {
	report := ComplianceReport{
		Overall:         VerdictCompliant,
		Recommendations: []string{},
		RequiredActions: []string{},
	}

	seenRecommendations := make(map[string]bool)
	seenActions := make(map[string]bool)

	for _, chemical := range reading.Chemicals() {
		value, _ := reading.Value(chemical)
		result := Validate(value, chemical)

		report.TotalTests++
		switch result.Status {
		case StatusGood:
			report.PassedTests++
		case StatusWarning:
			report.WarningTests++
			if result.Recommendation != "" && !seenRecommendations[result.Recommendation] {
				seenRecommendations[result.Recommendation] = true
				report.Recommendations = append(report.Recommendations, result.Recommendation)
			}
		case StatusCritical:
			report.CriticalTests++
			if result.Recommendation != "" && !seenActions[result.Recommendation] {
				seenActions[result.Recommendation] = true
				report.RequiredActions = append(report.RequiredActions, result.Recommendation)
			}
		case StatusEmergency:
			report.EmergencyTests++
			if result.Recommendation != "" && !seenActions[result.Recommendation] {
				seenActions[result.Recommendation] = true
				report.RequiredActions = append(report.RequiredActions, result.Recommendation)
			}
			if !seenActions[closureAction] {
				seenActions[closureAction] = true
				report.RequiredActions = append(report.RequiredActions, closureAction)
			}
		}

		report.Details = append(report.Details, ChemicalDetail{
			Chemical:   chemical,
			Value:      value,
			Validation: result,
		})
	}

	switch {
	case report.EmergencyTests > 0:
		report.Overall = VerdictEmergency
	case report.CriticalTests > 0:
		report.Overall = VerdictNonCompliant
	case report.WarningTests > 0:
		report.Overall = VerdictWarning
	}

	return report
}
