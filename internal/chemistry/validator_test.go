package chemistry

import (
	"testing"

	"github.com/PoolCheck-App/poolcheck_backend/internal/models"
)

func TestStandardsTable_Invariants(t *testing.T) {
	for _, chemical := range models.AllChemicals {
		standard := StandardFor(chemical)

		if !(standard.CriticalLow < standard.Min) {
			t.Errorf("%s: expected criticalLow < min, got %v >= %v",
				chemical, standard.CriticalLow, standard.Min)
		}
		if !(standard.Min < standard.Ideal.Min) {
			t.Errorf("%s: expected min < ideal.min, got %v >= %v",
				chemical, standard.Min, standard.Ideal.Min)
		}
		if !(standard.Ideal.Min <= standard.Ideal.Max) {
			t.Errorf("%s: expected ideal.min <= ideal.max, got %v > %v",
				chemical, standard.Ideal.Min, standard.Ideal.Max)
		}
		if !(standard.Ideal.Max < standard.Max) {
			t.Errorf("%s: expected ideal.max < max, got %v >= %v",
				chemical, standard.Ideal.Max, standard.Max)
		}
		if !(standard.Max < standard.CriticalHigh) {
			t.Errorf("%s: expected max < criticalHigh, got %v >= %v",
				chemical, standard.Max, standard.CriticalHigh)
		}
		if standard.Description == "" {
			t.Errorf("%s: expected a description", chemical)
		}
		if standard.Regulation == "" {
			t.Errorf("%s: expected a regulation citation", chemical)
		}
	}
}

func TestValidate_PhScenarios(t *testing.T) {
	tests := []struct {
		name            string
		value           float64
		expectedStatus  Status
		requiresAction  bool
		requiresClosure bool
	}{
		{"Ideal pH is good", 7.4, StatusGood, false, false},
		{"Slightly low pH is a warning", 7.1, StatusWarning, true, false},
		{"Above max but below critical is critical", 7.9, StatusCritical, true, false},
		{"At criticalHigh is an emergency", 8.0, StatusEmergency, true, true},
		{"Far above criticalHigh is an emergency", 8.5, StatusEmergency, true, true},
		{"At criticalLow is an emergency", 6.5, StatusEmergency, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(tt.value, models.ChemicalPh)

			if result.Status != tt.expectedStatus {
				t.Errorf("Expected status %v for pH %v, got %v", tt.expectedStatus, tt.value, result.Status)
			}
			if result.RequiresAction != tt.requiresAction {
				t.Errorf("Expected RequiresAction=%v for pH %v, got %v", tt.requiresAction, tt.value, result.RequiresAction)
			}
			if result.RequiresClosure != tt.requiresClosure {
				t.Errorf("Expected RequiresClosure=%v for pH %v, got %v", tt.requiresClosure, tt.value, result.RequiresClosure)
			}
			if result.Message == "" {
				t.Error("Expected a non-empty message")
			}
		})
	}
}

func TestValidate_BoundariesInclusiveOnSafeSide(t *testing.T) {
	for _, chemical := range models.AllChemicals {
		standard := StandardFor(chemical)

		// min and max are still inside the acceptable range
		if result := Validate(standard.Min, chemical); result.Status == StatusCritical || result.Status == StatusEmergency {
			t.Errorf("%s: value == min should not be out of range, got %v", chemical, result.Status)
		}
		if result := Validate(standard.Max, chemical); result.Status == StatusCritical || result.Status == StatusEmergency {
			t.Errorf("%s: value == max should not be out of range, got %v", chemical, result.Status)
		}

		// the critical bounds already count as emergencies
		if result := Validate(standard.CriticalLow, chemical); result.Status != StatusEmergency {
			t.Errorf("%s: value == criticalLow should be emergency, got %v", chemical, result.Status)
		}
		if result := Validate(standard.CriticalHigh, chemical); result.Status != StatusEmergency {
			t.Errorf("%s: value == criticalHigh should be emergency, got %v", chemical, result.Status)
		}
	}
}

func TestValidate_TiersPartitionTheLine(t *testing.T) {
	// Sweep each chemical's plausible domain and confirm every value lands
	// in exactly one tier (Validate always returns a known status)
	for _, chemical := range models.AllChemicals {
		standard := StandardFor(chemical)

		span := standard.CriticalHigh - standard.CriticalLow
		step := span / 200
		for value := standard.CriticalLow - span/10; value <= standard.CriticalHigh+span/10; value += step {
			result := Validate(value, chemical)
			switch result.Status {
			case StatusGood, StatusWarning, StatusCritical, StatusEmergency:
			default:
				t.Fatalf("%s: value %v produced unknown status %q", chemical, value, result.Status)
			}
		}
	}
}

func TestValidate_SeverityMonotonicInDistanceFromIdeal(t *testing.T) {
	for _, chemical := range models.AllChemicals {
		standard := StandardFor(chemical)
		midpoint := (standard.Ideal.Min + standard.Ideal.Max) / 2

		// Walk outward from the ideal midpoint in both directions; severity
		// must never decrease
		for _, sign := range []float64{1, -1} {
			span := standard.CriticalHigh - midpoint
			if sign < 0 {
				span = midpoint - standard.CriticalLow
			}

			prevRank := severityRank[StatusGood]
			for i := 0; i <= 100; i++ {
				value := midpoint + sign*span*float64(i)/100*1.1
				rank := severityRank[Validate(value, chemical).Status]
				if rank < prevRank {
					t.Errorf("%s: severity decreased moving away from ideal at value %v", chemical, value)
					break
				}
				prevRank = rank
			}
		}
	}
}

func TestValidate_RecommendationsPerDirection(t *testing.T) {
	tests := []struct {
		name     string
		chemical models.ChemicalType
		value    float64
		contains Status
	}{
		{"Low free chlorine", models.ChemicalFreeChlorine, 0.8, StatusCritical},
		{"High free chlorine", models.ChemicalFreeChlorine, 3.5, StatusCritical},
		{"Low alkalinity warning", models.ChemicalAlkalinity, 70, StatusWarning},
		{"High calcium warning", models.ChemicalCalcium, 500, StatusWarning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(tt.value, tt.chemical)

			if result.Status != tt.contains {
				t.Errorf("Expected status %v, got %v", tt.contains, result.Status)
			}
			if result.Recommendation == "" {
				t.Error("Expected a remediation recommendation")
			}
			if result.Recommendation != remediationFor(t, tt.chemical, tt.value) {
				t.Errorf("Expected the fixed per-chemical remediation, got %q", result.Recommendation)
			}
		})
	}
}

func remediationFor(t *testing.T, chemical models.ChemicalType, value float64) string {
	t.Helper()
	standard := StandardFor(chemical)
	dir := directionLow
	if value > (standard.Ideal.Min+standard.Ideal.Max)/2 {
		dir = directionHigh
	}
	return remediations[chemical][dir]
}

func TestValidate_GoodHasNoRecommendation(t *testing.T) {
	for _, chemical := range models.AllChemicals {
		standard := StandardFor(chemical)
		midpoint := (standard.Ideal.Min + standard.Ideal.Max) / 2

		result := Validate(midpoint, chemical)
		if result.Status != StatusGood {
			t.Errorf("%s: ideal midpoint %v should be good, got %v", chemical, midpoint, result.Status)
		}
		if result.Recommendation != "" {
			t.Errorf("%s: good result should carry no recommendation, got %q", chemical, result.Recommendation)
		}
	}
}

func TestValidate_Idempotent(t *testing.T) {
	first := Validate(7.9, models.ChemicalPh)
	second := Validate(7.9, models.ChemicalPh)

	if first != second {
		t.Errorf("Expected identical results for identical inputs, got %+v and %+v", first, second)
	}
}

func TestValidate_EmergencyMessageFormat(t *testing.T) {
	result := Validate(0.2, models.ChemicalFreeChlorine)

	if result.Status != StatusEmergency {
		t.Fatalf("Expected emergency for 0.2 ppm free chlorine, got %v", result.Status)
	}
	expected := "Free Chlorine is critically out of range at 0.2 ppm"
	if result.Message != expected {
		t.Errorf("Expected message %q, got %q", expected, result.Message)
	}
}
