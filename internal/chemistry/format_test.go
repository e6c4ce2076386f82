package chemistry

import (
	"testing"

	"github.com/PoolCheck-App/poolcheck_backend/internal/models"
)

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name     string
		chemical models.ChemicalType
		value    float64
		expected string
	}{
		{"pH has one decimal and no unit", models.ChemicalPh, 7.4, "7.4"},
		{"Free chlorine has one decimal", models.ChemicalFreeChlorine, 2.0, "2.0 ppm"},
		{"Total chlorine rounds to one decimal", models.ChemicalTotalChlorine, 2.25, "2.2 ppm"},
		{"Alkalinity rounds to whole ppm", models.ChemicalAlkalinity, 120.4, "120 ppm"},
		{"Temperature rounds to whole degrees", models.ChemicalTemperature, 81.6, "82 °F"},
		{"Calcium rounds to whole ppm", models.ChemicalCalcium, 310.5, "310 ppm"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatValue(tt.value, tt.chemical)
			if got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestAcceptableAndIdealRangeStrings(t *testing.T) {
	if got := AcceptableRange(models.ChemicalFreeChlorine); got != "1.0-3.0 ppm" {
		t.Errorf("Expected \"1.0-3.0 ppm\", got %q", got)
	}
	if got := IdealRange(models.ChemicalPh); got != "7.3-7.5" {
		t.Errorf("Expected \"7.3-7.5\", got %q", got)
	}
	if got := AcceptableRange(models.ChemicalAlkalinity); got != "60-180 ppm" {
		t.Errorf("Expected \"60-180 ppm\", got %q", got)
	}
}

func TestPriority_OrdersBySeverityThenChemical(t *testing.T) {
	chlorineEmergency := Validate(0.2, models.ChemicalFreeChlorine)
	phCritical := Validate(7.9, models.ChemicalPh)
	temperatureWarning := Validate(86, models.ChemicalTemperature)
	calciumGood := Validate(300, models.ChemicalCalcium)

	pChlorine := Priority(models.ChemicalFreeChlorine, chlorineEmergency)
	pPh := Priority(models.ChemicalPh, phCritical)
	pTemperature := Priority(models.ChemicalTemperature, temperatureWarning)
	pCalcium := Priority(models.ChemicalCalcium, calciumGood)

	if pChlorine != 28 { // base 7 * emergency 4
		t.Errorf("Expected free chlorine emergency priority 28, got %d", pChlorine)
	}
	if pPh != 18 { // base 6 * critical 3
		t.Errorf("Expected pH critical priority 18, got %d", pPh)
	}
	if !(pChlorine > pPh && pPh > pTemperature && pTemperature > pCalcium) {
		t.Errorf("Expected strict priority ordering, got %d, %d, %d, %d",
			pChlorine, pPh, pTemperature, pCalcium)
	}
}

func TestPriority_SameChemicalScalesWithSeverity(t *testing.T) {
	good := Priority(models.ChemicalPh, Validate(7.4, models.ChemicalPh))
	warning := Priority(models.ChemicalPh, Validate(7.1, models.ChemicalPh))
	critical := Priority(models.ChemicalPh, Validate(7.9, models.ChemicalPh))
	emergency := Priority(models.ChemicalPh, Validate(8.5, models.ChemicalPh))

	if !(good < warning && warning < critical && critical < emergency) {
		t.Errorf("Expected severity to scale priority, got %d, %d, %d, %d",
			good, warning, critical, emergency)
	}
}
