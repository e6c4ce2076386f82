package services

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/PoolCheck-App/poolcheck_backend/internal/chemistry"
	"github.com/PoolCheck-App/poolcheck_backend/internal/models"
)

// TestParser handles parsing of pool test payloads from probe controllers
type TestParser struct{}

// NewTestParser creates a new instance of TestParser
func NewTestParser() *TestParser {
	return &TestParser{}
}

// ParseTestJSON parses a JSON payload from a probe controller. Missing
// chemicals stay absent; the structural check runs before the test is
// accepted.
func (tp *TestParser) ParseTestJSON(payload []byte, poolID string) (*models.PoolTest, error) {
	var reading models.ChemicalReading

	if err := json.Unmarshal(payload, &reading); err != nil {
		return nil, fmt.Errorf("failed to parse test JSON: %w", err)
	}

	return tp.buildTest(reading, poolID)
}

// ParseTestString parses comma-separated chemical values (fallback format).
// Expected format: "fc,tc,ph,alk,cya,ca,temp" in canonical chemical order;
// empty segments mean the chemical was not measured.
func (tp *TestParser) ParseTestString(payload string, poolID string) (*models.PoolTest, error) {
	parts := strings.Split(strings.TrimSpace(payload), ",")
	if len(parts) != len(models.AllChemicals) {
		return nil, fmt.Errorf("failed to parse test string: expected %d comma-separated values, got %d",
			len(models.AllChemicals), len(parts))
	}

	var reading models.ChemicalReading
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		value, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s value %q: %w", models.AllChemicals[i], part, err)
		}
		reading.Set(models.AllChemicals[i], value)
	}

	return tp.buildTest(reading, poolID)
}

// buildTest runs the structural check and wraps the reading into a PoolTest
func (tp *TestParser) buildTest(reading models.ChemicalReading, poolID string) (*models.PoolTest, error) {
	if reading.IsEmpty() {
		return nil, fmt.Errorf("test payload carries no chemical values")
	}

	if check := chemistry.ValidateReading(&reading); !check.IsValid {
		return nil, fmt.Errorf("invalid test values: %s", strings.Join(check.Errors, "; "))
	}

	return &models.PoolTest{
		PoolID:          poolID,
		Timestamp:       time.Now(),
		ChemicalReading: reading,
	}, nil
}

// FormatPoolTest formats a pool test for logging or debugging
func (tp *TestParser) FormatPoolTest(test *models.PoolTest) string {
	parts := []string{
		fmt.Sprintf("Pool: %s", test.PoolID),
		fmt.Sprintf("Time: %s", test.Timestamp.Format("2006-01-02 15:04:05")),
	}
	for _, chemical := range test.Chemicals() {
		value, _ := test.Value(chemical)
		parts = append(parts, fmt.Sprintf("%s: %s",
			chemistry.StandardFor(chemical).Description, chemistry.FormatValue(value, chemical)))
	}
	return strings.Join(parts, ", ")
}
