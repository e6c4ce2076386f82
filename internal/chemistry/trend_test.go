package chemistry

import (
	"math"
	"testing"
	"time"

	"github.com/PoolCheck-App/poolcheck_backend/internal/models"
)

func trendSeries(values ...float64) []models.TrendPoint {
	start := time.Date(2026, 8, 1, 8, 0, 0, 0, time.UTC)
	points := make([]models.TrendPoint, len(values))
	for i, v := range values {
		points[i] = models.TrendPoint{
			Timestamp: start.Add(time.Duration(i) * 24 * time.Hour),
			Value:     v,
		}
	}
	return points
}

func TestTrend_DownwardPh(t *testing.T) {
	result := Trend(trendSeries(7.6, 7.4, 7.2), models.ChemicalPh)

	if result.Direction != TrendDown {
		t.Errorf("Expected direction down, got %v", result.Direction)
	}
	// |7.2 - 7.6| / 7.6 * 100 ≈ 5.26%
	if math.Abs(result.Percentage-5.26) > 0.1 {
		t.Errorf("Expected percentage ≈5.3, got %v", result.Percentage)
	}
}

func TestTrend_UpwardSeries(t *testing.T) {
	result := Trend(trendSeries(1.0, 1.5, 2.0, 2.5), models.ChemicalFreeChlorine)

	if result.Direction != TrendUp {
		t.Errorf("Expected direction up, got %v", result.Direction)
	}
	if result.Percentage <= 0 {
		t.Errorf("Expected positive percentage, got %v", result.Percentage)
	}
}

func TestTrend_StableSeries(t *testing.T) {
	result := Trend(trendSeries(7.4, 7.5, 7.4, 7.4), models.ChemicalPh)

	if result.Direction != TrendStable {
		t.Errorf("Expected direction stable, got %v", result.Direction)
	}
}

func TestTrend_SinglePoint(t *testing.T) {
	result := Trend(trendSeries(7.4), models.ChemicalPh)

	if result.Direction != TrendStable {
		t.Errorf("Expected stable for a single point, got %v", result.Direction)
	}
	if result.Percentage != 0 {
		t.Errorf("Expected 0%% for a single point, got %v", result.Percentage)
	}
}

func TestTrend_EmptySeries(t *testing.T) {
	result := Trend(nil, models.ChemicalPh)

	if result.Direction != TrendStable || result.Percentage != 0 {
		t.Errorf("Expected stable/0 for empty series, got %+v", result)
	}
}

func TestTrend_TwoPointsCompareFirstAndLast(t *testing.T) {
	result := Trend(trendSeries(100, 150), models.ChemicalAlkalinity)

	if result.Direction != TrendUp {
		t.Errorf("Expected up, got %v", result.Direction)
	}
	if math.Abs(result.Percentage-50) > 1e-9 {
		t.Errorf("Expected 50%%, got %v", result.Percentage)
	}
}

func TestTrend_ThirdSizeConvention(t *testing.T) {
	// Thirds are len/3 (integer division), never fewer than one point. This
	// pins the rounding convention: 6 points average points 0-1 and 4-5.
	result := Trend(trendSeries(1.0, 1.0, 2.0, 2.0, 3.0, 3.0), models.ChemicalFreeChlorine)

	if result.Direction != TrendUp {
		t.Errorf("Expected up, got %v", result.Direction)
	}
	// first third avg = 1.0, last third avg = 3.0 -> 200%
	if math.Abs(result.Percentage-200) > 1e-9 {
		t.Errorf("Expected 200%%, got %v", result.Percentage)
	}

	// 5 points: thirds of a single point each, so only the endpoints count
	result = Trend(trendSeries(2.0, 9.0, 9.0, 9.0, 2.0), models.ChemicalFreeChlorine)
	if result.Percentage != 0 {
		t.Errorf("Expected endpoints-only comparison to yield 0%%, got %v", result.Percentage)
	}
	if result.Direction != TrendStable {
		t.Errorf("Expected stable, got %v", result.Direction)
	}
}

func TestTrend_ZeroBaselineHasZeroPercentage(t *testing.T) {
	result := Trend(trendSeries(0, 0, 30), models.ChemicalCyanuricAcid)

	if result.Percentage != 0 {
		t.Errorf("Expected percentage 0 when the first third averages 0, got %v", result.Percentage)
	}
	if result.Direction != TrendUp {
		t.Errorf("Expected direction up, got %v", result.Direction)
	}
}
