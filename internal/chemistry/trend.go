package chemistry

import (
	"math"

	"github.com/PoolCheck-App/poolcheck_backend/internal/models"
)

// TrendDirection classifies how a chemical has moved over a series of tests
type TrendDirection string

const (
	TrendUp     TrendDirection = "up"
	TrendDown   TrendDirection = "down"
	TrendStable TrendDirection = "stable"
)

// trendThresholdFraction is the fraction of the series average that the
// first-third/last-third averages must diverge by before the trend counts
// as up or down rather than stable.
const trendThresholdFraction = 0.05

// TrendResult describes the direction and magnitude of change of one
// chemical across a chronologically ordered series of tests
type TrendResult struct {
	Chemical   models.ChemicalType `json:"chemical"`
	Direction  TrendDirection      `json:"direction"`
	Percentage float64             `json:"percentage"`
}

// Trend compares the average of the first third of the series against the
// average of the last third. Each third is len/3 points, never fewer than
// one, so a two-point series compares its first and last points directly.
// A series of zero or one points is always stable.
func Trend(points []models.TrendPoint, chemical models.ChemicalType) TrendResult {
	result := TrendResult{Chemical: chemical, Direction: TrendStable}

	if len(points) < 2 {
		return result
	}

	third := len(points) / 3
	if third < 1 {
		third = 1
	}

	firstAvg := average(points[:third])
	lastAvg := average(points[len(points)-third:])
	overallAvg := average(points)

	if firstAvg != 0 {
		result.Percentage = math.Abs(lastAvg-firstAvg) / firstAvg * 100
	}

	delta := lastAvg - firstAvg
	threshold := trendThresholdFraction * overallAvg
	switch {
	case delta > threshold:
		result.Direction = TrendUp
	case delta < -threshold:
		result.Direction = TrendDown
	}

	return result
}

func average(points []models.TrendPoint) float64 {
	if len(points) == 0 {
		return 0
	}
	var sum float64
	for _, point := range points {
		sum += point.Value
	}
	return sum / float64(len(points))
}
