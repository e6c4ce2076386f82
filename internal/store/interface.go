package store

import (
	"time"

	"github.com/PoolCheck-App/poolcheck_backend/internal/chemistry"
	"github.com/PoolCheck-App/poolcheck_backend/internal/models"
)

// DataStore defines the interface for pool test storage operations
type DataStore interface {
	// Health check
	Ping() error

	AddTest(models.PoolTest)
	GetLatestTest() (*models.PoolTest, bool)
	GetLatestTestByPool(string) (*models.PoolTest, bool)
	GetAllLatestTestsByPool() map[string]models.PoolTest
	GetRecentTests(int) []models.PoolTest
	GetRecentTestsByPool(string, int) []models.PoolTest
	GetTestsInRange(time.Time, time.Time) []models.PoolTest
	GetTestsInRangeByPool(string, time.Time, time.Time) []models.PoolTest
	GetTestCount() int
	GetActivePools() []string

	// Trend series for one chemical, oldest first
	GetTrendSeries(poolID string, chemical models.ChemicalType, limit int) []models.TrendPoint

	// Compliance over the latest test; derived, never persisted
	GetComplianceStatus() (*chemistry.ComplianceReport, bool)
	GetComplianceStatusByPool(string) (*chemistry.ComplianceReport, bool)
}
