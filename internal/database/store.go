package database

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/PoolCheck-App/poolcheck_backend/internal/chemistry"
	"github.com/PoolCheck-App/poolcheck_backend/internal/models"
)

// DatabaseStore implements persistent storage using PostgreSQL
type DatabaseStore struct {
	db *sql.DB
}

// NewDatabaseStore creates a new database store
func NewDatabaseStore(db *sql.DB) *DatabaseStore {
	return &DatabaseStore{db: db}
}

// testColumns is the column list shared by every pool_tests query
const testColumns = `pool_id, timestamp, taken_by, notes,
	free_chlorine, total_chlorine, ph, alkalinity, cyanuric_acid, calcium, temperature`

// chemicalColumns maps a chemical to its pool_tests column. The chemical set
// is closed, so the map is the whitelist that keeps column names out of
// caller control.
var chemicalColumns = map[models.ChemicalType]string{
	models.ChemicalFreeChlorine:  "free_chlorine",
	models.ChemicalTotalChlorine: "total_chlorine",
	models.ChemicalPh:            "ph",
	models.ChemicalAlkalinity:    "alkalinity",
	models.ChemicalCyanuricAcid:  "cyanuric_acid",
	models.ChemicalCalcium:       "calcium",
	models.ChemicalTemperature:   "temperature",
}

// Ping checks database connectivity
func (s *DatabaseStore) Ping() error {
	return s.db.Ping()
}

// AddTest stores a pool test in the database
func (s *DatabaseStore) AddTest(test models.PoolTest) {
	query := `
		INSERT INTO pool_tests (pool_id, timestamp, taken_by, notes,
			free_chlorine, total_chlorine, ph, alkalinity, cyanuric_acid, calcium, temperature)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (pool_id, timestamp) DO UPDATE SET
			taken_by = EXCLUDED.taken_by,
			notes = EXCLUDED.notes,
			free_chlorine = EXCLUDED.free_chlorine,
			total_chlorine = EXCLUDED.total_chlorine,
			ph = EXCLUDED.ph,
			alkalinity = EXCLUDED.alkalinity,
			cyanuric_acid = EXCLUDED.cyanuric_acid,
			calcium = EXCLUDED.calcium,
			temperature = EXCLUDED.temperature`

	_, err := s.db.Exec(query, test.PoolID, test.Timestamp, nullString(test.TakenBy), nullString(test.Notes),
		nullFloat(test.FreeChlorine), nullFloat(test.TotalChlorine), nullFloat(test.Ph),
		nullFloat(test.Alkalinity), nullFloat(test.CyanuricAcid), nullFloat(test.Calcium),
		nullFloat(test.Temperature))
	if err != nil {
		log.Printf("❌ Error storing pool test: %v", err)
		return
	}

	// Update pool status (last_tested, total_tests)
	s.updatePoolStatus(test.PoolID)
}

// updatePoolStatus updates the pool status when a new test arrives
func (s *DatabaseStore) updatePoolStatus(poolID string) {
	query := `
		INSERT INTO pool_status (pool_id, last_tested, total_tests, updated_at)
		VALUES ($1, NOW(), 1, NOW())
		ON CONFLICT (pool_id) DO UPDATE SET
			last_tested = NOW(),
			total_tests = pool_status.total_tests + 1,
			updated_at = NOW()`

	_, err := s.db.Exec(query, poolID)
	if err != nil {
		log.Printf("⚠️  Warning: Failed to update pool status: %v", err)
	}
}

// GetLatestTest returns the most recent pool test
func (s *DatabaseStore) GetLatestTest() (*models.PoolTest, bool) {
	query := `
		SELECT ` + testColumns + `
		FROM pool_tests
		ORDER BY timestamp DESC
		LIMIT 1`

	test, err := scanTest(s.db.QueryRow(query))
	if err == sql.ErrNoRows {
		return nil, false
	}
	if err != nil {
		log.Printf("❌ Error getting latest test: %v", err)
		return nil, false
	}

	return test, true
}

// GetLatestTestByPool returns the most recent test for a specific pool
func (s *DatabaseStore) GetLatestTestByPool(poolID string) (*models.PoolTest, bool) {
	query := `
		SELECT ` + testColumns + `
		FROM pool_tests
		WHERE pool_id = $1
		ORDER BY timestamp DESC
		LIMIT 1`

	test, err := scanTest(s.db.QueryRow(query, poolID))
	if err == sql.ErrNoRows {
		return nil, false
	}
	if err != nil {
		log.Printf("❌ Error getting latest test by pool: %v", err)
		return nil, false
	}

	return test, true
}

// GetAllLatestTestsByPool returns the latest test for each pool
func (s *DatabaseStore) GetAllLatestTestsByPool() map[string]models.PoolTest {
	query := `
		SELECT DISTINCT ON (pool_id) ` + testColumns + `
		FROM pool_tests
		ORDER BY pool_id, timestamp DESC`

	tests, err := s.queryTests(query)
	if err != nil {
		log.Printf("❌ Error getting latest tests by pool: %v", err)
		return map[string]models.PoolTest{}
	}

	result := make(map[string]models.PoolTest, len(tests))
	for _, test := range tests {
		result[test.PoolID] = test
	}
	return result
}

// GetRecentTests returns the most recent N pool tests
func (s *DatabaseStore) GetRecentTests(limit int) []models.PoolTest {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT ` + testColumns + `
		FROM pool_tests
		ORDER BY timestamp DESC
		LIMIT $1`

	tests, err := s.queryTests(query, limit)
	if err != nil {
		log.Printf("❌ Error getting recent tests: %v", err)
		return nil
	}
	return tests
}

// GetRecentTestsByPool returns the most recent N tests for a specific pool
func (s *DatabaseStore) GetRecentTestsByPool(poolID string, limit int) []models.PoolTest {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT ` + testColumns + `
		FROM pool_tests
		WHERE pool_id = $1
		ORDER BY timestamp DESC
		LIMIT $2`

	tests, err := s.queryTests(query, poolID, limit)
	if err != nil {
		log.Printf("❌ Error getting recent tests by pool: %v", err)
		return nil
	}
	return tests
}

// GetTestsInRange returns tests within a time range, oldest first
func (s *DatabaseStore) GetTestsInRange(start, end time.Time) []models.PoolTest {
	query := `
		SELECT ` + testColumns + `
		FROM pool_tests
		WHERE timestamp > $1 AND timestamp < $2
		ORDER BY timestamp ASC`

	tests, err := s.queryTests(query, start, end)
	if err != nil {
		log.Printf("❌ Error getting tests in range: %v", err)
		return nil
	}
	return tests
}

// GetTestsInRangeByPool returns one pool's tests within a time range, oldest first
func (s *DatabaseStore) GetTestsInRangeByPool(poolID string, start, end time.Time) []models.PoolTest {
	query := `
		SELECT ` + testColumns + `
		FROM pool_tests
		WHERE pool_id = $1 AND timestamp > $2 AND timestamp < $3
		ORDER BY timestamp ASC`

	tests, err := s.queryTests(query, poolID, start, end)
	if err != nil {
		log.Printf("❌ Error getting tests in range by pool: %v", err)
		return nil
	}
	return tests
}

// GetTestCount returns the total number of stored tests
func (s *DatabaseStore) GetTestCount() int {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM pool_tests").Scan(&count)
	if err != nil {
		log.Printf("❌ Error counting tests: %v", err)
		return 0
	}
	return count
}

// GetActivePools returns the IDs of every pool with at least one test
func (s *DatabaseStore) GetActivePools() []string {
	rows, err := s.db.Query("SELECT DISTINCT pool_id FROM pool_tests ORDER BY pool_id")
	if err != nil {
		log.Printf("❌ Error getting active pools: %v", err)
		return nil
	}
	defer rows.Close()

	var pools []string
	for rows.Next() {
		var poolID string
		if err := rows.Scan(&poolID); err != nil {
			log.Printf("❌ Error scanning pool id: %v", err)
			continue
		}
		pools = append(pools, poolID)
	}
	return pools
}

// GetTrendSeries returns the (timestamp, value) series of one chemical for a
// pool, oldest first, limited to the most recent N tests carrying the
// chemical. An empty poolID spans all pools.
func (s *DatabaseStore) GetTrendSeries(poolID string, chemical models.ChemicalType, limit int) []models.TrendPoint {
	column, ok := chemicalColumns[chemical]
	if !ok {
		log.Printf("❌ Unknown chemical for trend series: %s", chemical)
		return nil
	}
	if limit <= 0 {
		limit = 50
	}

	// Take the most recent N rows, then return them oldest first
	query := fmt.Sprintf(`
		SELECT timestamp, %s FROM (
			SELECT timestamp, %s
			FROM pool_tests
			WHERE %s IS NOT NULL AND ($1 = '' OR pool_id = $1)
			ORDER BY timestamp DESC
			LIMIT $2
		) recent
		ORDER BY timestamp ASC`, column, column, column)

	rows, err := s.db.Query(query, poolID, limit)
	if err != nil {
		log.Printf("❌ Error getting trend series: %v", err)
		return nil
	}
	defer rows.Close()

	var points []models.TrendPoint
	for rows.Next() {
		var point models.TrendPoint
		if err := rows.Scan(&point.Timestamp, &point.Value); err != nil {
			log.Printf("❌ Error scanning trend point: %v", err)
			continue
		}
		points = append(points, point)
	}
	return points
}

// GetComplianceStatus returns the compliance report for the latest test
func (s *DatabaseStore) GetComplianceStatus() (*chemistry.ComplianceReport, bool) {
	test, exists := s.GetLatestTest()
	if !exists {
		return nil, false
	}

	report := chemistry.GenerateComplianceReport(&test.ChemicalReading)
	return &report, true
}

// GetComplianceStatusByPool returns the compliance report for a pool's latest test
func (s *DatabaseStore) GetComplianceStatusByPool(poolID string) (*chemistry.ComplianceReport, bool) {
	test, exists := s.GetLatestTestByPool(poolID)
	if !exists {
		return nil, false
	}

	report := chemistry.GenerateComplianceReport(&test.ChemicalReading)
	return &report, true
}

// queryTests runs a pool_tests query and scans every row
func (s *DatabaseStore) queryTests(query string, args ...interface{}) ([]models.PoolTest, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tests []models.PoolTest
	for rows.Next() {
		test, err := scanTest(rows)
		if err != nil {
			log.Printf("❌ Error scanning pool test: %v", err)
			continue
		}
		tests = append(tests, *test)
	}
	return tests, rows.Err()
}

// scanner covers both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

// scanTest scans one pool_tests row into a PoolTest
func scanTest(row scanner) (*models.PoolTest, error) {
	var (
		test           models.PoolTest
		takenBy, notes sql.NullString
		values         [7]sql.NullFloat64
	)

	err := row.Scan(&test.PoolID, &test.Timestamp, &takenBy, &notes,
		&values[0], &values[1], &values[2], &values[3], &values[4], &values[5], &values[6])
	if err != nil {
		return nil, err
	}

	test.TakenBy = takenBy.String
	test.Notes = notes.String
	for i, chemical := range models.AllChemicals {
		if values[i].Valid {
			test.Set(chemical, values[i].Float64)
		}
	}

	return &test, nil
}

func nullFloat(p *float64) sql.NullFloat64 {
	if p == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *p, Valid: true}
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
