package store

import (
	"sort"
	"sync"
	"time"

	"github.com/PoolCheck-App/poolcheck_backend/internal/chemistry"
	"github.com/PoolCheck-App/poolcheck_backend/internal/models"
)

// Store manages pool test storage and retrieval in memory
type Store struct {
	mu           sync.RWMutex
	tests        []models.PoolTest
	latestTest   *models.PoolTest            // Latest test overall
	latestByPool map[string]*models.PoolTest // Latest test per pool
	maxTests     int
}

// NewStore creates a new in-memory store
func NewStore(maxTests int) *Store {
	if maxTests <= 0 {
		maxTests = 1000 // Default to store last 1000 tests
	}

	return &Store{
		tests:        make([]models.PoolTest, 0, maxTests),
		latestTest:   nil,
		latestByPool: make(map[string]*models.PoolTest),
		maxTests:     maxTests,
	}
}

// Ping always succeeds for the in-memory store
func (s *Store) Ping() error {
	return nil
}

// AddTest stores a new pool test
func (s *Store) AddTest(test models.PoolTest) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Add to tests slice
	s.tests = append(s.tests, test)

	// Maintain maximum size by removing oldest entries
	if len(s.tests) > s.maxTests {
		s.tests = s.tests[1:]
	}

	// Update latest test overall
	s.latestTest = &test

	// Update latest test for this pool
	if test.PoolID != "" {
		testCopy := test
		s.latestByPool[test.PoolID] = &testCopy
	}
}

// GetLatestTest returns the most recent test
func (s *Store) GetLatestTest() (*models.PoolTest, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.latestTest == nil {
		return nil, false
	}

	// Return a copy to avoid race conditions
	test := *s.latestTest
	return &test, true
}

// GetLatestTestByPool returns the most recent test for a specific pool
func (s *Store) GetLatestTestByPool(poolID string) (*models.PoolTest, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	test, exists := s.latestByPool[poolID]
	if !exists || test == nil {
		return nil, false
	}

	// Return a copy to avoid race conditions
	testCopy := *test
	return &testCopy, true
}

// GetAllLatestTestsByPool returns the latest test for each pool
func (s *Store) GetAllLatestTestsByPool() map[string]models.PoolTest {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]models.PoolTest)
	for poolID, test := range s.latestByPool {
		if test != nil {
			result[poolID] = *test
		}
	}
	return result
}

// GetRecentTests returns the most recent N tests
func (s *Store) GetRecentTests(limit int) []models.PoolTest {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tests := make([]models.PoolTest, len(s.tests))
	copy(tests, s.tests)

	// Sort by timestamp descending (most recent first)
	sort.Slice(tests, func(i, j int) bool {
		return tests[i].Timestamp.After(tests[j].Timestamp)
	})

	if limit > 0 && len(tests) > limit {
		tests = tests[:limit]
	}

	return tests
}

// GetRecentTestsByPool returns the most recent N tests for a specific pool
func (s *Store) GetRecentTestsByPool(poolID string, limit int) []models.PoolTest {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var tests []models.PoolTest
	for _, test := range s.tests {
		if test.PoolID == poolID {
			tests = append(tests, test)
		}
	}

	sort.Slice(tests, func(i, j int) bool {
		return tests[i].Timestamp.After(tests[j].Timestamp)
	})

	if limit > 0 && len(tests) > limit {
		tests = tests[:limit]
	}

	return tests
}

// GetTestsInRange returns tests within a time range
func (s *Store) GetTestsInRange(start, end time.Time) []models.PoolTest {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []models.PoolTest
	for _, test := range s.tests {
		if test.Timestamp.After(start) && test.Timestamp.Before(end) {
			result = append(result, test)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Timestamp.Before(result[j].Timestamp)
	})

	return result
}

// GetTestsInRangeByPool returns tests for one pool within a time range
func (s *Store) GetTestsInRangeByPool(poolID string, start, end time.Time) []models.PoolTest {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []models.PoolTest
	for _, test := range s.tests {
		if test.PoolID == poolID && test.Timestamp.After(start) && test.Timestamp.Before(end) {
			result = append(result, test)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Timestamp.Before(result[j].Timestamp)
	})

	return result
}

// GetTestCount returns the total number of stored tests
func (s *Store) GetTestCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.tests)
}

// GetActivePools returns the IDs of every pool with at least one test
func (s *Store) GetActivePools() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pools := make([]string, 0, len(s.latestByPool))
	for poolID := range s.latestByPool {
		pools = append(pools, poolID)
	}
	sort.Strings(pools)
	return pools
}

// GetTrendSeries returns the (timestamp, value) series of one chemical for a
// pool, oldest first, limited to the most recent N tests carrying that
// chemical. An empty poolID spans all pools.
func (s *Store) GetTrendSeries(poolID string, chemical models.ChemicalType, limit int) []models.TrendPoint {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var points []models.TrendPoint
	for _, test := range s.tests {
		if poolID != "" && test.PoolID != poolID {
			continue
		}
		if value, ok := test.Value(chemical); ok {
			points = append(points, models.TrendPoint{
				Timestamp: test.Timestamp,
				Value:     value,
			})
		}
	}

	sort.Slice(points, func(i, j int) bool {
		return points[i].Timestamp.Before(points[j].Timestamp)
	})

	if limit > 0 && len(points) > limit {
		points = points[len(points)-limit:]
	}

	return points
}

// GetComplianceStatus returns the compliance report for the latest test
func (s *Store) GetComplianceStatus() (*chemistry.ComplianceReport, bool) {
	test, exists := s.GetLatestTest()
	if !exists {
		return nil, false
	}

	report := chemistry.GenerateComplianceReport(&test.ChemicalReading)
	return &report, true
}

// GetComplianceStatusByPool returns the compliance report for a pool's latest test
func (s *Store) GetComplianceStatusByPool(poolID string) (*chemistry.ComplianceReport, bool) {
	test, exists := s.GetLatestTestByPool(poolID)
	if !exists {
		return nil, false
	}

	report := chemistry.GenerateComplianceReport(&test.ChemicalReading)
	return &report, true
}

// ClearTests removes all stored tests (useful for testing)
func (s *Store) ClearTests() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tests = make([]models.PoolTest, 0, s.maxTests)
	s.latestTest = nil
	s.latestByPool = make(map[string]*models.PoolTest)
}
