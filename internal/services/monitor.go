package services

import (
	"log"
	"sync"
	"time"

	"github.com/PoolCheck-App/poolcheck_backend/internal/chemistry"
	"github.com/PoolCheck-App/poolcheck_backend/internal/models"
	"github.com/PoolCheck-App/poolcheck_backend/internal/store"
)

// Broadcaster pushes compliance updates to connected dashboard clients
type Broadcaster interface {
	BroadcastComplianceReport(poolID string, report *chemistry.ComplianceReport)
	BroadcastClosureAlert(poolID string, decision *chemistry.ClosureDecision)
}

// AlertPublisher publishes closure alerts to on-site controllers
type AlertPublisher interface {
	PublishClosureAlert(poolID string, decision *chemistry.ClosureDecision) error
}

// Monitor periodically re-evaluates the latest test of every active pool,
// watches chemical trends, and raises closure alerts
type Monitor struct {
	store       store.DataStore
	broadcaster Broadcaster
	publisher   AlertPublisher
	interval    time.Duration
	trendWindow int

	ticker      *time.Ticker
	stopChan    chan bool
	mu          sync.RWMutex
	isRunning   bool
	lastVerdict map[string]chemistry.Verdict
}

// NewMonitor creates a new compliance monitor. The broadcaster and publisher
// may be nil when the corresponding transport is not configured.
func NewMonitor(dataStore store.DataStore, broadcaster Broadcaster, publisher AlertPublisher,
	interval time.Duration, trendWindow int) *Monitor {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	if trendWindow <= 0 {
		trendWindow = 30
	}

	return &Monitor{
		store:       dataStore,
		broadcaster: broadcaster,
		publisher:   publisher,
		interval:    interval,
		trendWindow: trendWindow,
		stopChan:    make(chan bool),
		lastVerdict: make(map[string]chemistry.Verdict),
	}
}

// Start begins the monitor background process
func (m *Monitor) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.isRunning {
		log.Println("⚠️  Monitor: Already running")
		return
	}

	m.ticker = time.NewTicker(m.interval)
	m.isRunning = true

	log.Printf("🕐 Monitor: Started - checking pool compliance every %v", m.interval)

	go m.run()
}

// Stop halts the monitor and waits for the loop to exit. The stop signal is
// sent without holding the mutex; the run loop takes it inside checkPools.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.isRunning {
		m.mu.Unlock()
		return
	}

	m.ticker.Stop()
	m.isRunning = false
	m.mu.Unlock()

	m.stopChan <- true

	log.Println("🛑 Monitor: Stopped")
}

// run is the main monitor loop
func (m *Monitor) run() {
	// Check immediately on start
	m.checkPools()

	for {
		select {
		case <-m.ticker.C:
			m.checkPools()
		case <-m.stopChan:
			return
		}
	}
}

// checkPools re-evaluates the latest test of every active pool and raises
// alerts when a pool's verdict changes or a closure is required
func (m *Monitor) checkPools() {
	for poolID, test := range m.store.GetAllLatestTestsByPool() {
		report := chemistry.GenerateComplianceReport(&test.ChemicalReading)
		decision := chemistry.ShouldClosePool(&test.ChemicalReading)

		m.mu.Lock()
		previous, seen := m.lastVerdict[poolID]
		m.lastVerdict[poolID] = report.Overall
		m.mu.Unlock()

		if !seen || previous != report.Overall {
			log.Printf("📋 Monitor: Pool %s verdict is %s (%d of %d chemicals in ideal range)",
				poolID, report.Overall, report.PassedTests, report.TotalTests)
			if m.broadcaster != nil {
				m.broadcaster.BroadcastComplianceReport(poolID, &report)
			}
		}

		if decision.ShouldClose {
			log.Printf("🚨 Monitor: Pool %s requires closure: %v", poolID, decision.Reasons)
			if m.broadcaster != nil {
				m.broadcaster.BroadcastClosureAlert(poolID, &decision)
			}
			if m.publisher != nil {
				if err := m.publisher.PublishClosureAlert(poolID, &decision); err != nil {
					log.Printf("⚠️  Monitor: Failed to publish closure alert: %v", err)
				}
			}
		}

		m.logNotableTrends(poolID)
	}
}

// logNotableTrends reports chemicals drifting up or down over recent tests
func (m *Monitor) logNotableTrends(poolID string) {
	for _, chemical := range models.AllChemicals {
		series := m.store.GetTrendSeries(poolID, chemical, m.trendWindow)
		if len(series) < 2 {
			continue
		}

		trend := chemistry.Trend(series, chemical)
		if trend.Direction == chemistry.TrendStable {
			continue
		}

		log.Printf("📈 Monitor: Pool %s %s trending %s (%.1f%% over last %d tests)",
			poolID, chemical, trend.Direction, trend.Percentage, len(series))
	}
}

// IsRunning reports whether the monitor loop is active
func (m *Monitor) IsRunning() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.isRunning
}
