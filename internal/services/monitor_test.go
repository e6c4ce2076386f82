package services

import (
	"testing"
	"time"

	"github.com/PoolCheck-App/poolcheck_backend/internal/models"
	"github.com/PoolCheck-App/poolcheck_backend/internal/store"
)

// slowStore delays the latest-tests query so a Stop call can land while the
// monitor loop is in the middle of a check cycle
type slowStore struct {
	*store.Store
	delay time.Duration
}

func (s *slowStore) GetAllLatestTestsByPool() map[string]models.PoolTest {
	time.Sleep(s.delay)
	return s.Store.GetAllLatestTestsByPool()
}

func seedMonitorTest(s *store.Store, poolID string, ph float64) {
	var reading models.ChemicalReading
	reading.Set(models.ChemicalPh, ph)
	s.AddTest(models.PoolTest{
		PoolID:          poolID,
		Timestamp:       time.Now(),
		ChemicalReading: reading,
	})
}

func TestMonitorStop_DuringCheckCycle(t *testing.T) {
	base := store.NewStore(100)
	seedMonitorTest(base, "main", 7.4)
	seedMonitorTest(base, "kiddie", 7.2)

	monitor := NewMonitor(&slowStore{Store: base, delay: 100 * time.Millisecond},
		nil, nil, 10*time.Millisecond, 5)
	monitor.Start()

	// Let the loop enter its first check before stopping
	time.Sleep(20 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		monitor.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return while a check cycle was in progress")
	}

	if monitor.IsRunning() {
		t.Error("Expected monitor to report stopped after Stop")
	}
}

func TestMonitorStop_Idempotent(t *testing.T) {
	monitor := NewMonitor(store.NewStore(10), nil, nil, time.Minute, 5)
	monitor.Start()
	monitor.Stop()

	// Second Stop must return immediately instead of blocking on the
	// stop channel
	done := make(chan struct{})
	go func() {
		monitor.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Second Stop call blocked")
	}
}

func TestMonitorStart_AlreadyRunning(t *testing.T) {
	monitor := NewMonitor(store.NewStore(10), nil, nil, time.Minute, 5)
	monitor.Start()
	defer monitor.Stop()

	monitor.Start()
	if !monitor.IsRunning() {
		t.Error("Expected monitor to stay running after duplicate Start")
	}
}
