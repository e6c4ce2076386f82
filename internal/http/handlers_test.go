package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PoolCheck-App/poolcheck_backend/internal/models"
	"github.com/PoolCheck-App/poolcheck_backend/internal/store"
	"github.com/PoolCheck-App/poolcheck_backend/internal/ws"
)

func newTestRouter(dataStore store.DataStore) http.Handler {
	hub := ws.NewHub()
	go hub.Run()
	return SetupRoutes(dataStore, hub, "main")
}

func seedTest(s *store.Store, poolID string, ph float64, at time.Time) {
	var reading models.ChemicalReading
	reading.Set(models.ChemicalPh, ph)
	reading.Set(models.ChemicalFreeChlorine, 2.0)
	s.AddTest(models.PoolTest{
		PoolID:          poolID,
		Timestamp:       at,
		ChemicalReading: reading,
	})
}

func TestAddTest_Success(t *testing.T) {
	dataStore := store.NewStore(100)
	router := newTestRouter(dataStore)

	body := `{"pool_id": "main", "free_chlorine": 2.0, "ph": 7.4, "taken_by": "operator"}`
	req := httptest.NewRequest("POST", "/api/v1/tests", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var response APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if !response.Success {
		t.Errorf("Expected success, got error: %s", response.Error)
	}

	if dataStore.GetTestCount() != 1 {
		t.Errorf("Expected 1 stored test, got %d", dataStore.GetTestCount())
	}

	data, ok := response.Data.(map[string]interface{})
	if !ok {
		t.Fatal("Expected data object in response")
	}
	compliance, ok := data["compliance"].(map[string]interface{})
	if !ok {
		t.Fatal("Expected compliance report in response")
	}
	if compliance["overall"] != "compliant" {
		t.Errorf("Expected overall 'compliant', got %v", compliance["overall"])
	}
}

func TestAddTest_StructuralRejection(t *testing.T) {
	dataStore := store.NewStore(100)
	router := newTestRouter(dataStore)

	tests := []struct {
		name string
		body string
	}{
		{"negative value", `{"free_chlorine": -1.0}`},
		{"ph beyond scale", `{"ph": 15.0}`},
		{"empty reading", `{"pool_id": "main"}`},
		{"malformed JSON", `{"ph": 7.4`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/v1/tests", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("Expected status 400, got %d", rec.Code)
			}
		})
	}

	if dataStore.GetTestCount() != 0 {
		t.Errorf("Expected no stored tests, got %d", dataStore.GetTestCount())
	}
}

func TestGetLatestTest(t *testing.T) {
	dataStore := store.NewStore(100)
	router := newTestRouter(dataStore)

	// Empty store returns 404
	req := httptest.NewRequest("GET", "/api/v1/tests/latest", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 on empty store, got %d", rec.Code)
	}

	seedTest(dataStore, "main", 7.4, time.Now().Add(-time.Hour))
	seedTest(dataStore, "kiddie", 7.2, time.Now())

	req = httptest.NewRequest("GET", "/api/v1/tests/latest?pool_id=kiddie", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var response APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	data := response.Data.(map[string]interface{})
	if data["pool_id"] != "kiddie" {
		t.Errorf("Expected pool_id 'kiddie', got %v", data["pool_id"])
	}
}

func TestGetRecentTests_Limit(t *testing.T) {
	dataStore := store.NewStore(100)
	router := newTestRouter(dataStore)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		seedTest(dataStore, "main", 7.4, base.Add(time.Duration(i)*time.Minute))
	}

	req := httptest.NewRequest("GET", "/api/v1/tests/recent?limit=3", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var response APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	data := response.Data.([]interface{})
	if len(data) != 3 {
		t.Errorf("Expected 3 tests, got %d", len(data))
	}
}

func TestGetTestsInRange_Validation(t *testing.T) {
	dataStore := store.NewStore(100)
	router := newTestRouter(dataStore)

	tests := []struct {
		name string
		url  string
	}{
		{"missing parameters", "/api/v1/tests/history"},
		{"invalid start", "/api/v1/tests/history?start=yesterday&end=2026-01-02T00:00:00Z"},
		{"end before start", "/api/v1/tests/history?start=2026-01-02T00:00:00Z&end=2026-01-01T00:00:00Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.url, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("Expected status 400, got %d", rec.Code)
			}
		})
	}
}

func TestGetComplianceStatus(t *testing.T) {
	dataStore := store.NewStore(100)
	router := newTestRouter(dataStore)

	// Critically high pH forces an emergency verdict
	var reading models.ChemicalReading
	reading.Set(models.ChemicalPh, 8.5)
	dataStore.AddTest(models.PoolTest{PoolID: "main", Timestamp: time.Now(), ChemicalReading: reading})

	req := httptest.NewRequest("GET", "/api/v1/compliance/latest", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var response APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	data := response.Data.(map[string]interface{})
	if data["overall"] != "emergency" {
		t.Errorf("Expected overall 'emergency', got %v", data["overall"])
	}

	actions, _ := data["required_actions"].([]interface{})
	found := false
	for _, action := range actions {
		if action == "IMMEDIATE POOL CLOSURE REQUIRED" {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected closure action in required_actions, got %v", actions)
	}
}

func TestGetClosureDecision(t *testing.T) {
	dataStore := store.NewStore(100)
	router := newTestRouter(dataStore)

	seedTest(dataStore, "main", 7.4, time.Now())

	req := httptest.NewRequest("GET", "/api/v1/compliance/closure", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var response APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	data := response.Data.(map[string]interface{})
	closure := data["closure"].(map[string]interface{})
	if closure["should_close"] != false {
		t.Errorf("Expected should_close false for compliant test, got %v", closure["should_close"])
	}
}

func TestGetAdjustments(t *testing.T) {
	dataStore := store.NewStore(100)
	router := newTestRouter(dataStore)

	// pH below ideal needs an increase adjustment
	var reading models.ChemicalReading
	reading.Set(models.ChemicalPh, 7.1)
	dataStore.AddTest(models.PoolTest{PoolID: "main", Timestamp: time.Now(), ChemicalReading: reading})

	req := httptest.NewRequest("GET", "/api/v1/adjustments/latest", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var response APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	data := response.Data.(map[string]interface{})
	adjustments := data["adjustments"].(map[string]interface{})
	phAdj, ok := adjustments["ph"].(map[string]interface{})
	if !ok {
		t.Fatalf("Expected ph adjustment, got %v", adjustments)
	}
	if phAdj["action"] != "increase" {
		t.Errorf("Expected action 'increase', got %v", phAdj["action"])
	}
}

func TestGetChemicalStandards(t *testing.T) {
	router := newTestRouter(store.NewStore(100))

	req := httptest.NewRequest("GET", "/api/v1/chemicals", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var response APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	data := response.Data.([]interface{})
	if len(data) != len(models.AllChemicals) {
		t.Errorf("Expected %d chemicals, got %d", len(models.AllChemicals), len(data))
	}
}

func TestGetChemicalTrend(t *testing.T) {
	dataStore := store.NewStore(100)
	router := newTestRouter(dataStore)

	base := time.Now().Add(-time.Hour)
	for i, ph := range []float64{7.6, 7.4, 7.2} {
		seedTest(dataStore, "main", ph, base.Add(time.Duration(i)*time.Minute))
	}

	req := httptest.NewRequest("GET", "/api/v1/chemicals/ph/trend", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var response APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	data := response.Data.(map[string]interface{})
	trend := data["trend"].(map[string]interface{})
	if trend["direction"] != "down" {
		t.Errorf("Expected direction 'down', got %v", trend["direction"])
	}
}

func TestGetChemicalTrend_UnknownChemical(t *testing.T) {
	router := newTestRouter(store.NewStore(100))

	req := httptest.NewRequest("GET", "/api/v1/chemicals/chlorophyll/trend", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", rec.Code)
	}
}

func TestGetSystemStats(t *testing.T) {
	dataStore := store.NewStore(100)
	router := newTestRouter(dataStore)

	seedTest(dataStore, "main", 7.4, time.Now())

	req := httptest.NewRequest("GET", "/api/v1/stats", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var response APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	data := response.Data.(map[string]interface{})
	if data["total_tests"] != float64(1) {
		t.Errorf("Expected total_tests 1, got %v", data["total_tests"])
	}
}

func TestExportHistoryCSV(t *testing.T) {
	dataStore := store.NewStore(100)
	router := newTestRouter(dataStore)

	seedTest(dataStore, "main", 7.4, time.Now())

	req := httptest.NewRequest("GET", "/api/v1/export/history.csv", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("Expected Content-Type text/csv, got %s", ct)
	}

	body := rec.Body.String()
	if !strings.Contains(body, "Timestamp,Pool") {
		t.Errorf("Expected CSV header, got %q", body)
	}
	if !strings.Contains(body, "7.4") {
		t.Errorf("Expected pH value in CSV, got %q", body)
	}
}
