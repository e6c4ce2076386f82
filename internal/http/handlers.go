package http

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/PoolCheck-App/poolcheck_backend/internal/chemistry"
	"github.com/PoolCheck-App/poolcheck_backend/internal/export"
	"github.com/PoolCheck-App/poolcheck_backend/internal/models"
	"github.com/PoolCheck-App/poolcheck_backend/internal/store"
	"github.com/PoolCheck-App/poolcheck_backend/internal/ws"
)

// Handlers contains all HTTP request handlers
type Handlers struct {
	store         store.DataStore
	wsHub         *ws.Hub
	exportService *export.ExportService
	defaultPoolID string
}

// NewHandlers creates a new handlers instance
func NewHandlers(dataStore store.DataStore, wsHub *ws.Hub, defaultPoolID string) *Handlers {
	if defaultPoolID == "" {
		defaultPoolID = "main"
	}
	return &Handlers{
		store:         dataStore,
		wsHub:         wsHub,
		exportService: export.NewExportService(),
		defaultPoolID: defaultPoolID,
	}
}

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// AddTest handles POST requests to submit a chemical test
func (h *Handlers) AddTest(w http.ResponseWriter, r *http.Request) {
	var request struct {
		PoolID string `json:"pool_id"`
		models.ChemicalReading
		TakenBy string `json:"taken_by"`
		Notes   string `json:"notes"`
	}

	// Parse request body
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.sendErrorResponse(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if request.ChemicalReading.IsEmpty() {
		h.sendErrorResponse(w, "Test must include at least one chemical value", http.StatusBadRequest)
		return
	}

	poolID := request.PoolID
	if poolID == "" {
		poolID = h.defaultPoolID
	}

	// Structural check before any evaluation
	check := chemistry.ValidateReading(&request.ChemicalReading)
	if !check.IsValid {
		response := APIResponse{
			Success: false,
			Error:   "Invalid test values",
			Data:    check,
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(response)
		return
	}

	test := models.PoolTest{
		PoolID:          poolID,
		Timestamp:       time.Now(),
		TakenBy:         request.TakenBy,
		Notes:           request.Notes,
		ChemicalReading: request.ChemicalReading,
	}

	// Store the test
	h.store.AddTest(test)

	// Evaluate the new test
	report := chemistry.GenerateComplianceReport(&test.ChemicalReading)
	decision := chemistry.ShouldClosePool(&test.ChemicalReading)

	// Broadcast to connected dashboards
	if h.wsHub != nil {
		h.wsHub.BroadcastPoolTest(&test)
		h.wsHub.BroadcastComplianceReport(poolID, &report)
		if decision.ShouldClose {
			h.wsHub.BroadcastClosureAlert(poolID, &decision)
		}
	}

	if decision.ShouldClose {
		log.Printf("🚨 Pool %s requires closure after manual test: %v", poolID, decision.Reasons)
	}

	// Return success response with evaluation
	response := APIResponse{
		Success: true,
		Message: "Test recorded successfully",
		Data: map[string]interface{}{
			"test":       test,
			"compliance": report,
			"closure":    decision,
			"warnings":   check.Warnings,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// GetLatestTest returns the latest test (optionally filtered by pool)
func (h *Handlers) GetLatestTest(w http.ResponseWriter, r *http.Request) {
	poolID := r.URL.Query().Get("pool_id")

	// If pool_id is specified, return the latest test for that pool
	if poolID != "" {
		test, exists := h.store.GetLatestTestByPool(poolID)
		if !exists {
			h.sendErrorResponse(w, "No test data available for specified pool", http.StatusNotFound)
			return
		}

		h.sendJSONResponse(w, APIResponse{Success: true, Data: test})
		return
	}

	test, exists := h.store.GetLatestTest()
	if !exists {
		h.sendErrorResponse(w, "No test data available", http.StatusNotFound)
		return
	}

	h.sendJSONResponse(w, APIResponse{Success: true, Data: test})
}

// GetRecentTests returns recent tests (optionally filtered by pool)
func (h *Handlers) GetRecentTests(w http.ResponseWriter, r *http.Request) {
	limitStr := r.URL.Query().Get("limit")
	poolID := r.URL.Query().Get("pool_id")

	limit := 50 // Default limit
	if limitStr != "" {
		if parsedLimit, err := strconv.Atoi(limitStr); err == nil && parsedLimit > 0 {
			limit = parsedLimit
		}
	}

	var tests []models.PoolTest
	if poolID != "" {
		tests = h.store.GetRecentTestsByPool(poolID, limit)
	} else {
		tests = h.store.GetRecentTests(limit)
	}

	h.sendJSONResponse(w, APIResponse{Success: true, Data: tests})
}

// GetTestsInRange returns tests within a time range
func (h *Handlers) GetTestsInRange(w http.ResponseWriter, r *http.Request) {
	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")
	poolID := r.URL.Query().Get("pool_id")

	if startStr == "" || endStr == "" {
		h.sendErrorResponse(w, "Both start and end time parameters are required", http.StatusBadRequest)
		return
	}

	start, err := time.Parse(time.RFC3339, startStr)
	if err != nil {
		h.sendErrorResponse(w, "Invalid start time format. Use RFC3339 format", http.StatusBadRequest)
		return
	}

	end, err := time.Parse(time.RFC3339, endStr)
	if err != nil {
		h.sendErrorResponse(w, "Invalid end time format. Use RFC3339 format", http.StatusBadRequest)
		return
	}

	if end.Before(start) {
		h.sendErrorResponse(w, "End time must be after start time", http.StatusBadRequest)
		return
	}

	var tests []models.PoolTest
	if poolID != "" {
		tests = h.store.GetTestsInRangeByPool(poolID, start, end)
	} else {
		tests = h.store.GetTestsInRange(start, end)
	}

	h.sendJSONResponse(w, APIResponse{Success: true, Data: tests})
}

// GetComplianceStatus returns the compliance report for the latest test
func (h *Handlers) GetComplianceStatus(w http.ResponseWriter, r *http.Request) {
	poolID := r.URL.Query().Get("pool_id")

	var report *chemistry.ComplianceReport
	var exists bool
	if poolID != "" {
		report, exists = h.store.GetComplianceStatusByPool(poolID)
	} else {
		report, exists = h.store.GetComplianceStatus()
	}
	if !exists {
		h.sendErrorResponse(w, "No test data available", http.StatusNotFound)
		return
	}

	h.sendJSONResponse(w, APIResponse{Success: true, Data: report})
}

// GetClosureDecision returns the closure decision for the latest test
func (h *Handlers) GetClosureDecision(w http.ResponseWriter, r *http.Request) {
	poolID := r.URL.Query().Get("pool_id")

	var test *models.PoolTest
	var exists bool
	if poolID != "" {
		test, exists = h.store.GetLatestTestByPool(poolID)
	} else {
		test, exists = h.store.GetLatestTest()
	}
	if !exists {
		h.sendErrorResponse(w, "No test data available", http.StatusNotFound)
		return
	}

	decision := chemistry.ShouldClosePool(&test.ChemicalReading)

	h.sendJSONResponse(w, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"pool_id":   test.PoolID,
			"timestamp": test.Timestamp,
			"closure":   decision,
		},
	})
}

// GetAdjustments returns dosing adjustments for the latest test
func (h *Handlers) GetAdjustments(w http.ResponseWriter, r *http.Request) {
	poolID := r.URL.Query().Get("pool_id")

	var test *models.PoolTest
	var exists bool
	if poolID != "" {
		test, exists = h.store.GetLatestTestByPool(poolID)
	} else {
		test, exists = h.store.GetLatestTest()
	}
	if !exists {
		h.sendErrorResponse(w, "No test data available", http.StatusNotFound)
		return
	}

	adjustments := chemistry.GetAdjustments(&test.ChemicalReading)

	h.sendJSONResponse(w, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"pool_id":     test.PoolID,
			"timestamp":   test.Timestamp,
			"adjustments": adjustments,
		},
	})
}

// GetChemicalStandards returns the full standards table
func (h *Handlers) GetChemicalStandards(w http.ResponseWriter, r *http.Request) {
	type chemicalInfo struct {
		Chemical        models.ChemicalType        `json:"chemical"`
		Standard        chemistry.ChemicalStandard `json:"standard"`
		AcceptableRange string                     `json:"acceptable_range"`
		IdealRange      string                     `json:"ideal_range"`
	}

	info := make([]chemicalInfo, 0, len(models.AllChemicals))
	for _, chemical := range models.AllChemicals {
		info = append(info, chemicalInfo{
			Chemical:        chemical,
			Standard:        chemistry.StandardFor(chemical),
			AcceptableRange: chemistry.AcceptableRange(chemical),
			IdealRange:      chemistry.IdealRange(chemical),
		})
	}

	h.sendJSONResponse(w, APIResponse{Success: true, Data: info})
}

// GetChemicalTrend returns the trend of one chemical over recent tests
func (h *Handlers) GetChemicalTrend(w http.ResponseWriter, r *http.Request) {
	chemical := models.ChemicalType(chi.URLParam(r, "chemical"))
	if !models.IsValidChemical(chemical) {
		h.sendErrorResponse(w, "Unknown chemical: "+string(chemical), http.StatusBadRequest)
		return
	}

	poolID := r.URL.Query().Get("pool_id")
	if poolID == "" {
		poolID = h.defaultPoolID
	}

	limit := 30 // Default trend window
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsedLimit, err := strconv.Atoi(limitStr); err == nil && parsedLimit > 0 {
			limit = parsedLimit
		}
	}

	series := h.store.GetTrendSeries(poolID, chemical, limit)
	if len(series) == 0 {
		h.sendErrorResponse(w, "No test data available for specified pool", http.StatusNotFound)
		return
	}

	trend := chemistry.Trend(series, chemical)

	h.sendJSONResponse(w, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"pool_id": poolID,
			"trend":   trend,
			"series":  series,
		},
	})
}

// GetSystemStats returns system statistics
func (h *Handlers) GetSystemStats(w http.ResponseWriter, r *http.Request) {
	stats := map[string]interface{}{
		"total_tests":       h.store.GetTestCount(),
		"active_pools":      h.store.GetActivePools(),
		"connected_clients": h.wsHub.GetConnectedClientsCount(),
		"server_time":       time.Now(),
	}

	h.sendJSONResponse(w, APIResponse{Success: true, Data: stats})
}

// exportRange parses the optional start/end query parameters, defaulting to
// the last 30 days
func (h *Handlers) exportRange(r *http.Request) (time.Time, time.Time, error) {
	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")

	start := time.Now().AddDate(0, 0, -30)
	end := time.Now()
	var err error

	if startStr != "" {
		start, err = time.Parse(time.RFC3339, startStr)
		if err != nil {
			return start, end, fmt.Errorf("invalid start date format")
		}
	}
	if endStr != "" {
		end, err = time.Parse(time.RFC3339, endStr)
		if err != nil {
			return start, end, fmt.Errorf("invalid end date format")
		}
	}

	return start, end, nil
}

// exportTests fetches the tests selected by the export query parameters
func (h *Handlers) exportTests(r *http.Request, start, end time.Time) []models.PoolTest {
	if poolID := r.URL.Query().Get("pool_id"); poolID != "" {
		return h.store.GetTestsInRangeByPool(poolID, start, end)
	}
	return h.store.GetTestsInRange(start, end)
}

// ExportHistoryExcel handles GET requests to export test history as Excel
func (h *Handlers) ExportHistoryExcel(w http.ResponseWriter, r *http.Request) {
	start, end, err := h.exportRange(r)
	if err != nil {
		h.sendErrorResponse(w, err.Error()+". Use RFC3339 format", http.StatusBadRequest)
		return
	}

	tests := h.exportTests(r, start, end)

	exportData := export.ExportData{
		Tests: tests,
		ExportMetadata: export.ExportMetadata{
			GeneratedAt: time.Now(),
			DateRange:   fmt.Sprintf("%s to %s", start.Format("2006-01-02"), end.Format("2006-01-02")),
			TotalTests:  len(tests),
			Pools:       h.store.GetActivePools(),
		},
	}

	excelFile, err := h.exportService.GenerateExcel(exportData)
	if err != nil {
		h.sendErrorResponse(w, "Failed to generate Excel file", http.StatusInternalServerError)
		return
	}
	defer excelFile.Close()

	// Set response headers
	filename := fmt.Sprintf("poolcheck_history_%s_to_%s.xlsx",
		start.Format("2006-01-02"), end.Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))

	// Write Excel file to response
	if err := excelFile.Write(w); err != nil {
		h.sendErrorResponse(w, "Failed to write Excel file", http.StatusInternalServerError)
		return
	}
}

// ExportHistoryCSV handles GET requests to export test history as CSV
func (h *Handlers) ExportHistoryCSV(w http.ResponseWriter, r *http.Request) {
	start, end, err := h.exportRange(r)
	if err != nil {
		h.sendErrorResponse(w, err.Error()+". Use RFC3339 format", http.StatusBadRequest)
		return
	}

	tests := h.exportTests(r, start, end)

	csvData, err := h.exportService.GenerateCSV(tests)
	if err != nil {
		h.sendErrorResponse(w, "Failed to generate CSV data", http.StatusInternalServerError)
		return
	}

	// Set response headers
	filename := fmt.Sprintf("poolcheck_history_%s_to_%s.csv",
		start.Format("2006-01-02"), end.Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))

	// Write CSV data to response
	csvWriter := csv.NewWriter(w)
	if err := h.exportService.WriteCSV(csvWriter, csvData); err != nil {
		h.sendErrorResponse(w, "Failed to write CSV data", http.StatusInternalServerError)
		return
	}
}

// sendJSONResponse sends a standardized JSON response
func (h *Handlers) sendJSONResponse(w http.ResponseWriter, response APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// sendErrorResponse sends a standardized error response
func (h *Handlers) sendErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	response := APIResponse{
		Success: false,
		Error:   message,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(response)
}
