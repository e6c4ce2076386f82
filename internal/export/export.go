package export

import (
	"encoding/csv"
	"fmt"
	"time"

	"github.com/PoolCheck-App/poolcheck_backend/internal/chemistry"
	"github.com/PoolCheck-App/poolcheck_backend/internal/models"
	"github.com/xuri/excelize/v2"
)

// ExportService handles data export functionality
type ExportService struct{}

// NewExportService creates a new export service instance
func NewExportService() *ExportService {
	return &ExportService{}
}

// ExportData represents data to be exported
type ExportData struct {
	Tests          []models.PoolTest
	ExportMetadata ExportMetadata
}

// ExportMetadata contains information about the export
type ExportMetadata struct {
	GeneratedAt time.Time `json:"generated_at"`
	DateRange   string    `json:"date_range"`
	TotalTests  int       `json:"total_tests"`
	Pools       []string  `json:"pools"`
}

// GenerateExcel creates an Excel file with test history and compliance analysis
func (es *ExportService) GenerateExcel(data ExportData) (*excelize.File, error) {
	f := excelize.NewFile()

	// Set document properties
	f.SetDocProps(&excelize.DocProperties{
		Category:       "PoolCheck Chemical Testing",
		Created:        data.ExportMetadata.GeneratedAt.Format(time.RFC3339),
		Creator:        "PoolCheck System",
		Description:    "Pool chemical test history and compliance export",
		LastModifiedBy: "PoolCheck Backend",
		Modified:       data.ExportMetadata.GeneratedAt.Format(time.RFC3339),
		Subject:        "Pool Chemistry & Compliance History",
		Title:          "PoolCheck Compliance Report",
		Version:        "1.0",
	})

	// Create Summary sheet
	es.createSummarySheet(f, data)

	// Create Test Data sheet
	es.createTestDataSheet(f, data.Tests)

	// Create Compliance Analysis sheet
	es.createComplianceSheet(f, data.Tests)

	// Set active sheet to Summary
	f.SetActiveSheet(0)

	return f, nil
}

// createSummarySheet creates the summary overview sheet
func (es *ExportService) createSummarySheet(f *excelize.File, data ExportData) error {
	sheetName := "Summary"
	f.SetSheetName("Sheet1", sheetName)

	// Header styling
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})

	// Title
	f.SetCellValue(sheetName, "A1", "PoolCheck Chemical Compliance Report")
	f.MergeCell(sheetName, "A1", "D1")
	f.SetCellStyle(sheetName, "A1", "D1", headerStyle)
	f.SetRowHeight(sheetName, 1, 25)

	// Export metadata
	f.SetCellValue(sheetName, "A3", "Generated At:")
	f.SetCellValue(sheetName, "B3", data.ExportMetadata.GeneratedAt.Format("2006-01-02 15:04:05"))
	f.SetCellValue(sheetName, "A4", "Date Range:")
	f.SetCellValue(sheetName, "B4", data.ExportMetadata.DateRange)
	f.SetCellValue(sheetName, "A5", "Total Tests:")
	f.SetCellValue(sheetName, "B5", data.ExportMetadata.TotalTests)

	// Compliance statistics over the exported tests
	compliant, warning, nonCompliant, emergency := 0, 0, 0, 0
	for _, test := range data.Tests {
		report := chemistry.GenerateComplianceReport(&test.ChemicalReading)
		switch report.Overall {
		case chemistry.VerdictCompliant:
			compliant++
		case chemistry.VerdictWarning:
			warning++
		case chemistry.VerdictNonCompliant:
			nonCompliant++
		case chemistry.VerdictEmergency:
			emergency++
		}
	}

	f.SetCellValue(sheetName, "A7", "Compliance Statistics")
	f.SetCellStyle(sheetName, "A7", "A7", headerStyle)

	f.SetCellValue(sheetName, "A8", "Compliant Tests:")
	f.SetCellValue(sheetName, "B8", compliant)
	f.SetCellValue(sheetName, "A9", "Warning Tests:")
	f.SetCellValue(sheetName, "B9", warning)
	f.SetCellValue(sheetName, "A10", "Non-Compliant Tests:")
	f.SetCellValue(sheetName, "B10", nonCompliant)
	f.SetCellValue(sheetName, "A11", "Emergency Tests:")
	f.SetCellValue(sheetName, "B11", emergency)

	// Column widths
	f.SetColWidth(sheetName, "A", "A", 22)
	f.SetColWidth(sheetName, "B", "D", 15)

	return nil
}

// createTestDataSheet creates the raw test values sheet
func (es *ExportService) createTestDataSheet(f *excelize.File, tests []models.PoolTest) error {
	sheetName := "Test Data"
	f.NewSheet(sheetName)

	// Headers
	headers := []string{"Timestamp", "Pool"}
	for _, chemical := range models.AllChemicals {
		standard := chemistry.StandardFor(chemical)
		header := standard.Description
		if standard.Unit != "" {
			header = fmt.Sprintf("%s (%s)", standard.Description, standard.Unit)
		}
		headers = append(headers, header)
	}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	// Header styling
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"70AD47"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})
	lastHeader, _ := excelize.CoordinatesToCellName(len(headers), 1)
	f.SetCellStyle(sheetName, "A1", lastHeader, headerStyle)

	// Data rows; unmeasured chemicals stay blank
	for i, test := range tests {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), test.Timestamp.Format("2006-01-02 15:04:05"))
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), test.PoolID)
		for j, chemical := range models.AllChemicals {
			if value, ok := test.Value(chemical); ok {
				cell, _ := excelize.CoordinatesToCellName(j+3, row)
				f.SetCellValue(sheetName, cell, value)
			}
		}
	}

	// Format columns
	f.SetColWidth(sheetName, "A", "A", 20)
	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	f.SetColWidth(sheetName, "B", lastCol, 15)

	return nil
}

// createComplianceSheet creates the per-test compliance analysis sheet
func (es *ExportService) createComplianceSheet(f *excelize.File, tests []models.PoolTest) error {
	sheetName := "Compliance Analysis"
	f.NewSheet(sheetName)

	// Headers
	headers := []string{"Timestamp", "Pool", "Overall", "Passed", "Warnings", "Critical", "Emergency", "Closure Required", "Required Actions"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	// Header styling
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"C55A11"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})
	f.SetCellStyle(sheetName, "A1", "I1", headerStyle)

	// Data rows
	for i, test := range tests {
		row := i + 2
		report := chemistry.GenerateComplianceReport(&test.ChemicalReading)
		decision := chemistry.ShouldClosePool(&test.ChemicalReading)

		closure := "No"
		if decision.ShouldClose {
			closure = "YES"
		}
		actions := ""
		for j, action := range report.RequiredActions {
			if j > 0 {
				actions += "; "
			}
			actions += action
		}

		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), test.Timestamp.Format("2006-01-02 15:04:05"))
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), test.PoolID)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), string(report.Overall))
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), report.PassedTests)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), report.WarningTests)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), report.CriticalTests)
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), report.EmergencyTests)
		f.SetCellValue(sheetName, fmt.Sprintf("H%d", row), closure)
		f.SetCellValue(sheetName, fmt.Sprintf("I%d", row), actions)
	}

	// Format columns
	f.SetColWidth(sheetName, "A", "A", 20)
	f.SetColWidth(sheetName, "B", "H", 12)
	f.SetColWidth(sheetName, "I", "I", 50)

	return nil
}

// GenerateCSV creates CSV data for test history
func (es *ExportService) GenerateCSV(tests []models.PoolTest) ([][]string, error) {
	// CSV headers
	header := []string{"Timestamp", "Pool"}
	for _, chemical := range models.AllChemicals {
		standard := chemistry.StandardFor(chemical)
		name := standard.Description
		if standard.Unit != "" {
			name = fmt.Sprintf("%s (%s)", standard.Description, standard.Unit)
		}
		header = append(header, name)
	}
	header = append(header, "Overall")
	records := [][]string{header}

	// Add data rows
	for _, test := range tests {
		record := []string{
			test.Timestamp.Format("2006-01-02 15:04:05"),
			test.PoolID,
		}
		for _, chemical := range models.AllChemicals {
			if value, ok := test.Value(chemical); ok {
				record = append(record, chemistry.FormatValue(value, chemical))
			} else {
				record = append(record, "")
			}
		}
		report := chemistry.GenerateComplianceReport(&test.ChemicalReading)
		record = append(record, string(report.Overall))
		records = append(records, record)
	}

	return records, nil
}

// WriteCSV writes CSV data to a writer
func (es *ExportService) WriteCSV(w *csv.Writer, records [][]string) error {
	return w.WriteAll(records)
}
