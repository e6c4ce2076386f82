package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"

	"github.com/PoolCheck-App/poolcheck_backend/config"
	"github.com/PoolCheck-App/poolcheck_backend/internal/database"
)

func main() {
	var (
		table = flag.String("table", "pool_tests", "Table to view (pool_tests, pool_status)")
		limit = flag.Int("limit", 10, "Number of records to show")
	)
	flag.Parse()

	log.Println("🔍 PoolCheck Database Viewer")
	log.Println("============================")

	// Load configuration
	cfg := config.Load()

	// Connect to database
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer db.Close()

	log.Printf("✅ Connected to database: %s@%s:%s/%s",
		cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	switch *table {
	case "pool_tests":
		viewPoolTests(db, *limit)
	case "pool_status":
		viewPoolStatus(db, *limit)
	default:
		log.Printf("Unknown table: %s", *table)
		log.Println("Available tables: pool_tests, pool_status")
	}
}

func viewPoolTests(db *database.DB, limit int) {
	query := `
		SELECT id, pool_id, timestamp, free_chlorine, total_chlorine, ph,
		       alkalinity, cyanuric_acid, calcium, temperature
		FROM pool_tests
		ORDER BY timestamp DESC
		LIMIT $1`

	rows, err := db.Query(query, limit)
	if err != nil {
		log.Fatalf("❌ Query failed: %v", err)
	}
	defer rows.Close()

	fmt.Printf("\n🧪 Latest %d Pool Tests:\n", limit)
	fmt.Println("=====================================")
	fmt.Printf("%-4s %-10s %-20s %-6s %-6s %-5s %-6s %-5s %-7s %-6s\n",
		"ID", "Pool", "Timestamp", "FC", "TC", "pH", "Alk", "CYA", "Ca", "Temp")
	fmt.Println("---------------------------------------------------------------------------------")

	count := 0
	for rows.Next() {
		var id int
		var poolID, timestamp string
		var fc, tc, ph, alk, cya, ca, temp sql.NullFloat64

		err := rows.Scan(&id, &poolID, &timestamp, &fc, &tc, &ph, &alk, &cya, &ca, &temp)
		if err != nil {
			log.Printf("❌ Error scanning row: %v", err)
			continue
		}

		fmt.Printf("%-4d %-10s %-20s %-6s %-6s %-5s %-6s %-5s %-7s %-6s\n",
			id, poolID, timestamp[:19],
			formatNullable(fc, 1), formatNullable(tc, 1), formatNullable(ph, 1),
			formatNullable(alk, 0), formatNullable(cya, 0), formatNullable(ca, 0),
			formatNullable(temp, 0))
		count++
	}

	if count == 0 {
		fmt.Println("No pool tests found.")
	} else {
		fmt.Printf("\nTotal: %d tests\n", count)
	}
}

func viewPoolStatus(db *database.DB, limit int) {
	query := `
		SELECT id, pool_id, last_tested, is_open, total_tests
		FROM pool_status
		ORDER BY pool_id
		LIMIT $1`

	rows, err := db.Query(query, limit)
	if err != nil {
		log.Fatalf("❌ Query failed: %v", err)
	}
	defer rows.Close()

	fmt.Printf("\n🏊 Pool Status:\n")
	fmt.Println("=====================================")
	fmt.Printf("%-4s %-12s %-20s %-8s %-12s\n",
		"ID", "Pool", "Last Tested", "Open", "Total Tests")
	fmt.Println("-----------------------------------------------------------")

	count := 0
	for rows.Next() {
		var id, totalTests int
		var poolID, lastTested string
		var isOpen bool

		err := rows.Scan(&id, &poolID, &lastTested, &isOpen, &totalTests)
		if err != nil {
			log.Printf("❌ Error scanning row: %v", err)
			continue
		}

		open := "yes"
		if !isOpen {
			open = "NO"
		}
		fmt.Printf("%-4d %-12s %-20s %-8s %-12d\n",
			id, poolID, lastTested[:19], open, totalTests)
		count++
	}

	if count == 0 {
		fmt.Println("No pool status records found.")
	}
}

func formatNullable(v sql.NullFloat64, precision int) string {
	if !v.Valid {
		return "-"
	}
	return fmt.Sprintf("%.*f", precision, v.Float64)
}
