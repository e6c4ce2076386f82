package database

import (
	"database/sql"
	"fmt"
	"log"
)

// CreateTables creates all necessary tables for the PoolCheck system
func CreateTables(db *sql.DB) error {
	log.Println("Creating database tables...")

	// Create pool_tests table - stores every logged chemical test.
	// Chemical columns are nullable because partial readings are valid;
	// the CHECK constraints mirror the structural (physical) bounds only.
	poolTestsTable := `
	CREATE TABLE IF NOT EXISTS pool_tests (
		id SERIAL PRIMARY KEY,
		pool_id VARCHAR(100) NOT NULL DEFAULT 'main',
		timestamp TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
		taken_by VARCHAR(100),
		notes TEXT,
		free_chlorine DECIMAL(6,2) CHECK (free_chlorine IS NULL OR free_chlorine >= 0),
		total_chlorine DECIMAL(6,2) CHECK (total_chlorine IS NULL OR total_chlorine >= 0),
		ph DECIMAL(4,2) CHECK (ph IS NULL OR (ph >= 0 AND ph <= 14)),
		alkalinity DECIMAL(6,2) CHECK (alkalinity IS NULL OR alkalinity >= 0),
		cyanuric_acid DECIMAL(6,2) CHECK (cyanuric_acid IS NULL OR cyanuric_acid >= 0),
		calcium DECIMAL(7,2) CHECK (calcium IS NULL OR calcium >= 0),
		temperature DECIMAL(5,2) CHECK (temperature IS NULL OR (temperature >= 32 AND temperature <= 120)),
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		CONSTRAINT unique_pool_timestamp UNIQUE(pool_id, timestamp)
	);`

	if _, err := db.Exec(poolTestsTable); err != nil {
		return fmt.Errorf("failed to create pool_tests table: %w", err)
	}

	// Create pool_status table - stores current operational state of pools
	poolStatusTable := `
	CREATE TABLE IF NOT EXISTS pool_status (
		id SERIAL PRIMARY KEY,
		pool_id VARCHAR(100) UNIQUE NOT NULL,
		last_tested TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		is_open BOOLEAN DEFAULT true,
		total_tests INTEGER DEFAULT 0,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);`

	if _, err := db.Exec(poolStatusTable); err != nil {
		return fmt.Errorf("failed to create pool_status table: %w", err)
	}

	// Insert default status for the main pool
	insertDefaultPool := `
	INSERT INTO pool_status (pool_id, last_tested, is_open, total_tests)
	VALUES ('main', NOW(), true, 0)
	ON CONFLICT (pool_id) DO NOTHING;`

	if _, err := db.Exec(insertDefaultPool); err != nil {
		log.Printf("Warning: Failed to insert default pool status: %v", err)
	}

	// Create indexes for better performance
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_pool_tests_timestamp ON pool_tests(timestamp DESC);",
		"CREATE INDEX IF NOT EXISTS idx_pool_tests_pool_id ON pool_tests(pool_id);",
		"CREATE INDEX IF NOT EXISTS idx_pool_status_pool_id ON pool_status(pool_id);",
	}

	for _, indexSQL := range indexes {
		if _, err := db.Exec(indexSQL); err != nil {
			log.Printf("Warning: Failed to create index: %v", err)
		}
	}

	log.Println("✅ Database tables created successfully")
	return nil
}

// DropTables drops all tables (useful for testing)
func DropTables(db *sql.DB) error {
	log.Println("Dropping database tables...")

	tables := []string{
		"pool_tests",
		"pool_status",
	}

	for _, table := range tables {
		query := fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE;", table)
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}

	log.Println("✅ Database tables dropped successfully")
	return nil
}

// CheckTablesExist checks if all required tables exist
func CheckTablesExist(db *sql.DB) error {
	requiredTables := []string{
		"pool_tests",
		"pool_status",
	}

	for _, table := range requiredTables {
		var exists bool
		query := `SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_name = $1
		);`

		err := db.QueryRow(query, table).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check table %s: %w", table, err)
		}

		if !exists {
			return fmt.Errorf("table %s does not exist", table)
		}
	}

	log.Println("✅ All required tables exist")
	return nil
}
