package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"buildquote/models"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

var db *sql.DB

func InitDB() *sql.DB {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading configuration from environment")
	}
	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	dbname := os.Getenv("DB_NAME")
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")

	connStr := fmt.Sprintf("user=%s password=%s dbname=%s host=%s port=%s sslmode=disable",
		user, password, dbname, host, port)

	var err error
	db, err = sql.Open("postgres", connStr)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Set connection pool settings optimized for light server load
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	return db
}

func GetDB() *sql.DB {
	return db
}

// EnsureDirectorySchema creates the supplier directory table if it does
// not exist yet. The directory is the only raw-SQL surface; the RFQ flow
// itself persists nothing.
func EnsureDirectorySchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS supplier_directory (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			phone TEXT NOT NULL DEFAULT '',
			website TEXT NOT NULL DEFAULT '',
			address TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT '',
			photo TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			operational TEXT NOT NULL DEFAULT '',
			hours JSONB NOT NULL DEFAULT '{}',
			region TEXT NOT NULL DEFAULT '',
			area TEXT NOT NULL DEFAULT '',
			trade_type TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL DEFAULT ''
		)`)
	if err != nil {
		return fmt.Errorf("failed to create supplier_directory table: %v", err)
	}
	return nil
}

// SeedSuppliers loads data/suppliers.json into the directory table when
// the table is empty. The JSON file stays the source of truth; re-running
// the server never duplicates rows.
func SeedSuppliers(db *sql.DB, dataDir string) error {
	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM supplier_directory`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count suppliers: %v", err)
	}
	if count > 0 {
		return nil
	}

	raw, err := os.ReadFile(filepath.Join(dataDir, "suppliers.json"))
	if err != nil {
		return fmt.Errorf("failed to read suppliers.json: %v", err)
	}

	var suppliers []models.Supplier
	if err := json.Unmarshal(raw, &suppliers); err != nil {
		return fmt.Errorf("failed to parse suppliers.json: %v", err)
	}

	for _, s := range suppliers {
		hours, err := json.Marshal(s.Hours)
		if err != nil {
			hours = []byte("{}")
		}
		_, err = db.Exec(`
			INSERT INTO supplier_directory
				(name, phone, website, address, email, photo, description, operational, hours, region, area, trade_type, category)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
			s.Name, s.Phone, s.Website, s.Address, s.Email, s.Photo,
			s.Description, s.Operational, string(hours), s.Region, s.Area, s.TradeType, s.Category)
		if err != nil {
			return fmt.Errorf("failed to insert supplier %q: %v", s.Name, err)
		}
	}

	log.Printf("Seeded %d suppliers into directory", len(suppliers))
	return nil
}

// QuerySuppliers returns one page of directory entries matching the
// filters, plus the total matching count for pagination.
func QuerySuppliers(db *sql.DB, region, tradeType, search string, page, pageSize int) ([]models.Supplier, int, error) {
	where := " WHERE 1=1"
	args := []interface{}{}
	idx := 1

	if region != "" {
		where += fmt.Sprintf(" AND region = $%d", idx)
		args = append(args, region)
		idx++
	}
	if tradeType != "" {
		where += fmt.Sprintf(" AND trade_type = $%d", idx)
		args = append(args, tradeType)
		idx++
	}
	if search != "" {
		where += fmt.Sprintf(" AND (name ILIKE $%d OR description ILIKE $%d OR category ILIKE $%d)", idx, idx, idx)
		args = append(args, "%"+search+"%")
		idx++
	}

	var total int
	if err := db.QueryRow(`SELECT COUNT(*) FROM supplier_directory`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count suppliers: %v", err)
	}

	query := `
		SELECT id, name, phone, website, address, email, photo, description, operational, hours, region, area, trade_type, category
		FROM supplier_directory` + where + fmt.Sprintf(" ORDER BY name ASC LIMIT $%d OFFSET $%d", idx, idx+1)
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query suppliers: %v", err)
	}
	defer rows.Close()

	var suppliers []models.Supplier
	for rows.Next() {
		var s models.Supplier
		var hoursRaw []byte
		if err := rows.Scan(&s.ID, &s.Name, &s.Phone, &s.Website, &s.Address, &s.Email, &s.Photo,
			&s.Description, &s.Operational, &hoursRaw, &s.Region, &s.Area, &s.TradeType, &s.Category); err != nil {
			return nil, 0, fmt.Errorf("failed to scan supplier: %v", err)
		}
		if err := json.Unmarshal(hoursRaw, &s.Hours); err != nil {
			s.Hours = map[string][]string{}
		}
		suppliers = append(suppliers, s)
	}

	return suppliers, total, rows.Err()
}

// QuerySupplierRegions returns the distinct regions present in the
// directory with a supplier count per region.
func QuerySupplierRegions(db *sql.DB) (map[string]int, error) {
	rows, err := db.Query(`SELECT region, COUNT(*) FROM supplier_directory GROUP BY region ORDER BY region`)
	if err != nil {
		return nil, fmt.Errorf("failed to query regions: %v", err)
	}
	defer rows.Close()

	regions := map[string]int{}
	for rows.Next() {
		var region string
		var count int
		if err := rows.Scan(&region, &count); err != nil {
			return nil, fmt.Errorf("failed to scan region: %v", err)
		}
		regions[region] = count
	}

	return regions, rows.Err()
}
