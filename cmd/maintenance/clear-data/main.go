package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/smarttransit/seat-admin/internal/config"
	"github.com/smarttransit/seat-admin/internal/database"
)

// Child tables first so the counts read naturally
var seatTables = []string{"trip_seat_prices", "trips", "buses"}

func main() {
	var (
		dbURLFlag string
		tripsOnly bool
	)
	flag.StringVar(&dbURLFlag, "database-url", "", "PostgreSQL connection string (overrides DATABASE_URL)")
	flag.BoolVar(&tripsOnly, "trips-only", false, "keep buses and their seat templates")
	flag.Parse()

	_ = godotenv.Load()

	dbURL := dbURLFlag
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set and -database-url was not provided")
	}

	db, err := database.NewConnection(config.DatabaseConfig{
		URL:                dbURL,
		MaxConnections:     2,
		MaxIdleConnections: 1,
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	tables := seatTables
	if tripsOnly {
		tables = seatTables[:2]
	}

	fmt.Println("Connected to database. Truncating seat tables...")
	for _, t := range tables {
		if _, err := db.Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", t)); err != nil {
			log.Fatalf("failed to truncate %s: %v", t, err)
		}
	}

	fmt.Println("Post-clear row counts:")
	for _, t := range seatTables {
		var count int
		if err := db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", t)).Scan(&count); err != nil {
			fmt.Printf("  %s: error: %v\n", t, err)
			continue
		}
		fmt.Printf("  %s: %d\n", t, count)
	}
}
