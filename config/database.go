package config

import (
	"fmt"
	"log"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

// ConnectDatabase establishes a connection to the database backing the local
// row store. A postgres:// URL selects the PostgreSQL driver; anything else
// is treated as a SQLite path (":memory:" included).
func ConnectDatabase(databaseURL string) error {
	if databaseURL == "" {
		databaseURL = "quotevend.db"
		log.Println("DATABASE_URL not set, using local SQLite file:", databaseURL)
	}

	var err error
	if strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://") {
		DB, err = gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
	} else {
		DB, err = gorm.Open(sqlite.Open(databaseURL), &gorm.Config{})
	}
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Println("Database connection established successfully")
	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}

// SetDB sets the database instance (primarily for testing)
func SetDB(db *gorm.DB) {
	DB = db
}
