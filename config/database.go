package config

import (
	"fmt"
	"log"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// ConnectDatabase opens the database behind databaseURL and stores it as the process-wide handle.
// URLs starting with postgres:// or postgresql:// use PostgreSQL, anything else is a SQLite path.
func ConnectDatabase(databaseURL string) error {
	db, err := OpenDatabase(databaseURL)
	if err != nil {
		return err
	}
	DB = db
	log.Println("Database connection established successfully")
	return nil
}

// OpenDatabase opens a gorm handle without touching the process-wide one
func OpenDatabase(databaseURL string) (*gorm.DB, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("database URL is required")
	}

	gormCfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}

	var dialector gorm.Dialector
	if isPostgresURL(databaseURL) {
		dialector = postgres.Open(databaseURL)
	} else {
		dialector = sqlite.Open(sqliteDSN(databaseURL))
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}

// SetDB sets the database instance (primarily for testing)
func SetDB(db *gorm.DB) {
	DB = db
}

func isPostgresURL(u string) bool {
	return strings.HasPrefix(u, "postgres://") || strings.HasPrefix(u, "postgresql://")
}

// sqliteDSN turns on foreign key enforcement so request images cascade with their request
func sqliteDSN(path string) string {
	if strings.Contains(path, "_foreign_keys") {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on"
}
