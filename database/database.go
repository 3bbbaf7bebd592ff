package database

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"srhbot/config"
	"srhbot/models"
)

var DB *gorm.DB

// Init opens the database named by the application config and stores it in DB.
func Init() (*gorm.DB, error) {
	db, err := Open(config.AppConfig.Database.DSN)
	if err != nil {
		return nil, err
	}
	DB = db
	return DB, nil
}

// Open connects to a SQLite database and migrates the schema.
// "memory" (or empty) selects a shared in-memory database, a "file:" URI is
// passed through unchanged, anything else is a file path whose directory is
// created when missing.
func Open(dsn string) (*gorm.DB, error) {
	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	gormConfig := &gorm.Config{Logger: gormLogger}

	switch {
	case dsn == "memory" || dsn == "":
		log.Println("INFO: [Database] Initializing in-memory SQLite database.")
		dsn = "file::memory:?cache=shared"
	case strings.HasPrefix(dsn, "file:"):
		log.Printf("INFO: [Database] Initializing SQLite database from URI '%s'.", dsn)
	default:
		log.Printf("INFO: [Database] Initializing file-based SQLite database at '%s'.", dsn)
		if dir := filepath.Dir(dsn); dir != "." && dir != "/" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory '%s': %w", dir, err)
			}
		}
	}

	db, err := gorm.Open(sqlite.Open(dsn), gormConfig)
	if err != nil {
		log.Printf("ERROR: [Database] Failed to connect to database (DSN: '%s'): %v", dsn, err)
		return nil, fmt.Errorf("failed to connect to database (DSN: '%s'): %w", dsn, err)
	}

	if err := db.AutoMigrate(&models.UserProfile{}, &models.ChatMessage{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	log.Println("INFO: [Database] Database connection established successfully.")
	return db, nil
}

// GetDB returns the global database instance.
func GetDB() *gorm.DB {
	if DB == nil {
		log.Fatal("FATAL: [Database] Database instance has not been initialized. Call database.Init() first.")
	}
	return DB
}
