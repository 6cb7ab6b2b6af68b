package models

import (
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// Database connection instance
var DB *gorm.DB

// InitDB opens the embedded SQLite database and migrates the schema.
func InitDB(config DatabaseConfig) (*gorm.DB, error) {
	var err error

	DB, err = gorm.Open(sqlite.Open(config.Path), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// Auto migrate the database models
	err = DB.AutoMigrate(
		&User{},
		&Patient{},
		&Staff{},
		&Visit{},
		&CustomField{},
		&CustomValue{},
	)
	if err != nil {
		return nil, err
	}

	return DB, nil
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path string
}
