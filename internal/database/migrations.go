package database

import (
	"fmt"

	"gorm.io/gorm"
)

// MigrateSchema creates or updates the properties table and its indexes.
func MigrateSchema(db *gorm.DB) error {
	if err := db.AutoMigrate(&PropertyRow{}); err != nil {
		return fmt.Errorf("failed to migrate properties table: %w", err)
	}
	return nil
}

func (d *Database) RunMigrations() error {
	return MigrateSchema(d.db)
}
