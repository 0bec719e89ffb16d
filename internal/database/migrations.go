package database

import (
	"fmt"

	"gorm.io/gorm"
)

type indexSpec struct {
	table   string
	name    string
	columns string
}

// Composite indexes that AutoMigrate cannot express from struct tags
var indexes = []indexSpec{
	// Day view: a user's tasks filtered by creation day
	{"tasks", "idx_tasks_user_created", "user_id, created_at"},
	// Dashboard: status tallies and deadline checks
	{"tasks", "idx_tasks_status_deadline", "status, deadline"},
}

// AddIndexes creates the composite indexes that are not already present.
func AddIndexes(db *gorm.DB) error {
	migrator := db.Migrator()
	for _, idx := range indexes {
		if migrator.HasIndex(idx.table, idx.name) {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}

	return nil
}

// MigrateDatabase runs AutoMigrate and then adds the composite indexes
func MigrateDatabase(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := AddIndexes(db); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}

	return nil
}
