package database

import (
	"fmt"

	"gorm.io/gorm"
)

// Migrate auto-migrates the given models in order. Callers own the model
// list so this package stays free of domain imports.
func Migrate(db *gorm.DB, models ...any) error {
	for _, m := range models {
		if err := db.AutoMigrate(m); err != nil {
			return fmt.Errorf("database: migrate %T: %w", m, err)
		}
	}
	return nil
}
