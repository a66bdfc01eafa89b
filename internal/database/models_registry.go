package database

import "gavel/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
// Category precedes Listing and Bid precedes nothing it references so that
// AutoMigrate creates foreign keys in one pass.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Category{},
		&models.Listing{},
		&models.Bid{},
		&models.Comment{},
	}
}
