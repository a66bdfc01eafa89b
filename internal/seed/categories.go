package seed

import (
	_ "embed"
	"fmt"

	"gavel/internal/models"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:embed categories.yml
var categoriesYAML []byte

type categoryPreset struct {
	Categories []string `yaml:"categories"`
}

// BuiltInCategories returns the category names shipped with the application.
func BuiltInCategories() ([]string, error) {
	var preset categoryPreset
	if err := yaml.Unmarshal(categoriesYAML, &preset); err != nil {
		return nil, fmt.Errorf("parse category preset: %w", err)
	}
	return preset.Categories, nil
}

// Categories seeds the built-in categories. Existing rows are left alone, so
// running it repeatedly is safe.
func Categories(db *gorm.DB) error {
	names, err := BuiltInCategories()
	if err != nil {
		return err
	}

	for _, name := range names {
		category := models.Category{Name: name}
		if err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).Create(&category).Error; err != nil {
			return fmt.Errorf("seed category %q: %w", name, err)
		}
	}
	return nil
}
