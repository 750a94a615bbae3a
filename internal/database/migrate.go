package database

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/b-learning-api/internal/models"
)

// Migrate creates or updates every table and seeds the default roles.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.Course{},
		&models.Module{},
		&models.Lecture{},
		&models.Enrollment{},
		&models.Submission{},
		&models.SubmissionGradeHistory{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	for _, name := range models.DefaultRoles {
		role := models.Role{Name: name}
		if err := db.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).Create(&role).Error; err != nil {
			return fmt.Errorf("failed to seed role %s: %w", name, err)
		}
	}

	return nil
}
