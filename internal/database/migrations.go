package database

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/JamesWuVip/wanli-academy-backend-sub000/internal/models"
)

// schemaModels lists the tables in dependency order.
func schemaModels() []any {
	return []any{
		&models.Role{},
		&models.User{},
		&models.Assignment{},
		&models.Submission{},
		&models.AssignmentFile{},
	}
}

var systemRoles = []models.Role{
	{Name: models.RoleNameAdmin, Description: "System administrator with full access"},
	{Name: models.RoleNameStudent, Description: "Student who can view and submit assignments"},
	{Name: models.RoleNameHQTeacher, Description: "Head-office teacher who creates and manages assignments"},
	{Name: models.RoleNameFranchiseTeacher, Description: "Franchise teacher who reviews and grades assignments"},
}

// AutoMigrate creates or updates the schema for every persisted model.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(schemaModels()...)
}

// SeedData inserts the system roles in one transaction. Existing rows are left untouched.
func SeedData(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, def := range systemRoles {
			def.IsSystem = true
			if _, err := EnsureRole(tx, def); err != nil {
				return err
			}
		}
		return nil
	})
}

// AutoMigrateAndSeed brings the schema up to date and seeds the system roles.
func AutoMigrateAndSeed(db *gorm.DB) error {
	if db == nil {
		return errors.New("nil database handle")
	}
	if err := AutoMigrate(db); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	if err := SeedData(db); err != nil {
		return fmt.Errorf("seed data: %w", err)
	}
	return nil
}
