package database

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/JamesWuVip/wanli-academy-backend-sub000/internal/models"
)

// EnsureRole returns the role with the given name, creating it from def when absent.
func EnsureRole(db *gorm.DB, def models.Role) (*models.Role, error) {
	name := strings.TrimSpace(def.Name)
	if name == "" {
		return nil, errors.New("role name is required")
	}
	def.Name = name

	var role models.Role
	if err := db.Where(models.Role{Name: name}).Attrs(def).FirstOrCreate(&role).Error; err != nil {
		return nil, fmt.Errorf("ensure role %s: %w", name, err)
	}
	return &role, nil
}

// AssignRoles attaches the named roles to the user, creating missing role rows. Roles the user
// already holds are skipped.
func AssignRoles(db *gorm.DB, user *models.User, names ...string) error {
	if user == nil || user.ID == "" {
		return errors.New("assign roles: persisted user is required")
	}
	if len(names) == 0 {
		return nil
	}

	var existing []models.Role
	if err := db.Model(user).Association("Roles").Find(&existing); err != nil {
		return err
	}
	current := make(map[string]struct{}, len(existing))
	for _, role := range existing {
		current[role.Name] = struct{}{}
	}

	toAttach := make([]models.Role, 0, len(names))
	for _, name := range names {
		if _, ok := current[name]; ok {
			continue
		}
		role, err := EnsureRole(db, models.Role{Name: name})
		if err != nil {
			return err
		}
		current[name] = struct{}{}
		toAttach = append(toAttach, *role)
	}
	if len(toAttach) == 0 {
		return nil
	}

	return db.Model(user).Association("Roles").Append(toAttach)
}
