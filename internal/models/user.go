package models

// User describes platform accounts and their role memberships.
type User struct {
	BaseModel

	Username string `gorm:"uniqueIndex;not null;size:50" json:"username"`
	Email    string `gorm:"uniqueIndex;not null;size:100" json:"email"`
	Password string `gorm:"not null" json:"-"`

	FirstName   string `gorm:"size:50" json:"first_name"`
	LastName    string `gorm:"size:50" json:"last_name"`
	PhoneNumber string `gorm:"size:20" json:"phone_number"`

	IsActive bool `gorm:"default:true" json:"is_active"`

	Roles []Role `gorm:"many2many:user_roles;" json:"roles,omitempty"`
}

// RoleNames returns the stored names of the user's roles.
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, role := range u.Roles {
		names = append(names, role.Name)
	}
	return names
}
