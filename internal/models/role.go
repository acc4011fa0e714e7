package models

// Stored role names seeded at startup.
const (
	RoleNameAdmin            = "ROLE_ADMIN"
	RoleNameHQTeacher        = "ROLE_HQ_TEACHER"
	RoleNameFranchiseTeacher = "ROLE_FRANCHISE_TEACHER"
	RoleNameStudent          = "ROLE_STUDENT"
)

type Role struct {
	BaseModel

	Name        string `gorm:"uniqueIndex;not null;size:50" json:"name"`
	Description string `json:"description"`
	IsSystem    bool   `gorm:"default:false" json:"is_system"`

	Users []User `gorm:"many2many:user_roles;" json:"users,omitempty"`
}
