package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/JamesWuVip/wanli-academy-backend-sub000/internal/auth"
	"github.com/JamesWuVip/wanli-academy-backend-sub000/internal/database"
	"github.com/JamesWuVip/wanli-academy-backend-sub000/internal/models"
)

// storedRoleNames maps normalised roles onto the names persisted in the roles table.
var storedRoleNames = map[auth.RoleName]string{
	auth.RoleAdmin:   models.RoleNameAdmin,
	auth.RoleTeacher: models.RoleNameHQTeacher,
	auth.RoleStudent: models.RoleNameStudent,
}

// IdentityStore persists user accounts and implements auth.IdentityGateway.
type IdentityStore struct {
	db *gorm.DB
}

var _ auth.IdentityGateway = (*IdentityStore)(nil)

// NewIdentityStore constructs an IdentityStore instance.
func NewIdentityStore(db *gorm.DB) (*IdentityStore, error) {
	if db == nil {
		return nil, errors.New("identity store: db is required")
	}
	return &IdentityStore{db: db}, nil
}

// FindByUsernameOrEmail resolves an account by case-insensitive username or email.
func (s *IdentityStore) FindByUsernameOrEmail(ctx context.Context, identifier string) (*auth.Account, error) {
	ctx = ensureContext(ctx)

	identity := strings.TrimSpace(identifier)
	if identity == "" {
		return nil, auth.ErrIdentityNotFound
	}

	var user models.User
	err := s.db.WithContext(ctx).
		Preload("Roles").
		Where("LOWER(username) = LOWER(?) OR LOWER(email) = LOWER(?)", identity, identity).
		Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, auth.ErrIdentityNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("identity store: find user: %w", err)
	}

	return toAccount(&user), nil
}

// FindByID resolves an account by its identifier.
func (s *IdentityStore) FindByID(ctx context.Context, id string) (*auth.Account, error) {
	user, err := s.GetUser(ctx, id)
	if errors.Is(err, ErrUserNotFound) {
		return nil, auth.ErrIdentityNotFound
	}
	if err != nil {
		return nil, err
	}
	return toAccount(user), nil
}

// ExistsByUsername reports whether any account uses the username, ignoring case.
func (s *IdentityStore) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return s.exists(ctx, "username", username)
}

// ExistsByEmail reports whether any account uses the email, ignoring case.
func (s *IdentityStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return s.exists(ctx, "email", email)
}

func (s *IdentityStore) exists(ctx context.Context, column, value string) (bool, error) {
	ctx = ensureContext(ctx)

	value = strings.TrimSpace(value)
	if value == "" {
		return false, nil
	}

	var count int64
	if err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where(fmt.Sprintf("LOWER(%s) = LOWER(?)", column), value).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("identity store: check %s: %w", column, err)
	}
	return count > 0, nil
}

// Create persists a new active user together with its roles. Uniqueness races surface as
// auth.ErrDuplicateUsername or auth.ErrDuplicateEmail.
func (s *IdentityStore) Create(ctx context.Context, input auth.NewUser) (*auth.Principal, error) {
	ctx = ensureContext(ctx)

	user := &models.User{
		Username:    strings.TrimSpace(input.Username),
		Email:       strings.ToLower(strings.TrimSpace(input.Email)),
		Password:    input.PasswordHash,
		FirstName:   input.Profile.FirstName,
		LastName:    input.Profile.LastName,
		PhoneNumber: input.Profile.PhoneNumber,
		IsActive:    true,
	}

	roleNames := make([]string, 0, len(input.Roles))
	for _, role := range input.Roles {
		if name, ok := storedRoleNames[role]; ok {
			roleNames = append(roleNames, name)
		}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		if err := database.AssignRoles(tx, user, roleNames...); err != nil {
			return fmt.Errorf("identity store: assign roles: %w", err)
		}
		return tx.Preload("Roles").Take(user, "id = ?", user.ID).Error
	})
	if err != nil {
		if isUniqueConstraintError(err) {
			switch uniqueViolationColumn(err, "username", "email") {
			case "username":
				return nil, auth.ErrDuplicateUsername
			case "email":
				return nil, auth.ErrDuplicateEmail
			}
		}
		return nil, fmt.Errorf("identity store: create user: %w", err)
	}

	principal := toAccount(user).Principal
	return &principal, nil
}

// GetUser loads the full user row including roles.
func (s *IdentityStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	ctx = ensureContext(ctx)

	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrUserNotFound
	}

	var user models.User
	err := s.db.WithContext(ctx).Preload("Roles").Take(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("identity store: get user: %w", err)
	}
	return &user, nil
}

// GrantRoles attaches stored role names (for example ROLE_HQ_TEACHER) to the user.
func (s *IdentityStore) GrantRoles(ctx context.Context, id string, names ...string) error {
	ctx = ensureContext(ctx)

	user, err := s.GetUser(ctx, id)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return database.AssignRoles(tx, user, compactNames(names)...)
	})
}

// SetActive toggles whether the user may authenticate.
func (s *IdentityStore) SetActive(ctx context.Context, id string, active bool) error {
	ctx = ensureContext(ctx)

	result := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("is_active", active)
	if result.Error != nil {
		return fmt.Errorf("identity store: update user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func toAccount(user *models.User) *auth.Account {
	return &auth.Account{
		Principal: auth.Principal{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
			IsActive: user.IsActive,
			Roles:    auth.ParseRoleSet(user.RoleNames()...),
		},
		PasswordHash: user.Password,
	}
}
