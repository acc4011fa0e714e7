package auth

import "context"

// Account is a stored identity together with its password hash.
type Account struct {
	Principal
	PasswordHash string
}

// Profile holds the optional personal details captured at registration.
type Profile struct {
	FirstName   string
	LastName    string
	PhoneNumber string
}

// NewUser describes a user to be persisted by an IdentityGateway.
type NewUser struct {
	Username     string
	Email        string
	PasswordHash string
	Profile      Profile
	Roles        []RoleName
}

// IdentityGateway is the persistence boundary for user accounts. Lookups that match nothing
// return ErrIdentityNotFound; any other error is a storage failure.
type IdentityGateway interface {
	FindByUsernameOrEmail(ctx context.Context, identifier string) (*Account, error)
	FindByID(ctx context.Context, id string) (*Account, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user NewUser) (*Principal, error)
}
