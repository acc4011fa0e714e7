package auth

import (
	"sort"
	"strings"
)

// RoleName is the normalised role tag carried by a Principal.
type RoleName string

const (
	RoleStudent RoleName = "STUDENT"
	RoleTeacher RoleName = "TEACHER"
	RoleAdmin   RoleName = "ADMIN"
)

// DefaultRole is granted to every self-registered account.
const DefaultRole = RoleStudent

// Rank orders roles so that a higher role includes the capabilities of every lower one.
// Unknown roles rank zero and satisfy nothing.
func (r RoleName) Rank() int {
	switch r {
	case RoleStudent:
		return 1
	case RoleTeacher:
		return 2
	case RoleAdmin:
		return 3
	default:
		return 0
	}
}

// Valid reports whether r is one of the known roles.
func (r RoleName) Valid() bool {
	return r.Rank() > 0
}

// ParseRoleName maps a stored role name onto a RoleName. Stored names carry the legacy
// "ROLE_" prefix and distinguish head-office and franchise teachers; both collapse to TEACHER.
func ParseRoleName(raw string) (RoleName, bool) {
	name := strings.ToUpper(strings.TrimSpace(raw))
	name = strings.TrimPrefix(name, "ROLE_")

	switch name {
	case "ADMIN":
		return RoleAdmin, true
	case "TEACHER", "HQ_TEACHER", "FRANCHISE_TEACHER":
		return RoleTeacher, true
	case "STUDENT":
		return RoleStudent, true
	default:
		return "", false
	}
}

// RoleSet is an unordered set of roles.
type RoleSet map[RoleName]struct{}

// NewRoleSet builds a set from the supplied roles, ignoring unknown values.
func NewRoleSet(roles ...RoleName) RoleSet {
	set := make(RoleSet, len(roles))
	for _, role := range roles {
		if role.Valid() {
			set[role] = struct{}{}
		}
	}
	return set
}

// ParseRoleSet normalises stored role names into a RoleSet. Unrecognised names are dropped.
func ParseRoleSet(names ...string) RoleSet {
	set := make(RoleSet, len(names))
	for _, raw := range names {
		if role, ok := ParseRoleName(raw); ok {
			set[role] = struct{}{}
		}
	}
	return set
}

// Has reports whether the role is a literal member of the set.
func (s RoleSet) Has(role RoleName) bool {
	_, ok := s[role]
	return ok
}

// Rank returns the highest rank held by any member of the set.
func (s RoleSet) Rank() int {
	best := 0
	for role := range s {
		if r := role.Rank(); r > best {
			best = r
		}
	}
	return best
}

// AtLeast reports whether the set grants the required role directly or through a higher one.
func (s RoleSet) AtLeast(required RoleName) bool {
	if !required.Valid() {
		return false
	}
	return s.Rank() >= required.Rank()
}

// Names returns the roles in a stable order.
func (s RoleSet) Names() []string {
	out := make([]string, 0, len(s))
	for role := range s {
		out = append(out, string(role))
	}
	sort.Strings(out)
	return out
}

// Principal is the read-only identity an authorization decision is made for.
type Principal struct {
	ID       string
	Username string
	Email    string
	IsActive bool
	Roles    RoleSet
}

// IsAdmin reports whether the principal holds the admin role.
func (p Principal) IsAdmin() bool {
	return p.Roles.AtLeast(RoleAdmin)
}

// IsTeacher reports whether the principal holds teacher privileges (admins included).
func (p Principal) IsTeacher() bool {
	return p.Roles.AtLeast(RoleTeacher)
}

// IsStudent reports whether the principal holds student visibility. Teachers and admins
// qualify as well.
func (p Principal) IsStudent() bool {
	return p.Roles.AtLeast(RoleStudent)
}
