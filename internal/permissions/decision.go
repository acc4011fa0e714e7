package permissions

// Decision is the outcome of a permission rule. NotFound is distinct from Deny so callers can
// answer 404 rather than 403.
type Decision int

const (
	Deny Decision = iota
	Allow
	NotFound
)

// Allowed reports whether the decision grants access.
func (d Decision) Allowed() bool {
	return d == Allow
}

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case NotFound:
		return "not_found"
	default:
		return "deny"
	}
}

func decide(allowed bool) Decision {
	if allowed {
		return Allow
	}
	return Deny
}
