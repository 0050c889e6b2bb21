package roles

// Role is the permission level carried in the JWT.
type Role string

const (
	Admin            Role = "admin"
	BaseCommander    Role = "base_commander"
	LogisticsOfficer Role = "logistics_officer"
)

// IsValid reports whether the role is one of the known roles.
func (r Role) IsValid() bool {
	switch r {
	case Admin, BaseCommander, LogisticsOfficer:
		return true
	default:
		return false
	}
}

// OneOf reports whether the role is contained in the allowed set.
func (r Role) OneOf(allowed ...Role) bool {
	for _, a := range allowed {
		if r == a {
			return true
		}
	}
	return false
}

func (r Role) String() string {
	return string(r)
}
