package constants

// Role is a profile role as stored in the profiles table
type Role string

const (
	RoleUser      Role = "user"
	RoleOrganizer Role = "organizer"
	RoleAdmin     Role = "admin"
)

func (r Role) String() string {
	return string(r)
}

// IsStaff reports whether the role carries contest-management rights
func (r Role) IsStaff() bool {
	return r == RoleOrganizer || r == RoleAdmin
}

// ParseRole maps an arbitrary string to a known role, defaulting to user
func ParseRole(s string) Role {
	switch s {
	case string(RoleAdmin):
		return RoleAdmin
	case string(RoleOrganizer):
		return RoleOrganizer
	default:
		return RoleUser
	}
}
