package models

// Role is the authorization level stored on a User
type Role string

const (
	RoleUser    Role = "user"
	RoleCreator Role = "creator"
	RoleAdmin   Role = "admin"
)

// CreatorOrAdmin is the role set allowed to author and judge contests
var CreatorOrAdmin = []Role{RoleCreator, RoleAdmin}

// ParseRole returns the Role named by s and whether it is one of the known roles
func ParseRole(s string) (Role, bool) {
	switch r := Role(s); r {
	case RoleUser, RoleCreator, RoleAdmin:
		return r, true
	}
	return "", false
}

// Satisfies reports whether r is one of the required roles.
// An empty requirement is satisfied by any role.
func (r Role) Satisfies(required ...Role) bool {
	if len(required) == 0 {
		return true
	}
	for _, req := range required {
		if r == req {
			return true
		}
	}
	return false
}
