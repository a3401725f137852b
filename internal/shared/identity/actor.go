package identity

// Role is the access level of an authenticated user. Values are the wire
// strings stored with each user.
type Role string

const (
	RoleAdmin      Role = "Admin"
	RoleSupervisor Role = "Supervisor"
	RoleOperator   Role = "Operador"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleSupervisor, RoleOperator:
		return true
	default:
		return false
	}
}

// Actor is the authenticated user on whose behalf an operation runs.
type Actor struct {
	ID       string
	Username string
	FullName string
	Role     Role
	Zone     string
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// System is the actor used by administrative tooling.
func System() Actor {
	return Actor{ID: "system", Username: "system", FullName: "System", Role: RoleAdmin}
}
