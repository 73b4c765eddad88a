package domain

// Role is one of a fixed closed set of roles. There is no hierarchy between
// the non-admin roles; admin implies full access.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleDoctor       Role = "doctor"
	RoleNurse        Role = "nurse"
	RoleReceptionist Role = "receptionist"
	RolePatient      Role = "patient"
)

// DefaultRole is assigned to every self-registered identity, regardless of
// what the client supplied. Client-controlled privilege escalation at
// registration must be impossible.
const DefaultRole = RolePatient

// IsAdmin reports whether r is the privileged role. This is the only derived
// relation between roles.
func (r Role) IsAdmin() bool { return r == RoleAdmin }

// Valid reports whether r belongs to the closed role set.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleDoctor, RoleNurse, RoleReceptionist, RolePatient:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }
