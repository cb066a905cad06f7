package document

// Role represents an actor role within an organization
type Role string

const (
	RoleAgent       Role = "AGENT"
	RoleManager     Role = "MANAGER"
	RoleResponsible Role = "RESPONSIBLE"
	RoleAccountant  Role = "ACCOUNTANT"
	RoleDirector    Role = "DIRECTOR"
	RoleSuperAdmin  Role = "SUPER_ADMIN"
)

var validRoles = map[Role]bool{
	RoleAgent:       true,
	RoleManager:     true,
	RoleResponsible: true,
	RoleAccountant:  true,
	RoleDirector:    true,
	RoleSuperAdmin:  true,
}

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}

// IsValid returns true if the role is a known role
func (r Role) IsValid() bool {
	return validRoles[r]
}

// Actor is the identity triple supplied by the authentication layer.
// The engine trusts it as-is; issuing and verifying credentials is the
// collaborator's concern.
type Actor struct {
	ID             string
	Role           Role
	OrganizationID int64
}

// CanReadAcrossTenants returns true if the actor may read documents of
// other organizations. Super admins read everywhere but never transition.
func (a Actor) CanReadAcrossTenants() bool {
	return a.Role == RoleSuperAdmin
}
