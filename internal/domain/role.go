package domain

// Role is the closed set of profile roles. It decides which dashboard an
// identity lands on and which guarded routes it may open.
type Role string

const (
	RoleSaaSAdmin     Role = "saas_admin"
	RoleBusinessOwner Role = "business_owner"
	RoleProfessional  Role = "professional"
	RoleClient        Role = "client"
)

// Landing paths used by the Role -> Route map and by the guard.
const (
	PathRoot                  = "/"
	PathLogin                 = "/login"
	PathAdminDashboard        = "/admin/dashboard"
	PathBusinessDashboard     = "/negocio/dashboard"
	PathProfessionalDashboard = "/profissional/dashboard"
)

var roleHome = map[Role]string{
	RoleSaaSAdmin:     PathAdminDashboard,
	RoleBusinessOwner: PathBusinessDashboard,
	RoleProfessional:  PathProfessionalDashboard,
	RoleClient:        PathRoot,
}

// AllRoles lists the canonical roles in a stable order.
func AllRoles() []Role {
	return []Role{RoleSaaSAdmin, RoleBusinessOwner, RoleProfessional, RoleClient}
}

// Valid reports whether r belongs to the canonical set. Legacy labels such
// as "admin" are not accepted.
func (r Role) Valid() bool {
	_, ok := roleHome[r]
	return ok
}

// ParseRole converts a stored role label into a Role.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	return r, r.Valid()
}

// RoleHome returns the landing path for a role. Unknown and empty roles
// land on "/".
func RoleHome(r Role) string {
	if p, ok := roleHome[r]; ok {
		return p
	}
	return PathRoot
}
