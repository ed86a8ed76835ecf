package access

import (
	"strings"

	"github.com/boddenberg/agenda-bfa-go/internal/domain"
)

// Route declares how a front-end path prefix is guarded.
type Route struct {
	Prefix       string
	AllowedRoles []domain.Role
	RequireAuth  bool
}

// RouteTable maps front-end paths to their guard configuration.
type RouteTable struct {
	routes []Route
}

// NewRouteTable builds a table from the given routes.
func NewRouteTable(routes ...Route) *RouteTable {
	return &RouteTable{routes: routes}
}

// DefaultRoutes is the route set of the scheduling front end.
func DefaultRoutes() *RouteTable {
	return NewRouteTable(
		Route{Prefix: "/admin", AllowedRoles: []domain.Role{domain.RoleSaaSAdmin}, RequireAuth: true},
		Route{Prefix: "/negocio", AllowedRoles: []domain.Role{domain.RoleBusinessOwner}, RequireAuth: true},
		Route{Prefix: "/profissional", AllowedRoles: []domain.Role{domain.RoleProfessional}, RequireAuth: true},
		Route{Prefix: "/agendamentos", RequireAuth: true},
		Route{Prefix: "/perfil", RequireAuth: true},
		Route{Prefix: domain.PathLogin, RequireAuth: false},
		Route{Prefix: "/cadastro", RequireAuth: false},
		Route{Prefix: domain.PathRoot, RequireAuth: false},
	)
}

// Lookup returns the route with the longest prefix matching path on a
// segment boundary. Unknown paths resolve to a public route.
func (t *RouteTable) Lookup(path string) Route {
	best := Route{Prefix: path, RequireAuth: false}
	bestLen := -1
	for _, r := range t.routes {
		if !matches(r.Prefix, path) {
			continue
		}
		if len(r.Prefix) > bestLen {
			best = r
			bestLen = len(r.Prefix)
		}
	}
	return best
}

func matches(prefix, path string) bool {
	if prefix == domain.PathRoot {
		return strings.HasPrefix(path, "/")
	}
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	rest := path[len(prefix):]
	return rest == "" || rest[0] == '/' || rest[0] == '?'
}

// Guard resolves a navigation to path for the given identity.
func (t *RouteTable) Guard(path string, id domain.Identity) Decision {
	route := t.Lookup(path)
	return Resolve(Request{
		Authenticated: id.Authenticated,
		Role:          id.Role(),
		AllowedRoles:  route.AllowedRoles,
		RequireAuth:   route.RequireAuth,
	})
}
