package access_test

import (
	"testing"

	"github.com/boddenberg/agenda-bfa-go/internal/access"
	"github.com/boddenberg/agenda-bfa-go/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestResolve_Loading(t *testing.T) {
	req := access.NewRequest(false, "", []domain.Role{domain.RoleSaaSAdmin})
	req.Loading = true

	d := access.Resolve(req)
	assert.Equal(t, access.ActionLoading, d.Action)
	assert.Empty(t, d.RedirectTo)
	assert.False(t, d.Replace)
}

func TestResolve_UnauthenticatedGoesToLogin(t *testing.T) {
	cases := map[string][]domain.Role{
		"no roles":    nil,
		"empty roles": {},
		"admin only":  {domain.RoleSaaSAdmin},
		"client":      {domain.RoleClient},
	}
	for name, allowed := range cases {
		t.Run(name, func(t *testing.T) {
			d := access.Resolve(access.NewRequest(false, "", allowed))
			assert.Equal(t, access.ActionRedirect, d.Action)
			assert.Equal(t, "/login", d.RedirectTo)
			assert.True(t, d.Replace)
		})
	}
}

func TestResolve_WrongRoleGoesHome(t *testing.T) {
	d := access.Resolve(access.NewRequest(true, domain.RoleBusinessOwner, []domain.Role{domain.RoleSaaSAdmin}))
	assert.Equal(t, access.ActionRedirect, d.Action)
	assert.Equal(t, "/negocio/dashboard", d.RedirectTo)
	assert.True(t, d.Replace)

	d = access.Resolve(access.NewRequest(true, domain.RoleProfessional, []domain.Role{domain.RoleBusinessOwner}))
	assert.Equal(t, "/profissional/dashboard", d.RedirectTo)

	d = access.Resolve(access.NewRequest(true, domain.RoleSaaSAdmin, []domain.Role{domain.RoleClient}))
	assert.Equal(t, "/admin/dashboard", d.RedirectTo)

	d = access.Resolve(access.NewRequest(true, domain.RoleClient, []domain.Role{domain.RoleProfessional}))
	assert.Equal(t, "/", d.RedirectTo)
}

func TestResolve_UnrecognizedRoleGoesToRoot(t *testing.T) {
	d := access.Resolve(access.NewRequest(true, domain.Role("admin"), []domain.Role{domain.RoleSaaSAdmin}))
	assert.Equal(t, access.ActionRedirect, d.Action)
	assert.Equal(t, "/", d.RedirectTo)
}

func TestResolve_UnrestrictedRouteRenders(t *testing.T) {
	d := access.Resolve(access.NewRequest(true, domain.RoleClient, nil))
	assert.True(t, d.Rendered())
	assert.Empty(t, d.RedirectTo)
}

func TestResolve_MissingProfileSkipsRoleCheck(t *testing.T) {
	d := access.Resolve(access.NewRequest(true, "", []domain.Role{domain.RoleSaaSAdmin}))
	assert.True(t, d.Rendered())
}

func TestResolve_AllowedRoleRenders(t *testing.T) {
	allowed := []domain.Role{domain.RoleBusinessOwner, domain.RoleProfessional}
	d := access.Resolve(access.NewRequest(true, domain.RoleProfessional, allowed))
	assert.True(t, d.Rendered())
}

func TestResolve_RequireAuthFalseLetsAnonymousThrough(t *testing.T) {
	req := access.NewRequest(false, "", []domain.Role{domain.RoleSaaSAdmin})
	req.RequireAuth = false

	d := access.Resolve(req)
	assert.True(t, d.Rendered())
}

func TestResolve_Deterministic(t *testing.T) {
	roles := append(domain.AllRoles(), "", domain.Role("admin"))
	allowedSets := [][]domain.Role{nil, {}, {domain.RoleSaaSAdmin}, {domain.RoleClient, domain.RoleProfessional}}

	for _, loading := range []bool{false, true} {
		for _, authed := range []bool{false, true} {
			for _, requireAuth := range []bool{false, true} {
				for _, role := range roles {
					for _, allowed := range allowedSets {
						req := access.Request{
							Loading:       loading,
							Authenticated: authed,
							Role:          role,
							AllowedRoles:  allowed,
							RequireAuth:   requireAuth,
						}
						first := access.Resolve(req)
						for i := 0; i < 3; i++ {
							assert.Equal(t, first, access.Resolve(req))
						}
					}
				}
			}
		}
	}
}

func TestDecision_Label(t *testing.T) {
	assert.Equal(t, "loading", access.Resolve(access.Request{Loading: true}).Label())
	assert.Equal(t, "render", access.Resolve(access.NewRequest(true, domain.RoleClient, nil)).Label())
	assert.Equal(t, "redirect_login", access.Resolve(access.NewRequest(false, "", nil)).Label())
	assert.Equal(t, "redirect_home",
		access.Resolve(access.NewRequest(true, domain.RoleClient, []domain.Role{domain.RoleSaaSAdmin})).Label())
}
