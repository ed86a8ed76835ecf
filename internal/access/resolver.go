// Package access decides what a navigation to a guarded route should do:
// render, wait for the identity, send the caller to /login, or send the
// caller to the dashboard of the role they actually hold.
package access

import "github.com/boddenberg/agenda-bfa-go/internal/domain"

// Action is the outcome of a guard evaluation.
type Action string

const (
	ActionLoading  Action = "loading"
	ActionRender   Action = "render"
	ActionRedirect Action = "redirect"
)

// Request is the per-navigation input of Resolve.
//
// AllowedRoles == nil means the route declared no role restriction.
// RequireAuth mirrors the guard option of the same name; use NewRequest to
// get the default of true.
type Request struct {
	Loading       bool
	Authenticated bool
	Role          domain.Role
	AllowedRoles  []domain.Role
	RequireAuth   bool
}

// NewRequest builds a Request with RequireAuth set to its default (true).
func NewRequest(authenticated bool, role domain.Role, allowed []domain.Role) Request {
	return Request{
		Authenticated: authenticated,
		Role:          role,
		AllowedRoles:  allowed,
		RequireAuth:   true,
	}
}

// Decision is what the caller must do. Redirects always replace the current
// history entry so that Back does not loop through the guarded page.
type Decision struct {
	Action     Action `json:"action"`
	RedirectTo string `json:"redirectTo,omitempty"`
	Replace    bool   `json:"replace"`
}

// Rendered reports whether the guarded content may be shown.
func (d Decision) Rendered() bool { return d.Action == ActionRender }

// Label names the outcome for metrics: render, loading, redirect_login or
// redirect_home.
func (d Decision) Label() string {
	if d.Action != ActionRedirect {
		return string(d.Action)
	}
	if d.RedirectTo == domain.PathLogin {
		return "redirect_login"
	}
	return "redirect_home"
}

// Resolve evaluates the guard rules in order; the first match wins.
// It has no side effects and returns the same Decision for the same Request.
func Resolve(req Request) Decision {
	if req.Loading {
		return Decision{Action: ActionLoading}
	}

	if req.RequireAuth && !req.Authenticated {
		return redirect(domain.PathLogin)
	}

	if len(req.AllowedRoles) > 0 && req.Role != "" && !contains(req.AllowedRoles, req.Role) {
		return redirect(domain.RoleHome(req.Role))
	}

	return Decision{Action: ActionRender}
}

func redirect(path string) Decision {
	return Decision{Action: ActionRedirect, RedirectTo: path, Replace: true}
}

func contains(roles []domain.Role, r domain.Role) bool {
	for _, allowed := range roles {
		if allowed == r {
			return true
		}
	}
	return false
}
