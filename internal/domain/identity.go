package domain

// Profile is the row of the profiles table that carries the role of an
// authenticated user.
type Profile struct {
	ID         string `json:"id"`
	Role       Role   `json:"role"`
	BusinessID string `json:"business_id,omitempty"`
	FullName   string `json:"full_name,omitempty"`
	Email      string `json:"email,omitempty"`
}

// Identity is the resolved caller of a request. A zero Identity is an
// anonymous caller.
type Identity struct {
	Authenticated bool     `json:"authenticated"`
	UserID        string   `json:"userId,omitempty"`
	Email         string   `json:"email,omitempty"`
	Profile       *Profile `json:"profile,omitempty"`
}

// Role returns the role carried by the identity's profile, or "" when the
// profile is missing.
func (i Identity) Role() Role {
	if i.Profile == nil {
		return ""
	}
	return i.Profile.Role
}

// BusinessID returns the tenant the identity belongs to, if any.
func (i Identity) BusinessID() string {
	if i.Profile == nil {
		return ""
	}
	return i.Profile.BusinessID
}

// MeResponse is the body for GET /v1/me.
type MeResponse struct {
	Identity
	Home string `json:"home"`
}
