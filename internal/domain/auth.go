package domain

// ============================================================
// Auth — Request / Response types (matches frontend API contract)
// ============================================================

// SignInRequest is the body for POST /v1/auth/sign-in.
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUpRequest is the body for POST /v1/auth/sign-up.
// BusinessName is required when Role is business_owner.
type SignUpRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	FullName     string `json:"fullName"`
	Role         Role   `json:"role"`
	BusinessName string `json:"businessName,omitempty"`
}

// RefreshRequest is the body for POST /v1/auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// AuthSession is what the hosted auth returns after a password or refresh
// grant.
type AuthSession struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	UserID       string `json:"-"`
	Email        string `json:"-"`
}

// SignInResponse is the body for 200 from sign-in, sign-up and refresh.
// RedirectTo is the post-login landing page of the profile's role.
type SignInResponse struct {
	AccessToken  string   `json:"accessToken"`
	RefreshToken string   `json:"refreshToken"`
	ExpiresIn    int      `json:"expiresIn"`
	Profile      *Profile `json:"profile"`
	RedirectTo   string   `json:"redirectTo"`
}
