// Package service holds the use cases of the BFA: identity resolution,
// sign-in/sign-up against the hosted auth and working-hours management.
package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/boddenberg/agenda-bfa-go/internal/domain"
	"github.com/boddenberg/agenda-bfa-go/internal/port"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const minPasswordLength = 6

// AuthService proxies credential flows to the hosted auth and answers with
// the caller's profile and post-login landing page.
type AuthService struct {
	gateway  port.AuthGateway
	profiles port.ProfileStore
	identity *IdentityService
	logger   *zap.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(gateway port.AuthGateway, profiles port.ProfileStore, identity *IdentityService, logger *zap.Logger) *AuthService {
	return &AuthService{
		gateway:  gateway,
		profiles: profiles,
		identity: identity,
		logger:   logger,
	}
}

// ============================================================
// SignIn serves POST /v1/auth/sign-in.
// ============================================================

func (s *AuthService) SignIn(ctx context.Context, req *domain.SignInRequest) (*domain.SignInResponse, error) {
	ctx, span := tracer.Start(ctx, "AuthService.SignIn")
	defer span.End()

	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, &domain.ErrValidation{Field: "email", Message: "E-mail e senha são obrigatórios"}
	}

	session, err := s.gateway.SignInWithPassword(ctx, email, req.Password)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("user.id", session.UserID))

	resp, err := s.sessionResponse(ctx, session)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user signed in",
		zap.String("user_id", session.UserID),
		zap.String("redirect_to", resp.RedirectTo),
	)
	return resp, nil
}

// ============================================================
// SignUp serves POST /v1/auth/sign-up.
// ============================================================

func (s *AuthService) SignUp(ctx context.Context, req *domain.SignUpRequest) (*domain.SignInResponse, error) {
	ctx, span := tracer.Start(ctx, "AuthService.SignUp")
	defer span.End()

	if err := validateSignUp(req); err != nil {
		return nil, err
	}
	role := req.Role
	if role == "" {
		role = domain.RoleClient
	}
	email := normalizeEmail(req.Email)

	session, err := s.gateway.SignUp(ctx, email, req.Password, map[string]any{
		"full_name": req.FullName,
		"role":      string(role),
	})
	if err != nil {
		return nil, err
	}

	profile := &domain.Profile{
		ID:       session.UserID,
		Role:     role,
		FullName: strings.TrimSpace(req.FullName),
		Email:    email,
	}

	if role == domain.RoleBusinessOwner {
		businessID := uuid.New().String()
		if err := s.profiles.CreateBusiness(ctx, businessID, strings.TrimSpace(req.BusinessName), session.UserID); err != nil {
			return nil, fmt.Errorf("create business: %w", err)
		}
		profile.BusinessID = businessID
	}

	if err := s.profiles.CreateProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}

	s.logger.Info("user signed up",
		zap.String("user_id", profile.ID),
		zap.String("role", string(role)),
		zap.String("business_id", profile.BusinessID),
	)

	return &domain.SignInResponse{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		ExpiresIn:    session.ExpiresIn,
		Profile:      profile,
		RedirectTo:   domain.RoleHome(role),
	}, nil
}

// ============================================================
// Refresh serves POST /v1/auth/refresh.
// ============================================================

func (s *AuthService) Refresh(ctx context.Context, req *domain.RefreshRequest) (*domain.SignInResponse, error) {
	ctx, span := tracer.Start(ctx, "AuthService.Refresh")
	defer span.End()

	if strings.TrimSpace(req.RefreshToken) == "" {
		return nil, &domain.ErrValidation{Field: "refreshToken", Message: "Token de atualização obrigatório"}
	}

	session, err := s.gateway.RefreshSession(ctx, req.RefreshToken)
	if err != nil {
		return nil, err
	}
	return s.sessionResponse(ctx, session)
}

// ============================================================
// SignOut serves POST /v1/auth/sign-out.
// ============================================================

func (s *AuthService) SignOut(ctx context.Context, accessToken, userID string) error {
	ctx, span := tracer.Start(ctx, "AuthService.SignOut")
	defer span.End()

	if err := s.gateway.SignOut(ctx, accessToken); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	s.identity.Forget(userID)

	s.logger.Info("user signed out", zap.String("user_id", userID))
	return nil
}

// sessionResponse attaches the profile and landing page to a session.
// A user without a profile row lands on the root page.
func (s *AuthService) sessionResponse(ctx context.Context, session *domain.AuthSession) (*domain.SignInResponse, error) {
	profile, err := s.identity.Profile(ctx, session.UserID)
	if err != nil && !domain.IsNotFound(err) {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	var role domain.Role
	if profile != nil {
		role = profile.Role
	}
	return &domain.SignInResponse{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		ExpiresIn:    session.ExpiresIn,
		Profile:      profile,
		RedirectTo:   domain.RoleHome(role),
	}, nil
}

func validateSignUp(req *domain.SignUpRequest) error {
	if _, err := mail.ParseAddress(strings.TrimSpace(req.Email)); err != nil {
		return &domain.ErrValidation{Field: "email", Message: "E-mail inválido"}
	}
	if len(req.Password) < minPasswordLength {
		return &domain.ErrValidation{Field: "password", Message: fmt.Sprintf("Senha deve ter ao menos %d caracteres", minPasswordLength)}
	}
	if strings.TrimSpace(req.FullName) == "" {
		return &domain.ErrValidation{Field: "fullName", Message: "Nome é obrigatório"}
	}
	switch req.Role {
	case "", domain.RoleClient, domain.RoleProfessional:
	case domain.RoleBusinessOwner:
		if strings.TrimSpace(req.BusinessName) == "" {
			return &domain.ErrValidation{Field: "businessName", Message: "Nome do negócio é obrigatório"}
		}
	default:
		return &domain.ErrValidation{Field: "role", Message: fmt.Sprintf("perfil não permitido no cadastro: %q", req.Role)}
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
