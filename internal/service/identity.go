package service

import (
	"context"
	"fmt"

	"github.com/boddenberg/agenda-bfa-go/internal/domain"
	"github.com/boddenberg/agenda-bfa-go/internal/infra/observability"
	"github.com/boddenberg/agenda-bfa-go/internal/port"

	"github.com/golang-jwt/jwt/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("service")

// SupabaseClaims are the claims of an access token issued by the hosted auth.
type SupabaseClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// IdentityService turns a bearer token into a domain.Identity.
type IdentityService struct {
	profiles  port.ProfileStore
	cache     port.Cache[*domain.Profile]
	jwtSecret []byte
	metrics   *observability.Metrics
	logger    *zap.Logger
}

// NewIdentityService creates an identity service. jwtSecret is the project's
// JWT secret used by the hosted auth to sign access tokens (HS256).
func NewIdentityService(
	profiles port.ProfileStore,
	cache port.Cache[*domain.Profile],
	jwtSecret string,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *IdentityService {
	return &IdentityService{
		profiles:  profiles,
		cache:     cache,
		jwtSecret: []byte(jwtSecret),
		metrics:   metrics,
		logger:    logger,
	}
}

// ValidateAccessToken verifies signature and expiry and requires a subject.
// Anon-key tokens carry no subject and are rejected.
func (s *IdentityService) ValidateAccessToken(tokenString string) (*SupabaseClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SupabaseClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, &domain.ErrUnauthorized{Message: "Token inválido ou expirado"}
	}

	claims, ok := token.Claims.(*SupabaseClaims)
	if !ok || !token.Valid {
		return nil, &domain.ErrUnauthorized{Message: "Token inválido"}
	}
	if claims.Subject == "" {
		return nil, &domain.ErrUnauthorized{Message: "Token sem usuário"}
	}
	return claims, nil
}

// Resolve validates the token and loads the caller's profile. A user with
// no profile row yet is authenticated without a role.
func (s *IdentityService) Resolve(ctx context.Context, tokenString string) (domain.Identity, error) {
	claims, err := s.ValidateAccessToken(tokenString)
	if err != nil {
		return domain.Identity{}, err
	}

	id := domain.Identity{
		Authenticated: true,
		UserID:        claims.Subject,
		Email:         claims.Email,
	}

	profile, err := s.Profile(ctx, claims.Subject)
	switch {
	case domain.IsNotFound(err):
		s.logger.Warn("identity: authenticated user without profile",
			zap.String("user_id", claims.Subject),
		)
		return id, nil
	case err != nil:
		return domain.Identity{}, err
	}

	id.Profile = profile
	return id, nil
}

// Profile returns the profile of userID, served from cache when possible.
func (s *IdentityService) Profile(ctx context.Context, userID string) (*domain.Profile, error) {
	ctx, span := tracer.Start(ctx, "IdentityService.Profile")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	cacheKey := fmt.Sprintf("profile:%s", userID)
	if p, ok := s.cache.Get(cacheKey); ok && p != nil {
		s.metrics.IncrCacheHit("profile")
		return p, nil
	}
	s.metrics.IncrCacheMiss("profile")

	p, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		if !domain.IsNotFound(err) {
			s.metrics.IncrExternalError("profile")
		}
		return nil, err
	}
	s.cache.Set(cacheKey, p)
	return p, nil
}

// Forget drops the cached profile of userID.
func (s *IdentityService) Forget(userID string) {
	s.cache.Delete(fmt.Sprintf("profile:%s", userID))
}
