package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/boddenberg/agenda-bfa-go/internal/access"
	"github.com/boddenberg/agenda-bfa-go/internal/domain"
	"github.com/boddenberg/agenda-bfa-go/internal/infra/observability"
	"github.com/boddenberg/agenda-bfa-go/internal/service"

	"go.uber.org/zap"
)

type contextKey string

const (
	identityKey    contextKey = "identity"
	accessTokenKey contextKey = "accessToken"
)

var errNoToken = errors.New("no bearer token")

// bearerToken extracts the token of an "Authorization: Bearer <token>" header.
func bearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", errNoToken
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", &domain.ErrUnauthorized{Message: "Formato de token inválido"}
	}
	return parts[1], nil
}

// JWTAuthMiddleware validates Bearer tokens and injects the caller's
// domain.Identity into context. Requests without a valid token get 401 with
// a redirect to the login page.
func JWTAuthMiddleware(identitySvc *service.IdentityService, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, err := bearerToken(r)
			if err != nil {
				logger.Warn("auth: missing or malformed token",
					zap.String("path", r.URL.Path),
					zap.String("remote_addr", r.RemoteAddr),
				)
				msg := "Token de autenticação não fornecido"
				if !errors.Is(err, errNoToken) {
					msg = err.Error()
				}
				writeRedirectError(w, http.StatusUnauthorized, msg, domain.PathLogin)
				return
			}

			id, err := identitySvc.Resolve(r.Context(), tokenString)
			if err != nil {
				var ua *domain.ErrUnauthorized
				if errors.As(err, &ua) {
					logger.Warn("auth: invalid or expired token",
						zap.String("path", r.URL.Path),
						zap.String("remote_addr", r.RemoteAddr),
						zap.Error(err),
					)
					writeRedirectError(w, http.StatusUnauthorized, err.Error(), domain.PathLogin)
					return
				}
				handleServiceError(w, err, logger)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, id)
			ctx = context.WithValue(ctx, accessTokenKey, tokenString)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuthMiddleware resolves the identity when a valid token is sent and
// otherwise continues as an anonymous caller.
func OptionalAuthMiddleware(identitySvc *service.IdentityService, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, err := bearerToken(r)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			id, err := identitySvc.Resolve(r.Context(), tokenString)
			if err != nil {
				var ua *domain.ErrUnauthorized
				if !errors.As(err, &ua) {
					handleServiceError(w, err, logger)
					return
				}
				logger.Debug("auth: ignoring invalid token on optional route",
					zap.String("path", r.URL.Path),
					zap.Error(err),
				)
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, id)
			ctx = context.WithValue(ctx, accessTokenKey, tokenString)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRoles guards API routes with the same rules as front-end
// navigation. A login redirect becomes 401 and a wrong role becomes 403;
// both carry the redirect target.
func RequireRoles(metrics *observability.Metrics, logger *zap.Logger, roles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := IdentityFromContext(r.Context())
			decision := access.Resolve(access.NewRequest(id.Authenticated, id.Role(), roles))
			if decision.Rendered() && len(roles) > 0 && id.Role() == "" {
				// Navigation lets a caller without a profile through; data does not.
				decision = access.Decision{Action: access.ActionRedirect, RedirectTo: domain.RoleHome(""), Replace: true}
			}
			metrics.IncrAccessDecision(decision.Label())

			if decision.Rendered() {
				next.ServeHTTP(w, r)
				return
			}

			logger.Warn("access: route denied",
				zap.String("path", r.URL.Path),
				zap.String("user_id", id.UserID),
				zap.String("role", string(id.Role())),
				zap.String("redirect_to", decision.RedirectTo),
			)
			if decision.RedirectTo == domain.PathLogin {
				writeRedirectError(w, http.StatusUnauthorized, "Autenticação obrigatória", decision.RedirectTo)
				return
			}
			writeRedirectError(w, http.StatusForbidden, "Acesso não permitido para este perfil", decision.RedirectTo)
		})
	}
}

// IdentityFromContext returns the caller injected by the auth middlewares,
// or an anonymous identity.
func IdentityFromContext(ctx context.Context) domain.Identity {
	id, _ := ctx.Value(identityKey).(domain.Identity)
	return id
}

func accessTokenFromContext(ctx context.Context) string {
	v, _ := ctx.Value(accessTokenKey).(string)
	return v
}
