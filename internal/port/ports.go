// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the domain/service
// layer from concrete implementations (Supabase PostgREST, direct Postgres).
package port

import (
	"context"

	"github.com/boddenberg/agenda-bfa-go/internal/domain"
)

// ProfileStore reads and creates rows of the profiles table.
type ProfileStore interface {
	GetProfile(ctx context.Context, userID string) (*domain.Profile, error)
	CreateProfile(ctx context.Context, p *domain.Profile) error
	CreateBusiness(ctx context.Context, id, name, ownerID string) error
}

// ScheduleStore is the sole persistence path of working hours. Save always
// receives the full seven-day schedule.
type ScheduleStore interface {
	LoadWorkingHours(ctx context.Context, owner domain.ScheduleOwner) (*domain.StoredSchedule, error)
	SaveWorkingHours(ctx context.Context, owner domain.ScheduleOwner, schedule domain.WeeklySchedule) error
	ListOwners(ctx context.Context, businessID string, kind domain.OwnerKind) ([]domain.ScheduleOwner, error)
}

// AuthGateway talks to the hosted auth service (sign-in, sign-up, tokens).
type AuthGateway interface {
	SignInWithPassword(ctx context.Context, email, password string) (*domain.AuthSession, error)
	SignUp(ctx context.Context, email, password string, metadata map[string]any) (*domain.AuthSession, error)
	RefreshSession(ctx context.Context, refreshToken string) (*domain.AuthSession, error)
	SignOut(ctx context.Context, accessToken string) error
}

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}
