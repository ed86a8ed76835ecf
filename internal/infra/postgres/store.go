// Package postgres implements the profile and schedule ports directly on
// the database behind the hosted backend, for deployments that hold a
// DATABASE_URL instead of going through PostgREST.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/boddenberg/agenda-bfa-go/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("postgres")

type rowQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store reads and writes profiles, businesses and working hours.
type Store struct {
	pool rowQuerier
}

func NewStore(pool *pgxpool.Pool) *Store {
	if pool == nil {
		panic("postgres: pgx pool required")
	}
	return &Store{pool: pool}
}

func newStoreWithExec(exec rowQuerier) *Store {
	if exec == nil {
		panic("postgres: exec required")
	}
	return &Store{pool: exec}
}

// Ping checks database connectivity. Used by /healthz.
func (s *Store) Ping(ctx context.Context) error {
	var one int
	if err := s.pool.QueryRow(ctx, `SELECT 1`).Scan(&one); err != nil {
		return fmt.Errorf("postgres: ping: %w", err)
	}
	return nil
}

// GetProfile loads the profile row of an auth user.
func (s *Store) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	ctx, span := tracer.Start(ctx, "Postgres.GetProfile")
	defer span.End()

	query := `SELECT id, role, business_id, full_name, email FROM profiles WHERE id = $1`
	var (
		p                           domain.Profile
		role                        string
		businessID, fullName, email *string
	)
	err := s.pool.QueryRow(ctx, query, userID).Scan(&p.ID, &role, &businessID, &fullName, &email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &domain.ErrNotFound{Resource: "profile", ID: userID}
		}
		return nil, fmt.Errorf("postgres: get profile: %w", err)
	}
	p.Role = domain.Role(role)
	p.BusinessID = deref(businessID)
	p.FullName = deref(fullName)
	p.Email = deref(email)
	return &p, nil
}

// CreateProfile inserts a profile row.
func (s *Store) CreateProfile(ctx context.Context, p *domain.Profile) error {
	query := `
		INSERT INTO profiles (id, role, business_id, full_name, email)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := s.pool.Exec(ctx, query, p.ID, string(p.Role), nullable(p.BusinessID), p.FullName, p.Email); err != nil {
		return mapWriteErr("create profile", err)
	}
	return nil
}

// CreateBusiness inserts a business owned by ownerID.
func (s *Store) CreateBusiness(ctx context.Context, id, name, ownerID string) error {
	query := `INSERT INTO businesses (id, name, owner_id) VALUES ($1, $2, $3)`
	if _, err := s.pool.Exec(ctx, query, id, name, ownerID); err != nil {
		return mapWriteErr("create business", err)
	}
	return nil
}

// LoadWorkingHours returns the raw working_hours value of an owner. A
// business without a settings row gets an empty value.
func (s *Store) LoadWorkingHours(ctx context.Context, owner domain.ScheduleOwner) (*domain.StoredSchedule, error) {
	ctx, span := tracer.Start(ctx, "Postgres.LoadWorkingHours")
	defer span.End()
	span.SetAttributes(attribute.String("owner.kind", string(owner.Kind)))

	stored := &domain.StoredSchedule{Owner: owner}
	var (
		raw       []byte
		profileID *string
		err       error
	)
	switch owner.Kind {
	case domain.OwnerStore:
		err = s.pool.QueryRow(ctx,
			`SELECT business_id, working_hours FROM stores WHERE id = $1`, owner.ID,
		).Scan(&stored.BusinessID, &raw)
	case domain.OwnerProfessional:
		err = s.pool.QueryRow(ctx,
			`SELECT business_id, profile_id, working_hours FROM professionals WHERE id = $1`, owner.ID,
		).Scan(&stored.BusinessID, &profileID, &raw)
	case domain.OwnerBusiness:
		stored.BusinessID = owner.ID
		err = s.pool.QueryRow(ctx,
			`SELECT working_hours FROM business_settings WHERE business_id = $1`, owner.ID,
		).Scan(&raw)
		if errors.Is(err, pgx.ErrNoRows) {
			return stored, nil
		}
	default:
		return nil, &domain.ErrValidation{Field: "kind", Message: fmt.Sprintf("tipo desconhecido: %q", owner.Kind)}
	}
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &domain.ErrNotFound{Resource: string(owner.Kind), ID: owner.ID}
		}
		return nil, fmt.Errorf("postgres: load working hours: %w", err)
	}

	stored.ProfileID = deref(profileID)
	stored.Raw = raw
	return stored, nil
}

// SaveWorkingHours replaces the working_hours value of an owner.
func (s *Store) SaveWorkingHours(ctx context.Context, owner domain.ScheduleOwner, schedule domain.WeeklySchedule) error {
	ctx, span := tracer.Start(ctx, "Postgres.SaveWorkingHours")
	defer span.End()

	raw, err := json.Marshal(schedule)
	if err != nil {
		return fmt.Errorf("postgres: encode working hours: %w", err)
	}

	var query string
	switch owner.Kind {
	case domain.OwnerStore:
		query = `UPDATE stores SET working_hours = $2::jsonb WHERE id = $1`
	case domain.OwnerProfessional:
		query = `UPDATE professionals SET working_hours = $2::jsonb WHERE id = $1`
	case domain.OwnerBusiness:
		query = `
			INSERT INTO business_settings (business_id, working_hours)
			VALUES ($1, $2::jsonb)
			ON CONFLICT (business_id) DO UPDATE SET working_hours = EXCLUDED.working_hours
		`
	default:
		return &domain.ErrValidation{Field: "kind", Message: fmt.Sprintf("tipo desconhecido: %q", owner.Kind)}
	}

	ct, err := s.pool.Exec(ctx, query, owner.ID, string(raw))
	if err != nil {
		return fmt.Errorf("postgres: save working hours: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return &domain.ErrNotFound{Resource: string(owner.Kind), ID: owner.ID}
	}
	return nil
}

// ListOwners returns the stores or professionals of a business, ordered by id.
func (s *Store) ListOwners(ctx context.Context, businessID string, kind domain.OwnerKind) ([]domain.ScheduleOwner, error) {
	var query string
	switch kind {
	case domain.OwnerBusiness:
		return []domain.ScheduleOwner{{Kind: kind, ID: businessID}}, nil
	case domain.OwnerStore:
		query = `SELECT id FROM stores WHERE business_id = $1 ORDER BY id`
	case domain.OwnerProfessional:
		query = `SELECT id FROM professionals WHERE business_id = $1 ORDER BY id`
	default:
		return nil, &domain.ErrValidation{Field: "kind", Message: fmt.Sprintf("tipo desconhecido: %q", kind)}
	}

	rows, err := s.pool.Query(ctx, query, businessID)
	if err != nil {
		return nil, fmt.Errorf("postgres: list %s: %w", kind, err)
	}
	defer rows.Close()

	var owners []domain.ScheduleOwner
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("postgres: scan %s: %w", kind, err)
		}
		owners = append(owners, domain.ScheduleOwner{Kind: kind, ID: id})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: list %s: %w", kind, err)
	}
	return owners, nil
}

// mapWriteErr turns unique violations into ErrConflict.
func mapWriteErr(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return &domain.ErrConflict{Message: fmt.Sprintf("%s: registro já existe", op)}
	}
	return fmt.Errorf("postgres: %s: %w", op, err)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
