package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/boddenberg/agenda-bfa-go/internal/domain"

	pgx "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
)

func strPtr(s string) *string { return &s }

func newMock(t *testing.T) (pgxmock.PgxPoolIface, *Store) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgx mock: %v", err)
	}
	t.Cleanup(mock.Close)
	return mock, newStoreWithExec(mock)
}

func TestGetProfile(t *testing.T) {
	mock, store := newMock(t)

	mock.ExpectQuery("SELECT id, role, business_id, full_name, email FROM profiles").
		WithArgs("u-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "role", "business_id", "full_name", "email"}).
			AddRow("u-1", "business_owner", strPtr("b-1"), strPtr("Ana"), (*string)(nil)))

	p, err := store.GetProfile(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Role != domain.RoleBusinessOwner || p.BusinessID != "b-1" || p.FullName != "Ana" || p.Email != "" {
		t.Fatalf("unexpected profile: %+v", p)
	}

	mock.ExpectQuery("SELECT id, role, business_id, full_name, email FROM profiles").
		WithArgs("ghost").
		WillReturnError(pgx.ErrNoRows)
	_, err = store.GetProfile(context.Background(), "ghost")
	var nf *domain.ErrNotFound
	if !errors.As(err, &nf) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateProfile_DuplicateIsConflict(t *testing.T) {
	mock, store := newMock(t)

	mock.ExpectExec("INSERT INTO profiles").
		WithArgs("u-1", "client", pgxmock.AnyArg(), "Bia", "bia@x.com").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	err := store.CreateProfile(context.Background(), &domain.Profile{
		ID: "u-1", Role: domain.RoleClient, FullName: "Bia", Email: "bia@x.com",
	})
	var conflict *domain.ErrConflict
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateBusiness(t *testing.T) {
	mock, store := newMock(t)

	mock.ExpectExec("INSERT INTO businesses").
		WithArgs("b-1", "Salão da Ana", "u-1").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	if err := store.CreateBusiness(context.Background(), "b-1", "Salão da Ana", "u-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestLoadWorkingHours(t *testing.T) {
	mock, store := newMock(t)

	mock.ExpectQuery("SELECT business_id, profile_id, working_hours FROM professionals").
		WithArgs("p-1").
		WillReturnRows(pgxmock.NewRows([]string{"business_id", "profile_id", "working_hours"}).
			AddRow("b-1", strPtr("u-9"), []byte(`"legacy"`)))

	s, err := store.LoadWorkingHours(context.Background(), domain.ScheduleOwner{Kind: domain.OwnerProfessional, ID: "p-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.BusinessID != "b-1" || s.ProfileID != "u-9" || string(s.Raw) != `"legacy"` {
		t.Fatalf("unexpected stored schedule: %+v", s)
	}

	mock.ExpectQuery("SELECT working_hours FROM business_settings").
		WithArgs("b-1").
		WillReturnError(pgx.ErrNoRows)
	s, err = store.LoadWorkingHours(context.Background(), domain.ScheduleOwner{Kind: domain.OwnerBusiness, ID: "b-1"})
	if err != nil {
		t.Fatalf("missing business settings should not fail: %v", err)
	}
	if s.BusinessID != "b-1" || len(s.Raw) != 0 {
		t.Fatalf("expected empty business schedule, got %+v", s)
	}

	mock.ExpectQuery("SELECT business_id, working_hours FROM stores").
		WithArgs("s-404").
		WillReturnError(pgx.ErrNoRows)
	_, err = store.LoadWorkingHours(context.Background(), domain.ScheduleOwner{Kind: domain.OwnerStore, ID: "s-404"})
	var nf *domain.ErrNotFound
	if !errors.As(err, &nf) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSaveWorkingHours(t *testing.T) {
	mock, store := newMock(t)
	schedule := domain.DefaultWeeklySchedule()

	mock.ExpectExec("UPDATE stores SET working_hours").
		WithArgs("s-1", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	if err := store.SaveWorkingHours(context.Background(), domain.ScheduleOwner{Kind: domain.OwnerStore, ID: "s-1"}, schedule); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mock.ExpectExec("INSERT INTO business_settings").
		WithArgs("b-1", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	if err := store.SaveWorkingHours(context.Background(), domain.ScheduleOwner{Kind: domain.OwnerBusiness, ID: "b-1"}, schedule); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mock.ExpectExec("UPDATE professionals SET working_hours").
		WithArgs("p-404", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	err := store.SaveWorkingHours(context.Background(), domain.ScheduleOwner{Kind: domain.OwnerProfessional, ID: "p-404"}, schedule)
	var nf *domain.ErrNotFound
	if !errors.As(err, &nf) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListOwners(t *testing.T) {
	mock, store := newMock(t)

	mock.ExpectQuery("SELECT id FROM professionals").
		WithArgs("b-1").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("p-1").AddRow("p-2"))

	owners, err := store.ListOwners(context.Background(), "b-1", domain.OwnerProfessional)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(owners) != 2 || owners[1].ID != "p-2" || owners[0].Kind != domain.OwnerProfessional {
		t.Fatalf("unexpected owners: %+v", owners)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
