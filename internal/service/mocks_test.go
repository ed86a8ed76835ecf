package service_test

import (
	"context"
	"sync"

	"github.com/boddenberg/agenda-bfa-go/internal/domain"
)

// --- Mocks ---

type mockProfileStore struct {
	mu         sync.Mutex
	profiles   map[string]*domain.Profile
	getErr     error
	gets       int
	created    []*domain.Profile
	businesses []string
}

func newMockProfileStore(profiles ...*domain.Profile) *mockProfileStore {
	m := &mockProfileStore{profiles: map[string]*domain.Profile{}}
	for _, p := range profiles {
		m.profiles[p.ID] = p
	}
	return m
}

func (m *mockProfileStore) GetProfile(_ context.Context, userID string) (*domain.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	if m.getErr != nil {
		return nil, m.getErr
	}
	p, ok := m.profiles[userID]
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "profile", ID: userID}
	}
	return p, nil
}

func (m *mockProfileStore) CreateProfile(_ context.Context, p *domain.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created = append(m.created, p)
	m.profiles[p.ID] = p
	return nil
}

func (m *mockProfileStore) CreateBusiness(_ context.Context, id, name, ownerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.businesses = append(m.businesses, id+"|"+name+"|"+ownerID)
	return nil
}

type mockScheduleStore struct {
	mu      sync.Mutex
	rows    map[domain.ScheduleOwner]*domain.StoredSchedule
	owners  map[domain.OwnerKind][]domain.ScheduleOwner
	saves   []domain.WeeklySchedule
	saveErr error
}

func newMockScheduleStore(rows ...*domain.StoredSchedule) *mockScheduleStore {
	m := &mockScheduleStore{
		rows:   map[domain.ScheduleOwner]*domain.StoredSchedule{},
		owners: map[domain.OwnerKind][]domain.ScheduleOwner{},
	}
	for _, r := range rows {
		m.rows[r.Owner] = r
		if r.Owner.Kind != domain.OwnerBusiness {
			m.owners[r.Owner.Kind] = append(m.owners[r.Owner.Kind], r.Owner)
		}
	}
	return m
}

func (m *mockScheduleStore) LoadWorkingHours(_ context.Context, owner domain.ScheduleOwner) (*domain.StoredSchedule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[owner]
	if !ok {
		if owner.Kind == domain.OwnerBusiness {
			return &domain.StoredSchedule{Owner: owner, BusinessID: owner.ID}, nil
		}
		return nil, &domain.ErrNotFound{Resource: string(owner.Kind), ID: owner.ID}
	}
	cp := *r
	return &cp, nil
}

func (m *mockScheduleStore) SaveWorkingHours(_ context.Context, owner domain.ScheduleOwner, schedule domain.WeeklySchedule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves = append(m.saves, schedule)
	return nil
}

func (m *mockScheduleStore) ListOwners(_ context.Context, _ string, kind domain.OwnerKind) ([]domain.ScheduleOwner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.owners[kind], nil
}

type mockAuthGateway struct {
	session   *domain.AuthSession
	err       error
	signedUp  map[string]any
	signedOut string
	refreshed string
}

func (m *mockAuthGateway) SignInWithPassword(_ context.Context, _, _ string) (*domain.AuthSession, error) {
	return m.session, m.err
}

func (m *mockAuthGateway) SignUp(_ context.Context, _, _ string, metadata map[string]any) (*domain.AuthSession, error) {
	m.signedUp = metadata
	return m.session, m.err
}

func (m *mockAuthGateway) RefreshSession(_ context.Context, refreshToken string) (*domain.AuthSession, error) {
	m.refreshed = refreshToken
	return m.session, m.err
}

func (m *mockAuthGateway) SignOut(_ context.Context, accessToken string) error {
	m.signedOut = accessToken
	return m.err
}
