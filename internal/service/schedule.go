package service

import (
	"context"
	"fmt"
	"time"

	"github.com/boddenberg/agenda-bfa-go/internal/availability"
	"github.com/boddenberg/agenda-bfa-go/internal/domain"
	"github.com/boddenberg/agenda-bfa-go/internal/infra/observability"
	"github.com/boddenberg/agenda-bfa-go/internal/infra/resilience"
	"github.com/boddenberg/agenda-bfa-go/internal/port"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const opReplace = "replace"

// ScheduleService reads and edits the working hours of stores,
// professionals and business settings. Every write goes through the store's
// SaveWorkingHours with the full seven-day schedule.
type ScheduleService struct {
	store    port.ScheduleStore
	bulkhead *resilience.Bulkhead
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// NewScheduleService creates the schedule service. The bulkhead bounds the
// concurrent loads of Overview.
func NewScheduleService(store port.ScheduleStore, bulkhead *resilience.Bulkhead, metrics *observability.Metrics, logger *zap.Logger) *ScheduleService {
	return &ScheduleService{
		store:    store,
		bulkhead: bulkhead,
		metrics:  metrics,
		logger:   logger,
	}
}

// Get returns the decoded schedule of owner. Any authenticated caller may read.
func (s *ScheduleService) Get(ctx context.Context, caller domain.Identity, owner domain.ScheduleOwner) (*domain.ScheduleResponse, error) {
	ctx, span := tracer.Start(ctx, "ScheduleService.Get")
	defer span.End()
	span.SetAttributes(attribute.String("owner.kind", string(owner.Kind)), attribute.String("owner.id", owner.ID))

	if err := requireAuthenticated(caller); err != nil {
		return nil, err
	}
	if err := validateOwner(owner); err != nil {
		return nil, err
	}

	stored, err := s.store.LoadWorkingHours(ctx, owner)
	if err != nil {
		return nil, err
	}
	schedule, err := availability.Decode(stored.Raw)
	if err != nil {
		return nil, fmt.Errorf("decode working hours of %s %s: %w", owner.Kind, owner.ID, err)
	}
	return response(owner, schedule), nil
}

// Replace overwrites the whole schedule of owner.
func (s *ScheduleService) Replace(ctx context.Context, caller domain.Identity, owner domain.ScheduleOwner, schedule domain.WeeklySchedule) (*domain.ScheduleResponse, error) {
	ctx, span := tracer.Start(ctx, "ScheduleService.Replace")
	defer span.End()

	schedule, err := normalizeSchedule(schedule)
	if err != nil {
		return nil, err
	}
	if _, err := s.loadForWrite(ctx, caller, owner); err != nil {
		return nil, err
	}

	var saveErr error
	model := availability.New(nil, func(w domain.WeeklySchedule) {
		saveErr = s.store.SaveWorkingHours(ctx, owner, w)
	})
	model.Reset(schedule)
	if saveErr != nil {
		return nil, fmt.Errorf("save working hours: %w", saveErr)
	}
	s.metrics.IncrScheduleMutation(opReplace)
	s.logMutation(caller, owner, opReplace)

	return response(owner, schedule), nil
}

// Apply runs one model edit against the stored schedule of owner and
// persists the resulting snapshot. An edit the model ignores (removing the
// last slot of a day) writes nothing.
func (s *ScheduleService) Apply(ctx context.Context, caller domain.Identity, owner domain.ScheduleOwner, op availability.Op) (*domain.ScheduleResponse, error) {
	ctx, span := tracer.Start(ctx, "ScheduleService.Apply")
	defer span.End()
	span.SetAttributes(attribute.String("schedule.op", string(op.Kind)))

	stored, err := s.loadForWrite(ctx, caller, owner)
	if err != nil {
		return nil, err
	}

	var (
		saved   bool
		saveErr error
	)
	model, err := availability.NewFromStored(stored.Raw, func(w domain.WeeklySchedule) {
		saved = true
		saveErr = s.store.SaveWorkingHours(ctx, owner, w)
	})
	if err != nil {
		return nil, fmt.Errorf("decode working hours of %s %s: %w", owner.Kind, owner.ID, err)
	}

	if err := model.Apply(op); err != nil {
		return nil, err
	}
	if saveErr != nil {
		return nil, fmt.Errorf("save working hours: %w", saveErr)
	}
	if saved {
		s.metrics.IncrScheduleMutation(string(op.Kind))
		s.logMutation(caller, owner, string(op.Kind))
	}

	return response(owner, model.Schedule()), nil
}

// Overview loads the business settings, every store and every professional
// schedule of a business concurrently.
func (s *ScheduleService) Overview(ctx context.Context, caller domain.Identity, businessID string) (*domain.AvailabilityOverview, error) {
	ctx, span := tracer.Start(ctx, "ScheduleService.Overview")
	defer span.End()
	span.SetAttributes(attribute.String("business.id", businessID))

	start := time.Now()
	defer func() {
		s.metrics.RecordRequestDuration("schedule_overview", time.Since(start))
	}()

	if err := requireAuthenticated(caller); err != nil {
		return nil, err
	}
	if caller.Role() != domain.RoleSaaSAdmin && caller.BusinessID() != businessID {
		return nil, forbidden(caller, "ver horários de outro negócio")
	}

	var stores, professionals []domain.ScheduleOwner
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stores, err = s.store.ListOwners(gCtx, businessID, domain.OwnerStore)
		return err
	})
	g.Go(func() error {
		var err error
		professionals, err = s.store.ListOwners(gCtx, businessID, domain.OwnerProfessional)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("list owners: %w", err)
	}

	owners := make([]domain.ScheduleOwner, 0, 1+len(stores)+len(professionals))
	owners = append(owners, domain.ScheduleOwner{Kind: domain.OwnerBusiness, ID: businessID})
	owners = append(owners, stores...)
	owners = append(owners, professionals...)

	results := make([]domain.ScheduleResponse, len(owners))
	g, gCtx = errgroup.WithContext(ctx)
	for i, owner := range owners {
		i, owner := i, owner
		g.Go(func() error {
			if err := s.bulkhead.Acquire(gCtx); err != nil {
				return err
			}
			defer s.bulkhead.Release()

			resp, err := s.Get(gCtx, caller, owner)
			if err != nil {
				s.logger.Error("overview: failed to load schedule",
					zap.String("kind", string(owner.Kind)),
					zap.String("id", owner.ID),
					zap.Error(err),
				)
				return err
			}
			results[i] = *resp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &domain.AvailabilityOverview{
		BusinessID:    businessID,
		Business:      &results[0],
		Stores:        results[1 : 1+len(stores)],
		Professionals: results[1+len(stores):],
	}, nil
}

// loadForWrite loads the stored schedule and checks that caller may edit it.
func (s *ScheduleService) loadForWrite(ctx context.Context, caller domain.Identity, owner domain.ScheduleOwner) (*domain.StoredSchedule, error) {
	if err := requireAuthenticated(caller); err != nil {
		return nil, err
	}
	if err := validateOwner(owner); err != nil {
		return nil, err
	}
	stored, err := s.store.LoadWorkingHours(ctx, owner)
	if err != nil {
		return nil, err
	}
	if !CanEdit(caller, stored) {
		s.logger.Warn("schedule: edit denied",
			zap.String("user_id", caller.UserID),
			zap.String("role", string(caller.Role())),
			zap.String("kind", string(owner.Kind)),
			zap.String("id", owner.ID),
		)
		return nil, forbidden(caller, "editar horários")
	}
	return stored, nil
}

func (s *ScheduleService) logMutation(caller domain.Identity, owner domain.ScheduleOwner, op string) {
	s.logger.Info("working hours updated",
		zap.String("user_id", caller.UserID),
		zap.String("kind", string(owner.Kind)),
		zap.String("id", owner.ID),
		zap.String("op", op),
	)
}

// CanEdit reports whether caller may change the schedule in stored.
// Platform admins edit anything, owners edit their own business, and
// professionals edit only their own row.
func CanEdit(caller domain.Identity, stored *domain.StoredSchedule) bool {
	if !caller.Authenticated {
		return false
	}
	switch caller.Role() {
	case domain.RoleSaaSAdmin:
		return true
	case domain.RoleBusinessOwner:
		return caller.BusinessID() != "" && caller.BusinessID() == stored.BusinessID
	case domain.RoleProfessional:
		return stored.Owner.Kind == domain.OwnerProfessional && stored.ProfileID != "" && stored.ProfileID == caller.UserID
	}
	return false
}

func requireAuthenticated(caller domain.Identity) error {
	if !caller.Authenticated {
		return &domain.ErrUnauthorized{Message: "Autenticação obrigatória"}
	}
	return nil
}

func forbidden(caller domain.Identity, action string) error {
	return &domain.ErrForbidden{Action: action, RedirectTo: domain.RoleHome(caller.Role())}
}

func validateOwner(owner domain.ScheduleOwner) error {
	if !owner.Kind.Valid() {
		return &domain.ErrValidation{Field: "kind", Message: fmt.Sprintf("tipo desconhecido: %q", owner.Kind)}
	}
	if owner.ID == "" {
		return &domain.ErrValidation{Field: "id", Message: "id obrigatório"}
	}
	return nil
}

// normalizeSchedule requires seven days, each with at least one slot, and
// pins each day's key and label to its position.
func normalizeSchedule(w domain.WeeklySchedule) (domain.WeeklySchedule, error) {
	if len(w) != domain.DaysPerWeek {
		return nil, &domain.ErrValidation{
			Field:   "schedule",
			Message: fmt.Sprintf("a semana deve ter %d dias, recebido %d", domain.DaysPerWeek, len(w)),
		}
	}
	out := w.Clone()
	for i := range out {
		if out[i].Day != "" && out[i].Day != domain.DayKeys[i] {
			return nil, &domain.ErrValidation{
				Field:   fmt.Sprintf("schedule[%d].day", i),
				Message: fmt.Sprintf("esperado %q", domain.DayKeys[i]),
			}
		}
		if len(out[i].TimeSlots) == 0 {
			return nil, &domain.ErrValidation{
				Field:   fmt.Sprintf("schedule[%d].timeSlots", i),
				Message: "cada dia precisa de ao menos um horário",
			}
		}
		out[i].Day = domain.DayKeys[i]
		out[i].DayLabel = domain.DayLabels[i]
	}
	return out, nil
}

func response(owner domain.ScheduleOwner, schedule domain.WeeklySchedule) *domain.ScheduleResponse {
	return &domain.ScheduleResponse{
		Owner:    owner,
		Schedule: schedule,
		Warnings: availability.Warnings(schedule),
	}
}
