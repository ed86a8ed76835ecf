package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/boddenberg/agenda-bfa-go/internal/availability"
	"github.com/boddenberg/agenda-bfa-go/internal/domain"
	"github.com/boddenberg/agenda-bfa-go/internal/service"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ============================================================
// 3. Horários de funcionamento — /v1/working-hours/{kind}/{id}
// ============================================================

type setDayOpenRequest struct {
	IsOpen *bool `json:"isOpen"`
}

type setSlotTimeRequest struct {
	Field availability.SlotField `json:"field"`
	Value string                 `json:"value"`
}

func ownerParam(r *http.Request) domain.ScheduleOwner {
	return domain.ScheduleOwner{
		Kind: domain.OwnerKind(chi.URLParam(r, "kind")),
		ID:   chi.URLParam(r, "id"),
	}
}

// dayParam accepts a day index (0 = monday) or a day key.
func dayParam(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "day")
	if i, ok := domain.DayIndex(raw); ok {
		return i, nil
	}
	i, err := strconv.Atoi(raw)
	if err != nil || i < 0 || i >= domain.DaysPerWeek {
		return 0, &domain.ErrValidation{Field: "day", Message: fmt.Sprintf("dia inválido: %q", raw)}
	}
	return i, nil
}

func slotParam(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "slot")
	i, err := strconv.Atoi(raw)
	if err != nil || i < 0 {
		return 0, &domain.ErrValidation{Field: "slot", Message: fmt.Sprintf("horário inválido: %q", raw)}
	}
	return i, nil
}

func getScheduleHandler(svc *service.ScheduleService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/working-hours/{kind}/{id}")
		defer span.End()

		owner := ownerParam(r)
		span.SetAttributes(attribute.String("owner.kind", string(owner.Kind)), attribute.String("owner.id", owner.ID))

		resp, err := svc.Get(ctx, IdentityFromContext(ctx), owner)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func replaceScheduleHandler(svc *service.ScheduleService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/working-hours/{kind}/{id}")
		defer span.End()

		var schedule domain.WeeklySchedule
		if err := json.NewDecoder(r.Body).Decode(&schedule); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		resp, err := svc.Replace(ctx, IdentityFromContext(ctx), ownerParam(r), schedule)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func setDayOpenHandler(svc *service.ScheduleService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		day, err := dayParam(r)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		var req setDayOpenRequest
		if err := decodeJSON(r, &req); err != nil || req.IsOpen == nil {
			writeError(w, http.StatusBadRequest, "isOpen is required")
			return
		}
		applyOp(w, r, svc, logger, availability.Op{Kind: availability.OpSetDayOpen, Day: day, IsOpen: *req.IsOpen})
	}
}

func addSlotHandler(svc *service.ScheduleService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		day, err := dayParam(r)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		applyOp(w, r, svc, logger, availability.Op{Kind: availability.OpAddSlot, Day: day})
	}
}

func setSlotTimeHandler(svc *service.ScheduleService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		day, err := dayParam(r)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		slot, err := slotParam(r)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		var req setSlotTimeRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		applyOp(w, r, svc, logger, availability.Op{
			Kind:  availability.OpSetSlotTime,
			Day:   day,
			Slot:  slot,
			Field: req.Field,
			Value: req.Value,
		})
	}
}

func removeSlotHandler(svc *service.ScheduleService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		day, err := dayParam(r)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		slot, err := slotParam(r)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		applyOp(w, r, svc, logger, availability.Op{Kind: availability.OpRemoveSlot, Day: day, Slot: slot})
	}
}

func copyDayToAllHandler(svc *service.ScheduleService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		day, err := dayParam(r)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		applyOp(w, r, svc, logger, availability.Op{Kind: availability.OpCopyDayToAll, Day: day})
	}
}

func applyOp(w http.ResponseWriter, r *http.Request, svc *service.ScheduleService, logger *zap.Logger, op availability.Op) {
	ctx, span := tracer.Start(r.Context(), "working-hours "+string(op.Kind))
	defer span.End()

	owner := ownerParam(r)
	span.SetAttributes(
		attribute.String("owner.kind", string(owner.Kind)),
		attribute.String("owner.id", owner.ID),
		attribute.Int("schedule.day", op.Day),
	)

	resp, err := svc.Apply(ctx, IdentityFromContext(ctx), owner, op)
	if err != nil {
		handleServiceError(w, err, logger)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// ============================================================
// 4. Visão do negócio — GET /v1/businesses/{businessId}/availability
// ============================================================

func overviewHandler(svc *service.ScheduleService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/businesses/{businessId}/availability")
		defer span.End()

		businessID := chi.URLParam(r, "businessId")
		span.SetAttributes(attribute.String("business.id", businessID))

		resp, err := svc.Overview(ctx, IdentityFromContext(ctx), businessID)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
