package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/boddenberg/agenda-bfa-go/internal/domain"

	"go.opentelemetry.io/otel/attribute"
)

// ============================================================
// ScheduleStore implementation — working_hours jsonb columns
// ============================================================

// ownerTable describes where a kind of owner keeps its working hours.
type ownerTable struct {
	table  string
	key    string
	fields string
}

var ownerTables = map[domain.OwnerKind]ownerTable{
	domain.OwnerStore:        {table: "stores", key: "id", fields: "id,business_id,working_hours"},
	domain.OwnerProfessional: {table: "professionals", key: "id", fields: "id,business_id,profile_id,working_hours"},
	domain.OwnerBusiness:     {table: "business_settings", key: "business_id", fields: "business_id,working_hours"},
}

type scheduleRow struct {
	ID           string          `json:"id"`
	BusinessID   string          `json:"business_id"`
	ProfileID    *string         `json:"profile_id"`
	WorkingHours json.RawMessage `json:"working_hours"`
}

func tableFor(kind domain.OwnerKind) (ownerTable, error) {
	t, ok := ownerTables[kind]
	if !ok {
		return ownerTable{}, &domain.ErrValidation{Field: "kind", Message: fmt.Sprintf("tipo desconhecido: %q", kind)}
	}
	return t, nil
}

// LoadWorkingHours returns the stored working-hours value of an owner.
// Business settings rows are created on first save, so a missing business
// row yields an empty value instead of ErrNotFound.
func (c *Client) LoadWorkingHours(ctx context.Context, owner domain.ScheduleOwner) (*domain.StoredSchedule, error) {
	ctx, span := tracer.Start(ctx, "Supabase.LoadWorkingHours")
	defer span.End()
	span.SetAttributes(
		attribute.String("owner.kind", string(owner.Kind)),
		attribute.String("owner.id", owner.ID),
	)

	t, err := tableFor(owner.Kind)
	if err != nil {
		return nil, err
	}

	var stored *domain.StoredSchedule
	err = c.call(ctx, "supabase/"+t.table, func() error {
		path := fmt.Sprintf("%s?%s=%s&select=%s&limit=1", t.table, t.key, eq(owner.ID), t.fields)
		body, err := c.doRequest(ctx, http.MethodGet, path)
		if err != nil {
			return err
		}

		var rows []scheduleRow
		if body != nil {
			if err := json.Unmarshal(body, &rows); err != nil {
				return fmt.Errorf("decode %s: %w", t.table, err)
			}
		}

		if len(rows) == 0 {
			if owner.Kind == domain.OwnerBusiness {
				stored = &domain.StoredSchedule{Owner: owner, BusinessID: owner.ID}
				return nil
			}
			return &domain.ErrNotFound{Resource: string(owner.Kind), ID: owner.ID}
		}

		row := rows[0]
		stored = &domain.StoredSchedule{
			Owner:      owner,
			BusinessID: row.BusinessID,
			Raw:        row.WorkingHours,
		}
		if row.ProfileID != nil {
			stored.ProfileID = *row.ProfileID
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stored, nil
}

// SaveWorkingHours overwrites the whole working-hours value of an owner.
func (c *Client) SaveWorkingHours(ctx context.Context, owner domain.ScheduleOwner, schedule domain.WeeklySchedule) error {
	ctx, span := tracer.Start(ctx, "Supabase.SaveWorkingHours")
	defer span.End()
	span.SetAttributes(
		attribute.String("owner.kind", string(owner.Kind)),
		attribute.String("owner.id", owner.ID),
	)

	t, err := tableFor(owner.Kind)
	if err != nil {
		return err
	}

	return c.call(ctx, "supabase/"+t.table, func() error {
		if owner.Kind == domain.OwnerBusiness {
			return c.doUpsert(ctx, t.table, t.key, map[string]any{
				"business_id":   owner.ID,
				"working_hours": schedule,
			})
		}
		path := fmt.Sprintf("%s?%s=%s", t.table, t.key, eq(owner.ID))
		return c.doPatch(ctx, path, map[string]any{"working_hours": schedule})
	})
}

// ListOwners returns the stores or professionals of a business.
func (c *Client) ListOwners(ctx context.Context, businessID string, kind domain.OwnerKind) ([]domain.ScheduleOwner, error) {
	ctx, span := tracer.Start(ctx, "Supabase.ListOwners")
	defer span.End()

	if kind == domain.OwnerBusiness {
		return []domain.ScheduleOwner{{Kind: kind, ID: businessID}}, nil
	}
	t, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	var owners []domain.ScheduleOwner
	err = c.call(ctx, "supabase/"+t.table, func() error {
		path := fmt.Sprintf("%s?business_id=%s&select=id&order=id.asc", t.table, eq(businessID))
		body, err := c.doRequest(ctx, http.MethodGet, path)
		if err != nil {
			return err
		}

		var rows []struct {
			ID string `json:"id"`
		}
		if body != nil {
			if err := json.Unmarshal(body, &rows); err != nil {
				return fmt.Errorf("decode %s: %w", t.table, err)
			}
		}
		owners = make([]domain.ScheduleOwner, 0, len(rows))
		for _, r := range rows {
			owners = append(owners, domain.ScheduleOwner{Kind: kind, ID: r.ID})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return owners, nil
}
