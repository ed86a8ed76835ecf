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
// ProfileStore implementation — profiles and businesses via PostgREST
// ============================================================

type profileRow struct {
	ID         string  `json:"id"`
	Role       string  `json:"role"`
	BusinessID *string `json:"business_id"`
	FullName   *string `json:"full_name"`
	Email      *string `json:"email"`
}

func (r profileRow) toDomain() *domain.Profile {
	p := &domain.Profile{ID: r.ID, Role: domain.Role(r.Role)}
	if r.BusinessID != nil {
		p.BusinessID = *r.BusinessID
	}
	if r.FullName != nil {
		p.FullName = *r.FullName
	}
	if r.Email != nil {
		p.Email = *r.Email
	}
	return p
}

// GetProfile fetches the profile row of an auth user.
func (c *Client) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	ctx, span := tracer.Start(ctx, "Supabase.GetProfile")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	var profile *domain.Profile
	err := c.call(ctx, "supabase/profiles", func() error {
		path := fmt.Sprintf("profiles?id=%s&select=id,role,business_id,full_name,email&limit=1", eq(userID))
		body, err := c.doRequest(ctx, http.MethodGet, path)
		if err != nil {
			return err
		}
		if body == nil || string(body) == "[]" {
			return &domain.ErrNotFound{Resource: "profile", ID: userID}
		}

		var rows []profileRow
		if err := json.Unmarshal(body, &rows); err != nil {
			return fmt.Errorf("decode profiles: %w", err)
		}
		if len(rows) == 0 {
			return &domain.ErrNotFound{Resource: "profile", ID: userID}
		}
		profile = rows[0].toDomain()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// CreateProfile inserts the profile row of a freshly signed-up user.
func (c *Client) CreateProfile(ctx context.Context, p *domain.Profile) error {
	ctx, span := tracer.Start(ctx, "Supabase.CreateProfile")
	defer span.End()

	row := map[string]any{
		"id":        p.ID,
		"role":      string(p.Role),
		"full_name": p.FullName,
		"email":     p.Email,
	}
	if p.BusinessID != "" {
		row["business_id"] = p.BusinessID
	}

	return c.call(ctx, "supabase/profiles", func() error {
		_, err := c.doPost(ctx, "profiles", row)
		return err
	})
}

// CreateBusiness inserts a business owned by ownerID.
func (c *Client) CreateBusiness(ctx context.Context, id, name, ownerID string) error {
	ctx, span := tracer.Start(ctx, "Supabase.CreateBusiness")
	defer span.End()
	span.SetAttributes(attribute.String("business.id", id))

	return c.call(ctx, "supabase/businesses", func() error {
		_, err := c.doPost(ctx, "businesses", map[string]any{
			"id":       id,
			"name":     name,
			"owner_id": ownerID,
		})
		return err
	})
}
