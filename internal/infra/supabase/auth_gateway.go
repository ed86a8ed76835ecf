package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/boddenberg/agenda-bfa-go/internal/domain"

	"go.uber.org/zap"
)

// ============================================================
// AuthGateway implementation — GoTrue (/auth/v1)
// ============================================================

type authUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// tokenResponse covers both the session payload and the bare user payload
// that sign-up returns when e-mail confirmation is pending.
type tokenResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresIn    int       `json:"expires_in"`
	User         *authUser `json:"user"`
	ID           string    `json:"id"`
	Email        string    `json:"email"`
}

func (t tokenResponse) toSession() *domain.AuthSession {
	s := &domain.AuthSession{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		ExpiresIn:    t.ExpiresIn,
		UserID:       t.ID,
		Email:        t.Email,
	}
	if t.User != nil {
		s.UserID = t.User.ID
		s.Email = t.User.Email
	}
	return s
}

type authError struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
}

func (e authError) text() string {
	for _, s := range []string{e.ErrorDescription, e.Msg, e.Message, e.Error} {
		if s != "" {
			return s
		}
	}
	return ""
}

// SignInWithPassword exchanges e-mail and password for a session.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*domain.AuthSession, error) {
	ctx, span := tracer.Start(ctx, "Supabase.SignInWithPassword")
	defer span.End()

	var session *domain.AuthSession
	err := c.call(ctx, "supabase/auth", func() error {
		var tr tokenResponse
		if err := c.doAuth(ctx, http.MethodPost, "token?grant_type=password", "", map[string]string{
			"email":    email,
			"password": password,
		}, &tr); err != nil {
			return err
		}
		session = tr.toSession()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// SignUp registers a new auth user. metadata ends up in user_metadata.
// When e-mail confirmation is enabled the session has no tokens.
func (c *Client) SignUp(ctx context.Context, email, password string, metadata map[string]any) (*domain.AuthSession, error) {
	ctx, span := tracer.Start(ctx, "Supabase.SignUp")
	defer span.End()

	var session *domain.AuthSession
	err := c.call(ctx, "supabase/auth", func() error {
		var tr tokenResponse
		if err := c.doAuth(ctx, http.MethodPost, "signup", "", map[string]any{
			"email":    email,
			"password": password,
			"data":     metadata,
		}, &tr); err != nil {
			return err
		}
		session = tr.toSession()
		if session.UserID == "" {
			return fmt.Errorf("signup response without user id")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// RefreshSession trades a refresh token for a new session.
func (c *Client) RefreshSession(ctx context.Context, refreshToken string) (*domain.AuthSession, error) {
	ctx, span := tracer.Start(ctx, "Supabase.RefreshSession")
	defer span.End()

	var session *domain.AuthSession
	err := c.call(ctx, "supabase/auth", func() error {
		var tr tokenResponse
		if err := c.doAuth(ctx, http.MethodPost, "token?grant_type=refresh_token", "", map[string]string{
			"refresh_token": refreshToken,
		}, &tr); err != nil {
			return err
		}
		session = tr.toSession()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// SignOut revokes the refresh tokens of the session behind accessToken.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	ctx, span := tracer.Start(ctx, "Supabase.SignOut")
	defer span.End()

	return c.call(ctx, "supabase/auth", func() error {
		return c.doAuth(ctx, http.MethodPost, "logout", accessToken, nil, nil)
	})
}

// doAuth performs a GoTrue request with the anon key. A user token, when
// given, replaces the anon bearer. 4xx answers become permanent domain errors.
func (c *Client) doAuth(ctx context.Context, method, path, userToken string, payload, out any) error {
	endpoint := fmt.Sprintf("%s/auth/v1/%s", c.baseURL, path)

	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, &body)
	if err != nil {
		return err
	}
	bearer := c.apiKey
	if userToken != "" {
		bearer = userToken
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("supabase: auth request failed", zap.String("path", path), zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	raw, err := readBody(resp)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		var ae authError
		_ = json.Unmarshal(raw, &ae)
		msg := ae.text()
		c.logger.Warn("supabase: auth rejected",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("reason", msg),
		)
		if strings.Contains(strings.ToLower(msg), "already registered") || resp.StatusCode == http.StatusConflict {
			return &domain.ErrConflict{Message: "E-mail já cadastrado"}
		}
		switch resp.StatusCode {
		case http.StatusTooManyRequests:
			return fmt.Errorf("auth rate limited: %s", msg)
		case http.StatusUnprocessableEntity:
			return &domain.ErrValidation{Field: "password", Message: msg}
		}
		return &domain.ErrUnauthorized{Message: "Credenciais inválidas"}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("auth %s returned %d: %s", path, resp.StatusCode, string(raw))
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode auth response: %w", err)
	}
	return nil
}
