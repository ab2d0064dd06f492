// Package client implements the HTTP clients for the remote FitPulse
// platform services consumed by the session agent.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/fitpulse/session-agent/internal/core/domain"
)

const defaultTimeout = 10 * time.Second

// AuthClient talks to the platform's auth service: registration, login, and
// persisted-token validation. It implements ports.AuthProvider.
type AuthClient struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

func NewAuthClient(baseURL string, timeout time.Duration, log zerolog.Logger) *AuthClient {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &AuthClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// wireUser is the identity payload as the auth service sends it.
type wireUser struct {
	ID           string `json:"_id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	Subscription string `json:"subscriptionPlan"`
	ProfileImage string `json:"profileImage"`
	CreatedAt    string `json:"createdAt"`
}

type authPayload struct {
	User  wireUser `json:"user"`
	Token string   `json:"token"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// Register creates a new account and returns the normalized identity plus
// the issued bearer token.
func (c *AuthClient) Register(ctx context.Context, name, email, password string) (*domain.Identity, string, error) {
	body := map[string]string{"name": name, "email": email, "password": password}
	var payload authPayload
	if err := c.post(ctx, "/api/users/register", body, &payload); err != nil {
		return nil, "", err
	}
	if payload.Token == "" {
		return nil, "", fmt.Errorf("register: response carried no token")
	}
	return normalize(payload.User), payload.Token, nil
}

// Login authenticates the credentials and returns the normalized identity
// plus the issued bearer token.
func (c *AuthClient) Login(ctx context.Context, email, password string) (*domain.Identity, string, error) {
	body := map[string]string{"email": email, "password": password}
	var payload authPayload
	if err := c.post(ctx, "/api/users/login", body, &payload); err != nil {
		return nil, "", err
	}
	if payload.Token == "" {
		return nil, "", fmt.Errorf("login: response carried no token")
	}
	return normalize(payload.User), payload.Token, nil
}

// CurrentUser validates a bearer token by fetching the identity it belongs
// to. Any failure means the token is no longer good.
func (c *AuthClient) CurrentUser(ctx context.Context, token string) (*domain.Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/users/me", nil)
	if err != nil {
		return nil, fmt.Errorf("current user: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	var user wireUser
	if err := c.do(req, &user); err != nil {
		return nil, err
	}
	return normalize(user), nil
}

func (c *AuthClient) post(ctx context.Context, path string, body any, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *AuthClient) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("auth service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return remoteError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// normalize coerces the wire payload into the canonical identity: creation
// timestamp parsed with a "now" fallback, role and plan defaulted.
func normalize(u wireUser) *domain.Identity {
	createdAt, err := time.Parse(time.RFC3339, u.CreatedAt)
	if err != nil {
		createdAt = time.Now().UTC()
	}

	role := u.Role
	if role != domain.RoleAdmin {
		role = domain.RoleUser
	}

	plan := domain.Plan(u.Subscription)
	if !plan.Valid() {
		plan = domain.PlanFree
	}

	return &domain.Identity{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      role,
		Plan:      plan,
		Avatar:    u.ProfileImage,
		CreatedAt: createdAt,
	}
}

// remoteError drains the failure payload into a RemoteError carrying the
// server's human-readable message, when it sent one.
func remoteError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var payload errorPayload
	_ = json.Unmarshal(raw, &payload)
	return &domain.RemoteError{StatusCode: resp.StatusCode, Message: payload.Message}
}
