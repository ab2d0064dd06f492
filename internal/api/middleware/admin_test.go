package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/fitpulse/session-agent/internal/core/domain"
)

type stubManager struct {
	snapshot domain.Snapshot
	admin    bool
}

func (m *stubManager) Snapshot() domain.Snapshot { return m.snapshot }

func (m *stubManager) Subscribe(func(domain.Snapshot)) func() { return func() {} }

func (m *stubManager) Login(context.Context, string, string) bool { return false }

func (m *stubManager) Signup(context.Context, string, string, string) bool { return false }

func (m *stubManager) Logout(context.Context) {}

func (m *stubManager) ReconcileSubscription(context.Context) {}

func (m *stubManager) UpdateIdentity(context.Context, domain.IdentityPatch) {}

func (m *stubManager) IsAdmin() bool { return m.admin }

func run(t *testing.T, manager *stubManager) (*httptest.ResponseRecorder, bool, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/admin/overview", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := RequireAdmin(manager)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	return rec, called, handler(c)
}

func TestRequireAdmin_Allows(t *testing.T) {
	manager := &stubManager{
		snapshot: domain.Snapshot{Identity: &domain.Identity{Role: domain.RoleAdmin}},
		admin:    true,
	}
	rec, called, err := run(t, manager)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next handler not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRequireAdmin_ForbidsMember(t *testing.T) {
	manager := &stubManager{
		snapshot: domain.Snapshot{Identity: &domain.Identity{Role: domain.RoleUser}},
	}
	_, called, err := run(t, manager)
	if called {
		t.Fatalf("next handler must not run")
	}
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestRequireAdmin_RejectsAnonymous(t *testing.T) {
	manager := &stubManager{snapshot: domain.Snapshot{}}
	_, called, err := run(t, manager)
	if called {
		t.Fatalf("next handler must not run")
	}
	if !errors.Is(err, domain.ErrAnonymous) {
		t.Fatalf("expected ErrAnonymous, got %v", err)
	}
}
