package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/fitpulse/session-agent/internal/core/domain"
)

type stubManager struct {
	snapshot    domain.Snapshot
	loginFn     func(email, password string) bool
	signupFn    func(name, email, password string) bool
	logoutCalls int
	reconciles  int
	patches     []domain.IdentityPatch
	admin       bool
}

func (m *stubManager) Snapshot() domain.Snapshot { return m.snapshot }

func (m *stubManager) Subscribe(func(domain.Snapshot)) func() { return func() {} }

func (m *stubManager) Login(_ context.Context, email, password string) bool {
	return m.loginFn(email, password)
}

func (m *stubManager) Signup(_ context.Context, name, email, password string) bool {
	return m.signupFn(name, email, password)
}

func (m *stubManager) Logout(_ context.Context) { m.logoutCalls++ }

func (m *stubManager) ReconcileSubscription(_ context.Context) { m.reconciles++ }

func (m *stubManager) UpdateIdentity(_ context.Context, patch domain.IdentityPatch) {
	m.patches = append(m.patches, patch)
}

func (m *stubManager) IsAdmin() bool { return m.admin }

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func postJSON(e *echo.Echo, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Login_Success(t *testing.T) {
	e := newEcho()
	identity := &domain.Identity{ID: "u_1", Name: "Alice", Token: "tok-1"}
	stub := &stubManager{
		snapshot: domain.Snapshot{Identity: identity},
		loginFn: func(email, password string) bool {
			if email != "alice@example.com" || password != "pw" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return true
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := postJSON(e, "/auth/login", `{"email":"alice@example.com","password":"pw"}`)
	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp domain.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Identity == nil || resp.Identity.ID != "u_1" {
		t.Fatalf("unexpected snapshot: %+v", resp)
	}
}

func TestAuthHandler_Login_Failure(t *testing.T) {
	e := newEcho()
	stub := &stubManager{
		snapshot: domain.Snapshot{},
		loginFn:  func(string, string) bool { return false },
	}
	handler := NewAuthHandler(stub)

	c, _ := postJSON(e, "/auth/login", `{"email":"alice@example.com","password":"bad"}`)
	err := handler.Login(c)

	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Login_InvalidPayload(t *testing.T) {
	e := newEcho()
	stub := &stubManager{
		loginFn: func(string, string) bool {
			t.Fatalf("should not be called")
			return false
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := postJSON(e, "/auth/login", `{"email":"not-an-email","password":"pw"}`)
	err := handler.Login(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestAuthHandler_Signup_ValidatesPasswordLength(t *testing.T) {
	e := newEcho()
	stub := &stubManager{
		signupFn: func(string, string, string) bool {
			t.Fatalf("should not be called")
			return false
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := postJSON(e, "/auth/signup", `{"name":"Bob","email":"bob@example.com","password":"short"}`)
	err := handler.Signup(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
	if !strings.Contains(fmt.Sprintf("%v", he.Message), "password") {
		t.Fatalf("expected password validation message, got %v", he.Message)
	}
}

func TestAuthHandler_Signup_Conflict(t *testing.T) {
	e := newEcho()
	stub := &stubManager{
		signupFn: func(string, string, string) bool { return false },
	}
	handler := NewAuthHandler(stub)

	c, _ := postJSON(e, "/auth/signup", `{"name":"Bob","email":"bob@example.com","password":"longenough"}`)
	if err := handler.Signup(c); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthHandler_Signup_Success(t *testing.T) {
	e := newEcho()
	stub := &stubManager{
		snapshot: domain.Snapshot{Identity: &domain.Identity{ID: "u_2", Name: "Bob"}},
		signupFn: func(name, email, password string) bool {
			if name != "Bob" || email != "bob@example.com" {
				t.Fatalf("unexpected args: %s %s", name, email)
			}
			return true
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := postJSON(e, "/auth/signup", `{"name":"Bob","email":"bob@example.com","password":"longenough"}`)
	if err := handler.Signup(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	e := newEcho()
	stub := &stubManager{}
	handler := NewAuthHandler(stub)

	c, rec := postJSON(e, "/auth/logout", "")
	if err := handler.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if stub.logoutCalls != 1 {
		t.Fatalf("expected logout invoked once, got %d", stub.logoutCalls)
	}
}
