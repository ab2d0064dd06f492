package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/fitpulse/session-agent/internal/core/domain"
)

func TestSessionHandler_Snapshot(t *testing.T) {
	e := newEcho()
	stub := &stubManager{snapshot: domain.Snapshot{Loading: true}}
	handler := NewSessionHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/session", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Snapshot(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"loading":true`) {
		t.Fatalf("expected loading flag in response, got %s", rec.Body.String())
	}
}

func TestSessionHandler_UpdateIdentity(t *testing.T) {
	e := newEcho()
	stub := &stubManager{snapshot: domain.Snapshot{Identity: &domain.Identity{ID: "u_1"}}}
	handler := NewSessionHandler(stub)

	req := httptest.NewRequest(http.MethodPatch, "/session/identity",
		strings.NewReader(`{"name":"Alice Cooper","token":"tok-fresh"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.UpdateIdentity(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(stub.patches) != 1 {
		t.Fatalf("expected one patch, got %d", len(stub.patches))
	}
	patch := stub.patches[0]
	if patch.Name == nil || *patch.Name != "Alice Cooper" {
		t.Fatalf("unexpected patch name: %+v", patch)
	}
	if patch.Token == nil || *patch.Token != "tok-fresh" {
		t.Fatalf("unexpected patch token: %+v", patch)
	}
	if patch.Email != nil || patch.Avatar != nil || patch.Plan != nil {
		t.Fatalf("expected absent fields to stay nil: %+v", patch)
	}
}

func TestSessionHandler_UpdateIdentity_Anonymous(t *testing.T) {
	e := newEcho()
	stub := &stubManager{snapshot: domain.Snapshot{}}
	handler := NewSessionHandler(stub)

	req := httptest.NewRequest(http.MethodPatch, "/session/identity", strings.NewReader(`{"name":"X"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.UpdateIdentity(c); !errors.Is(err, domain.ErrAnonymous) {
		t.Fatalf("expected ErrAnonymous, got %v", err)
	}
	if len(stub.patches) != 0 {
		t.Fatalf("expected no patch applied")
	}
}

func TestSessionHandler_UpdateIdentity_EmptyPatch(t *testing.T) {
	e := newEcho()
	stub := &stubManager{snapshot: domain.Snapshot{Identity: &domain.Identity{ID: "u_1"}}}
	handler := NewSessionHandler(stub)

	req := httptest.NewRequest(http.MethodPatch, "/session/identity", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.UpdateIdentity(c)

	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestSessionHandler_RefreshSubscription(t *testing.T) {
	e := newEcho()
	stub := &stubManager{snapshot: domain.Snapshot{Identity: &domain.Identity{ID: "u_1"}}}
	handler := NewSessionHandler(stub)

	c, rec := postJSON(e, "/subscription/refresh", "")
	if err := handler.RefreshSubscription(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if stub.reconciles != 1 {
		t.Fatalf("expected one reconciliation, got %d", stub.reconciles)
	}
}

func TestSessionHandler_RefreshSubscription_Anonymous(t *testing.T) {
	e := newEcho()
	stub := &stubManager{snapshot: domain.Snapshot{}}
	handler := NewSessionHandler(stub)

	c, _ := postJSON(e, "/subscription/refresh", "")
	if err := handler.RefreshSubscription(c); !errors.Is(err, domain.ErrAnonymous) {
		t.Fatalf("expected ErrAnonymous, got %v", err)
	}
	if stub.reconciles != 0 {
		t.Fatalf("expected no reconciliation while anonymous")
	}
}
