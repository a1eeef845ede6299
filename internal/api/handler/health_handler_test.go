package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/growthzi/dashboard/internal/core/domain"
)

func TestLiveness(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)

	if err := NewHealthHandler().Liveness(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestReadiness(t *testing.T) {
	ok := CheckFunc(func(context.Context) error { return nil })
	down := CheckFunc(func(context.Context) error { return errors.New("connection refused") })

	tests := []struct {
		name       string
		checks     map[string]Checker
		wantStatus int
		wantBody   string
	}{
		{"all healthy", map[string]Checker{"backend": ok, "redis": ok}, http.StatusOK, "ok"},
		{"one down", map[string]Checker{"backend": down, "redis": ok}, http.StatusServiceUnavailable, "degraded"},
		{
			"session loading",
			map[string]Checker{"session": SessionReady(&stubSessions{snap: domain.Snapshot{Phase: domain.PhaseLoading}})},
			http.StatusServiceUnavailable,
			"degraded",
		},
		{
			"session resolved",
			map[string]Checker{"session": SessionReady(&stubSessions{snap: domain.Anonymous()})},
			http.StatusOK,
			"ok",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health/ready", nil), rec)

			if err := NewReadinessHandler(tt.checks).Readiness(c); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}

			var body readinessResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Status != tt.wantBody || len(body.Dependencies) != len(tt.checks) {
				t.Fatalf("unexpected body %+v", body)
			}
		})
	}
}
