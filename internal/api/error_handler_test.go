package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/agencyworks/project-system/internal/core/domain"
	"github.com/agencyworks/project-system/internal/infrastructure/lock"
	"github.com/agencyworks/project-system/internal/pkg/config"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// resolveError mapping
// ---------------------------------------------------------------------------

func TestResolveError_DomainKinds(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	cases := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{fmt.Errorf("op: %w: bad input", domain.ErrValidation), http.StatusBadRequest, "validation_error"},
		{fmt.Errorf("op: %w", domain.ErrNotFound), http.StatusNotFound, "not_found"},
		{fmt.Errorf("op: %w", domain.ErrConflict), http.StatusConflict, "conflict"},
		{fmt.Errorf("op: %w", domain.ErrForbidden), http.StatusForbidden, "forbidden"},
		{fmt.Errorf("op: %w", domain.ErrForbiddenTransition), http.StatusUnprocessableEntity, "forbidden_transition"},
		{fmt.Errorf("op: %w", domain.ErrInvalidState), http.StatusConflict, "state_error"},
		{fmt.Errorf("op: %w", domain.ErrInvalidCredentials), http.StatusUnauthorized, "invalid_credentials"},
		{fmt.Errorf("op: %w", domain.ErrUnavailable), http.StatusServiceUnavailable, "unavailable"},
		{fmt.Errorf("op: something else"), http.StatusInternalServerError, "internal"},
	}

	for _, tc := range cases {
		status, resp := resolveError(tc.err, discardLogger, c)
		if status != tc.wantStatus {
			t.Errorf("%v: expected status %d, got %d", tc.err, tc.wantStatus, status)
		}
		if resp.Code != tc.wantCode {
			t.Errorf("%v: expected code %q, got %q", tc.err, tc.wantCode, resp.Code)
		}
	}
}

func TestResolveError_PartialApproval(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), httptest.NewRecorder())

	err := &domain.PartialApprovalError{
		ReviewID:      "r1",
		ReviewUpdated: true,
		Cause:         fmt.Errorf("write timeout"),
	}

	status, resp := resolveError(err, discardLogger, c)
	if status != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", status)
	}
	if resp.Code != "unavailable" {
		t.Fatalf("expected code unavailable, got %q", resp.Code)
	}
}

// ---------------------------------------------------------------------------
// Router wiring
// ---------------------------------------------------------------------------

type nopNotifier struct{}

func (nopNotifier) Notify(_ context.Context, _, _ string) {}

func newTestRouter() *echo.Echo {
	cfg := &config.Config{
		JWTSecret: "test-secret",
		TokenTTL:  time.Hour,
	}
	return NewRouter(nil, nil, lock.NewKeyedMutex(), nopNotifier{}, cfg, discardLogger)
}

// The custom error handler must be attached to the router: an unmatched route
// has to come back in the stable {"code","error"} envelope rather than Echo's
// default {"message"} body.
func TestNewRouter_AttachesErrorHandler(t *testing.T) {
	e := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/no-such-route", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["code"] != "http_error" {
		t.Fatalf("expected stable error envelope, got %v", resp)
	}
}

func TestNewRouter_ProtectedRouteRequiresAuth(t *testing.T) {
	e := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/projects", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a bearer token, got %d", rec.Code)
	}
}
