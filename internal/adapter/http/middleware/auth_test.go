package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/orbitcrm/ledger/internal/infrastructure/auth"
)

func identityEcho(t *testing.T, wantTenant, wantActor string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := TenantID(r.Context()); got != wantTenant {
			t.Errorf("expected tenant %q, got %q", wantTenant, got)
		}
		if got := ActorID(r.Context()); got != wantActor {
			t.Errorf("expected actor %q, got %q", wantActor, got)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware_HeaderMode(t *testing.T) {
	m := NewAuthMiddleware(nil)
	wrapped := m.Wrap(identityEcho(t, "tenant-1", "actor-1"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
	req.Header.Set(TenantIDHeader, "tenant-1")
	req.Header.Set(ActorIDHeader, "actor-1")
	rec := httptest.NewRecorder()

	wrapped.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_HeaderMode_MissingIdentity(t *testing.T) {
	m := NewAuthMiddleware(nil)
	wrapped := m.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run without identity")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
	req.Header.Set(TenantIDHeader, "tenant-1")
	rec := httptest.NewRecorder()

	wrapped.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_TokenMode(t *testing.T) {
	manager := auth.NewJWTManager("test-secret")
	token, err := manager.Generate("tenant-1", "actor-1", time.Hour)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	m := NewAuthMiddleware(manager)
	wrapped := m.Wrap(identityEcho(t, "tenant-1", "actor-1"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	wrapped.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_TokenMode_Rejections(t *testing.T) {
	manager := auth.NewJWTManager("test-secret")

	otherManager := auth.NewJWTManager("other-secret")
	forged, err := otherManager.Generate("tenant-1", "actor-1", time.Hour)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not-a-token"},
		{"wrong secret", "Bearer " + forged},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewAuthMiddleware(manager)
			wrapped := m.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Fatal("handler should not run")
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			wrapped.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
		})
	}
}

func TestAuthMiddleware_IgnoresIdentityHeadersInTokenMode(t *testing.T) {
	manager := auth.NewJWTManager("test-secret")

	m := NewAuthMiddleware(manager)
	wrapped := m.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil)
	req.Header.Set(TenantIDHeader, "tenant-1")
	req.Header.Set(ActorIDHeader, "actor-1")
	rec := httptest.NewRecorder()

	wrapped.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
