package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trakby/trakby-backend-go/internal/domain/staff"
	"github.com/trakby/trakby-backend-go/internal/pkg/jwt"
)

func newAuthRouter(t *testing.T) (http.Handler, jwt.Service) {
	t.Helper()
	svc, err := jwt.NewJWTService("test-secret", "1h")
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Use(jwtauth.Verifier(svc.JWTAuth()))
	r.Use(AuthRequired(svc.JWTAuth()))
	r.Get("/me", func(w http.ResponseWriter, r *http.Request) {
		p, _ := PrincipalFromContext(r.Context())
		w.Write([]byte(p.StaffID + ":" + string(p.Role)))
	})
	r.With(RequireAdmin).Get("/admin", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return r, svc
}

func TestAuthRequired(t *testing.T) {
	h, svc := newAuthRouter(t)

	access, _, err := svc.GenerateAccessToken("staff-1", " Staff ")
	require.NoError(t, err)
	sseToken, _, err := svc.GenerateSSEToken("staff-1")
	require.NoError(t, err)

	tests := []struct {
		name   string
		token  string
		status int
		body   string
	}{
		{"access token", access, http.StatusOK, "staff-1:staff"},
		{"missing token", "", http.StatusUnauthorized, ""},
		{"sse token rejected", sseToken, http.StatusUnauthorized, ""},
		{"garbage", "not-a-jwt", http.StatusUnauthorized, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, rec.Body.String())
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	h, svc := newAuthRouter(t)

	for role, status := range map[string]int{"ADMIN": http.StatusNoContent, "staff": http.StatusForbidden} {
		token, _, err := svc.GenerateAccessToken("staff-1", role)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, status, rec.Code, role)
	}
}

func TestRateLimit_PerStaff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := RateLimit(ctx, 1, 2)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func(staffID string) int {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req = req.WithContext(WithPrincipal(req.Context(), Principal{StaffID: staffID, Role: staff.RoleStaff}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, do("a"))
	assert.Equal(t, http.StatusOK, do("a"))
	assert.Equal(t, http.StatusTooManyRequests, do("a"))
	assert.Equal(t, http.StatusOK, do("b"))
}

func TestKeyedLimiter_Sweep(t *testing.T) {
	kl := newKeyedLimiter(1, 1)
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	kl.now = func() time.Time { return now }

	kl.get("old")
	now = now.Add(limiterIdleTTL + time.Second)
	kl.get("fresh")
	kl.sweep()

	assert.Len(t, kl.limiters, 1)
	assert.Contains(t, kl.limiters, "fresh")
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	assert.Equal(t, "10.0.0.1", clientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", clientIP(req))
}
