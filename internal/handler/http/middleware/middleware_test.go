package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/fg-dashboard-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func TestPrincipalFromContext(t *testing.T) {
	_, err := PrincipalFromContext(context.Background())
	assert.ErrorIs(t, err, user.ErrPrincipalMissing)

	ctx := WithPrincipal(context.Background(), user.Principal{UserID: "u1", Role: user.RoleLeader})
	p, err := PrincipalFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "u1", p.UserID)
}

func TestRequirePermission(t *testing.T) {
	h := RequirePermission(user.PermissionMetricsView)(okHandler)

	cases := []struct {
		name   string
		ctx    context.Context
		status int
	}{
		{"no principal", context.Background(), http.StatusUnauthorized},
		{"leader", WithPrincipal(context.Background(), user.Principal{UserID: "l", Role: user.RoleLeader}), http.StatusForbidden},
		{"manager", WithPrincipal(context.Background(), user.Principal{UserID: "m", Role: user.RoleManager}), http.StatusNoContent},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil).WithContext(c.ctx))
			assert.Equal(t, c.status, rec.Code)
		})
	}
}

func TestRateLimitByIP_SeparatesClients(t *testing.T) {
	h := RateLimitByIP(0.001, 1)(okHandler)

	serve := func(addr string) int {
		req := httptest.NewRequest("GET", "/", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, serve("10.0.0.1:5000"))
	assert.Equal(t, http.StatusTooManyRequests, serve("10.0.0.1:5001"), "same host, different port")
	assert.Equal(t, http.StatusNoContent, serve("10.0.0.2:5000"))
}

func TestRateLimitByUser(t *testing.T) {
	h := RateLimitByUser(0.001, 1)(okHandler)

	serve := func(ctx context.Context) int {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil).WithContext(ctx))
		return rec.Code
	}

	alice := WithPrincipal(context.Background(), user.Principal{UserID: "alice", Role: user.RoleAdmin})
	assert.Equal(t, http.StatusNoContent, serve(alice))
	assert.Equal(t, http.StatusTooManyRequests, serve(alice))
	assert.Equal(t, http.StatusNoContent, serve(context.Background()), "anonymous requests pass")
	assert.Equal(t, http.StatusNoContent, serve(context.Background()))
}
