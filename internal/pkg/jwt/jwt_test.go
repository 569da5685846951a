package jwt

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/fg-dashboard-go/internal/domain/auth"
	"github.com/cmlabs-hris/fg-dashboard-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-jwt"

func TestJWTService_GenerateAndParse(t *testing.T) {
	svc := NewJWTService(testSecret, "1h")

	token, expiresAt, err := svc.GenerateAccessToken("user-1", "manager@example.com", user.RoleManager)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Greater(t, expiresAt, time.Now().Unix())

	principal, err := svc.ParseAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", principal.UserID)
	assert.Equal(t, "manager@example.com", principal.Email)
	assert.Equal(t, user.RoleManager, principal.Role)
}

func TestJWTService_GenerateAccessToken_InvalidRole(t *testing.T) {
	svc := NewJWTService(testSecret, "1h")

	_, _, err := svc.GenerateAccessToken("user-1", "x@example.com", user.Role("owner"))
	assert.ErrorIs(t, err, user.ErrInvalidRole)
}

func TestJWTService_GenerateAccessToken_BadDuration(t *testing.T) {
	svc := NewJWTService(testSecret, "one hour")

	_, _, err := svc.GenerateAccessToken("user-1", "x@example.com", user.RoleAdmin)
	assert.Error(t, err)
}

func TestJWTService_ParseAccessToken_WrongSecret(t *testing.T) {
	issuer := NewJWTService(testSecret, "1h")
	verifier := NewJWTService("another-secret", "1h")

	token, _, err := issuer.GenerateAccessToken("user-1", "x@example.com", user.RoleAdmin)
	require.NoError(t, err)

	_, err = verifier.ParseAccessToken(token)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestJWTService_ParseAccessToken_Expired(t *testing.T) {
	svc := NewJWTService(testSecret, "1h").(*JWTService)
	svc.now = func() time.Time { return time.Now().Add(-3 * time.Hour) }

	token, _, err := svc.GenerateAccessToken("user-1", "x@example.com", user.RoleAdmin)
	require.NoError(t, err)

	_, err = svc.ParseAccessToken(token)
	assert.ErrorIs(t, err, auth.ErrTokenExpired)
}

func TestPrincipalFromClaims(t *testing.T) {
	cases := []struct {
		name    string
		claims  map[string]interface{}
		wantErr error
	}{
		{
			name:   "access token",
			claims: map[string]interface{}{"type": "access", "user_id": "u1", "role": "leader"},
		},
		{
			name:    "refresh token rejected",
			claims:  map[string]interface{}{"type": "refresh", "user_id": "u1", "role": "leader"},
			wantErr: auth.ErrWrongTokenType,
		},
		{
			name:    "missing user",
			claims:  map[string]interface{}{"type": "access", "role": "leader"},
			wantErr: auth.ErrInvalidToken,
		},
		{
			name:    "unknown role",
			claims:  map[string]interface{}{"type": "access", "user_id": "u1", "role": "owner"},
			wantErr: user.ErrInvalidRole,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p, err := PrincipalFromClaims(c.claims)
			if c.wantErr != nil {
				assert.ErrorIs(t, err, c.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "u1", p.UserID)
			assert.Equal(t, user.RoleLeader, p.Role)
		})
	}
}
