package authz

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requestWithToken(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestAllowAll(t *testing.T) {
	p, err := AllowAll{}.Authorize(requestWithToken(""), ActionWrite)
	require.NoError(t, err)
	assert.Equal(t, "anonymous", p.Subject)
}

func TestNewJWTRequiresSecret(t *testing.T) {
	_, err := NewJWT("", "x")
	assert.Error(t, err)
}

func TestJWTAuthorize(t *testing.T) {
	a, err := NewJWT("testsecret", "site-catalog")
	require.NoError(t, err)

	reader, err := a.Sign("reader@example.com", nil, time.Minute)
	require.NoError(t, err)
	writer, err := a.Sign("writer@example.com", []string{"catalog:read", ScopeWrite}, time.Minute)
	require.NoError(t, err)
	expired, err := a.Sign("late@example.com", []string{ScopeWrite}, -time.Minute)
	require.NoError(t, err)

	other, err := NewJWT("othersecret", "site-catalog")
	require.NoError(t, err)
	forged, err := other.Sign("mallory", []string{ScopeWrite}, time.Minute)
	require.NoError(t, err)

	wrongIssuer := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "elsewhere", Subject: "x", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute))},
		Scope:            ScopeWrite,
	})
	wrongIssuerToken, err := wrongIssuer.SignedString([]byte("testsecret"))
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		action  Action
		wantErr error
	}{
		{name: "no token", action: ActionRead, wantErr: ErrUnauthenticated},
		{name: "garbage token", token: "not-a-jwt", action: ActionRead, wantErr: ErrUnauthenticated},
		{name: "reader reads", token: reader, action: ActionRead},
		{name: "reader writes", token: reader, action: ActionWrite, wantErr: ErrForbidden},
		{name: "writer writes", token: writer, action: ActionWrite},
		{name: "expired", token: expired, action: ActionRead, wantErr: ErrUnauthenticated},
		{name: "wrong signature", token: forged, action: ActionRead, wantErr: ErrUnauthenticated},
		{name: "wrong issuer", token: wrongIssuerToken, action: ActionRead, wantErr: ErrUnauthenticated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := a.Authorize(requestWithToken(tt.token), tt.action)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, p.Subject)
		})
	}
}

func TestBearerTokenScheme(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Basic abc")
	_, ok := bearerToken(req)
	assert.False(t, ok)

	req.Header.Set("Authorization", "bearer abc")
	tok, ok := bearerToken(req)
	assert.True(t, ok)
	assert.Equal(t, "abc", tok)
}
