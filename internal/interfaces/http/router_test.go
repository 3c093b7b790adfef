package http

import (
	"context"
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/vipgate/internal/infrastructure/config"
	sharedConfig "github.com/orris-inc/vipgate/internal/shared/config"
	"github.com/orris-inc/vipgate/internal/shared/logger"
	"github.com/orris-inc/vipgate/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestContainer(t *testing.T, capacity int) *Container {
	t.Helper()

	cfg := &config.Config{
		Auth: sharedConfig.AuthConfig{JWTSecret: "test-secret", TokenTTLHours: 1},
		Admission: sharedConfig.AdmissionConfig{
			Backend:        "memory",
			Capacity:       capacity,
			RefillPerSec:   0.001,
			MaxActors:      100,
			IdleTTLMinutes: 10,
		},
		Enforcement: sharedConfig.EnforcementConfig{
			KickIntervalSeconds:     60,
			RejoinDelayMinutes:      300,
			RecoveryIntervalSeconds: 300,
		},
	}

	c, err := NewContainer(testutil.NewDB(t), cfg, logger.NewNopLogger())
	require.NoError(t, err)
	c.SetupRoutes()
	t.Cleanup(c.Shutdown)

	_, err = c.Admins().Bootstrap(context.Background(), []int64{1})
	require.NoError(t, err)
	return c
}

func doRequest(c *Container, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	c.Engine().ServeHTTP(w, req)
	return w
}

func TestRouter_AuthAndAuthorization(t *testing.T) {
	c := newTestContainer(t, 10)

	adminToken, _, err := c.IssueToken(1)
	require.NoError(t, err)
	userToken, _, err := c.IssueToken(5)
	require.NoError(t, err)

	tests := []struct {
		name     string
		method   string
		path     string
		token    string
		wantCode int
	}{
		{name: "health needs no token", method: nethttp.MethodGet, path: "/healthz", wantCode: nethttp.StatusOK},
		{name: "missing token", method: nethttp.MethodGet, path: "/api/v1/memberships", wantCode: nethttp.StatusUnauthorized},
		{name: "garbage token", method: nethttp.MethodGet, path: "/api/v1/memberships", token: "nope", wantCode: nethttp.StatusUnauthorized},
		{name: "user without role", method: nethttp.MethodGet, path: "/api/v1/memberships", token: userToken, wantCode: nethttp.StatusForbidden},
		{name: "admin lists memberships", method: nethttp.MethodGet, path: "/api/v1/memberships", token: adminToken, wantCode: nethttp.StatusOK},
		{name: "admin reads settings", method: nethttp.MethodGet, path: "/api/v1/settings/enforcement", token: adminToken, wantCode: nethttp.StatusOK},
		{name: "kick log is read only", method: nethttp.MethodDelete, path: "/api/v1/kicks", token: adminToken, wantCode: nethttp.StatusNotFound},
		{name: "unknown membership", method: nethttp.MethodGet, path: "/api/v1/memberships/77", token: adminToken, wantCode: nethttp.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(c, tt.method, tt.path, tt.token)
			assert.Equal(t, tt.wantCode, w.Code, w.Body.String())
		})
	}
}

func TestRouter_AdmissionLimitsPerActor(t *testing.T) {
	c := newTestContainer(t, 3)

	adminToken, _, err := c.IssueToken(1)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		w := doRequest(c, nethttp.MethodGet, "/api/v1/admins", adminToken)
		require.Equal(t, nethttp.StatusOK, w.Code, "request %d", i)
	}

	w := doRequest(c, nethttp.MethodGet, "/api/v1/admins", adminToken)
	assert.Equal(t, nethttp.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	// other actors keep their own bucket
	otherToken, _, err := c.IssueToken(5)
	require.NoError(t, err)
	w = doRequest(c, nethttp.MethodGet, "/api/v1/admins", otherToken)
	assert.Equal(t, nethttp.StatusForbidden, w.Code)
}
