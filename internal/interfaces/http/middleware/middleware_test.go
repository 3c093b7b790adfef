package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/vipgate/internal/domain/admin"
	"github.com/orris-inc/vipgate/internal/infrastructure/ratelimit"
	"github.com/orris-inc/vipgate/internal/shared/constants"
	"github.com/orris-inc/vipgate/internal/shared/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubLimiter struct {
	allowed bool
	err     error
	actors  []string
}

func (s *stubLimiter) TryConsume(_ context.Context, actor string, _ int) (bool, error) {
	s.actors = append(s.actors, actor)
	return s.allowed, s.err
}

type stubVerifier map[string]int64

func (s stubVerifier) Verify(token string) (int64, error) {
	if id, ok := s[token]; ok {
		return id, nil
	}
	return 0, errors.New("bad token")
}

type stubAdmins map[int64]*admin.Admin

func (s stubAdmins) Lookup(_ context.Context, userID int64) (*admin.Admin, error) {
	return s[userID], nil
}

func serve(r *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if header != "" {
		req.Header.Set(constants.HeaderAuthorization, header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAdmission(t *testing.T) {
	cfg := ratelimit.TokenBucketConfig{Capacity: 1, RefillPerSec: 0.25}

	t.Run("rejects with retry after", func(t *testing.T) {
		limiter := &stubLimiter{allowed: false}
		r := gin.New()
		r.Use(NewAdmissionMiddleware(limiter, cfg, logger.NewNopLogger()).Limit())
		r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := serve(r, "")
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Equal(t, "4", w.Header().Get(constants.HeaderRetryAfter))
		require.Len(t, limiter.actors, 1)
		assert.Contains(t, limiter.actors[0], "ip:")
	})

	t.Run("limiter failure admits", func(t *testing.T) {
		limiter := &stubLimiter{err: errors.New("redis down")}
		r := gin.New()
		r.Use(func(c *gin.Context) { c.Set(constants.ContextKeyUserID, int64(9)) })
		r.Use(NewAdmissionMiddleware(limiter, cfg, logger.NewNopLogger()).Limit())
		r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := serve(r, "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []string{"user:9"}, limiter.actors)
	})
}

func TestRequireAuth(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	super, err := admin.NewAdmin(1, "root", admin.LevelSuper, "", now)
	require.NoError(t, err)

	auth := NewAuthMiddleware(stubVerifier{"good": 1, "plain": 2}, stubAdmins{1: super}, logger.NewNopLogger())

	var gotRole string
	r := gin.New()
	r.Use(auth.RequireAuth())
	r.GET("/x", func(c *gin.Context) {
		gotRole = c.GetString(constants.ContextKeyUserRole)
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusUnauthorized, serve(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, "Token good").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, "Bearer bad").Code)

	assert.Equal(t, http.StatusOK, serve(r, "Bearer good").Code)
	assert.Equal(t, "super_admin", gotRole)

	assert.Equal(t, http.StatusOK, serve(r, "Bearer plain").Code)
	assert.Equal(t, "", gotRole)
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), CustomLogger(logger.NewNopLogger()))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(r, "")
	assert.Len(t, w.Header().Get(constants.HeaderXRequestID), 36)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(constants.HeaderXRequestID, "abc")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc", w.Header().Get(constants.HeaderXRequestID))
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery(logger.NewNopLogger()))
	r.GET("/x", func(c *gin.Context) { panic("boom") })

	w := serve(r, "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
