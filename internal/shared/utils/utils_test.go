package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/vipgate/internal/shared/db"
	"github.com/orris-inc/vipgate/internal/shared/errors"
)

func testContext(target string, params gin.Params) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	c.Params = params
	return c
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name         string
		query        string
		wantPage     int
		wantPageSize int
	}{
		{"defaults", "/", 1, db.DefaultPageSize},
		{"explicit", "/?page=3&page_size=25", 3, 25},
		{"malformed", "/?page=x&page_size=y", 1, db.DefaultPageSize},
		{"capped", "/?page_size=100000", 1, db.MaxPageSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ParsePagination(testContext(tt.query, nil))
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantPageSize, p.PageSize)
		})
	}
}

func TestParseUserIDParam(t *testing.T) {
	id, err := ParseUserIDParam(testContext("/", gin.Params{{Key: "user_id", Value: "12345"}}), "user_id")
	require.NoError(t, err)
	assert.Equal(t, int64(12345), id)

	for _, raw := range []string{"", "abc", "-4", "0"} {
		_, err := ParseUserIDParam(testContext("/", gin.Params{{Key: "user_id", Value: raw}}), "user_id")
		assert.True(t, errors.IsValidationError(err), raw)
	}
}

func TestValidateStruct(t *testing.T) {
	type request struct {
		UserIDs []int64 `json:"user_ids" validate:"required,min=1,dive,gt=0"`
		State   string  `json:"state" validate:"omitempty,oneof=active expired banned"`
	}

	assert.NoError(t, ValidateStruct(request{UserIDs: []int64{1}}))

	err := ValidateStruct(request{State: "gone"})
	require.Error(t, err)
	appErr := errors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Contains(t, appErr.Details, "user_ids is required")
	assert.Contains(t, appErr.Details, "state must be one of")
}

func TestNoContentResponse_WritesStatusWithoutEngine(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodDelete, "/api/v1/channels/1", nil)

	NoContentResponse(c)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestRateLimitedResponse(t *testing.T) {
	tests := []struct {
		name       string
		retryAfter time.Duration
		want       string
	}{
		{"whole seconds", 4 * time.Second, "4"},
		{"rounds up", 1500 * time.Millisecond, "2"},
		{"never below one", 10 * time.Millisecond, "1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gin.SetMode(gin.TestMode)
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/memberships", nil)

			RateLimitedResponse(c, tt.retryAfter)

			assert.True(t, c.IsAborted())
			assert.Equal(t, http.StatusTooManyRequests, w.Code)
			assert.Equal(t, tt.want, w.Header().Get("Retry-After"))

			var resp APIResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, string(errors.ErrorTypeRateLimited), resp.Error.Type)
		})
	}
}
