package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adminUsecases "github.com/orris-inc/vipgate/internal/application/admin/usecases"
	enforcementUsecases "github.com/orris-inc/vipgate/internal/application/enforcement/usecases"
	"github.com/orris-inc/vipgate/internal/domain/setting"
	"github.com/orris-inc/vipgate/internal/interfaces/dto"
	"github.com/orris-inc/vipgate/internal/interfaces/http/handlers/testutil"
	storeutil "github.com/orris-inc/vipgate/internal/testutil"
)

func TestSettingHandler(t *testing.T) {
	s := storeutil.NewStore(t)
	defaults := setting.Defaults{KickIntervalSeconds: 60, RejoinDelayMinutes: 300, RecoveryIntervalSeconds: 300}
	h := NewSettingHandler(enforcementUsecases.NewSettingsUseCase(s.Settings, defaults, s.Clock, s.Log), s.Log)

	t.Run("first read creates defaults", func(t *testing.T) {
		c, w := testutil.NewTestContext(http.MethodGet, "/api/v1/settings/enforcement", nil)
		h.GetEnforcement(c)

		require.Equal(t, http.StatusOK, w.Code)
		var resp testutil.APIResponse
		require.NoError(t, testutil.ParseResponse(w, &resp))
		var got dto.SettingsDTO
		require.NoError(t, testutil.ParseDataJSON(resp.Data, &got))
		assert.Equal(t, 60, got.KickIntervalSeconds)
		assert.Equal(t, 300, got.RejoinDelayMinutes)
		assert.Equal(t, 300, got.RecoveryIntervalSeconds)
	})

	t.Run("partial update keeps other fields", func(t *testing.T) {
		c, w := testutil.NewTestContext(http.MethodPut, "/api/v1/settings/enforcement", map[string]int{
			"rejoin_delay_minutes": 10,
		})
		h.UpdateEnforcement(c)

		require.Equal(t, http.StatusOK, w.Code)
		var resp testutil.APIResponse
		require.NoError(t, testutil.ParseResponse(w, &resp))
		var got dto.SettingsDTO
		require.NoError(t, testutil.ParseDataJSON(resp.Data, &got))
		assert.Equal(t, 60, got.KickIntervalSeconds)
		assert.Equal(t, 10, got.RejoinDelayMinutes)
	})

	t.Run("non positive values are rejected", func(t *testing.T) {
		c, w := testutil.NewTestContext(http.MethodPut, "/api/v1/settings/enforcement", map[string]int{
			"kick_interval_seconds": 0,
		})
		h.UpdateEnforcement(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAdminHandler(t *testing.T) {
	s := storeutil.NewStore(t)
	uc := adminUsecases.NewManageAdminsUseCase(s.Admins, s.Clock, s.Log)
	_, err := uc.Bootstrap(context.Background(), []int64{1})
	require.NoError(t, err)
	h := NewAdminHandler(uc, s.Log)

	addAdmin := func(operator int64, body dto.AddAdminRequest) int {
		c, w := testutil.NewTestContext(http.MethodPost, "/api/v1/admins", body)
		testutil.SetAuthContext(c, operator, "")
		h.AddAdmin(c)
		return w.Code
	}

	assert.Equal(t, http.StatusCreated, addAdmin(1, dto.AddAdminRequest{UserID: 2, Username: "ops"}))
	assert.Equal(t, http.StatusConflict, addAdmin(1, dto.AddAdminRequest{UserID: 2}))
	assert.Equal(t, http.StatusForbidden, addAdmin(2, dto.AddAdminRequest{UserID: 3, Super: true}))
	assert.Equal(t, http.StatusCreated, addAdmin(2, dto.AddAdminRequest{UserID: 3}))

	t.Run("list reports roles", func(t *testing.T) {
		c, w := testutil.NewTestContext(http.MethodGet, "/api/v1/admins", nil)
		h.ListAdmins(c)

		require.Equal(t, http.StatusOK, w.Code)
		var resp testutil.APIResponse
		require.NoError(t, testutil.ParseResponse(w, &resp))
		var got []dto.AdminDTO
		require.NoError(t, testutil.ParseDataJSON(resp.Data, &got))
		require.Len(t, got, 3)

		roles := map[int64]string{}
		for _, a := range got {
			roles[a.UserID] = a.Role
		}
		assert.Equal(t, map[int64]string{1: "super_admin", 2: "admin", 3: "admin"}, roles)
	})

	t.Run("remove", func(t *testing.T) {
		c, w := testutil.NewTestContext(http.MethodDelete, "/api/v1/admins/1", nil)
		testutil.SetAuthContext(c, 2, "admin")
		testutil.SetURLParam(c, "user_id", "1")
		h.RemoveAdmin(c)
		assert.Equal(t, http.StatusForbidden, w.Code)

		c, w = testutil.NewTestContext(http.MethodDelete, "/api/v1/admins/3", nil)
		testutil.SetAuthContext(c, 1, "super_admin")
		testutil.SetURLParam(c, "user_id", "3")
		h.RemoveAdmin(c)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}
