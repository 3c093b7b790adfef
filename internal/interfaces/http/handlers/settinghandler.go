package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	enforcementUsecases "github.com/orris-inc/vipgate/internal/application/enforcement/usecases"
	"github.com/orris-inc/vipgate/internal/interfaces/dto"
	"github.com/orris-inc/vipgate/internal/shared/logger"
	"github.com/orris-inc/vipgate/internal/shared/utils"
)

type SettingHandler struct {
	settingsUseCase settingsUseCase
	logger          logger.Interface
}

func NewSettingHandler(settingsUC settingsUseCase, logger logger.Interface) *SettingHandler {
	return &SettingHandler{settingsUseCase: settingsUC, logger: logger}
}

func (h *SettingHandler) GetEnforcement(c *gin.Context) {
	s, err := h.settingsUseCase.Get(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", dto.ToSettingsDTO(s))
}

// UpdateEnforcement changes the enforcement settings. New intervals apply from the next
// scheduler start.
func (h *SettingHandler) UpdateEnforcement(c *gin.Context) {
	var req dto.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindError(err))
		return
	}

	s, err := h.settingsUseCase.Update(c.Request.Context(), enforcementUsecases.UpdateSettingsCommand{
		KickIntervalSeconds:     req.KickIntervalSeconds,
		RejoinDelayMinutes:      req.RejoinDelayMinutes,
		RecoveryIntervalSeconds: req.RecoveryIntervalSeconds,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Settings updated", dto.ToSettingsDTO(s))
}
