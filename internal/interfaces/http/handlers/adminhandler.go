package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	adminUsecases "github.com/orris-inc/vipgate/internal/application/admin/usecases"
	"github.com/orris-inc/vipgate/internal/domain/admin"
	"github.com/orris-inc/vipgate/internal/interfaces/dto"
	"github.com/orris-inc/vipgate/internal/shared/logger"
	"github.com/orris-inc/vipgate/internal/shared/utils"
)

type AdminHandler struct {
	adminsUseCase manageAdminsUseCase
	logger        logger.Interface
}

func NewAdminHandler(adminsUC manageAdminsUseCase, logger logger.Interface) *AdminHandler {
	return &AdminHandler{adminsUseCase: adminsUC, logger: logger}
}

func (h *AdminHandler) AddAdmin(c *gin.Context) {
	operatorID, err := actorID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req dto.AddAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindError(err))
		return
	}

	level := admin.LevelOrdinary
	if req.Super {
		level = admin.LevelSuper
	}
	a, err := h.adminsUseCase.Add(c.Request.Context(), adminUsecases.AddAdminCommand{
		OperatorID: operatorID,
		UserID:     req.UserID,
		Username:   req.Username,
		Level:      level,
		Remark:     req.Remark,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.CreatedResponse(c, dto.ToAdminDTO(a), "Admin added")
}

func (h *AdminHandler) RemoveAdmin(c *gin.Context) {
	operatorID, err := actorID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	userID, err := utils.ParseUserIDParam(c, "user_id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.adminsUseCase.Remove(c.Request.Context(), operatorID, userID); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.NoContentResponse(c)
}

func (h *AdminHandler) ListAdmins(c *gin.Context) {
	as, err := h.adminsUseCase.List(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", dto.ToAdminDTOList(as))
}
