package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/vipgate/internal/interfaces/dto"
	"github.com/orris-inc/vipgate/internal/shared/logger"
	"github.com/orris-inc/vipgate/internal/shared/utils"
)

// SubscriptionHandler records payment intents and answers resubscribe checks.
type SubscriptionHandler struct {
	recordUseCase      recordSubscriptionUseCase
	manageUseCase      manageSubscriptionUseCase
	resubscribeUseCase canResubscribeUseCase
	logger             logger.Interface
}

func NewSubscriptionHandler(
	recordUC recordSubscriptionUseCase,
	manageUC manageSubscriptionUseCase,
	resubscribeUC canResubscribeUseCase,
	logger logger.Interface,
) *SubscriptionHandler {
	return &SubscriptionHandler{
		recordUseCase:      recordUC,
		manageUseCase:      manageUC,
		resubscribeUseCase: resubscribeUC,
		logger:             logger,
	}
}

func (h *SubscriptionHandler) RecordSubscription(c *gin.Context) {
	var req dto.RecordSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for record subscription", "error", err)
		utils.ErrorResponseWithError(c, utils.BindError(err))
		return
	}

	sub, err := h.recordUseCase.Execute(c.Request.Context(), req.ToCommand())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.CreatedResponse(c, dto.ToSubscriptionDTO(sub), "Subscription recorded")
}

func (h *SubscriptionHandler) GetSubscription(c *gin.Context) {
	sub, err := h.manageUseCase.Get(c.Request.Context(), strings.TrimSpace(c.Param("invoice_id")))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", dto.ToSubscriptionDTO(sub))
}

func (h *SubscriptionHandler) MarkFailed(c *gin.Context) {
	sub, err := h.manageUseCase.MarkFailed(c.Request.Context(), strings.TrimSpace(c.Param("invoice_id")))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Subscription marked failed", dto.ToSubscriptionDTO(sub))
}

func (h *SubscriptionHandler) CanResubscribe(c *gin.Context) {
	userID, err := utils.ParseUserIDParam(c, "user_id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	ok, err := h.resubscribeUseCase.Execute(c.Request.Context(), userID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", dto.ResubscribeDTO{UserID: userID, CanResubscribe: ok})
}
