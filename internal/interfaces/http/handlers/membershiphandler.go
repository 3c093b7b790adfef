package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	membershipUsecases "github.com/orris-inc/vipgate/internal/application/membership/usecases"
	"github.com/orris-inc/vipgate/internal/domain/membership"
	"github.com/orris-inc/vipgate/internal/interfaces/dto"
	"github.com/orris-inc/vipgate/internal/shared/logger"
	"github.com/orris-inc/vipgate/internal/shared/utils"
)

// MembershipHandler exposes the membership state machine to operators.
type MembershipHandler struct {
	applyUseCase  applyInvoicesUseCase
	deleteUseCase deleteMembershipsUseCase
	banUseCase    banUsersUseCase
	queryUseCase  queryMembershipsUseCase
	logger        logger.Interface
}

func NewMembershipHandler(
	applyUC applyInvoicesUseCase,
	deleteUC deleteMembershipsUseCase,
	banUC banUsersUseCase,
	queryUC queryMembershipsUseCase,
	logger logger.Interface,
) *MembershipHandler {
	return &MembershipHandler{
		applyUseCase:  applyUC,
		deleteUseCase: deleteUC,
		banUseCase:    banUC,
		queryUseCase:  queryUC,
		logger:        logger,
	}
}

// ApplyInvoices applies a batch of invoice ids. A malformed id rejects the whole batch.
func (h *MembershipHandler) ApplyInvoices(c *gin.Context) {
	var req dto.ApplyInvoicesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindError(err))
		return
	}

	result, err := h.applyUseCase.ExecuteRaw(c.Request.Context(), req.InvoiceIDs)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Invoice batch applied", result)
}

func (h *MembershipHandler) DeleteMemberships(c *gin.Context) {
	operatorID, err := actorID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req dto.UserIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindError(err))
		return
	}

	n, err := h.deleteUseCase.Execute(c.Request.Context(), membershipUsecases.DeleteMembershipsCommand{
		UserIDs:    req.UserIDs,
		OperatorID: operatorID,
		Remark:     req.Remark,
	})
	if err != nil {
		h.logger.Errorw("failed to delete memberships", "operator_id", operatorID, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", dto.CountDTO{Affected: n})
}

func (h *MembershipHandler) BanUsers(c *gin.Context) {
	var req dto.UserIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindError(err))
		return
	}

	n, err := h.banUseCase.Execute(c.Request.Context(), req.UserIDs)
	if err != nil {
		h.logger.Errorw("failed to ban users", "count", len(req.UserIDs), "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", dto.CountDTO{Affected: n})
}

func (h *MembershipHandler) GetMembership(c *gin.Context) {
	userID, err := utils.ParseUserIDParam(c, "user_id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	m, err := h.queryUseCase.Get(c.Request.Context(), userID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", dto.ToMembershipDTO(m, h.queryUseCase.Now()))
}

func (h *MembershipHandler) ListMemberships(c *gin.Context) {
	p := utils.ParsePagination(c)
	items, total, err := h.queryUseCase.List(c.Request.Context(), membershipUsecases.ListMembershipsQuery{
		State:    membership.State(c.Query("state")),
		Page:     p.Page,
		PageSize: p.PageSize,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.ListSuccessResponse(c, dto.ToMembershipDTOList(items, h.queryUseCase.Now()), total, p.Page, p.PageSize)
}

func (h *MembershipHandler) ListLogs(c *gin.Context) {
	userID, err := utils.ParseUserIDParam(c, "user_id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	p := utils.ParsePagination(c)
	logs, total, err := h.queryUseCase.ListLogs(c.Request.Context(), userID, p.Page, p.PageSize)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.ListSuccessResponse(c, dto.ToMembershipLogDTOList(logs), total, p.Page, p.PageSize)
}
