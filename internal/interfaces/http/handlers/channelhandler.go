package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	channelUsecases "github.com/orris-inc/vipgate/internal/application/channel/usecases"
	"github.com/orris-inc/vipgate/internal/interfaces/dto"
	"github.com/orris-inc/vipgate/internal/shared/errors"
	"github.com/orris-inc/vipgate/internal/shared/logger"
	"github.com/orris-inc/vipgate/internal/shared/utils"
)

// ChannelHandler manages the channels under enforcement and their kick log.
type ChannelHandler struct {
	channelsUseCase manageChannelsUseCase
	logger          logger.Interface
}

func NewChannelHandler(channelsUC manageChannelsUseCase, logger logger.Interface) *ChannelHandler {
	return &ChannelHandler{channelsUseCase: channelsUC, logger: logger}
}

func (h *ChannelHandler) AddChannel(c *gin.Context) {
	var req dto.AddChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindError(err))
		return
	}

	cfg, err := h.channelsUseCase.Add(c.Request.Context(), channelUsecases.AddChannelCommand{
		URL:    req.URL,
		IsVIP:  req.IsVIP,
		Remark: req.Remark,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.CreatedResponse(c, dto.ToChannelDTO(cfg), "Channel added")
}

func (h *ChannelHandler) UpdateChannel(c *gin.Context) {
	id, err := utils.ParseUintParam(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req dto.UpdateChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, utils.BindError(err))
		return
	}
	if req.IsVIP == nil && req.Remark == nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("nothing to update"))
		return
	}

	cfg, err := h.channelsUseCase.Update(c.Request.Context(), channelUsecases.UpdateChannelCommand{
		ID:     id,
		IsVIP:  req.IsVIP,
		Remark: req.Remark,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Channel updated", dto.ToChannelDTO(cfg))
}

func (h *ChannelHandler) RemoveChannel(c *gin.Context) {
	id, err := utils.ParseUintParam(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	if err := h.channelsUseCase.Remove(c.Request.Context(), id); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.NoContentResponse(c)
}

func (h *ChannelHandler) ListChannels(c *gin.Context) {
	cs, err := h.channelsUseCase.List(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", dto.ToChannelDTOList(cs))
}

// ListKicks returns the removal log, optionally filtered by ?user_id=.
func (h *ChannelHandler) ListKicks(c *gin.Context) {
	var userID int64
	if raw := c.Query("user_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			utils.ErrorResponseWithError(c, errors.NewValidationError("user_id must be a positive integer"))
			return
		}
		userID = id
	}

	p := utils.ParsePagination(c)
	records, total, err := h.channelsUseCase.ListKicks(c.Request.Context(), userID, p.Page, p.PageSize)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.ListSuccessResponse(c, dto.ToKickRecordDTOList(records), total, p.Page, p.PageSize)
}
