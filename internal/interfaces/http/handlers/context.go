package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/orris-inc/vipgate/internal/shared/constants"
	"github.com/orris-inc/vipgate/internal/shared/errors"
)

// actorID returns the operator set by the auth middleware.
func actorID(c *gin.Context) (int64, error) {
	v, ok := c.Get(constants.ContextKeyUserID)
	if !ok {
		return 0, errors.NewUnauthorizedError("user not authenticated")
	}
	id, ok := v.(int64)
	if !ok || id <= 0 {
		return 0, errors.NewUnauthorizedError("user not authenticated")
	}
	return id, nil
}
