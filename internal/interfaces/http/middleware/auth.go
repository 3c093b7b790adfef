package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/vipgate/internal/domain/admin"
	"github.com/orris-inc/vipgate/internal/shared/constants"
	"github.com/orris-inc/vipgate/internal/shared/logger"
	"github.com/orris-inc/vipgate/internal/shared/utils"
)

// TokenVerifier returns the user id a bearer token was issued for.
type TokenVerifier interface {
	Verify(token string) (int64, error)
}

// AdminLookup resolves the current role of a user; nil means no role.
type AdminLookup interface {
	Lookup(ctx context.Context, userID int64) (*admin.Admin, error)
}

type AuthMiddleware struct {
	verifier TokenVerifier
	admins   AdminLookup
	logger   logger.Interface
}

func NewAuthMiddleware(verifier TokenVerifier, admins AdminLookup, logger logger.Interface) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
		admins:   admins,
		logger:   logger,
	}
}

// RequireAuth verifies the bearer token and stores the actor id and role in the context.
// A valid token for a user without an admin role passes with an empty role; authorization
// rejects it later.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(constants.HeaderAuthorization)
		if authHeader == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "missing authorization token")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid authorization header format")
			c.Abort()
			return
		}

		userID, err := m.verifier.Verify(parts[1])
		if err != nil {
			m.logger.Warnw("failed to verify token", "error", err)
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		a, err := m.admins.Lookup(c.Request.Context(), userID)
		if err != nil {
			m.logger.Errorw("failed to look up admin role", "user_id", userID, "error", err)
			utils.ErrorResponse(c, http.StatusInternalServerError, "failed to check user role")
			c.Abort()
			return
		}

		role := ""
		if a != nil {
			role = a.Level().Role()
		}
		c.Set(constants.ContextKeyUserID, userID)
		c.Set(constants.ContextKeyUserRole, role)

		c.Next()
	}
}
