package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/orris-inc/vipgate/internal/interfaces/http/handlers"
	"github.com/orris-inc/vipgate/internal/interfaces/http/middleware"
	"github.com/orris-inc/vipgate/internal/shared/constants"
)

// APIRouteConfig holds the handlers and middlewares of the admin API.
type APIRouteConfig struct {
	SubscriptionHandler  *handlers.SubscriptionHandler
	MembershipHandler    *handlers.MembershipHandler
	SettingHandler       *handlers.SettingHandler
	ChannelHandler       *handlers.ChannelHandler
	AdminHandler         *handlers.AdminHandler
	AuthMiddleware       *middleware.AuthMiddleware
	AdmissionMiddleware  *middleware.AdmissionMiddleware
	PermissionMiddleware *middleware.PermissionMiddleware
}

// SetupAPIRoutes registers every admin endpoint behind auth, admission and authorization,
// in that order.
func SetupAPIRoutes(engine *gin.Engine, config *APIRouteConfig) {
	api := engine.Group(constants.APIVersionPrefix)
	api.Use(config.AuthMiddleware.RequireAuth())
	api.Use(config.AdmissionMiddleware.Limit())
	api.Use(config.PermissionMiddleware.RequirePermission())

	setupSubscriptionRoutes(api, config.SubscriptionHandler)
	setupMembershipRoutes(api, config.MembershipHandler)
	setupManagementRoutes(api, config)
}

func setupSubscriptionRoutes(api *gin.RouterGroup, h *handlers.SubscriptionHandler) {
	subscriptions := api.Group("/subscriptions")
	{
		subscriptions.POST("", h.RecordSubscription)
		subscriptions.GET("/:invoice_id", h.GetSubscription)
		subscriptions.POST("/:invoice_id/fail", h.MarkFailed)
	}

	api.GET("/users/:user_id/resubscribe", h.CanResubscribe)
}

func setupMembershipRoutes(api *gin.RouterGroup, h *handlers.MembershipHandler) {
	memberships := api.Group("/memberships")
	{
		// Specific paths before parameterized ones
		memberships.POST("/apply", h.ApplyInvoices)
		memberships.POST("/delete", h.DeleteMemberships)
		memberships.POST("/ban", h.BanUsers)

		memberships.GET("", h.ListMemberships)
		memberships.GET("/:user_id", h.GetMembership)
		memberships.GET("/:user_id/logs", h.ListLogs)
	}
}
