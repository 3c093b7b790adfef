package http

import (
	"github.com/orris-inc/vipgate/internal/interfaces/http/handlers"
	"github.com/orris-inc/vipgate/internal/interfaces/http/middleware"
	"github.com/orris-inc/vipgate/internal/interfaces/http/routes"
)

// SetupRoutes configures all HTTP routes
func (c *Container) SetupRoutes() {
	c.engine.Use(middleware.Recovery(c.log))
	c.engine.Use(middleware.RequestID())
	c.engine.Use(middleware.CustomLogger(c.log))

	c.engine.GET("/healthz", handlers.HealthCheck)

	routes.SetupAPIRoutes(c.engine, &routes.APIRouteConfig{
		SubscriptionHandler:  c.hdlrs.subscriptionHandler,
		MembershipHandler:    c.hdlrs.membershipHandler,
		SettingHandler:       c.hdlrs.settingHandler,
		ChannelHandler:       c.hdlrs.channelHandler,
		AdminHandler:         c.hdlrs.adminHandler,
		AuthMiddleware:       c.authMiddleware,
		AdmissionMiddleware:  c.admissionMiddleware,
		PermissionMiddleware: c.permissionMiddleware,
	})
}
