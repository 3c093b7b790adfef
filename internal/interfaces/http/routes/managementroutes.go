package routes

import (
	"github.com/gin-gonic/gin"
)

func setupManagementRoutes(api *gin.RouterGroup, config *APIRouteConfig) {
	settings := api.Group("/settings")
	{
		settings.GET("/enforcement", config.SettingHandler.GetEnforcement)
		settings.PUT("/enforcement", config.SettingHandler.UpdateEnforcement)
	}

	channels := api.Group("/channels")
	{
		channels.GET("", config.ChannelHandler.ListChannels)
		channels.POST("", config.ChannelHandler.AddChannel)
		channels.PATCH("/:id", config.ChannelHandler.UpdateChannel)
		channels.DELETE("/:id", config.ChannelHandler.RemoveChannel)
	}
	api.GET("/kicks", config.ChannelHandler.ListKicks)

	admins := api.Group("/admins")
	{
		admins.GET("", config.AdminHandler.ListAdmins)
		admins.POST("", config.AdminHandler.AddAdmin)
		admins.DELETE("/:user_id", config.AdminHandler.RemoveAdmin)
	}
}
