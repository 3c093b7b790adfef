package http

import (
	"github.com/orris-inc/vipgate/internal/interfaces/http/handlers"
)

type allHandlers struct {
	subscriptionHandler *handlers.SubscriptionHandler
	membershipHandler   *handlers.MembershipHandler
	settingHandler      *handlers.SettingHandler
	channelHandler      *handlers.ChannelHandler
	adminHandler        *handlers.AdminHandler
}

func (c *Container) newHandlers() *allHandlers {
	ucs := c.ucs
	return &allHandlers{
		subscriptionHandler: handlers.NewSubscriptionHandler(ucs.recordSubscription, ucs.manageSubscription, ucs.canResubscribe, c.log),
		membershipHandler:   handlers.NewMembershipHandler(ucs.applyInvoices, ucs.deleteMemberships, ucs.banUsers, ucs.queryMemberships, c.log),
		settingHandler:      handlers.NewSettingHandler(ucs.settings, c.log),
		channelHandler:      handlers.NewChannelHandler(ucs.manageChannels, c.log),
		adminHandler:        handlers.NewAdminHandler(ucs.manageAdmins, c.log),
	}
}
